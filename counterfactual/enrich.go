package counterfactual

import (
	"fmt"
	"strings"
)

// BuildContextPrompt assembles the enriched prompt used when full session
// context is available. Unlike the five-phase prompt, it asks for exactly
// five alternative responses to the one focused question, as a flat JSON
// array of strings. Returns ErrNoUsableInput when the context is incomplete;
// callers fall back to BuildPhasePrompt in that case.
func BuildContextPrompt(sc *SessionContext) (string, error) {
	if !sc.Complete() {
		return "", ErrNoUsableInput
	}
	selected := sc.Selected()
	plan := sc.WeeklyPlan

	var b strings.Builder
	b.WriteString("You are an expert in cognitive behavioral therapy and emotion regulation.\n\n")

	b.WriteString("CONTEXT:\nUser's weekly goals:\n")
	fmt.Fprintf(&b, "- Ideal week: %s\n", plan.IdealWeek)
	fmt.Fprintf(&b, "- Obstacles they face: %s\n", plan.Obstacles)
	fmt.Fprintf(&b, "- Prevention actions: %s\n", plan.PreventActions)
	fmt.Fprintf(&b, "- Action details: %s\n", plan.ActionDetails)
	fmt.Fprintf(&b, "- If-then plans: %s\n", plan.IfThenPlans)

	b.WriteString("\nCURRENT EMOTION REGULATION SESSION:\nAll responses from this session:\n")
	for i, q := range sc.Questions {
		fmt.Fprintf(&b, "%d. %s\n   Response: %s\n\n", i+1, q.Question, q.Transcription)
	}

	b.WriteString("FOCUSED QUESTION (generate counterfactuals for this one):\n")
	fmt.Fprintf(&b, "Question: %s\n", selected.Question)
	fmt.Fprintf(&b, "User's response: %s\n", selected.Transcription)

	b.WriteString(`
TASK:
Generate exactly 5 alternative responses (counterfactuals) for the focused question that:
1. Are realistic and actionable alternatives the user could have taken.
2. Align with their weekly goals and if-then plans.
3. Address the obstacles they identified.
4. Follow the 5 emotion regulation strategies in order:
   - Situation Selection (choosing different situations)
   - Situation Modification (changing the environment)
   - Attentional Deployment (focusing attention differently)
   - Cognitive Change (reframing thoughts)
   - Response Modulation (managing emotional responses)

Return exactly 5 counterfactuals as a JSON array of strings, no additional text:
["counterfactual 1", "counterfactual 2", "counterfactual 3", "counterfactual 4", "counterfactual 5"]
`)
	return b.String(), nil
}
