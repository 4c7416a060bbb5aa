package counterfactual

import (
	"context"
	"strings"
)

// Completer sends one prompt to the completion service and returns its raw
// text output. Implementations make a single attempt; degradation decisions
// belong to the caller.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// padCounterfactual fills the tail when the service returns fewer than five
// usable records.
const padCounterfactual = "Additional counterfactual needed"

// Generator produces the five counterfactual strings served by the online
// endpoint. A nil Completer means no credentials are configured; every path
// then yields deterministic mock output.
type Generator struct {
	Completer Completer
}

// Generate returns exactly five counterfactual strings for the given text.
// When the session context is complete it drives the enriched single-question
// flow; otherwise the text is treated as five newline-separated phase
// sentences. The only error returned is ErrNoUsableInput, when every phase of
// a plain request is blank — all other failures degrade to mock output.
func (g *Generator) Generate(ctx context.Context, text string, sc *SessionContext) ([]string, error) {
	if sc.Complete() {
		return g.contextual(ctx, sc), nil
	}
	return g.plain(ctx, text)
}

func (g *Generator) contextual(ctx context.Context, sc *SessionContext) []string {
	selected := sc.Selected()
	fallback := MockContext{Selected: &selected, Plan: sc.WeeklyPlan}

	if g.Completer == nil {
		return MockCounterfactuals(fallback)
	}
	prompt, err := BuildContextPrompt(sc)
	if err != nil {
		return MockCounterfactuals(fallback)
	}
	raw, err := g.Completer.Complete(ctx, prompt)
	if err != nil {
		return MockCounterfactuals(fallback)
	}
	list, err := ParseStringList(raw)
	if err != nil || len(list) < PhaseCount {
		return MockCounterfactuals(fallback)
	}
	return list[:PhaseCount]
}

func (g *Generator) plain(ctx context.Context, text string) ([]string, error) {
	phases := SplitPhases(text)

	prompt, err := BuildPhasePrompt(phases)
	if err != nil {
		return nil, err
	}
	if g.Completer == nil {
		return MockCounterfactuals(MockContext{Phases: phases}), nil
	}

	raw, err := g.Completer.Complete(ctx, prompt)
	if err != nil {
		return MockCounterfactuals(MockContext{Phases: phases}), nil
	}
	records, _, err := ParseRecords(raw)
	if err != nil {
		return MockCounterfactuals(MockContext{Phases: phases}), nil
	}

	out := make([]string, 0, PhaseCount)
	for _, rec := range records {
		if strings.TrimSpace(rec.Counterfactual) == "" {
			continue
		}
		out = append(out, rec.Counterfactual)
		if len(out) == PhaseCount {
			break
		}
	}
	for len(out) < PhaseCount {
		out = append(out, padCounterfactual)
	}
	return out, nil
}

// SplitPhases splits newline-separated phase sentences into the fixed
// five-slot layout, padding missing tail phases with empty strings.
func SplitPhases(text string) [PhaseCount]string {
	var phases [PhaseCount]string
	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if i >= PhaseCount {
			break
		}
		phases[i] = strings.TrimSpace(line)
	}
	return phases
}
