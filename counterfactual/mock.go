package counterfactual

import (
	"fmt"
	"strings"
)

// MockContext parameterizes the deterministic fallback generator. Phases is
// always consulted; Selected and Plan switch the templates to the richer
// session-aware variants when both are present.
type MockContext struct {
	Phases   [PhaseCount]string
	Selected *Question
	Plan     *WeeklyPlan
}

// MockCounterfactuals builds exactly five deterministic counterfactual
// strings, one per phase, from whatever context is available. It is the
// single fallback used whenever the completion service is unconfigured,
// unreachable, or returns unusable output.
func MockCounterfactuals(m MockContext) []string {
	if m.Selected != nil && m.Plan != nil {
		return []string{
			fmt.Sprintf("Instead of %s..., I could have chosen a different approach aligned with my goal: %s...",
				truncate(m.Selected.Transcription, 50), truncate(m.Plan.IdealWeek, 50)),
			fmt.Sprintf("I could have modified the situation by implementing my planned action: %s...",
				truncate(m.Plan.ActionDetails, 50)),
			fmt.Sprintf("Rather than focusing on the obstacles (%s...), I could have focused on positive aspects of my week plan.",
				truncate(m.Plan.Obstacles, 30)),
			fmt.Sprintf("I could reframe this situation using my if-then plan: %s...",
				truncate(m.Plan.IfThenPlans, 50)),
			fmt.Sprintf("Instead of my initial response, I could practice the prevention actions I planned: %s...",
				truncate(m.Plan.PreventActions, 50)),
		}
	}

	return []string{
		fmt.Sprintf("Instead of %s, I could have chosen a different approach.", phaseOr(m.Phases[0], "the situation")),
		fmt.Sprintf("I might have modified the environment by %s.", phaseOr(m.Phases[1], "changing my perspective")),
		fmt.Sprintf("Rather than focusing on %s, I could focus on positive aspects.", phaseOr(m.Phases[2], "negative thoughts")),
		fmt.Sprintf("I could reframe %s as a learning opportunity.", phaseOr(m.Phases[3], "the situation")),
		fmt.Sprintf("Instead of %s, I could practice mindful response.", phaseOr(m.Phases[4], "reacting emotionally")),
	}
}

func phaseOr(text, fallback string) string {
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
