package counterfactual

import "fmt"

// PhaseNames lists the five Gross-model emotion regulation phases in fixed
// order. The order is load-bearing: phase i corresponds to dailyReflection
// text i on input and to stage column i on output.
var PhaseNames = [5]string{
	"situationSelection",
	"situationModification",
	"attentionalDeployment",
	"cognitiveChange",
	"responseModulation",
}

// PhaseCount is the number of regulation phases.
const PhaseCount = len(PhaseNames)

var phaseIndex = map[string]int{
	"situationSelection":    0,
	"situationModification": 1,
	"attentionalDeployment": 2,
	"cognitiveChange":       3,
	"responseModulation":    4,
}

// PhaseIndex maps a phase name to its 0-based index. The second return is
// false for anything outside the fixed five-phase set.
func PhaseIndex(name string) (int, bool) {
	i, ok := phaseIndex[name]
	return i, ok
}

// StageColumn returns the flattened output column name for phase index i,
// e.g. "counterfactualResults.cfOutputs.stage3.generatedCfTexts".
func StageColumn(i int) string {
	return fmt.Sprintf("counterfactualResults.cfOutputs.stage%d.generatedCfTexts", i)
}
