package counterfactual

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// phasePromptTemplate is the fixed instruction header for five-phase
// generation. %s is replaced with the reflected record schema.
const phasePromptTemplate = `You are a counterfactual generation assistant for emotion regulation journals.

Given the definitions of each phase:
0. Situation Selection: choosing to approach or avoid situations to regulate emotions.
1. Situation Modification: changing the environment to reduce emotional impact.
2. Attentional Deployment: redirecting focus to influence emotions.
3. Cognitive Change: reframing the interpretation of a situation.
4. Response Modulation: changing how emotions are expressed (e.g. hiding, relaxing).

TASK:
For each phase present in the input, generate 5 counterfactuals, in the order the
sentences are passed in, by modifying only that one phase while keeping the other
four phases unchanged. Only generate adaptive counterfactuals.

OUTPUT:
Return a JSON array of objects, one per (journal_id, which_phase) variation, with
exactly the keys "journal_id", "which_phase", "original_phase", "counterfactual".
"original_phase" must be a non-empty echo of the input sentence for that phase.
The array must match this schema:

%s

REQUIREMENTS:
- Output only the JSON array. No explanation, markdown, or extra commentary.
- All fields must be filled: no empty strings or missing keys.
- Use double quotes for all strings and keys.`

// promptRecord is the shape advertised to the model. It deliberately omits the
// internal error field so the reflected schema only carries the four required
// keys of the output contract.
type promptRecord struct {
	JournalID      string `json:"journal_id"`
	WhichPhase     string `json:"which_phase"`
	OriginalPhase  string `json:"original_phase"`
	Counterfactual string `json:"counterfactual"`
}

var recordArraySchema = buildRecordArraySchema()

// BuildPhasePrompt assembles the full generation prompt for up to five phase
// texts. Blank phases are skipped; kept phases appear as "<name>: <text>"
// lines in fixed phase order. Returns ErrNoUsableInput when nothing is kept.
func BuildPhasePrompt(phases [PhaseCount]string) (string, error) {
	lines := make([]string, 0, PhaseCount)
	for i, name := range PhaseNames {
		text := strings.TrimSpace(phases[i])
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, text))
	}
	if len(lines) == 0 {
		return "", ErrNoUsableInput
	}

	header := fmt.Sprintf(phasePromptTemplate, recordArraySchema)
	return header + "\n\nInput for the five phases:\n" + strings.Join(lines, "\n"), nil
}

func buildRecordArraySchema() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	item, err := schemaToMap(reflector.Reflect(promptRecord{}))
	if err != nil {
		panic(err)
	}
	requireAllProperties(item)
	delete(item, "$schema")

	wrapped := map[string]interface{}{
		"type":  "array",
		"items": item,
	}
	b, err := json.MarshalIndent(wrapped, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(b)
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// requireAllProperties marks every object property as required, recursively.
// The output contract allows no optional keys.
func requireAllProperties(schema map[string]interface{}) {
	if schemaType, ok := schema["type"].(string); ok && schemaType == "object" {
		schema["additionalProperties"] = false
		if properties, ok := schema["properties"].(map[string]interface{}); ok {
			var required []string
			for name := range properties {
				required = append(required, name)
			}
			if len(required) > 0 {
				sort.Strings(required)
				schema["required"] = required
			}
		}
	}

	if properties, ok := schema["properties"].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				requireAllProperties(propMap)
			}
		}
	}
	if items, ok := schema["items"].(map[string]interface{}); ok {
		requireAllProperties(items)
	}
}
