package counterfactual

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func wellFormedArray(n int) string {
	var items []string
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(`{
			"journal_id": "u_1_j%d",
			"which_phase": "situationSelection",
			"original_phase": "original %d",
			"counterfactual": "alternative %d"
		}`, i, i, i))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestParseRecords_StrictRoundTrip(t *testing.T) {
	t.Parallel()

	records, dropped, err := ParseRecords(wellFormedArray(5))
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}
	if len(records) != 5 {
		t.Fatalf("records = %d, want 5", len(records))
	}
	for i, rec := range records {
		if rec.JournalID != fmt.Sprintf("u_1_j%d", i) {
			t.Fatalf("record %d journal_id = %q", i, rec.JournalID)
		}
		if rec.WhichPhase != "situationSelection" {
			t.Fatalf("record %d which_phase = %q", i, rec.WhichPhase)
		}
		if rec.OriginalPhase != fmt.Sprintf("original %d", i) {
			t.Fatalf("record %d original_phase = %q", i, rec.OriginalPhase)
		}
		if rec.Counterfactual != fmt.Sprintf("alternative %d", i) {
			t.Fatalf("record %d counterfactual = %q", i, rec.Counterfactual)
		}
	}
}

func TestParseRecords_RelaxedPythonLiterals(t *testing.T) {
	t.Parallel()

	raw := `[{"journal_id": "u_1_j1", "which_phase": "cognitiveChange", "original_phase": "a True story", "counterfactual": "an alternative", "adaptive": True, "notes": None}]`
	records, dropped, err := ParseRecords(raw)
	if err != nil {
		t.Fatalf("ParseRecords relaxed: %v", err)
	}
	if dropped != 0 || len(records) != 1 {
		t.Fatalf("records=%d dropped=%d", len(records), dropped)
	}
	rec := records[0]
	if rec.OriginalPhase != "a True story" {
		t.Fatalf("string contents were rewritten: %q", rec.OriginalPhase)
	}
	if rec.Counterfactual != "an alternative" || rec.WhichPhase != "cognitiveChange" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// Same payload with the bare literal tokens already valid JSON; the "True"
	// inside the string stays untouched.
	strict := `[{"journal_id": "u_1_j1", "which_phase": "cognitiveChange", "original_phase": "a True story", "counterfactual": "an alternative", "adaptive": true, "notes": null}]`
	strictRecords, _, err := ParseRecords(strict)
	if err != nil {
		t.Fatalf("strict equivalent: %v", err)
	}
	if strictRecords[0] != rec {
		t.Fatalf("relaxed parse diverged from strict equivalent:\n%+v\n%+v", rec, strictRecords[0])
	}
}

func TestParseRecords_StripsCodeFenceAndSurroundingText(t *testing.T) {
	t.Parallel()

	fenced := "```json\n" + wellFormedArray(2) + "\n```"
	records, _, err := ParseRecords(fenced)
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("fenced records = %d, want 2", len(records))
	}

	chatty := "Here are the counterfactuals:\n" + wellFormedArray(1) + "\nHope this helps!"
	records, _, err = ParseRecords(chatty)
	if err != nil {
		t.Fatalf("chatty: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("chatty records = %d, want 1", len(records))
	}
}

func TestParseRecords_DropsElementsMissingRequiredKeys(t *testing.T) {
	t.Parallel()

	raw := `[
		{"journal_id": "u_1_j1", "which_phase": "cognitiveChange", "original_phase": "o", "counterfactual": "c"},
		{"journal_id": "u_1_j1", "which_phase": "cognitiveChange", "original_phase": "o"},
		{"journal_id": "u_1_j1"}
	]`
	records, dropped, err := ParseRecords(raw)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(records) != 1 || dropped != 2 {
		t.Fatalf("records=%d dropped=%d, want 1/2", len(records), dropped)
	}
}

func TestParseRecords_NumericJournalIDKeptAsText(t *testing.T) {
	t.Parallel()

	raw := `[{"journal_id": 1, "which_phase": "situationSelection", "original_phase": "o", "counterfactual": "c"}]`
	records, _, err := ParseRecords(raw)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if records[0].JournalID != "1" {
		t.Fatalf("journal_id = %q, want %q", records[0].JournalID, "1")
	}
}

func TestParseRecords_NonStringFieldsDropElement(t *testing.T) {
	t.Parallel()

	raw := `[
		{"journal_id": {"nested": "object"}, "which_phase": "cognitiveChange", "original_phase": "o", "counterfactual": "c"},
		{"journal_id": ["u_1", "j1"], "which_phase": "cognitiveChange", "original_phase": "o", "counterfactual": "c"},
		{"journal_id": "u_1_j1", "which_phase": true, "original_phase": "o", "counterfactual": "c"},
		{"journal_id": 7, "which_phase": "cognitiveChange", "original_phase": "o", "counterfactual": "c"}
	]`
	records, dropped, err := ParseRecords(raw)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(records) != 1 || dropped != 3 {
		t.Fatalf("records=%d dropped=%d, want 1/3", len(records), dropped)
	}
	if records[0].JournalID != "7" {
		t.Fatalf("journal_id = %q, want %q", records[0].JournalID, "7")
	}
}

func TestParseRecords_UnparsableSurfacesTypedError(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "I could not generate anything.", "[{broken"} {
		_, _, err := ParseRecords(raw)
		var uerr *UnparsableOutputError
		if !errors.As(err, &uerr) {
			t.Fatalf("raw=%q err=%v, want *UnparsableOutputError", raw, err)
		}
	}
}

func TestParseStringList(t *testing.T) {
	t.Parallel()

	list, err := ParseStringList(` ["a", "b", "c", "d", "e"] `)
	if err != nil {
		t.Fatalf("ParseStringList: %v", err)
	}
	if len(list) != 5 || list[0] != "a" || list[4] != "e" {
		t.Fatalf("list = %v", list)
	}

	if _, err := ParseStringList(`{"not": "an array"}`); err == nil {
		t.Fatalf("expected error for non-array input")
	}
}
