package counterfactual

import (
	"fmt"
	"strings"
)

// CounterfactualRecord is one generated alternative for a single
// (journal, phase) pair, as produced by the completion service.
type CounterfactualRecord struct {
	JournalID      string `json:"journal_id"`
	WhichPhase     string `json:"which_phase"`
	OriginalPhase  string `json:"original_phase"`
	Counterfactual string `json:"counterfactual"`

	// Err carries a human-readable explanation when generation failed for the
	// originating entry. Error records keep WhichPhase empty so the reconciler
	// skips them instead of mis-attributing output.
	Err string `json:"error,omitempty"`
}

// ErrorRecord builds a placeholder record for an entry whose generation or
// parsing failed. The pipeline appends these instead of aborting.
func ErrorRecord(journalID string, err error) CounterfactualRecord {
	return CounterfactualRecord{
		JournalID: journalID,
		Err:       err.Error(),
	}
}

// Validate reports whether the record satisfies the generation contract:
// all required fields present, which_phase one of the five phase names.
func (r CounterfactualRecord) Validate() error {
	if strings.TrimSpace(r.JournalID) == "" {
		return fmt.Errorf("record: journal_id is empty")
	}
	if _, ok := PhaseIndex(r.WhichPhase); !ok {
		return fmt.Errorf("record: unknown phase %q", r.WhichPhase)
	}
	if strings.TrimSpace(r.OriginalPhase) == "" {
		return fmt.Errorf("record: original_phase is empty")
	}
	if strings.TrimSpace(r.Counterfactual) == "" {
		return fmt.Errorf("record: counterfactual is empty")
	}
	return nil
}

// SplitJournalID splits a composite journal key into its user and journal
// components. The convention is fixed and non-configurable: user IDs are
// exactly two underscore-delimited tokens, so "u_1_j_5" splits into user
// "u_1" and journal "j_5". IDs with fewer than three tokens cannot satisfy
// the convention and are rejected.
func SplitJournalID(journalID string) (userID, journalPart string, err error) {
	parts := strings.Split(journalID, "_")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("journal_id %q does not match the <user>_<user>_<journal> convention", journalID)
	}
	userID = strings.Join(parts[:2], "_")
	journalPart = strings.Join(parts[2:], "_")
	if journalPart == "" {
		return "", "", fmt.Errorf("journal_id %q has an empty journal component", journalID)
	}
	return userID, journalPart, nil
}

// JoinJournalID builds the composite key used to attribute generated records
// back to their dataset row.
func JoinJournalID(userID, journalID string) string {
	return userID + "_" + journalID
}
