package counterfactual

import (
	"fmt"
	"strings"
)

// ReconcileReport summarizes one reconciliation pass. Skip counts are kept
// per failure kind so callers can observe them rather than scrape logs.
type ReconcileReport struct {
	Appended            int
	SkippedMissingField int
	SkippedMismatch     int
	SkippedUnknownPhase int

	// Notes carries one diagnostic line per skipped record, with the
	// offending journal_id and value.
	Notes []string
}

// Skipped is the total number of records that were not applied.
func (r ReconcileReport) Skipped() int {
	return r.SkippedMissingField + r.SkippedMismatch + r.SkippedUnknownPhase
}

// Reconcile attributes parsed counterfactual records back onto their dataset
// rows, appending each counterfactual text to the stage list matching its
// phase. A record is skipped — never fatal — when it is an error placeholder,
// its composite key cannot be split, it matches zero or multiple rows, or its
// phase is unknown. The dataset is only mutated by successful appends.
func Reconcile(records []CounterfactualRecord, ds *Dataset) ReconcileReport {
	var report ReconcileReport

	for _, rec := range records {
		if rec.Err != "" || strings.TrimSpace(rec.WhichPhase) == "" || strings.TrimSpace(rec.Counterfactual) == "" {
			report.SkippedMissingField++
			report.note("missing phase or counterfactual for journal_id=%s", rec.JournalID)
			continue
		}

		userID, journalPart, err := SplitJournalID(rec.JournalID)
		if err != nil {
			report.SkippedMismatch++
			report.note("bad composite key: %v", err)
			continue
		}

		matches := matchRows(ds, userID, journalPart)
		if len(matches) != 1 {
			report.SkippedMismatch++
			report.note("journal_id=%s matched %d rows (user=%s journal=%s)", rec.JournalID, len(matches), userID, journalPart)
			continue
		}

		stage, ok := PhaseIndex(rec.WhichPhase)
		if !ok {
			report.SkippedUnknownPhase++
			report.note("unknown phase %q for journal_id=%s", rec.WhichPhase, rec.JournalID)
			continue
		}

		row := &ds.Rows[matches[0]]
		row.StageOutputs[stage] = append(row.StageOutputs[stage], rec.Counterfactual)
		report.Appended++
	}
	return report
}

func matchRows(ds *Dataset, userID, journalPart string) []int {
	var idx []int
	for i := range ds.Rows {
		if ds.Rows[i].UserID == userID && ds.Rows[i].DailyReflection.JournalID == journalPart {
			idx = append(idx, i)
		}
	}
	return idx
}

func (r *ReconcileReport) note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}
