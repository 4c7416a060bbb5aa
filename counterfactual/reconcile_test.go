package counterfactual

import (
	"errors"
	"testing"
)

func testDataset() Dataset {
	return Dataset{Rows: []JournalRow{
		{
			UserID: "u_1",
			DailyReflection: DailyReflection{
				JournalID: "j1",
				Text0:     "stayed home",
				Text3:     "told myself it was temporary",
			},
		},
		{
			UserID: "u_2",
			DailyReflection: DailyReflection{
				JournalID: "j2",
				Text0:     "went out anyway",
			},
		},
	}}
}

func TestReconcile_AppendsToMatchingStage(t *testing.T) {
	t.Parallel()

	ds := testDataset()
	report := Reconcile([]CounterfactualRecord{{
		JournalID:      "u_1_j1",
		WhichPhase:     "cognitiveChange",
		OriginalPhase:  "told myself it was temporary",
		Counterfactual: "X",
	}}, &ds)

	if report.Appended != 1 || report.Skipped() != 0 {
		t.Fatalf("report = %+v", report)
	}
	row := ds.Rows[0]
	if len(row.StageOutputs[3]) != 1 || row.StageOutputs[3][0] != "X" {
		t.Fatalf("stage3 = %v, want [X]", row.StageOutputs[3])
	}
	for i, stage := range row.StageOutputs {
		if i != 3 && len(stage) != 0 {
			t.Fatalf("stage%d = %v, want empty", i, stage)
		}
	}
}

func TestReconcile_SkipsWithoutMutating(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  CounterfactualRecord
		want func(ReconcileReport) int
	}{
		{
			name: "no matching row",
			rec:  CounterfactualRecord{JournalID: "u_9_j9", WhichPhase: "cognitiveChange", OriginalPhase: "o", Counterfactual: "X"},
			want: func(r ReconcileReport) int { return r.SkippedMismatch },
		},
		{
			name: "unknown phase",
			rec:  CounterfactualRecord{JournalID: "u_1_j1", WhichPhase: "unknownPhase", OriginalPhase: "o", Counterfactual: "X"},
			want: func(r ReconcileReport) int { return r.SkippedUnknownPhase },
		},
		{
			name: "composite key too short",
			rec:  CounterfactualRecord{JournalID: "u1j1", WhichPhase: "cognitiveChange", OriginalPhase: "o", Counterfactual: "X"},
			want: func(r ReconcileReport) int { return r.SkippedMismatch },
		},
		{
			name: "error placeholder record",
			rec:  ErrorRecord("u_1_j1", errors.New("boom")),
			want: func(r ReconcileReport) int { return r.SkippedMissingField },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds := testDataset()
			report := Reconcile([]CounterfactualRecord{tc.rec}, &ds)
			if report.Appended != 0 {
				t.Fatalf("appended = %d, want 0", report.Appended)
			}
			if got := tc.want(report); got != 1 {
				t.Fatalf("report = %+v, want the %s counter at 1", report, tc.name)
			}
			if len(report.Notes) != 1 {
				t.Fatalf("notes = %v, want one diagnostic", report.Notes)
			}
			for _, row := range ds.Rows {
				for i, stage := range row.StageOutputs {
					if len(stage) != 0 {
						t.Fatalf("dataset mutated: row %s stage%d = %v", row.JournalKey(), i, stage)
					}
				}
			}
		})
	}
}

func TestReconcile_MultipleMatchesSkip(t *testing.T) {
	t.Parallel()

	ds := testDataset()
	dup := ds.Rows[0]
	ds.Rows = append(ds.Rows, dup)

	report := Reconcile([]CounterfactualRecord{{
		JournalID:      "u_1_j1",
		WhichPhase:     "situationSelection",
		OriginalPhase:  "o",
		Counterfactual: "X",
	}}, &ds)
	if report.Appended != 0 || report.SkippedMismatch != 1 {
		t.Fatalf("report = %+v, want ambiguous match skipped", report)
	}
}

func TestReconcile_OneBadRecordDoesNotAbortTheRest(t *testing.T) {
	t.Parallel()

	ds := testDataset()
	report := Reconcile([]CounterfactualRecord{
		{JournalID: "u_1_j1", WhichPhase: "unknownPhase", OriginalPhase: "o", Counterfactual: "bad"},
		{JournalID: "u_2_j2", WhichPhase: "situationSelection", OriginalPhase: "o", Counterfactual: "good"},
	}, &ds)

	if report.Appended != 1 || report.SkippedUnknownPhase != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := ds.Rows[1].StageOutputs[0]; len(got) != 1 || got[0] != "good" {
		t.Fatalf("stage0 = %v", got)
	}
}

func TestSplitJournalID(t *testing.T) {
	t.Parallel()

	user, journal, err := SplitJournalID("u_1_j_5")
	if err != nil {
		t.Fatalf("SplitJournalID: %v", err)
	}
	if user != "u_1" || journal != "j_5" {
		t.Fatalf("got (%q, %q)", user, journal)
	}

	for _, bad := range []string{"", "u1", "u_1", "u_1_"} {
		if _, _, err := SplitJournalID(bad); err == nil {
			t.Fatalf("SplitJournalID(%q) succeeded, want error", bad)
		}
	}
}
