package counterfactual

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DailyReflection holds the five phase texts of one journal entry, keyed by
// phase index.
type DailyReflection struct {
	JournalID string `json:"journalId"`
	Text0     string `json:"text0"`
	Text1     string `json:"text1"`
	Text2     string `json:"text2"`
	Text3     string `json:"text3"`
	Text4     string `json:"text4"`
}

// JournalRow is one dataset row: a journal entry plus the per-phase lists of
// generated counterfactual texts accumulated by reconciliation.
type JournalRow struct {
	UserID          string          `json:"userId"`
	DailyReflection DailyReflection `json:"dailyReflection"`

	// StageOutputs[i] collects generated texts for phase i. Not part of the
	// input schema; populated by Reconcile and serialized into the stage
	// columns on output.
	StageOutputs [PhaseCount][]string `json:"-"`
}

// PhaseTexts returns the five phase texts in phase order.
func (r *JournalRow) PhaseTexts() [PhaseCount]string {
	d := r.DailyReflection
	return [PhaseCount]string{d.Text0, d.Text1, d.Text2, d.Text3, d.Text4}
}

// JournalKey returns the composite identifier used to attribute generated
// records back to this row.
func (r *JournalRow) JournalKey() string {
	return JoinJournalID(r.UserID, r.DailyReflection.JournalID)
}

// Dataset is the batch pipeline's in-memory working set.
type Dataset struct {
	Rows []JournalRow
}

// LoadDataset reads a JSON array of journal records. Single quotes inside
// phase texts are backslash-escaped on load, matching the normalization the
// downstream consumers of the CSV expect.
func LoadDataset(path string) (Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}

	var rows []JournalRow
	if err := json.Unmarshal(b, &rows); err != nil {
		return Dataset{}, fmt.Errorf("unmarshal dataset: %w", err)
	}

	for i := range rows {
		d := &rows[i].DailyReflection
		d.Text0 = escapeSingleQuotes(d.Text0)
		d.Text1 = escapeSingleQuotes(d.Text1)
		d.Text2 = escapeSingleQuotes(d.Text2)
		d.Text3 = escapeSingleQuotes(d.Text3)
		d.Text4 = escapeSingleQuotes(d.Text4)
	}
	return Dataset{Rows: rows}, nil
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// csvHeader lists the output columns: the input schema flattened, followed by
// the five stage list columns.
func csvHeader() []string {
	header := []string{
		"userId",
		"dailyReflection.journalId",
		"dailyReflection.text0",
		"dailyReflection.text1",
		"dailyReflection.text2",
		"dailyReflection.text3",
		"dailyReflection.text4",
	}
	for i := 0; i < PhaseCount; i++ {
		header = append(header, StageColumn(i))
	}
	return header
}

// WriteCSV serializes the dataset in tabular form, one row per journal entry,
// with each stage list JSON-encoded into its cell. The file is written
// atomically (temp file in the target directory, then rename).
func (d *Dataset) WriteCSV(path string) error {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range d.Rows {
		row := &d.Rows[i]
		fields := []string{
			row.UserID,
			row.DailyReflection.JournalID,
			row.DailyReflection.Text0,
			row.DailyReflection.Text1,
			row.DailyReflection.Text2,
			row.DailyReflection.Text3,
			row.DailyReflection.Text4,
		}
		for s := 0; s < PhaseCount; s++ {
			cell, err := encodeStageList(row.StageOutputs[s])
			if err != nil {
				return fmt.Errorf("encode stage %d for %s: %w", s, row.JournalKey(), err)
			}
			fields = append(fields, cell)
		}
		if err := w.Write(fields); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if err := writeFileAtomic(path, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("write dataset csv: %w", err)
	}
	return nil
}

func encodeStageList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeFileAtomic writes data to a temp file in the destination directory and
// renames it into place.
func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_dataset_*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
