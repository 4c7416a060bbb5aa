package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/regulationlab/counterfact/counterfactual"
	"github.com/regulationlab/counterfact/counterfactual/provider"
)

func main() {
	_ = godotenv.Load()

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	var completer counterfactual.Completer
	if !cfg.DryRun {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
			os.Exit(2)
		}
		client, err := provider.NewClient(provider.Config{
			APIKey:  apiKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
		completer = client
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := counterfactual.LoadDataset(cfg.InPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if len(ds.Rows) == 0 {
		fmt.Fprintln(os.Stderr, "dataset has no rows")
		os.Exit(2)
	}

	records, stats := generateAll(ctx, completer, ds, cfg)

	if cfg.DryRun {
		fmt.Fprintf(os.Stdout, "entries=%d prompts=%d skipped_empty=%d (dry run, nothing written)\n",
			stats.entries, stats.prompts, stats.skippedEmpty)
		return
	}

	report := counterfactual.Reconcile(records, &ds)
	for _, n := range report.Notes {
		fmt.Fprintln(os.Stderr, "reconcile: "+n)
	}

	if err := ds.WriteCSV(cfg.OutPath); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "entries=%d generated=%d dropped=%d errors=%d appended=%d skipped=%d out=%s\n",
		stats.entries, stats.generated, stats.dropped, stats.errors, report.Appended, report.Skipped(), cfg.OutPath)
}

type runStats struct {
	entries      int
	prompts      int
	generated    int
	dropped      int
	errors       int
	skippedEmpty int
}

// generateAll runs the generation pass strictly sequentially: one completion
// call per entry, each parsed and attributed to its journal key before the
// next call begins. Per-entry failures become placeholder error records; the
// pass never aborts because of one bad entry.
func generateAll(ctx context.Context, completer counterfactual.Completer, ds counterfactual.Dataset, cfg Config) ([]counterfactual.CounterfactualRecord, runStats) {
	var records []counterfactual.CounterfactualRecord
	var stats runStats

	for idx := 0; idx < len(ds.Rows); idx += cfg.Every {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "interrupted; reconciling what was generated so far")
			break
		}
		if cfg.MaxEntries > 0 && stats.entries >= cfg.MaxEntries {
			break
		}

		row := &ds.Rows[idx]
		journalID := row.JournalKey()

		prompt, err := counterfactual.BuildPhasePrompt(row.PhaseTexts())
		if errors.Is(err, counterfactual.ErrNoUsableInput) {
			stats.skippedEmpty++
			continue
		}
		stats.entries++
		stats.prompts++

		if cfg.DryRun {
			continue
		}

		raw, err := completer.Complete(ctx, prompt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error on journal_id=%s: %v\n", journalID, err)
			records = append(records, counterfactual.ErrorRecord(journalID, err))
			stats.errors++
			continue
		}

		recs, dropped, err := counterfactual.ParseRecords(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error on journal_id=%s: %v\n", journalID, err)
			records = append(records, counterfactual.ErrorRecord(journalID, err))
			stats.errors++
			continue
		}
		stats.dropped += dropped

		// Attribution is ours, not the model's: whatever journal_id came back
		// is overwritten with the entry's composite key.
		for i := range recs {
			recs[i].JournalID = journalID
		}
		records = append(records, recs...)
		stats.generated += len(recs)
	}

	return records, stats
}
