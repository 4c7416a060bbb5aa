package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	InPath  string
	OutPath string
	Model   string
	APIKey  string

	// Every processes only every Nth journal entry, a token-saving stride.
	Every      int
	MaxEntries int

	Timeout time.Duration
	DryRun  bool
}

func (c Config) Validate() error {
	if c.InPath == "" {
		return errors.New("missing -in")
	}
	if c.OutPath == "" {
		return errors.New("missing -out")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.Every < 1 {
		return errors.New("every must be >= 1")
	}
	if c.MaxEntries < 0 {
		return errors.New("max-entries must be >= 0")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		InPath:  filepath.FromSlash("data/journals.json"),
		OutPath: filepath.FromSlash("data/journals_with_cfOutputs.csv"),
		Model:   "gpt-4o-mini",
		Every:   1,
		Timeout: 60 * time.Second,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InPath, "in", cfg.InPath, "Path to the journal dataset JSON file")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Path for the reconciled output CSV")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Completion model to use")
	fs.StringVar(&cfg.APIKey, "api-key", "", "Completion API key (overrides OPENAI_API_KEY env var)")
	fs.IntVar(&cfg.Every, "every", cfg.Every, "Process every Nth journal entry (1 = all)")
	fs.IntVar(&cfg.MaxEntries, "max-entries", 0, "Process at most N entries (0 = all)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-call completion timeout")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Build prompts and reconcile nothing; no completion calls")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.InPath = filepath.Clean(cfg.InPath)
	cfg.OutPath = filepath.Clean(cfg.OutPath)
	return cfg, nil
}
