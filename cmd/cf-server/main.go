package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/regulationlab/counterfact/counterfactual"
	"github.com/regulationlab/counterfact/counterfactual/provider"
)

func main() {
	cfg := loadConfig()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	var completer counterfactual.Completer
	if cfg.APIKey != "" {
		client, err := provider.NewClient(provider.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			log.Fatalw("build completion client", "error", err)
		}
		completer = client
	} else {
		log.Warnw("no completion API key configured; serving deterministic mock output")
	}

	s := &server{
		gen:           &counterfactual.Generator{Completer: completer},
		log:           log,
		keyConfigured: cfg.APIKey != "",
	}

	router := newRouter(s)
	log.Infow("counterfactual API listening", "port", cfg.Port, "model", cfg.Model, "key_configured", s.keyConfigured)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

func newLogger(env string) (*zap.Logger, error) {
	switch env {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
