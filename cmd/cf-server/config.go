package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	APIKey string
	Model  string
	Env    string

	Timeout time.Duration
}

// loadConfig reads the server configuration from the environment, with a
// best-effort .env load first. An empty APIKey is not an error: the service
// then serves deterministic mock output.
func loadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Port:    getEnv("CF_PORT", "8080"),
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   getEnv("CF_MODEL", "gpt-4o-mini"),
		Env:     getEnv("CF_ENV", "dev"),
		Timeout: getDurationEnv("CF_COMPLETION_TIMEOUT", 60*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
