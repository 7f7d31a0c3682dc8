package config

import (
	"testing"
	"time"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("QDRANT_ENABLED", "false")
	t.Setenv("FRONTEND_URL", "https://jobs.example.com/")
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")

	cfg := Load()

	if cfg.Server.Port != "8081" {
		t.Fatalf("expected port 8081, got %s", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Fatalf("expected 2h token ttl, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Qdrant.Enabled {
		t.Fatalf("expected qdrant to be disabled")
	}
	if cfg.Server.FrontendURL != "https://jobs.example.com" {
		t.Fatalf("expected trailing slash to be trimmed, got %s", cfg.Server.FrontendURL)
	}
	if cfg.AI.Provider != "openai" {
		t.Fatalf("expected lower-cased provider, got %s", cfg.AI.Provider)
	}
	if cfg.Worker.Concurrency != 3 {
		t.Fatalf("expected default concurrency on bad input, got %d", cfg.Worker.Concurrency)
	}
}

func TestGetEnvAsDurationFallsBack(t *testing.T) {
	t.Setenv("TEST_BAD_DURATION", "soon")

	if got := getEnvAsDuration("TEST_BAD_DURATION", "45s"); got != 45*time.Second {
		t.Fatalf("expected fallback of 45s, got %s", got)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	t.Parallel()

	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "ats", Password: "secret", DBName: "hireflow", SSLMode: "disable",
	}}
	want := "host=db port=5432 user=ats password=secret dbname=hireflow sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Fatalf("GetDatabaseDSN = %q, want %q", got, want)
	}
}
