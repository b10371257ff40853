package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// unsetEnv clears the variables for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t,
		"STRESSCHART_SEED",
		"STRESSCHART_POPULATION_SIZE",
		"STRESSCHART_COHORT_SIZE",
		"STRESSCHART_OTEL_ENABLED",
		"STRESSCHART_OTEL_INSECURE",
	)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Generation.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Generation.Seed)
	}
	if cfg.Generation.PopulationSize != 1000 || cfg.Generation.CohortSize != 15 {
		t.Errorf("unexpected sizes %+v", cfg.Generation)
	}
	if cfg.OTel.Enabled {
		t.Error("expected OTEL disabled by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STRESSCHART_SEED", "7")
	t.Setenv("STRESSCHART_COHORT_SIZE", "30")
	t.Setenv("STRESSCHART_DATABASE_URL", "libsql://example.turso.io")
	t.Setenv("STRESSCHART_OTEL_ENABLED", "true")
	t.Setenv("STRESSCHART_OTEL_ENDPOINT", "localhost:4317")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Generation.Seed != 7 || cfg.Generation.CohortSize != 30 {
		t.Errorf("unexpected generation config %+v", cfg.Generation)
	}
	if !cfg.OTel.Enabled || cfg.OTel.Endpoint != "localhost:4317" {
		t.Errorf("unexpected otel config %+v", cfg.OTel)
	}
	url, err := cfg.DatabaseURL()
	if err != nil {
		t.Fatalf("DatabaseURL failed: %v", err)
	}
	if url != "libsql://example.turso.io" {
		t.Errorf("expected configured URL, got %s", url)
	}
}

func TestLoad_InvalidSeed(t *testing.T) {
	t.Setenv("STRESSCHART_SEED", "forty-two")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid seed")
	}
}

func TestDatabaseURL_DefaultsToXDGFile(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	cfg := &Config{}
	url, err := cfg.DatabaseURL()
	if err != nil {
		t.Fatalf("DatabaseURL failed: %v", err)
	}
	want := "file:" + filepath.Join(dataHome, "stresschart", "runs.db")
	if url != want {
		t.Errorf("expected %s, got %s", want, url)
	}
	if !strings.HasPrefix(url, "file:") {
		t.Errorf("expected file URL, got %s", url)
	}
}
