package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmorrell/longquery/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCENARIOS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("unexpected port: %s", cfg.Port)
	}
	if cfg.MaxAttempts != 20 {
		t.Errorf("unexpected max attempts: %d", cfg.MaxAttempts)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("unexpected poll interval: %s", cfg.PollInterval)
	}
	if cfg.QueryDuration != 10*time.Second {
		t.Errorf("unexpected query duration: %s", cfg.QueryDuration)
	}
	if len(cfg.Scenarios.Scenarios) != 0 {
		t.Errorf("expected no scenarios, got %d", len(cfg.Scenarios.Scenarios))
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_ATTEMPTS", "3")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("QUERY_DURATION", "5") // bare integers are seconds
	t.Setenv("SCENARIOS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("unexpected port: %s", cfg.Port)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("unexpected max attempts: %d", cfg.MaxAttempts)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("unexpected poll interval: %s", cfg.PollInterval)
	}
	if cfg.QueryDuration != 5*time.Second {
		t.Errorf("unexpected query duration: %s", cfg.QueryDuration)
	}
}

func TestLoadRejectsNegativeMaxAttempts(t *testing.T) {
	t.Setenv("MAX_ATTEMPTS", "-1")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadScenariosFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queries.yaml")
	data := `scenarios:
  - match: users
    duration: 5s
    rows:
      - { id: 1, name: Alice }
  - match: audit_log
    checks: 2
    fail: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCENARIOS_FILE", path)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Scenarios.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(cfg.Scenarios.Scenarios))
	}
	first := cfg.Scenarios.Scenarios[0]
	if first.Match != "users" || first.Duration != "5s" || len(first.Rows) != 1 {
		t.Errorf("unexpected scenario: %+v", first)
	}
	second := cfg.Scenarios.Scenarios[1]
	if second.Match != "audit_log" || second.Checks != 2 || !second.Fail {
		t.Errorf("unexpected scenario: %+v", second)
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"2", 2 * time.Second},
		{"0", 0},
		{"2s", 2 * time.Second},
		{"250ms", 250 * time.Millisecond},
	}
	for _, c := range cases {
		got, err := config.ParseDuration(c.in)
		if err != nil {
			t.Errorf("ParseDuration(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDuration(%q) = %s, want %s", c.in, got, c.want)
		}
	}

	if _, err := config.ParseDuration("soon"); err == nil {
		t.Error("expected an error for a malformed duration")
	}
}
