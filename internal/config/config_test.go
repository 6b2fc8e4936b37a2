package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Watchlist) == 0 {
		t.Error("expected default watchlist")
	}
	if cfg.Monitor.PollCron == "" || cfg.Monitor.CooldownMinutes == 0 {
		t.Error("expected monitor defaults")
	}
	if cfg.Risk.MaxRiskPct != 0.015 {
		t.Errorf("expected default risk cap 0.015, got %f", cfg.Risk.MaxRiskPct)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
watchlist: [aapl, msft]
monitor:
  cooldown_minutes: 30
risk:
  max_risk_pct: 0.02
  per_symbol:
    TSLA: 0.01
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COOLDOWN_MINUTES", "45")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Monitor.CooldownMinutes != 45 {
		t.Errorf("env should override yaml, got %d", cfg.Monitor.CooldownMinutes)
	}
	if cfg.RiskPctFor("TSLA") != 0.01 {
		t.Errorf("per-symbol risk override missing, got %f", cfg.RiskPctFor("TSLA"))
	}
	if cfg.RiskPctFor("AAPL") != 0.02 {
		t.Errorf("expected global risk fallback, got %f", cfg.RiskPctFor("AAPL"))
	}
}

func TestLoad_WatchlistFromEnv(t *testing.T) {
	t.Setenv("WATCHLIST", " nvda, amd ,tsla ")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"NVDA", "AMD", "TSLA"}
	if len(cfg.Watchlist) != len(want) {
		t.Fatalf("got %v", cfg.Watchlist)
	}
	for i, s := range want {
		if cfg.Watchlist[i] != s {
			t.Errorf("watchlist[%d] = %s, want %s", i, cfg.Watchlist[i], s)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err := cfg.Validate(); err == nil {
		t.Error("missing SMTP settings should fail validation")
	}
	cfg.Email.SMTPHost = "smtp.gmail.com"
	cfg.Email.From = "me@example.com"
	cfg.Email.To = "me@example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestIsMegaCap(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !cfg.IsMegaCap("aapl") {
		t.Error("mega-cap check should be case-insensitive")
	}
	if cfg.IsMegaCap("XYZ") {
		t.Error("unknown symbol should not be mega-cap")
	}
}
