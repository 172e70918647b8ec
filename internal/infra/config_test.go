package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
app:
  name: grid-rush
  version: 0.1.0
server:
  addr: ":8080"
engine:
  seed: 42
  tick_interval_ms: 1000
  start_price: 100
  volatility: 0.2
  sigma: 300
  house_edge: 0.05
  cell_duration_sec: 30
  price_height: 1
  layers: 12
  initial_columns: 16
  min_bet: 10
  starting_balance: 10000
  grace_sec: 60
  retention_sec: 60
journal:
  enabled: true
  path: events.db
logging:
  level: info
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.Engine.Layers != 12 || cfg.Engine.CellDurationSec != 30 {
		t.Errorf("engine section not parsed: %+v", cfg.Engine)
	}
	if cfg.TickInterval() != time.Second {
		t.Errorf("expected 1s tick, got %v", cfg.TickInterval())
	}
	if !cfg.Journal.Enabled || cfg.Journal.Path != "events.db" {
		t.Errorf("journal section not parsed: %+v", cfg.Journal)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Negative tick", func(c *Config) { c.Engine.TickIntervalMS = -1 }},
		{"House edge over 1", func(c *Config) { c.Engine.HouseEdge = 1.5 }},
		{"Negative sigma", func(c *Config) { c.Engine.Sigma = -1 }},
		{"Min bet above balance", func(c *Config) { c.Engine.MinBet = 20000 }},
		{"Journal without path", func(c *Config) { c.Journal.Enabled = true; c.Journal.Path = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, sampleConfig))
			if err != nil {
				t.Fatalf("base config invalid: %v", err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_ZeroValuesAreValid(t *testing.T) {
	// An empty config defers everything to engine defaults.
	var cfg Config
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero config rejected: %v", err)
	}
}
