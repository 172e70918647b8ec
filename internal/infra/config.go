package infra

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting the server needs. All engine constants are
// fixed at construction; there is no runtime reconfiguration.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Engine struct {
		Seed           int64   `yaml:"seed"`
		TickIntervalMS int     `yaml:"tick_interval_ms"`
		StartPrice     float64 `yaml:"start_price"`
		Volatility     float64 `yaml:"volatility"`
		WarmupSec      int     `yaml:"warmup_sec"`
		HistoryCap     int     `yaml:"history_cap"`

		Sigma     float64 `yaml:"sigma"`
		HouseEdge float64 `yaml:"house_edge"`

		CellDurationSec int64   `yaml:"cell_duration_sec"`
		PriceHeight     float64 `yaml:"price_height"`
		Layers          int     `yaml:"layers"`
		InitialColumns  int     `yaml:"initial_columns"`

		MinBet          float64 `yaml:"min_bet"`
		StartingBalance float64 `yaml:"starting_balance"`

		GraceSec     int64 `yaml:"grace_sec"`
		RetentionSec int64 `yaml:"retention_sec"`
	} `yaml:"engine"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the yaml config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity. Zero values are allowed where the
// engine has a default; negatives never are.
func (c *Config) Validate() error {
	e := &c.Engine

	if e.TickIntervalMS < 0 {
		return fmt.Errorf("tick interval must not be negative")
	}
	if e.Volatility < 0 || e.Sigma < 0 {
		return fmt.Errorf("volatility parameters must not be negative")
	}
	if e.HouseEdge < 0 || e.HouseEdge >= 1 {
		return fmt.Errorf("house edge must be in [0, 1): %v", e.HouseEdge)
	}
	if e.Layers < 0 || e.InitialColumns < 0 {
		return fmt.Errorf("grid dimensions must not be negative")
	}
	if e.MinBet < 0 || e.StartingBalance < 0 {
		return fmt.Errorf("ledger limits must not be negative")
	}
	if e.MinBet > e.StartingBalance && e.StartingBalance != 0 {
		return fmt.Errorf("minimum bet %v exceeds starting balance %v", e.MinBet, e.StartingBalance)
	}
	if e.GraceSec < 0 || e.RetentionSec < 0 {
		return fmt.Errorf("retention windows must not be negative")
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal enabled but no path configured")
	}

	return nil
}

// TickInterval returns the configured tick interval as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Engine.TickIntervalMS) * time.Millisecond
}
