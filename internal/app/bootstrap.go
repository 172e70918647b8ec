package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shopspring/decimal"

	"grid_rush/internal/engine"
	"grid_rush/internal/infra"
	"grid_rush/internal/storage"
)

// Bootstrap orchestrates the server startup sequence.
type Bootstrap struct {
	Config  *infra.Config
	Journal *storage.Journal

	unlock func()
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, sets up logging and (optionally) the event
// journal under the workspace directory.
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Grid Rush...")

	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	workDir := infra.GetWorkspaceDir()
	if err := infra.EnsureDir(workDir); err != nil {
		return fmt.Errorf("failed to create workspace dir: %w", err)
	}

	// One process per workspace: the journal db is single-writer.
	unlock, err := infra.CreateLockFile(workDir)
	if err != nil {
		return err
	}
	b.unlock = unlock

	if cfg.Journal.Enabled {
		dbPath := cfg.Journal.Path
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(workDir, dbPath)
		}
		journal, err := storage.NewJournal(dbPath)
		if err != nil {
			return err
		}
		b.Journal = journal
		slog.Info("✅ Event journal initialized (WAL-mode)", "path", dbPath)
	}

	return nil
}

// EngineConfig maps the yaml engine section onto the room's config.
func (b *Bootstrap) EngineConfig() engine.Config {
	e := b.Config.Engine
	return engine.Config{
		TickInterval:    b.Config.TickInterval(),
		Seed:            e.Seed,
		StartPrice:      e.StartPrice,
		Volatility:      e.Volatility,
		WarmupSec:       e.WarmupSec,
		HistoryCap:      e.HistoryCap,
		Sigma:           e.Sigma,
		HouseEdge:       e.HouseEdge,
		CellDurationSec: e.CellDurationSec,
		PriceHeight:     e.PriceHeight,
		Layers:          e.Layers,
		InitialColumns:  e.InitialColumns,
		MinBet:          decimal.NewFromFloat(e.MinBet),
		StartingBalance: decimal.NewFromFloat(e.StartingBalance),
		GraceSec:        e.GraceSec,
		RetentionSec:    e.RetentionSec,
	}
}

// Shutdown releases bootstrap-owned resources.
func (b *Bootstrap) Shutdown() {
	if b.Journal != nil {
		b.Journal.Close()
	}
	if b.unlock != nil {
		b.unlock()
	}
}
