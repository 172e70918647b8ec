package engine

import (
	"grid_rush/pkg/safe"

	"grid_rush/internal/domain"
)

// SettlementEngine resolves matured bets against realized candles and purges
// what has aged out. It mutates bet status/payout and player balances but
// never creates either; the single status transition per bet lives in
// domain.Bet.
type SettlementEngine struct {
	retentionSec int64
}

const defaultRetentionSec = 60

// NewSettlementEngine applies the default retention window for zero.
func NewSettlementEngine(retentionSec int64) *SettlementEngine {
	if retentionSec == 0 {
		retentionSec = defaultRetentionSec
	}
	return &SettlementEngine{retentionSec: retentionSec}
}

// Settle resolves every pending bet whose window ended at or before the
// candle's time, crediting winners. Terminal bets are untouched: repeated
// passes over the same candle resolve nothing twice. Returns the bets
// resolved this pass.
func (s *SettlementEngine) Settle(candle domain.Candle, players map[string]*domain.Player) []*domain.Bet {
	var resolved []*domain.Bet

	for _, player := range players {
		for _, bet := range player.Bets {
			if bet.Status != domain.BetPending || !bet.Matured(candle.Time) {
				continue
			}

			if bet.InRange(candle.Close) {
				bet.MarkWon()
				player.Credit(bet.Payout)
			} else {
				bet.MarkLost()
			}
			resolved = append(resolved, bet)
		}
	}
	return resolved
}

// PurgeBets drops terminal bets older than the retention window past their
// maturity. Pending bets are never purged here.
func (s *SettlementEngine) PurgeBets(now int64, players map[string]*domain.Player) {
	for _, player := range players {
		for id, bet := range player.Bets {
			if bet.Terminal() && now >= safe.Add(bet.EndTime, s.retentionSec) {
				delete(player.Bets, id)
			}
		}
	}
}

// PurgeCells removes expired cells from the open set regardless of whether
// any bet referenced them (bets carry their own snapshot). Returns the ids
// removed.
func (s *SettlementEngine) PurgeCells(now int64, openCells map[string]*domain.PredictionCell) []string {
	var removed []string
	for id, cell := range openCells {
		if cell.Expired(now) {
			delete(openCells, id)
			removed = append(removed, id)
		}
	}
	return removed
}
