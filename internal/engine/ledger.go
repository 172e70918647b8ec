package engine

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"grid_rush/internal/domain"
)

// Ledger owns every player record and, through them, every bet. All
// mutation happens on the room's goroutine; the ledger itself holds no
// locks.
type Ledger struct {
	players map[string]*domain.Player

	startingBalance decimal.Decimal
	minBet          decimal.Decimal
}

// NewLedger creates an empty ledger. Zero-valued limits fall back to the
// engine defaults (starting balance 10000, minimum bet 10).
func NewLedger(startingBalance, minBet decimal.Decimal) *Ledger {
	if startingBalance.IsZero() {
		startingBalance = decimal.NewFromInt(10000)
	}
	if minBet.IsZero() {
		minBet = decimal.NewFromInt(10)
	}
	return &Ledger{
		players:         make(map[string]*domain.Player),
		startingBalance: startingBalance,
		minBet:          minBet,
	}
}

// Join creates the player on first join, or reconnects an existing record,
// cancelling any running grace window. Returns the player and whether the
// record is new.
func (l *Ledger) Join(playerID string) (*domain.Player, bool) {
	if p, ok := l.players[playerID]; ok {
		p.Connected = true
		p.DisconnectedAt = 0
		return p, false
	}
	p := domain.NewPlayer(playerID, l.startingBalance)
	l.players[playerID] = p
	return p, true
}

// Disconnect marks an ungraceful disconnect at simulated time now. In-flight
// bets keep settling against the engine clock.
func (l *Ledger) Disconnect(playerID string, now int64) {
	p, ok := l.players[playerID]
	if !ok {
		return
	}
	p.Connected = false
	p.DisconnectedAt = now
}

// Remove deletes the player record outright. Still-pending bets go with it;
// their escrowed stakes are lost with no counterparty credit.
func (l *Ledger) Remove(playerID string) {
	p, ok := l.players[playerID]
	if !ok {
		return
	}
	if pending := p.PendingBets(); len(pending) > 0 {
		slog.Warn("Removing player with pending bets, stakes orphaned",
			"player", playerID, "pending", len(pending))
	}
	delete(l.players, playerID)
}

// Player returns the record for playerID, if any.
func (l *Ledger) Player(playerID string) (*domain.Player, bool) {
	p, ok := l.players[playerID]
	return p, ok
}

// Players exposes the full record set to the settlement pass. The caller
// must be on the room goroutine.
func (l *Ledger) Players() map[string]*domain.Player {
	return l.players
}

// PlaceBet validates and applies one placement against the open cell set.
// On success the stake is debited immediately (escrowed for the bet's
// lifetime) and the bet snapshot is inserted into the player's set. On any
// rejection no state changes.
func (l *Ledger) PlaceBet(playerID, cellID string, amount decimal.Decimal, openCells map[string]*domain.PredictionCell) (*domain.Bet, error) {
	if amount.LessThan(l.minBet) {
		return nil, domain.ErrInvalidAmount
	}

	player, ok := l.players[playerID]
	if !ok {
		return nil, domain.ErrUnknownPlayer
	}

	cell, ok := openCells[cellID]
	if !ok {
		return nil, domain.ErrCellExpired
	}

	if player.HasBetOnCell(cellID) {
		return nil, domain.ErrDuplicateBet
	}

	if player.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientBalance
	}

	player.Debit(amount)
	bet := domain.NewBet(uuid.NewString(), playerID, cell, amount)
	player.Bets[bet.ID] = bet
	return bet, nil
}
