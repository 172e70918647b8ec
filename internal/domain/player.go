package domain

import (
	"github.com/shopspring/decimal"
)

// Player is one participant's ledger record: a balance plus all bets the
// player currently holds (pending and recently settled). A bet is reachable
// only through its owning player.
type Player struct {
	ID        string          `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	Connected bool            `json:"connected"`
	Bets      map[string]*Bet `json:"bets"`

	// DisconnectedAt is the simulated time of the last ungraceful
	// disconnect; zero while connected. The room deletes the player once
	// the grace window elapses without a reconnect.
	DisconnectedAt int64 `json:"-"`
}

// NewPlayer creates a connected player with the starting balance.
func NewPlayer(id string, startingBalance decimal.Decimal) *Player {
	return &Player{
		ID:        id,
		Balance:   startingBalance,
		Connected: true,
		Bets:      make(map[string]*Bet),
	}
}

// Credit adds amount to the balance.
func (p *Player) Credit(amount decimal.Decimal) {
	p.Balance = p.Balance.Add(amount)
	p.VerifyInvariant()
}

// Debit removes amount from the balance. Callers must have checked funds;
// going negative here is a programming error.
func (p *Player) Debit(amount decimal.Decimal) {
	p.Balance = p.Balance.Sub(amount)
	p.VerifyInvariant()
}

// HasBetOnCell reports whether the player already holds a bet referencing
// cellID.
func (p *Player) HasBetOnCell(cellID string) bool {
	for _, b := range p.Bets {
		if b.CellID == cellID {
			return true
		}
	}
	return false
}

// PendingBets returns the player's unsettled bets.
func (p *Player) PendingBets() []*Bet {
	var out []*Bet
	for _, b := range p.Bets {
		if b.Status == BetPending {
			out = append(out, b)
		}
	}
	return out
}

// VerifyInvariant panics if the ledger record is corrupt.
func (p *Player) VerifyInvariant() {
	if p.Balance.IsNegative() {
		panic("LEDGER_NEGATIVE_BALANCE")
	}
}
