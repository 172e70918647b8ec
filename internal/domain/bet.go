package domain

import (
	"github.com/shopspring/decimal"
)

// BetStatus is the settlement state of a bet. Transitions move strictly
// forward: pending -> won | lost, never back.
type BetStatus string

const (
	BetPending BetStatus = "pending"
	BetWon     BetStatus = "won"
	BetLost    BetStatus = "lost"
)

// Bet is a wager on one prediction cell. It snapshots the cell's bounds and
// odds at placement time, so settling never depends on the cell still being
// alive.
type Bet struct {
	ID        string          `json:"id"`
	CellID    string          `json:"cell_id"`
	OwnerID   string          `json:"owner_id"`
	StartTime int64           `json:"start_time"`
	EndTime   int64           `json:"end_time"`
	LowPrice  float64         `json:"low_price"`
	HighPrice float64         `json:"high_price"`
	Amount    decimal.Decimal `json:"amount"`
	Odds      decimal.Decimal `json:"odds"`
	Payout    decimal.Decimal `json:"payout"`
	Status    BetStatus       `json:"status"`
}

// NewBet builds a pending bet owned by ownerID, snapshotting the cell.
func NewBet(id, ownerID string, cell *PredictionCell, amount decimal.Decimal) *Bet {
	return &Bet{
		ID:        id,
		CellID:    cell.ID,
		OwnerID:   ownerID,
		StartTime: cell.StartTime,
		EndTime:   cell.EndTime,
		LowPrice:  cell.LowPrice,
		HighPrice: cell.HighPrice,
		Amount:    amount,
		Odds:      cell.Odds,
		Status:    BetPending,
	}
}

// Matured reports whether the bet's window has ended and its outcome is
// determinable.
func (b *Bet) Matured(now int64) bool {
	return now >= b.EndTime
}

// Terminal reports whether the bet has been settled.
func (b *Bet) Terminal() bool {
	return b.Status == BetWon || b.Status == BetLost
}

// InRange reports whether close falls inside the bet's half-open price
// interval [LowPrice, HighPrice).
func (b *Bet) InRange(close float64) bool {
	return close >= b.LowPrice && close < b.HighPrice
}

// MarkWon settles the bet as won with payout = amount * odds.
// Settling a terminal bet twice is a programming error.
func (b *Bet) MarkWon() {
	if b.Status != BetPending {
		panic("BET_DOUBLE_SETTLEMENT")
	}
	b.Status = BetWon
	b.Payout = b.Amount.Mul(b.Odds)
}

// MarkLost settles the bet as lost with zero payout.
func (b *Bet) MarkLost() {
	if b.Status != BetPending {
		panic("BET_DOUBLE_SETTLEMENT")
	}
	b.Status = BetLost
	b.Payout = decimal.Zero
}
