package domain

import (
	"github.com/shopspring/decimal"
)

// PredictionCell is one wager-able price/time rectangle offered by the
// house. Probability and odds are locked at generation time; the cell is
// immutable after creation.
type PredictionCell struct {
	ID          string          `json:"id"`
	StartTime   int64           `json:"start_time"`
	EndTime     int64           `json:"end_time"`
	LowPrice    float64         `json:"low_price"`
	HighPrice   float64         `json:"high_price"`
	Probability float64         `json:"probability"`
	Odds        decimal.Decimal `json:"odds"`
}

// Expired reports whether the cell's time window has fully passed.
func (c *PredictionCell) Expired(now int64) bool {
	return now > c.EndTime
}

// Contains reports whether price falls inside the cell's half-open price
// interval [LowPrice, HighPrice). Half-open, so a price exactly on a shared
// boundary belongs to exactly one of two adjacent cells.
func (c *PredictionCell) Contains(price float64) bool {
	return price >= c.LowPrice && price < c.HighPrice
}
