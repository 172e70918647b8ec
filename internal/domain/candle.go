package domain

// Candle is one OHLC sample of the synthetic price, covering a single
// one-second tick. Immutable once emitted by the price process.
type Candle struct {
	Time  int64   `json:"time"` // unix seconds, simulated clock
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// VerifyInvariant panics if the candle violates its shape constraints.
// A malformed candle is a programming error in the price process, not a
// recoverable condition.
func (c Candle) VerifyInvariant() {
	if c.High < c.Open || c.High < c.Close {
		panic("CANDLE_HIGH_BELOW_BODY")
	}
	if c.Low > c.Open || c.Low > c.Close {
		panic("CANDLE_LOW_ABOVE_BODY")
	}
}
