package engine

import (
	"math"

	"grid_rush/pkg/quant"

	"github.com/shopspring/decimal"
)

// PricingModel quotes win probability and payout odds for a price interval
// at a given time-to-maturity. The price is modeled as an arithmetic
// Gaussian diffusion with zero drift: stdDev = sigma * sqrt(T), with sigma
// an absolute price-unit volatility per sqrt(year). Pure functions of their
// inputs, so every quoted cell is reproducible.
type PricingModel struct {
	// Sigma is tuned high relative to textbook annual vols because
	// maturities here are tens of seconds, not months.
	Sigma          float64
	HouseEdge      float64
	SecondsPerYear float64
}

const (
	defaultSigma     = 300.0
	defaultHouseEdge = 0.05
	secondsPerYear   = 31_536_000.0

	minProb = 0.01
	maxProb = 0.99
)

// NewPricingModel applies defaults for zero-valued fields.
func NewPricingModel(sigma, houseEdge float64) *PricingModel {
	if sigma == 0 {
		sigma = defaultSigma
	}
	if houseEdge == 0 {
		houseEdge = defaultHouseEdge
	}
	return &PricingModel{
		Sigma:          sigma,
		HouseEdge:      houseEdge,
		SecondsPerYear: secondsPerYear,
	}
}

// Annualize converts a maturity in seconds to year fractions.
func (m *PricingModel) Annualize(durationSec int64) float64 {
	return float64(durationSec) / m.SecondsPerYear
}

// Probability returns P(low <= S_T < high) for current price s and
// time-to-maturity t in years, clamped to [0, 1].
func (m *PricingModel) Probability(s, low, high, t float64) float64 {
	stdDev := m.Sigma * math.Sqrt(t)
	return quant.IntervalProb(s, stdDev, low, high)
}

// Odds converts a win probability into the quoted payout multiplier:
// fair odds (1/p) discounted by the house edge, rounded to two decimals.
// The probability is clamped to [0.01, 0.99] first, which bounds the quote
// to [1.01, 99].
func (m *PricingModel) Odds(p float64) decimal.Decimal {
	p = quant.Clamp(p, minProb, maxProb)
	if p <= minProb {
		return decimal.NewFromInt(99)
	}
	if p >= maxProb {
		return decimal.RequireFromString("1.01")
	}
	raw := quant.Round2((1 / p) * (1 - m.HouseEdge))
	// The edge discount can push near-certain cells below the floor.
	if raw < 1.01 {
		return decimal.RequireFromString("1.01")
	}
	return decimal.NewFromFloat(raw)
}
