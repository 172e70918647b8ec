package engine

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPricingModel_ProbabilityBounds(t *testing.T) {
	m := NewPricingModel(0, 0)
	tm := m.Annualize(30)

	for offset := -20.0; offset <= 20.0; offset += 0.5 {
		p := m.Probability(100, 100+offset, 101+offset, tm)
		if p < 0 || p > 1 {
			t.Fatalf("probability out of [0,1] at offset %v: %v", offset, p)
		}
	}
}

func TestPricingModel_MonotoneInDistance(t *testing.T) {
	m := NewPricingModel(0, 0)
	tm := m.Annualize(30)
	s := 100.0

	// Probability is non-increasing as the interval midpoint moves away
	// from the current price.
	prev := math.Inf(1)
	for i := 0; i < 15; i++ {
		low := s - 0.5 + float64(i) // midpoints at s, s+1, s+2, ...
		p := m.Probability(s, low, low+1, tm)
		if p > prev+1e-12 {
			t.Fatalf("probability increased with distance at layer %d: %v > %v", i, p, prev)
		}
		prev = p
	}
}

func TestPricingModel_Symmetry(t *testing.T) {
	m := NewPricingModel(0, 0)
	tm := m.Annualize(30)
	s := 100.0

	for d := 0.5; d <= 10; d += 0.5 {
		above := m.Probability(s, s+d, s+d+1, tm)
		below := m.Probability(s, s-d-1, s-d, tm)
		if math.Abs(above-below) > 1e-9 {
			t.Fatalf("asymmetric at distance %v: above=%v below=%v", d, above, below)
		}
	}
}

func TestPricingModel_OddsLaw(t *testing.T) {
	m := NewPricingModel(0, 0)
	minOdds := decimal.RequireFromString("1.01")
	maxOdds := decimal.NewFromInt(99)

	for p := 0.001; p <= 0.999; p += 0.001 {
		odds := m.Odds(p)
		if odds.LessThan(minOdds) {
			t.Fatalf("odds below 1.01 at p=%v: %v", p, odds)
		}
		if odds.GreaterThan(maxOdds) {
			t.Fatalf("odds above 99 at p=%v: %v", p, odds)
		}
		// House retains positive expectation over the quotable range.
		if p <= 0.99 {
			ev := odds.Mul(decimal.NewFromFloat(p))
			if ev.GreaterThan(decimal.NewFromInt(1)) {
				t.Fatalf("odds*p > 1 at p=%v: %v", p, ev)
			}
		}
	}
}

func TestPricingModel_OddsClamps(t *testing.T) {
	m := NewPricingModel(0, 0)

	if got := m.Odds(0.001); !got.Equal(decimal.NewFromInt(99)) {
		t.Errorf("p<=0.01: expected odds 99, got %v", got)
	}
	if got := m.Odds(0.995); !got.Equal(decimal.RequireFromString("1.01")) {
		t.Errorf("p>=0.99: expected odds 1.01, got %v", got)
	}
}

func TestPricingModel_OddsDiscountsFair(t *testing.T) {
	m := NewPricingModel(0, 0)

	// p=0.5: fair odds 2.0, with 5% edge -> 1.90.
	if got := m.Odds(0.5); !got.Equal(decimal.RequireFromString("1.9")) {
		t.Errorf("expected 1.9, got %v", got)
	}
	// p=0.25: fair odds 4.0 -> 3.80.
	if got := m.Odds(0.25); !got.Equal(decimal.RequireFromString("3.8")) {
		t.Errorf("expected 3.8, got %v", got)
	}
}
