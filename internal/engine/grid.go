package engine

import (
	"grid_rush/pkg/safe"

	"github.com/google/uuid"

	"grid_rush/internal/domain"
)

// GridGenerator derives one batch of wager-able cells per invocation: a
// vertical ladder of fixed-height price intervals around the current price,
// all sharing one future time column. Cells are emitted unconditionally,
// extreme odds included, so the grid a viewer sees is always fully
// populated.
type GridGenerator struct {
	pricing *PricingModel

	layers      int
	priceHeight float64
	durationSec int64
}

const (
	defaultLayers      = 12
	defaultPriceHeight = 1.0
	defaultDurationSec = 30
)

// NewGridGenerator applies defaults for zero-valued parameters.
func NewGridGenerator(pricing *PricingModel, layers int, priceHeight float64, durationSec int64) *GridGenerator {
	if layers == 0 {
		layers = defaultLayers
	}
	if priceHeight == 0 {
		priceHeight = defaultPriceHeight
	}
	if durationSec == 0 {
		durationSec = defaultDurationSec
	}
	return &GridGenerator{
		pricing:     pricing,
		layers:      layers,
		priceHeight: priceHeight,
		durationSec: durationSec,
	}
}

// DurationSec returns the fixed cell duration, which is also the generation
// cadence: columns form a non-overlapping forward ladder.
func (g *GridGenerator) DurationSec() int64 { return g.durationSec }

// Generate prices one column of cells starting at startTime, anchored on
// currentPrice. The base price snaps to the grid so adjacent columns share
// cell boundaries.
func (g *GridGenerator) Generate(currentPrice float64, startTime int64) []*domain.PredictionCell {
	base := snap(currentPrice, g.priceHeight)
	endTime := safe.Add(startTime, g.durationSec)
	t := g.pricing.Annualize(g.durationSec)

	cells := make([]*domain.PredictionCell, 0, g.layers)
	// Layers split symmetrically around the snapped price: half below the
	// snapped cell, the snapped cell itself, the rest above.
	for i := 0; i < g.layers; i++ {
		low := base + float64(i-g.layers/2)*g.priceHeight
		high := low + g.priceHeight

		p := g.pricing.Probability(currentPrice, low, high, t)
		cells = append(cells, &domain.PredictionCell{
			ID:          uuid.NewString(),
			StartTime:   startTime,
			EndTime:     endTime,
			LowPrice:    low,
			HighPrice:   high,
			Probability: p,
			Odds:        g.pricing.Odds(p),
		})
	}
	return cells
}

func snap(price, height float64) float64 {
	steps := int64(price / height)
	if price < 0 && price != float64(steps)*height {
		steps--
	}
	return float64(steps) * height
}
