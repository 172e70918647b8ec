package engine

import (
	"math/rand"
	"time"

	"grid_rush/internal/domain"
	"grid_rush/pkg/safe"
)

// PriceSource produces the synthetic price series the room runs on. Tests
// substitute a scripted source to pin realized prices.
type PriceSource interface {
	// Tick advances simulated time by one second and returns the new candle.
	Tick() domain.Candle
	CurrentPrice() float64
	CurrentTime() int64
	// History returns the retained candle backlog, oldest first.
	History() []domain.Candle
}

// RandomWalk is the production price process: a bounded uniform random walk
// emitting one candle per simulated second. History is kept in a fixed
// capacity FIFO ring; access is purely chronological, so the oldest candle
// is always the one evicted.
type RandomWalk struct {
	rng  *rand.Rand
	now  int64
	last float64

	wickScale  float64
	volatility float64

	ring  []domain.Candle
	start int
	count int
}

// RandomWalkConfig sets the walk's tunables. Zero values fall back to the
// engine defaults.
type RandomWalkConfig struct {
	Seed       int64
	StartTime  int64
	StartPrice float64
	Volatility float64
	WarmupSec  int
	HistoryCap int
}

const (
	defaultStartPrice = 100.0
	defaultVolatility = 0.2
	defaultWarmupSec  = 3600
	defaultHistoryCap = 5000
	defaultWickScale  = 0.05
)

// NewRandomWalk constructs the walk and silently pre-rolls the warm-up
// period so a fresh room starts with non-trivial history.
func NewRandomWalk(cfg RandomWalkConfig) *RandomWalk {
	if cfg.StartPrice == 0 {
		cfg.StartPrice = defaultStartPrice
	}
	if cfg.Volatility == 0 {
		cfg.Volatility = defaultVolatility
	}
	if cfg.WarmupSec == 0 {
		cfg.WarmupSec = defaultWarmupSec
	}
	if cfg.HistoryCap == 0 {
		cfg.HistoryCap = defaultHistoryCap
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	w := &RandomWalk{
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		now:        cfg.StartTime,
		last:       cfg.StartPrice,
		wickScale:  defaultWickScale,
		volatility: cfg.Volatility,
		ring:       make([]domain.Candle, cfg.HistoryCap),
	}

	for i := 0; i < cfg.WarmupSec; i++ {
		w.Tick()
	}
	return w
}

// Tick advances the walk one second: open at the previous close, move by a
// uniform step scaled by volatility, then extend wicks beyond the body.
func (w *RandomWalk) Tick() domain.Candle {
	w.now = safe.Add(w.now, 1)

	open := w.last
	change := (w.rng.Float64() - 0.5) * w.volatility
	close := open + change

	high := max(open, close) + w.rng.Float64()*w.wickScale
	low := min(open, close) - w.rng.Float64()*w.wickScale

	c := domain.Candle{Time: w.now, Open: open, High: high, Low: low, Close: close}
	c.VerifyInvariant()

	w.last = close
	w.push(c)
	return c
}

func (w *RandomWalk) push(c domain.Candle) {
	if w.count < len(w.ring) {
		w.ring[(w.start+w.count)%len(w.ring)] = c
		w.count++
		return
	}
	// Full: overwrite the oldest slot and advance the start.
	w.ring[w.start] = c
	w.start = (w.start + 1) % len(w.ring)
}

// CurrentPrice returns the latest close.
func (w *RandomWalk) CurrentPrice() float64 { return w.last }

// CurrentTime returns the simulated clock in unix seconds.
func (w *RandomWalk) CurrentTime() int64 { return w.now }

// History returns a chronological copy of the retained candles.
func (w *RandomWalk) History() []domain.Candle {
	out := make([]domain.Candle, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.ring[(w.start+i)%len(w.ring)]
	}
	return out
}
