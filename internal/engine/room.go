package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"grid_rush/internal/domain"
	"grid_rush/internal/event"
	"grid_rush/pkg/safe"
)

// Publisher receives every outbound state delta the room produces. The room
// never assumes anyone is listening; a nil publisher is valid.
type Publisher interface {
	Publish(ev event.Event)
}

// Config fixes the room's constants at construction. Zero values fall back
// to the engine defaults.
type Config struct {
	TickInterval time.Duration

	Seed       int64
	StartPrice float64
	Volatility float64
	WarmupSec  int
	HistoryCap int

	Sigma     float64
	HouseEdge float64

	CellDurationSec int64
	PriceHeight     float64
	Layers          int
	InitialColumns  int

	MinBet          decimal.Decimal
	StartingBalance decimal.Decimal

	GraceSec     int64
	RetentionSec int64
}

const (
	defaultTickInterval   = time.Second
	defaultInitialColumns = 16
	defaultGraceSec       = 60
)

// Room is the authoritative game engine for one instance: a single-threaded
// actor in which one goroutine owns the price process, the open cell set and
// all ledger state. Requests arrive through the inbox and are serialized
// against the tick pipeline; partial application is never observable.
type Room struct {
	cfg Config

	price  PriceSource
	grid   *GridGenerator
	ledger *Ledger
	settle *SettlementEngine
	pub    Publisher

	inbox chan event.Request

	openCells       map[string]*domain.PredictionCell
	nextBatchTime   int64
	nextColumnStart int64
	nextSeq         uint64

	// mu guards the stats snapshot only; the hotpath mutates everything
	// else without locks.
	mu    sync.RWMutex
	stats Stats
}

// Stats is a read-only snapshot for external surfaces (/stats).
type Stats struct {
	SimTime      int64   `json:"sim_time"`
	CurrentPrice float64 `json:"current_price"`
	Players      int     `json:"players"`
	OpenCells    int     `json:"open_cells"`
	Candles      int     `json:"candles"`
	EventsSent   uint64  `json:"events_sent"`
}

// NewRoom wires a room from its parts. A nil price source gets the
// production random walk; pub may be nil. The initial multi-column runway of
// future cells is generated here, before the first tick.
func NewRoom(cfg Config, price PriceSource, pub Publisher) *Room {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.InitialColumns == 0 {
		cfg.InitialColumns = defaultInitialColumns
	}
	if cfg.GraceSec == 0 {
		cfg.GraceSec = defaultGraceSec
	}

	if price == nil {
		price = NewRandomWalk(RandomWalkConfig{
			Seed:       cfg.Seed,
			StartPrice: cfg.StartPrice,
			Volatility: cfg.Volatility,
			WarmupSec:  cfg.WarmupSec,
			HistoryCap: cfg.HistoryCap,
		})
	}

	pricing := NewPricingModel(cfg.Sigma, cfg.HouseEdge)
	r := &Room{
		cfg:       cfg,
		price:     price,
		grid:      NewGridGenerator(pricing, cfg.Layers, cfg.PriceHeight, cfg.CellDurationSec),
		ledger:    NewLedger(cfg.StartingBalance, cfg.MinBet),
		settle:    NewSettlementEngine(cfg.RetentionSec),
		pub:       pub,
		inbox:     make(chan event.Request, 256),
		openCells: make(map[string]*domain.PredictionCell),
		nextSeq:   1,
	}

	// Pre-roll the forward ladder so a fresh room already has a runway of
	// future columns; the first live batch continues where this left off.
	now := price.CurrentTime()
	r.nextColumnStart = now
	for i := 0; i < cfg.InitialColumns; i++ {
		r.generateColumn()
	}
	r.nextBatchTime = safe.Add(now, r.grid.DurationSec())

	return r
}

// Inbox is where the gateway posts requests. Producers must never block the
// room; the channel is buffered.
func (r *Room) Inbox() chan<- event.Request {
	return r.inbox
}

// Run drives the room until ctx is done. This MUST be the only goroutine
// calling Step or Apply.
func (r *Room) Run(ctx context.Context) {
	slog.Info("Room started (single-writer hotpath)",
		"tick", r.cfg.TickInterval, "open_cells", len(r.openCells))

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", rec))
			r.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", rec))
		}
	}()

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Room stopping...")
			return
		case req := <-r.inbox:
			r.Apply(req)
		case <-ticker.C:
			r.Step()
		}
	}
}

// Step runs one full tick cycle: advance the price, publish the candle,
// extend the grid on its cadence, settle matured bets, purge expired
// bets/cells, and enforce disconnect grace deadlines. Exported so tests and
// the sim harness can drive simulated time directly.
func (r *Room) Step() {
	candle := r.price.Tick()
	now := candle.Time

	r.publish(&event.CandleEvent{BaseEvent: r.base(now), Candle: candle})

	if now >= r.nextBatchTime {
		cells := r.generateColumn()
		r.nextBatchTime = safe.Add(r.nextBatchTime, r.grid.DurationSec())
		r.publish(&event.CellsAddedEvent{BaseEvent: r.base(now), Cells: cells})
	}

	players := r.ledger.Players()
	for _, bet := range r.settle.Settle(candle, players) {
		owner, _ := r.ledger.Player(bet.OwnerID)
		balance := decimal.Zero
		if owner != nil {
			balance = owner.Balance
		}
		r.publish(&event.BetSettledEvent{
			BaseEvent: r.base(now),
			PlayerID:  bet.OwnerID,
			BetID:     bet.ID,
			CellID:    bet.CellID,
			Status:    bet.Status,
			Payout:    bet.Payout,
			Balance:   balance,
		})
	}

	r.settle.PurgeBets(now, players)
	if removed := r.settle.PurgeCells(now, r.openCells); len(removed) > 0 {
		r.publish(&event.CellsRemovedEvent{BaseEvent: r.base(now), CellIDs: removed})
	}

	r.enforceGrace(now)
	r.snapshotStats(now)
}

// Apply handles one inbound request on the room goroutine.
func (r *Room) Apply(req event.Request) {
	switch q := req.(type) {
	case event.PlaceBetRequest:
		r.handlePlaceBet(q)
	case event.JoinRequest:
		r.handleJoin(q)
	case event.LeaveRequest:
		r.handleLeave(q)
	default:
		slog.Warn("Unknown request type", slog.Any("kind", req.RequestKind()))
	}
}

func (r *Room) handlePlaceBet(q event.PlaceBetRequest) {
	now := r.price.CurrentTime()

	bet, err := r.ledger.PlaceBet(q.PlayerID, q.CellID, q.Amount, r.openCells)
	if err != nil {
		r.publish(&event.ErrorEvent{
			BaseEvent: r.base(now),
			PlayerID:  q.PlayerID,
			Code:      domain.RejectCode(err),
			Reason:    err.Error(),
		})
		return
	}

	owner, _ := r.ledger.Player(q.PlayerID)
	r.publish(&event.BetAcceptedEvent{
		BaseEvent: r.base(now),
		PlayerID:  q.PlayerID,
		Bet:       bet,
		Balance:   owner.Balance,
	})
}

func (r *Room) handleJoin(q event.JoinRequest) {
	now := r.price.CurrentTime()
	player, created := r.ledger.Join(q.PlayerID)
	if created {
		slog.Info("Player joined", "player", q.PlayerID)
	} else {
		slog.Info("Player reconnected", "player", q.PlayerID)
	}

	r.publish(&event.HistoryEvent{
		BaseEvent: r.base(now),
		PlayerID:  q.PlayerID,
		Candles:   r.price.History(),
	})

	cells := make([]*domain.PredictionCell, 0, len(r.openCells))
	for _, c := range r.openCells {
		cells = append(cells, c)
	}
	r.publish(&event.CellsAddedEvent{BaseEvent: r.base(now), PlayerID: q.PlayerID, Cells: cells})

	bets := make([]*domain.Bet, 0, len(player.Bets))
	for _, b := range player.Bets {
		bets = append(bets, b)
	}
	r.publish(&event.PlayerJoinedEvent{
		BaseEvent: r.base(now),
		PlayerID:  q.PlayerID,
		Balance:   player.Balance,
		Bets:      bets,
	})
}

func (r *Room) handleLeave(q event.LeaveRequest) {
	if q.Acknowledged {
		// Deliberate leave: no grace, record goes now.
		r.ledger.Remove(q.PlayerID)
		slog.Info("Player left", "player", q.PlayerID)
		return
	}
	r.ledger.Disconnect(q.PlayerID, r.price.CurrentTime())
	slog.Info("Player disconnected, grace window started",
		"player", q.PlayerID, "grace_sec", r.cfg.GraceSec)
}

// enforceGrace deletes players whose grace window elapsed without a
// reconnect. Runs inside the tick step, so deletion flows through the same
// single-writer mutation path as every other state change.
func (r *Room) enforceGrace(now int64) {
	for id, p := range r.ledger.Players() {
		if !p.Connected && p.DisconnectedAt > 0 && safe.Sub(now, p.DisconnectedAt) >= r.cfg.GraceSec {
			slog.Info("Grace window expired, removing player", "player", id)
			r.ledger.Remove(id)
		}
	}
}

func (r *Room) generateColumn() []*domain.PredictionCell {
	cells := r.grid.Generate(r.price.CurrentPrice(), r.nextColumnStart)
	for _, c := range cells {
		r.openCells[c.ID] = c
	}
	r.nextColumnStart = safe.Add(r.nextColumnStart, r.grid.DurationSec())
	return cells
}

func (r *Room) base(now int64) event.BaseEvent {
	b := event.BaseEvent{Seq: r.nextSeq, Ts: now}
	r.nextSeq++
	return b
}

func (r *Room) publish(ev event.Event) {
	if r.pub == nil {
		return
	}
	r.pub.Publish(ev)
}

func (r *Room) snapshotStats(now int64) {
	r.mu.Lock()
	r.stats = Stats{
		SimTime:      now,
		CurrentPrice: r.price.CurrentPrice(),
		Players:      len(r.ledger.Players()),
		OpenCells:    len(r.openCells),
		Candles:      len(r.price.History()),
		EventsSent:   r.nextSeq - 1,
	}
	r.mu.Unlock()
}

// OpenCellIDs lists every open cell id. Room goroutine only; harnesses that
// drive Step directly may call it between steps.
func (r *Room) OpenCellIDs() []string {
	ids := make([]string, 0, len(r.openCells))
	for id := range r.openCells {
		ids = append(ids, id)
	}
	return ids
}

// GetStats returns the latest stats snapshot (external read).
func (r *Room) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// DumpState writes the room's internal state to a file (post-mortem only).
func (r *Room) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		SimTime   int64                             `json:"sim_time"`
		NextSeq   uint64                            `json:"next_seq"`
		OpenCells map[string]*domain.PredictionCell `json:"open_cells"`
		Players   map[string]*domain.Player         `json:"players"`
	}{
		SimTime:   r.price.CurrentTime(),
		NextSeq:   r.nextSeq,
		OpenCells: r.openCells,
		Players:   r.ledger.Players(),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
