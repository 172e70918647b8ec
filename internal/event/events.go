package event

import (
	"grid_rush/internal/domain"

	"github.com/shopspring/decimal"
)

// Kind identifies an outbound event variant.
type Kind uint16

const (
	KindHistory Kind = iota + 1
	KindCandle
	KindCellsAdded
	KindCellsRemoved
	KindBetAccepted
	KindBetSettled
	KindPlayerJoined
	KindError
)

// Event is one outbound state delta from the engine. Events targeted at a
// single participant return that player's id from Target; broadcast events
// return "".
type Event interface {
	GetKind() Kind
	GetSeq() uint64
	GetTs() int64
	// Name is the stable wire tag for the event.
	Name() string
	// Target is the recipient player id, or "" for broadcast.
	Target() string
}

// BaseEvent carries the fields common to every event: a per-room sequence
// number and the simulated timestamp of the tick that produced it.
type BaseEvent struct {
	Seq uint64 `json:"seq"`
	Ts  int64  `json:"ts"`
}

func (e BaseEvent) GetSeq() uint64 { return e.Seq }
func (e BaseEvent) GetTs() int64   { return e.Ts }
func (e BaseEvent) Target() string { return "" }

// HistoryEvent delivers the full candle backlog to one newly joined player.
type HistoryEvent struct {
	BaseEvent
	PlayerID string          `json:"player_id"`
	Candles  []domain.Candle `json:"candles"`
}

func (e HistoryEvent) GetKind() Kind  { return KindHistory }
func (e HistoryEvent) Name() string   { return "history" }
func (e HistoryEvent) Target() string { return e.PlayerID }

// CandleEvent broadcasts the newest candle, once per tick.
type CandleEvent struct {
	BaseEvent
	Candle domain.Candle `json:"candle"`
}

func (e CandleEvent) GetKind() Kind { return KindCandle }
func (e CandleEvent) Name() string  { return "price" }

// CellsAddedEvent announces a freshly generated batch of cells. Broadcast
// after each grid run; targeted at one player as the open-set snapshot on
// join.
type CellsAddedEvent struct {
	BaseEvent
	PlayerID string                   `json:"player_id,omitempty"`
	Cells    []*domain.PredictionCell `json:"cells"`
}

func (e CellsAddedEvent) GetKind() Kind  { return KindCellsAdded }
func (e CellsAddedEvent) Name() string   { return "cells_added" }
func (e CellsAddedEvent) Target() string { return e.PlayerID }

// CellsRemovedEvent announces expired cells purged from the open set.
type CellsRemovedEvent struct {
	BaseEvent
	CellIDs []string `json:"cell_ids"`
}

func (e CellsRemovedEvent) GetKind() Kind { return KindCellsRemoved }
func (e CellsRemovedEvent) Name() string  { return "cells_removed" }

// BetAcceptedEvent acknowledges a successful placement to its owner.
type BetAcceptedEvent struct {
	BaseEvent
	PlayerID string          `json:"player_id"`
	Bet      *domain.Bet     `json:"bet"`
	Balance  decimal.Decimal `json:"balance"`
}

func (e BetAcceptedEvent) GetKind() Kind  { return KindBetAccepted }
func (e BetAcceptedEvent) Name() string   { return "bet_accepted" }
func (e BetAcceptedEvent) Target() string { return e.PlayerID }

// BetSettledEvent reports a terminal resolution to the bet's owner.
type BetSettledEvent struct {
	BaseEvent
	PlayerID string           `json:"player_id"`
	BetID    string           `json:"bet_id"`
	CellID   string           `json:"cell_id"`
	Status   domain.BetStatus `json:"status"`
	Payout   decimal.Decimal  `json:"payout"`
	Balance  decimal.Decimal  `json:"balance"`
}

func (e BetSettledEvent) GetKind() Kind  { return KindBetSettled }
func (e BetSettledEvent) Name() string   { return "bet_settled" }
func (e BetSettledEvent) Target() string { return e.PlayerID }

// PlayerJoinedEvent is the join/reconnect snapshot: current balance plus any
// bets that survived the absence.
type PlayerJoinedEvent struct {
	BaseEvent
	PlayerID string          `json:"player_id"`
	Balance  decimal.Decimal `json:"balance"`
	Bets     []*domain.Bet   `json:"bets"`
}

func (e PlayerJoinedEvent) GetKind() Kind  { return KindPlayerJoined }
func (e PlayerJoinedEvent) Name() string   { return "joined" }
func (e PlayerJoinedEvent) Target() string { return e.PlayerID }

// ErrorEvent reports a rejected placement back to the requester.
type ErrorEvent struct {
	BaseEvent
	PlayerID string `json:"player_id"`
	Code     string `json:"code"`
	Reason   string `json:"reason"`
}

func (e ErrorEvent) GetKind() Kind  { return KindError }
func (e ErrorEvent) Name() string   { return "error" }
func (e ErrorEvent) Target() string { return e.PlayerID }
