package event

import (
	"github.com/shopspring/decimal"
)

// RequestKind identifies an inbound request variant.
type RequestKind uint16

const (
	ReqPlaceBet RequestKind = iota + 1
	ReqJoin
	ReqLeave
)

// Request is one inbound mutation request for the room's inbox. The room
// applies requests strictly serialized against its tick loop; results come
// back as targeted events through the publisher.
type Request interface {
	RequestKind() RequestKind
}

// PlaceBetRequest asks to wager amount on an open cell.
type PlaceBetRequest struct {
	PlayerID string          `json:"player_id"`
	CellID   string          `json:"cell_id"`
	Amount   decimal.Decimal `json:"amount"`
}

func (PlaceBetRequest) RequestKind() RequestKind { return ReqPlaceBet }

// JoinRequest creates the player on first join or reconnects an existing
// one, cancelling any pending grace deletion.
type JoinRequest struct {
	PlayerID string `json:"player_id"`
}

func (JoinRequest) RequestKind() RequestKind { return ReqJoin }

// LeaveRequest marks a disconnect. Acknowledged leaves delete the player
// immediately; ungraceful ones start the reconnection grace window.
type LeaveRequest struct {
	PlayerID     string `json:"player_id"`
	Acknowledged bool   `json:"acknowledged"`
}

func (LeaveRequest) RequestKind() RequestKind { return ReqLeave }
