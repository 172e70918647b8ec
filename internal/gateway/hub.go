package gateway

import (
	"context"
	"encoding/json"
	"log/slog"

	"grid_rush/internal/event"
)

// envelope is the wire frame for every outbound message.
type envelope struct {
	Type string      `json:"type"`
	Data event.Event `json:"data"`
}

// Hub fans engine events out to websocket clients and feeds client requests
// into the room's inbox. It is the external collaborator of the engine: the
// room publishes and forgets, the hub decides who is listening.
type Hub struct {
	inbox chan<- event.Request

	clients  map[*Client]struct{}
	byPlayer map[string]*Client

	register   chan *Client
	unregister chan *Client
	events     chan event.Event
}

// NewHub wires a hub to the room's request inbox. A nil inbox is allowed
// when the room does not exist yet; bind it with BindInbox before Run.
func NewHub(inbox chan<- event.Request) *Hub {
	return &Hub{
		inbox:      inbox,
		clients:    make(map[*Client]struct{}),
		byPlayer:   make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan event.Event, 1024),
	}
}

// BindInbox attaches the room's request channel. Not safe after Run starts.
func (h *Hub) BindInbox(inbox chan<- event.Request) {
	h.inbox = inbox
}

// Publish implements engine.Publisher. It must never block the tick loop:
// if the hub can't keep up the event is dropped (clients resync on
// reconnect via the join snapshot).
func (h *Hub) Publish(ev event.Event) {
	select {
	case h.events <- ev:
	default:
		slog.Warn("Hub event buffer full, dropping event",
			"kind", ev.Name(), "seq", ev.GetSeq())
	}
}

// Run is the hub loop. Single goroutine; owns the client set.
func (h *Hub) Run(ctx context.Context) {
	slog.Info("Gateway hub started")

	for {
		select {
		case <-ctx.Done():
			slog.Info("Gateway hub stopping...")
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			// One active connection per player: a newer socket for the
			// same id replaces the old one without triggering a leave.
			if old, ok := h.byPlayer[client.playerID]; ok {
				old.replaced = true
				h.drop(old)
			}
			h.clients[client] = struct{}{}
			h.byPlayer[client.playerID] = client
			h.request(event.JoinRequest{PlayerID: client.playerID})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; !ok {
				continue
			}
			h.drop(client)
			if client.replaced {
				continue
			}
			// Explicit leave already told the room; a dropped socket
			// starts the reconnection grace window instead.
			if !client.left {
				h.request(event.LeaveRequest{PlayerID: client.playerID, Acknowledged: false})
			}

		case ev := <-h.events:
			h.route(ev)
		}
	}
}

func (h *Hub) route(ev event.Event) {
	msg, err := json.Marshal(envelope{Type: ev.Name(), Data: ev})
	if err != nil {
		slog.Error("Failed to marshal event", "kind", ev.Name(), "error", err)
		return
	}

	if target := ev.Target(); target != "" {
		if client, ok := h.byPlayer[target]; ok {
			h.send(client, msg)
		}
		return
	}

	for client := range h.clients {
		h.send(client, msg)
	}
}

// send delivers without blocking. A client too slow to drain its buffer is
// disconnected so the hub never stalls behind a dead consumer.
func (h *Hub) send(client *Client, msg []byte) {
	select {
	case client.sendCh <- msg:
	default:
		slog.Warn("Client too slow, dropping connection", "player", client.playerID)
		h.drop(client)
		h.request(event.LeaveRequest{PlayerID: client.playerID, Acknowledged: false})
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if h.byPlayer[client.playerID] == client {
		delete(h.byPlayer, client.playerID)
	}
	close(client.sendCh)
}

// request forwards into the room inbox without blocking the hub loop.
func (h *Hub) request(req event.Request) {
	select {
	case h.inbox <- req:
	default:
		slog.Warn("Room inbox full, dropping request", "kind", req.RequestKind())
	}
}
