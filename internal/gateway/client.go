package gateway

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"grid_rush/internal/event"
)

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// clientMessage is the tagged inbound frame. Unknown types are logged and
// dropped; the closed request set on the engine side stays exhaustive.
type clientMessage struct {
	Type   string          `json:"type"`
	CellID string          `json:"cellId"`
	Amount decimal.Decimal `json:"amount"`
}

// Client is one websocket connection bound to a player id.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	sendCh chan []byte

	playerID string
	left     bool // explicit leave message seen
	replaced bool // superseded by a newer connection for the same player
}

func newClient(hub *Hub, conn *websocket.Conn, playerID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		sendCh:   make(chan []byte, 64),
		playerID: playerID,
	}
}

// readPump consumes inbound frames until the connection dies. It doubles as
// the connection watchdog via the pong deadline.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		slog.Info("Client disconnected", "player", c.playerID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket read error", "player", c.playerID, "error", err)
			}
			return
		}
		c.handleMessage(raw)
	}
}

func (c *Client) handleMessage(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		slog.Warn("Malformed client message", "player", c.playerID, "error", err)
		return
	}

	switch msg.Type {
	case "place_bet":
		c.hub.request(event.PlaceBetRequest{
			PlayerID: c.playerID,
			CellID:   msg.CellID,
			Amount:   msg.Amount,
		})
	case "leave":
		c.left = true
		c.hub.request(event.LeaveRequest{PlayerID: c.playerID, Acknowledged: true})
		c.conn.Close()
	default:
		slog.Warn("Unknown client message type", "player", c.playerID, "type", msg.Type)
	}
}

// writePump drains the send buffer and keeps the connection alive with
// pings. One writer per connection; gorilla allows no concurrent writes.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub dropped us.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
