package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"grid_rush/internal/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The engine trusts the outer matchmaking layer for auth; origin
	// checks belong there too.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server hosts the websocket endpoint and the small operational surface.
type Server struct {
	hub  *Hub
	room *engine.Room
	http *http.Server
}

// NewServer builds the gin router around the hub.
func NewServer(addr string, hub *Hub, room *engine.Room) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		hub:  hub,
		room: room,
		http: &http.Server{Addr: addr, Handler: router},
	}

	router.GET("/ws", s.serveWS)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.room.GetStats())
	})

	return s
}

// serveWS upgrades the connection and binds it to a player id: an existing
// id from the query string reconnects, otherwise a fresh one is assigned.
func (s *Server) serveWS(c *gin.Context) {
	playerID := c.Query("player")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	client := newClient(s.hub, conn, playerID)
	s.hub.register <- client

	go client.writePump()
	go client.readPump()

	slog.Info("Client connected", "player", playerID)
}

// ListenAndServe blocks until the server fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	slog.Info("Gateway listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
