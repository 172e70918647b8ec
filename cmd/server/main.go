package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grid_rush/internal/app"
	"grid_rush/internal/engine"
	"grid_rush/internal/event"
	"grid_rush/internal/gateway"
	"grid_rush/internal/infra"

	_ "net/http/pprof" // For pprof profiling
)

// fanout tees every room event to all sinks in order. The hub must come
// first so player-facing delivery is never delayed by the journal.
type fanout []engine.Publisher

func (f fanout) Publish(ev event.Event) {
	for _, p := range f {
		p.Publish(ev)
	}
}

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Shutdown()

	cfg := bootstrap.Config
	infra.PrintBanner(cfg)

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Wire the room behind its publishers. The hub is created first so
	// the room can publish into it from tick one; the room owns the inbox.
	hub := gateway.NewHub(nil)

	sinks := fanout{hub}
	if bootstrap.Journal != nil {
		sinks = append(sinks, bootstrap.Journal)
	}

	room := engine.NewRoom(bootstrap.EngineConfig(), nil, sinks)
	hub.BindInbox(room.Inbox())

	// 5. Start the hotpath loop and the gateway hub
	go room.Run(ctx)
	slog.InfoContext(ctx, "✅ Room (Hotpath) started")

	go hub.Run(ctx)
	slog.InfoContext(ctx, "✅ Gateway hub started")

	// 6. HTTP/WebSocket front
	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	server := gateway.NewServer(addr, hub, room)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			slog.Error("❌ HTTP server failed", slog.Any("error", err))
			stop()
		}
	}()
	slog.InfoContext(ctx, "✅ WebSocket gateway listening", slog.String("addr", addr))

	slog.InfoContext(ctx, "✨ Grid Rush fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", slog.Any("error", err))
	}
}
