package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/shopspring/decimal"

	"grid_rush/internal/domain"
	"grid_rush/internal/engine"
	"grid_rush/internal/event"
	"grid_rush/internal/storage"
)

// simtest drives the room's simulated clock directly (no websockets, no
// wall time) and reports the house's realized edge over a long run.

type counter struct {
	byName   map[string]int
	accepted int
	rejected int
	won      int
	lost     int
	paidOut  decimal.Decimal
	journal  *storage.Journal
}

func (c *counter) Publish(ev event.Event) {
	c.byName[ev.Name()]++
	switch e := ev.(type) {
	case *event.BetAcceptedEvent:
		c.accepted++
	case *event.ErrorEvent:
		c.rejected++
	case *event.BetSettledEvent:
		if e.Status == domain.BetWon {
			c.won++
			c.paidOut = c.paidOut.Add(e.Payout)
		} else {
			c.lost++
		}
	}
	if c.journal != nil {
		c.journal.Publish(ev)
	}
}

func main() {
	ticks := flag.Int("ticks", 3600, "simulated seconds to run")
	bots := flag.Int("bots", 4, "number of bot players")
	seed := flag.Int64("seed", 42, "rng seed for price walk and bots")
	betEvery := flag.Int("bet-every", 5, "each bot bets once per N ticks")
	journalPath := flag.String("journal", "", "optional sqlite journal path")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	stats := &counter{byName: make(map[string]int), paidOut: decimal.Zero}
	if *journalPath != "" {
		j, err := storage.NewJournal(*journalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ journal: %v\n", err)
			os.Exit(1)
		}
		defer j.Close()
		stats.journal = j
	}

	room := engine.NewRoom(engine.Config{Seed: *seed}, nil, stats)

	botIDs := make([]string, *bots)
	for i := range botIDs {
		botIDs[i] = fmt.Sprintf("bot-%d", i)
		room.Apply(event.JoinRequest{PlayerID: botIDs[i]})
	}

	rng := rand.New(rand.NewSource(*seed))
	stake := decimal.NewFromInt(10)

	fmt.Printf("=== Grid Rush Simulation ===\n")
	fmt.Printf("ticks=%d bots=%d seed=%d\n\n", *ticks, *bots, *seed)

	for t := 0; t < *ticks; t++ {
		room.Step()

		if *betEvery > 0 && t%*betEvery == 0 {
			for _, id := range botIDs {
				cellID := pickCell(room, rng)
				if cellID == "" {
					continue
				}
				room.Apply(event.PlaceBetRequest{PlayerID: id, CellID: cellID, Amount: stake})
			}
		}
	}

	snap := room.GetStats()
	fmt.Printf("📊 Final state\n")
	fmt.Printf("   sim time:     %d\n", snap.SimTime)
	fmt.Printf("   price:        %.2f\n", snap.CurrentPrice)
	fmt.Printf("   open cells:   %d\n", snap.OpenCells)
	fmt.Printf("   events sent:  %d\n", snap.EventsSent)
	fmt.Println()

	settled := stats.won + stats.lost
	wagered := decimal.NewFromInt(int64(settled)).Mul(stake)
	fmt.Printf("🎲 Betting summary\n")
	fmt.Printf("   accepted: %d  rejected: %d\n", stats.accepted, stats.rejected)
	fmt.Printf("   won: %d  lost: %d\n", stats.won, stats.lost)
	if settled > 0 {
		edge := decimal.NewFromInt(1).Sub(stats.paidOut.Div(wagered))
		fmt.Printf("   wagered:  %s\n", wagered.StringFixed(2))
		fmt.Printf("   paid out: %s\n", stats.paidOut.StringFixed(2))
		fmt.Printf("   realized house edge: %s\n", edge.StringFixed(4))
	}
	fmt.Println()

	fmt.Printf("📨 Events by type\n")
	for name, n := range stats.byName {
		fmt.Printf("   %-14s %d\n", name, n)
	}

	if stats.journal != nil {
		counts, err := stats.journal.CountByName(context.Background())
		if err == nil {
			fmt.Printf("\n💾 Journal rows: %v\n", counts)
		}
	}
}

// pickCell chooses a random open cell; the bet may still be rejected if the
// cell expires before Apply runs, which the summary counts as a rejection.
func pickCell(room *engine.Room, rng *rand.Rand) string {
	ids := room.OpenCellIDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[rng.Intn(len(ids))]
}
