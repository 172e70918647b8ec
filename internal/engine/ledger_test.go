package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"grid_rush/internal/domain"
)

func testOpenCells() map[string]*domain.PredictionCell {
	cell := &domain.PredictionCell{
		ID:        "cell-1",
		StartTime: 100,
		EndTime:   130,
		LowPrice:  99.5,
		HighPrice: 100.5,
		Odds:      decimal.RequireFromString("1.8"),
	}
	return map[string]*domain.PredictionCell{cell.ID: cell}
}

func TestLedger_PlaceBet_Success(t *testing.T) {
	l := NewLedger(decimal.Zero, decimal.Zero)
	l.Join("alice")

	bet, err := l.PlaceBet("alice", "cell-1", decimal.NewFromInt(100), testOpenCells())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bet.Status != domain.BetPending {
		t.Errorf("expected pending, got %v", bet.Status)
	}

	// Stake escrowed immediately, not at settlement.
	alice, _ := l.Player("alice")
	if !alice.Balance.Equal(decimal.NewFromInt(9900)) {
		t.Errorf("expected balance 9900, got %v", alice.Balance)
	}
	if len(alice.Bets) != 1 {
		t.Errorf("expected 1 bet, got %d", len(alice.Bets))
	}
}

func TestLedger_PlaceBet_Rejections(t *testing.T) {
	l := NewLedger(decimal.Zero, decimal.Zero)
	l.Join("alice")
	cells := testOpenCells()

	t.Run("InvalidAmount", func(t *testing.T) {
		_, err := l.PlaceBet("alice", "cell-1", decimal.NewFromInt(5), cells)
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("Amount check precedes player check", func(t *testing.T) {
		_, err := l.PlaceBet("nobody", "cell-1", decimal.NewFromInt(5), cells)
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount first, got %v", err)
		}
	})

	t.Run("UnknownPlayer", func(t *testing.T) {
		_, err := l.PlaceBet("nobody", "cell-1", decimal.NewFromInt(100), cells)
		if !errors.Is(err, domain.ErrUnknownPlayer) {
			t.Errorf("expected ErrUnknownPlayer, got %v", err)
		}
	})

	t.Run("CellExpired", func(t *testing.T) {
		_, err := l.PlaceBet("alice", "cell-gone", decimal.NewFromInt(100), cells)
		if !errors.Is(err, domain.ErrCellExpired) {
			t.Errorf("expected ErrCellExpired, got %v", err)
		}
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		_, err := l.PlaceBet("alice", "cell-1", decimal.NewFromInt(999999), cells)
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			t.Errorf("expected ErrInsufficientBalance, got %v", err)
		}
	})

	// No rejection above touched any state.
	alice, _ := l.Player("alice")
	if !alice.Balance.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("rejections mutated balance: %v", alice.Balance)
	}
	if len(alice.Bets) != 0 {
		t.Errorf("rejections created bets: %d", len(alice.Bets))
	}
}

func TestLedger_PlaceBet_Duplicate(t *testing.T) {
	l := NewLedger(decimal.Zero, decimal.Zero)
	l.Join("alice")
	cells := testOpenCells()

	if _, err := l.PlaceBet("alice", "cell-1", decimal.NewFromInt(100), cells); err != nil {
		t.Fatalf("first placement failed: %v", err)
	}

	_, err := l.PlaceBet("alice", "cell-1", decimal.NewFromInt(100), cells)
	if !errors.Is(err, domain.ErrDuplicateBet) {
		t.Errorf("expected ErrDuplicateBet, got %v", err)
	}

	// Two players may bet the same cell; only self-duplicates are blocked.
	l.Join("bob")
	if _, err := l.PlaceBet("bob", "cell-1", decimal.NewFromInt(100), cells); err != nil {
		t.Errorf("second player rejected: %v", err)
	}
}

func TestLedger_JoinReconnectRemove(t *testing.T) {
	l := NewLedger(decimal.Zero, decimal.Zero)

	p, created := l.Join("alice")
	if !created || !p.Connected {
		t.Fatal("expected new connected player")
	}

	l.Disconnect("alice", 500)
	if p.Connected || p.DisconnectedAt != 500 {
		t.Errorf("disconnect not recorded: %+v", p)
	}

	// Reconnect cancels the grace deadline.
	p2, created := l.Join("alice")
	if created || p2 != p {
		t.Error("reconnect must reuse the record")
	}
	if !p2.Connected || p2.DisconnectedAt != 0 {
		t.Errorf("grace deadline not cleared: %+v", p2)
	}

	l.Remove("alice")
	if _, ok := l.Player("alice"); ok {
		t.Error("player not removed")
	}
}
