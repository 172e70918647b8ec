package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPlayer_CreditDebit(t *testing.T) {
	p := NewPlayer("alice", decimal.NewFromInt(10000))

	p.Debit(decimal.NewFromInt(100))
	if !p.Balance.Equal(decimal.NewFromInt(9900)) {
		t.Errorf("expected 9900, got %v", p.Balance)
	}

	p.Credit(decimal.NewFromInt(180))
	if !p.Balance.Equal(decimal.NewFromInt(10080)) {
		t.Errorf("expected 10080, got %v", p.Balance)
	}
}

func TestPlayer_NegativeBalancePanics(t *testing.T) {
	p := NewPlayer("alice", decimal.NewFromInt(50))

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on negative balance")
		}
	}()
	p.Debit(decimal.NewFromInt(100))
}

func TestPlayer_HasBetOnCell(t *testing.T) {
	p := NewPlayer("alice", decimal.NewFromInt(10000))
	bet := NewBet("bet-1", "alice", testCell(), decimal.NewFromInt(100))
	p.Bets[bet.ID] = bet

	if !p.HasBetOnCell("cell-1") {
		t.Error("expected bet on cell-1")
	}
	if p.HasBetOnCell("cell-2") {
		t.Error("unexpected bet on cell-2")
	}
}

func TestCandle_InvariantPanics(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c := Candle{Time: 1, Open: 100, High: 100.3, Low: 99.9, Close: 100.2}
		c.VerifyInvariant()
	})

	t.Run("High below body", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic")
			}
		}()
		c := Candle{Time: 1, Open: 100, High: 99, Low: 98, Close: 100.2}
		c.VerifyInvariant()
	})
}
