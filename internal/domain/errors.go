package domain

import (
	"errors"
)

// Placement rejections. All are participant-caused and recoverable: a
// rejected placement mutates nothing and must be resubmitted with corrected
// parameters.
var (
	ErrInvalidAmount       = errors.New("bet amount below minimum")
	ErrUnknownPlayer       = errors.New("unknown player")
	ErrCellExpired         = errors.New("cell is no longer open")
	ErrDuplicateBet        = errors.New("player already holds a bet on this cell")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// RejectCode maps a placement error to its stable wire code. Unrecognised
// errors map to "internal".
func RejectCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, ErrCellExpired):
		return "cell_expired"
	case errors.Is(err, ErrDuplicateBet):
		return "duplicate_bet"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "internal"
	}
}
