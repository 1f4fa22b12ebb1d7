package positions

import (
	"context"
	"errors"

	"github.com/fastprodman/predictionmarket/internal/market"
)

var (
	ErrNoSuchLedger    = errors.New("no such position ledger")
	ErrLedgerExists    = errors.New("position ledger already exists")
	ErrInvalidAmount   = errors.New("invalid position amount")
	ErrBalanceOverflow = errors.New("position balance overflow")
)

// Positions stores outcome-token balances, one ledger per (market,
// outcome). Participants without an entry hold zero.
type Positions interface {
	Open(ctx context.Context, ledger market.LedgerID, marketID market.ID, index int, label string) error
	Credit(ctx context.Context, ledger market.LedgerID, participant string, amount int64) error
	// Drain zeroes the participant's balance and returns what it was.
	Drain(ctx context.Context, ledger market.LedgerID, participant string) (int64, error)
	BalanceOf(ctx context.Context, ledger market.LedgerID, participant string) (int64, error)
	// Total is the sum of all balances in the ledger.
	Total(ctx context.Context, ledger market.LedgerID) (int64, error)
}
