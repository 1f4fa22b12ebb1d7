package currency

import (
	"context"
	"errors"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// Ledger is the fungible currency backing deposits and payouts. Accounts
// that were never written read as zero.
//
// Authorization is the caller's job: the ledger moves funds for whoever
// holds it.
type Ledger interface {
	// Open creates an empty account if it does not exist yet.
	Open(ctx context.Context, account string) error
	BalanceOf(ctx context.Context, account string) (int64, error)
	Transfer(ctx context.Context, from, to string, amount int64) error
	Mint(ctx context.Context, to string, amount int64) error
	Burn(ctx context.Context, from string, amount int64) error
}
