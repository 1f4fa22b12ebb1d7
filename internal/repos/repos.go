// Package repos ties the market, position, currency and journal
// repositories into one unit of work.
package repos

import (
	"context"

	"github.com/fastprodman/predictionmarket/internal/repos/currency"
	"github.com/fastprodman/predictionmarket/internal/repos/journal"
	"github.com/fastprodman/predictionmarket/internal/repos/markets"
	"github.com/fastprodman/predictionmarket/internal/repos/positions"
)

// Tx exposes the repositories bound to one transaction.
type Tx interface {
	Markets() markets.Markets
	Positions() positions.Positions
	Currency() currency.Ledger
	Journal() journal.Journal
}

// Store runs units of work. Every write made through tx inside fn commits
// together if fn returns nil and is discarded otherwise.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// SequenceSource hands out monotonically increasing creation sequence
// numbers for markets whose caller did not supply one.
type SequenceSource interface {
	NextSequence(ctx context.Context) (uint64, error)
}
