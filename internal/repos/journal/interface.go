package journal

import (
	"context"
	"errors"
	"time"

	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/google/uuid"
)

var ErrDuplicateEntry = errors.New("duplicate journal entry")

type Kind string

const (
	KindDeposit Kind = "deposit"
	KindRedeem  Kind = "redeem"
)

// Entry records one currency movement between a participant and a
// market's custody account.
type Entry struct {
	ID          uuid.UUID
	MarketID    market.ID
	Participant string
	Kind        Kind
	Outcome     string
	// Stake is the number of position tokens minted (deposit) or burned
	// (redeem).
	Stake int64
	// Amount is the currency that moved.
	Amount    int64
	CreatedAt time.Time
}

// Journal is an append-only log of market currency movements.
type Journal interface {
	Append(ctx context.Context, e Entry) error
	ListByMarket(ctx context.Context, id market.ID) ([]Entry, error)
}
