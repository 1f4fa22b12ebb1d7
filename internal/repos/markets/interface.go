package markets

import (
	"context"

	"github.com/fastprodman/predictionmarket/internal/market"
)

// Markets is the market registry. Missing ids yield market.ErrNoSuchMarket,
// duplicate creation market.ErrAlreadyExists.
type Markets interface {
	Create(ctx context.Context, m market.Market) error
	Get(ctx context.Context, id market.ID) (market.Market, error)
	// LockAndGet reads the market and holds it exclusively until the
	// surrounding transaction ends.
	LockAndGet(ctx context.Context, id market.ID) (market.Market, error)
	// Update persists resolution, pools and assertion metadata. It refuses
	// to move a resolved market to a different resolution.
	Update(ctx context.Context, m market.Market) error
}
