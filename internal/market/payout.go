package market

import (
	"fmt"
	"math/big"
	"strings"
)

// PayoutPolicy turns a redeemed winning stake into a currency payout.
// A deployment uses exactly one policy for every market.
type PayoutPolicy interface {
	Name() string
	// Payout returns the currency owed for stake units of the winning
	// outcome, given the market's cumulative pools.
	Payout(stake int64, pools [2]int64, winner int) (int64, error)
	// AllowsLateDeposits reports whether deposits into a resolved market
	// are accepted.
	AllowsLateDeposits() bool
}

// Binary pays each winning position token one currency unit. Losing
// positions are worthless.
type Binary struct{}

func (Binary) Name() string { return "binary" }

func (Binary) Payout(stake int64, _ [2]int64, _ int) (int64, error) {
	if stake < 0 {
		return 0, fmt.Errorf("%w: negative stake", ErrInvalidArgument)
	}

	return stake, nil
}

func (Binary) AllowsLateDeposits() bool { return true }

// Proportional returns the stake plus a share of the losing pool
// proportional to the stake's weight in the winning pool, rounded down.
type Proportional struct{}

func (Proportional) Name() string { return "proportional" }

func (Proportional) Payout(stake int64, pools [2]int64, winner int) (int64, error) {
	if stake < 0 {
		return 0, fmt.Errorf("%w: negative stake", ErrInvalidArgument)
	}
	if winner != 0 && winner != 1 {
		return 0, fmt.Errorf("%w: winner index %d", ErrInvalidArgument, winner)
	}

	winning, losing := pools[winner], pools[1-winner]

	// Nobody staked the winning side: there is no stake to weight the
	// losing pool by, so it stays in custody.
	if stake == 0 || winning <= 0 || losing <= 0 {
		return stake, nil
	}

	share := new(big.Int).Mul(big.NewInt(stake), big.NewInt(losing))
	share.Quo(share, big.NewInt(winning))

	total := share.Add(share, big.NewInt(stake))
	if !total.IsInt64() {
		return 0, fmt.Errorf("%w: payout overflows", ErrInvalidArgument)
	}

	return total.Int64(), nil
}

func (Proportional) AllowsLateDeposits() bool { return false }

// ParsePolicy returns the policy registered under name.
func ParsePolicy(name string) (PayoutPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "binary":
		return Binary{}, nil
	case "proportional":
		return Proportional{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown settlement policy %q", ErrInvalidArgument, name)
	}
}
