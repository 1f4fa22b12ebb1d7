package currency

import (
	"context"
	"fmt"

	"github.com/fastprodman/predictionmarket/internal/repos/currency"
)

func checkAmount(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount %d", currency.ErrInvalidAmount, amount)
	}

	return nil
}

// Transfer moves amount from one account to another. Both rows are locked
// in id order so concurrent opposite transfers cannot deadlock.
func (r *ledgerRepo) Transfer(ctx context.Context, from, to string, amount int64) error {
	err := checkAmount(amount)
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	first, second := from, to
	if second < first {
		first, second = second, first
	}

	balances := make(map[string]int64, 2)
	for _, acct := range []string{first, second} {
		bal, lerr := r.lockAndGetBalance(ctx, acct)
		if lerr != nil {
			return lerr
		}
		balances[acct] = bal
	}

	if balances[from] < amount {
		return fmt.Errorf("transfer %d from %s: %w", amount, from, currency.ErrInsufficientBalance)
	}

	if from == to {
		return nil
	}

	err = r.decreaseBalance(ctx, from, amount)
	if err != nil {
		return err
	}

	return r.increaseBalance(ctx, to, amount)
}

func (r *ledgerRepo) Mint(ctx context.Context, to string, amount int64) error {
	err := checkAmount(amount)
	if err != nil {
		return err
	}

	return r.increaseBalance(ctx, to, amount)
}

func (r *ledgerRepo) Burn(ctx context.Context, from string, amount int64) error {
	err := checkAmount(amount)
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	return r.decreaseBalance(ctx, from, amount)
}
