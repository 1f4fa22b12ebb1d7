package currency

import (
	"context"
	"fmt"

	"github.com/fastprodman/predictionmarket/internal/repos/currency"
)

func (r *ledgerRepo) decreaseBalance(ctx context.Context, account string, amount int64) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance - $2
		WHERE id = $1
		  AND balance >= $2
	`, account, amount)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("debit %s by %d: %w", account, amount, currency.ErrInsufficientBalance)
	}

	return nil
}
