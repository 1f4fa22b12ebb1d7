package currency

import (
	"context"
	"fmt"

	"github.com/fastprodman/predictionmarket/internal/infra/pgutils"
	"github.com/fastprodman/predictionmarket/internal/repos/currency"
)

func (r *ledgerRepo) increaseBalance(ctx context.Context, account string, amount int64) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO accounts (id, balance)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET balance = accounts.balance + EXCLUDED.balance
	`, account, amount)
	if err != nil {
		if pgutils.HasCode(err, pgutils.CodeNumericOutOfRange) {
			return fmt.Errorf("credit %s: %w", account, currency.ErrBalanceOverflow)
		}

		return fmt.Errorf("increase balance: %w", err)
	}

	return nil
}
