package currency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (r *ledgerRepo) BalanceOf(ctx context.Context, account string) (int64, error) {
	var balance int64

	err := r.q.QueryRowContext(ctx, `
		SELECT balance
		FROM accounts
		WHERE id = $1
	`, account).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}
