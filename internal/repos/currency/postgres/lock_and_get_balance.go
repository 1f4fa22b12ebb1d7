package currency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// lockAndGetBalance locks the account row for the rest of the transaction.
// A missing account reads as zero and locks nothing.
func (r *ledgerRepo) lockAndGetBalance(ctx context.Context, account string) (int64, error) {
	var balance int64

	err := r.q.QueryRowContext(ctx, `
		SELECT balance
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, account).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}
