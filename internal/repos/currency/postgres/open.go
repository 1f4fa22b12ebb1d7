package currency

import (
	"context"
	"fmt"
)

func (r *ledgerRepo) Open(ctx context.Context, account string) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO accounts (id, balance)
		VALUES ($1, 0)
		ON CONFLICT (id) DO NOTHING
	`, account)
	if err != nil {
		return fmt.Errorf("open account: %w", err)
	}

	return nil
}
