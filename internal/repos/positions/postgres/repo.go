package positions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/predictionmarket/internal/infra/pgutils"
	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos/positions"
)

var _ positions.Positions = (*positionsRepo)(nil)

type positionsRepo struct{ q pgutils.Querier }

func New(q pgutils.Querier) *positionsRepo {
	return &positionsRepo{q: q}
}

func (r *positionsRepo) Open(ctx context.Context, ledger market.LedgerID, marketID market.ID, index int, label string) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO position_ledgers (id, market_id, outcome_index, label)
		VALUES ($1, $2, $3, $4)
	`, string(ledger), string(marketID), index, label)
	if err != nil {
		if pgutils.HasCode(err, pgutils.CodeUniqueViolation) {
			return fmt.Errorf("open ledger %s: %w", ledger, positions.ErrLedgerExists)
		}

		return fmt.Errorf("open ledger: %w", err)
	}

	return nil
}

func (r *positionsRepo) Credit(ctx context.Context, ledger market.LedgerID, participant string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative credit %d", positions.ErrInvalidAmount, amount)
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO positions (ledger_id, participant, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (ledger_id, participant) DO UPDATE
		SET balance = positions.balance + EXCLUDED.balance
	`, string(ledger), participant, amount)
	if err != nil {
		switch {
		case pgutils.HasCode(err, pgutils.CodeForeignKeyViolation):
			return fmt.Errorf("credit %s: %w", ledger, positions.ErrNoSuchLedger)
		case pgutils.HasCode(err, pgutils.CodeNumericOutOfRange):
			return fmt.Errorf("credit %s: %w", ledger, positions.ErrBalanceOverflow)
		}

		return fmt.Errorf("credit position: %w", err)
	}

	return nil
}

func (r *positionsRepo) Drain(ctx context.Context, ledger market.LedgerID, participant string) (int64, error) {
	var balance int64

	err := r.q.QueryRowContext(ctx, `
		SELECT balance
		FROM positions
		WHERE ledger_id = $1 AND participant = $2
		FOR UPDATE
	`, string(ledger), participant).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("lock position: %w", err)
	}

	if balance == 0 {
		return 0, nil
	}

	_, err = r.q.ExecContext(ctx, `
		UPDATE positions
		SET balance = 0
		WHERE ledger_id = $1 AND participant = $2
	`, string(ledger), participant)
	if err != nil {
		return 0, fmt.Errorf("burn position: %w", err)
	}

	return balance, nil
}

func (r *positionsRepo) BalanceOf(ctx context.Context, ledger market.LedgerID, participant string) (int64, error) {
	var balance int64

	err := r.q.QueryRowContext(ctx, `
		SELECT balance
		FROM positions
		WHERE ledger_id = $1 AND participant = $2
	`, string(ledger), participant).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("get position: %w", err)
	}

	return balance, nil
}

func (r *positionsRepo) Total(ctx context.Context, ledger market.LedgerID) (int64, error) {
	var total int64

	err := r.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(balance), 0)::BIGINT
		FROM positions
		WHERE ledger_id = $1
	`, string(ledger)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum positions: %w", err)
	}

	return total, nil
}
