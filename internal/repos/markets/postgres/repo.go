package markets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/predictionmarket/internal/infra/pgutils"
	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos/markets"
)

var _ markets.Markets = (*marketsRepo)(nil)

type marketsRepo struct{ q pgutils.Querier }

func New(q pgutils.Querier) *marketsRepo {
	return &marketsRepo{q: q}
}

const selectMarket = `
	SELECT id, description, sequence,
	       outcome1, outcome1_ledger, outcome2, outcome2_ledger,
	       resolution, pool1, pool2, asserted_by, created_at, resolved_at
	FROM markets
	WHERE id = $1
`

func (r *marketsRepo) Create(ctx context.Context, m market.Market) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO markets (
			id, description, sequence,
			outcome1, outcome1_ledger, outcome2, outcome2_ledger,
			resolution, pool1, pool2, asserted_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		string(m.ID), m.Description, int64(m.Sequence), //nolint:gosec // stored bit-for-bit
		m.Outcome1.Label, string(m.Outcome1.Ledger), m.Outcome2.Label, string(m.Outcome2.Ledger),
		int16(m.Resolution), m.Pools[0], m.Pools[1], m.AssertedBy, m.CreatedAt,
	)
	if err != nil {
		if pgutils.HasCode(err, pgutils.CodeUniqueViolation) {
			return fmt.Errorf("create market %s: %w", m.ID, market.ErrAlreadyExists)
		}

		return fmt.Errorf("create market: %w", err)
	}

	return nil
}

func (r *marketsRepo) Get(ctx context.Context, id market.ID) (market.Market, error) {
	return r.scan(r.q.QueryRowContext(ctx, selectMarket, string(id)), id)
}

func (r *marketsRepo) LockAndGet(ctx context.Context, id market.ID) (market.Market, error) {
	return r.scan(r.q.QueryRowContext(ctx, selectMarket+" FOR UPDATE", string(id)), id)
}

func (r *marketsRepo) scan(row *sql.Row, id market.ID) (market.Market, error) {
	var (
		m          market.Market
		mid        string
		seq        int64
		ledger1    string
		ledger2    string
		resolution int16
		resolvedAt sql.NullTime
	)

	err := row.Scan(
		&mid, &m.Description, &seq,
		&m.Outcome1.Label, &ledger1, &m.Outcome2.Label, &ledger2,
		&resolution, &m.Pools[0], &m.Pools[1], &m.AssertedBy, &m.CreatedAt, &resolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return market.Market{}, fmt.Errorf("market %s: %w", id, market.ErrNoSuchMarket)
		}

		return market.Market{}, fmt.Errorf("get market: %w", err)
	}

	m.ID = market.ID(mid)
	m.Sequence = uint64(seq) //nolint:gosec // stored bit-for-bit
	m.Outcome1.Ledger = market.LedgerID(ledger1)
	m.Outcome2.Ledger = market.LedgerID(ledger2)
	m.Resolution = market.Resolution(resolution)
	if resolvedAt.Valid {
		m.ResolvedAt = resolvedAt.Time
	}

	return m, nil
}

func (r *marketsRepo) Update(ctx context.Context, m market.Market) error {
	var resolvedAt sql.NullTime
	if !m.ResolvedAt.IsZero() {
		resolvedAt = sql.NullTime{Time: m.ResolvedAt, Valid: true}
	}

	res, err := r.q.ExecContext(ctx, `
		UPDATE markets
		SET resolution = $2,
		    pool1 = $3,
		    pool2 = $4,
		    asserted_by = $5,
		    resolved_at = $6
		WHERE id = $1
		  AND (resolution = 0 OR resolution = $2)
	`, string(m.ID), int16(m.Resolution), m.Pools[0], m.Pools[1], m.AssertedBy, resolvedAt)
	if err != nil {
		return fmt.Errorf("update market: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected > 0 {
		return nil
	}

	var exists bool

	err = r.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM markets WHERE id = $1)
	`, string(m.ID)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}

	if !exists {
		return fmt.Errorf("update market %s: %w", m.ID, market.ErrNoSuchMarket)
	}

	return fmt.Errorf("update market %s: %w", m.ID, market.ErrAlreadyResolved)
}
