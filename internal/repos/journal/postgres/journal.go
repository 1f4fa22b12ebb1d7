package journal

import (
	"context"
	"fmt"

	"github.com/fastprodman/predictionmarket/internal/infra/pgutils"
	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos/journal"
)

var _ journal.Journal = (*journalRepo)(nil)

type journalRepo struct{ q pgutils.Querier }

func New(q pgutils.Querier) *journalRepo {
	return &journalRepo{q: q}
}

func (r *journalRepo) Append(ctx context.Context, e journal.Entry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO journal (id, market_id, participant, kind, outcome, stake, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, string(e.MarketID), e.Participant, string(e.Kind), e.Outcome, e.Stake, e.Amount, e.CreatedAt)
	if err != nil {
		if pgutils.HasCode(err, pgutils.CodeUniqueViolation) {
			return journal.ErrDuplicateEntry
		}

		return fmt.Errorf("insert journal entry: %w", err)
	}

	return nil
}

func (r *journalRepo) ListByMarket(ctx context.Context, id market.ID) ([]journal.Entry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, market_id, participant, kind, outcome, stake, amount, created_at
		FROM journal
		WHERE market_id = $1
		ORDER BY created_at, seq
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	var entries []journal.Entry

	for rows.Next() {
		var (
			e    journal.Entry
			mid  string
			kind string
		)

		err = rows.Scan(&e.ID, &mid, &e.Participant, &kind, &e.Outcome, &e.Stake, &e.Amount, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}

		e.MarketID = market.ID(mid)
		e.Kind = journal.Kind(kind)
		entries = append(entries, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}

	return entries, nil
}
