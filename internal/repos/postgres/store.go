// Package postgres runs market units of work inside PostgreSQL
// transactions.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/predictionmarket/internal/infra/pgutils"
	"github.com/fastprodman/predictionmarket/internal/repos"
	"github.com/fastprodman/predictionmarket/internal/repos/currency"
	pgcurrency "github.com/fastprodman/predictionmarket/internal/repos/currency/postgres"
	"github.com/fastprodman/predictionmarket/internal/repos/journal"
	pgjournal "github.com/fastprodman/predictionmarket/internal/repos/journal/postgres"
	"github.com/fastprodman/predictionmarket/internal/repos/markets"
	pgmarkets "github.com/fastprodman/predictionmarket/internal/repos/markets/postgres"
	"github.com/fastprodman/predictionmarket/internal/repos/positions"
	pgpositions "github.com/fastprodman/predictionmarket/internal/repos/positions/postgres"
)

var (
	_ repos.Store          = (*Store)(nil)
	_ repos.SequenceSource = (*Store)(nil)
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repos.Tx) error) error {
	return pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(ctx, bind(tx))
	})
}

// NextSequence draws from market_sequence. Sequence values are never
// rolled back, so gaps are possible.
func (s *Store) NextSequence(ctx context.Context) (uint64, error) {
	var seq int64

	err := s.db.QueryRowContext(ctx, `SELECT nextval('market_sequence')`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next market sequence: %w", err)
	}

	return uint64(seq), nil //nolint:gosec // sequence starts at 1
}

type txRepos struct {
	markets   markets.Markets
	positions positions.Positions
	currency  currency.Ledger
	journal   journal.Journal
}

func bind(q pgutils.Querier) *txRepos {
	return &txRepos{
		markets:   pgmarkets.New(q),
		positions: pgpositions.New(q),
		currency:  pgcurrency.New(q),
		journal:   pgjournal.New(q),
	}
}

func (t *txRepos) Markets() markets.Markets       { return t.markets }
func (t *txRepos) Positions() positions.Positions { return t.positions }
func (t *txRepos) Currency() currency.Ledger      { return t.currency }
func (t *txRepos) Journal() journal.Journal       { return t.journal }
