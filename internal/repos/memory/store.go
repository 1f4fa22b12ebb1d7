// Package memory is an in-process market store for tests.
//
// Every unit of work runs against a private copy of the state under a
// store-wide lock; the copy replaces the live state only when the work
// succeeds, so failed operations leave nothing behind. Each unit of work
// costs O(state), which suits test fixtures and nothing larger.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos"
	"github.com/fastprodman/predictionmarket/internal/repos/currency"
	"github.com/fastprodman/predictionmarket/internal/repos/journal"
	"github.com/fastprodman/predictionmarket/internal/repos/markets"
	"github.com/fastprodman/predictionmarket/internal/repos/positions"
)

var (
	_ repos.Store          = (*Store)(nil)
	_ repos.SequenceSource = (*Store)(nil)
)

type ledger struct {
	market   market.ID
	index    int
	label    string
	balances map[string]int64
}

type state struct {
	markets  map[market.ID]market.Market
	ledgers  map[market.LedgerID]*ledger
	accounts map[string]int64
	journal  []journal.Entry
}

func newState() *state {
	return &state{
		markets:  make(map[market.ID]market.Market),
		ledgers:  make(map[market.LedgerID]*ledger),
		accounts: make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := &state{
		markets:  maps.Clone(s.markets),
		ledgers:  make(map[market.LedgerID]*ledger, len(s.ledgers)),
		accounts: maps.Clone(s.accounts),
		journal:  slices.Clone(s.journal),
	}

	for id, l := range s.ledgers {
		cl := *l
		cl.balances = maps.Clone(l.balances)
		c.ledgers[id] = &cl
	}

	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
	seq   atomic.Uint64
}

func New() *Store {
	return &Store{state: newState()}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repos.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := ctx.Err()
	if err != nil {
		return err
	}

	work := s.state.clone()

	err = fn(ctx, &tx{st: work})
	if err != nil {
		return err
	}

	s.state = work

	return nil
}

func (s *Store) NextSequence(context.Context) (uint64, error) {
	return s.seq.Add(1), nil
}

type tx struct{ st *state }

func (t *tx) Markets() markets.Markets       { return marketsRepo{t.st} }
func (t *tx) Positions() positions.Positions { return positionsRepo{t.st} }
func (t *tx) Currency() currency.Ledger      { return currencyRepo{t.st} }
func (t *tx) Journal() journal.Journal       { return journalRepo{t.st} }
