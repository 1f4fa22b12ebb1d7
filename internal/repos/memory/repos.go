package memory

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos/currency"
	"github.com/fastprodman/predictionmarket/internal/repos/journal"
	"github.com/fastprodman/predictionmarket/internal/repos/positions"
)

type marketsRepo struct{ st *state }

func (r marketsRepo) Create(_ context.Context, m market.Market) error {
	if _, ok := r.st.markets[m.ID]; ok {
		return fmt.Errorf("create market %s: %w", m.ID, market.ErrAlreadyExists)
	}

	r.st.markets[m.ID] = m

	return nil
}

func (r marketsRepo) Get(_ context.Context, id market.ID) (market.Market, error) {
	m, ok := r.st.markets[id]
	if !ok {
		return market.Market{}, fmt.Errorf("market %s: %w", id, market.ErrNoSuchMarket)
	}

	return m, nil
}

// LockAndGet is Get: the unit of work already holds the store lock.
func (r marketsRepo) LockAndGet(ctx context.Context, id market.ID) (market.Market, error) {
	return r.Get(ctx, id)
}

func (r marketsRepo) Update(_ context.Context, m market.Market) error {
	cur, ok := r.st.markets[m.ID]
	if !ok {
		return fmt.Errorf("update market %s: %w", m.ID, market.ErrNoSuchMarket)
	}

	if cur.Resolution != market.Unresolved && cur.Resolution != m.Resolution {
		return fmt.Errorf("update market %s: %w", m.ID, market.ErrAlreadyResolved)
	}

	r.st.markets[m.ID] = m

	return nil
}

type positionsRepo struct{ st *state }

func (r positionsRepo) Open(_ context.Context, id market.LedgerID, marketID market.ID, index int, label string) error {
	if _, ok := r.st.ledgers[id]; ok {
		return fmt.Errorf("open ledger %s: %w", id, positions.ErrLedgerExists)
	}

	r.st.ledgers[id] = &ledger{
		market:   marketID,
		index:    index,
		label:    label,
		balances: make(map[string]int64),
	}

	return nil
}

func (r positionsRepo) ledger(id market.LedgerID) (*ledger, error) {
	l, ok := r.st.ledgers[id]
	if !ok {
		return nil, fmt.Errorf("ledger %s: %w", id, positions.ErrNoSuchLedger)
	}

	return l, nil
}

func (r positionsRepo) Credit(_ context.Context, id market.LedgerID, participant string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative credit %d", positions.ErrInvalidAmount, amount)
	}

	l, err := r.ledger(id)
	if err != nil {
		return err
	}

	bal := l.balances[participant]
	if bal > math.MaxInt64-amount {
		return fmt.Errorf("credit %s: %w", id, positions.ErrBalanceOverflow)
	}

	l.balances[participant] = bal + amount

	return nil
}

func (r positionsRepo) Drain(_ context.Context, id market.LedgerID, participant string) (int64, error) {
	l, err := r.ledger(id)
	if err != nil {
		return 0, err
	}

	bal := l.balances[participant]
	if bal != 0 {
		l.balances[participant] = 0
	}

	return bal, nil
}

func (r positionsRepo) BalanceOf(_ context.Context, id market.LedgerID, participant string) (int64, error) {
	l, err := r.ledger(id)
	if err != nil {
		return 0, err
	}

	return l.balances[participant], nil
}

func (r positionsRepo) Total(_ context.Context, id market.LedgerID) (int64, error) {
	l, err := r.ledger(id)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, b := range l.balances {
		total += b
	}

	return total, nil
}

type currencyRepo struct{ st *state }

func checkAmount(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount %d", currency.ErrInvalidAmount, amount)
	}

	return nil
}

func (r currencyRepo) Open(_ context.Context, account string) error {
	if _, ok := r.st.accounts[account]; !ok {
		r.st.accounts[account] = 0
	}

	return nil
}

func (r currencyRepo) BalanceOf(_ context.Context, account string) (int64, error) {
	return r.st.accounts[account], nil
}

func (r currencyRepo) credit(account string, amount int64) error {
	bal := r.st.accounts[account]
	if bal > math.MaxInt64-amount {
		return fmt.Errorf("credit %s: %w", account, currency.ErrBalanceOverflow)
	}

	r.st.accounts[account] = bal + amount

	return nil
}

func (r currencyRepo) debit(account string, amount int64) error {
	bal := r.st.accounts[account]
	if bal < amount {
		return fmt.Errorf("debit %s by %d: %w", account, amount, currency.ErrInsufficientBalance)
	}

	r.st.accounts[account] = bal - amount

	return nil
}

func (r currencyRepo) Transfer(_ context.Context, from, to string, amount int64) error {
	err := checkAmount(amount)
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	err = r.debit(from, amount)
	if err != nil {
		return err
	}

	return r.credit(to, amount)
}

func (r currencyRepo) Mint(_ context.Context, to string, amount int64) error {
	err := checkAmount(amount)
	if err != nil {
		return err
	}

	return r.credit(to, amount)
}

func (r currencyRepo) Burn(_ context.Context, from string, amount int64) error {
	err := checkAmount(amount)
	if err != nil {
		return err
	}

	return r.debit(from, amount)
}

type journalRepo struct{ st *state }

func (r journalRepo) Append(_ context.Context, e journal.Entry) error {
	for _, existing := range r.st.journal {
		if existing.ID == e.ID {
			return journal.ErrDuplicateEntry
		}
	}

	r.st.journal = append(r.st.journal, e)

	return nil
}

func (r journalRepo) ListByMarket(_ context.Context, id market.ID) ([]journal.Entry, error) {
	var out []journal.Entry

	for _, e := range r.st.journal {
		if e.MarketID == id {
			out = append(out, e)
		}
	}

	return slices.Clip(out), nil
}
