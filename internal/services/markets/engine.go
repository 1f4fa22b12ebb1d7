// Package markets runs market operations: creation, deposits, assertion
// and redemption. Every operation is a single unit of work against the
// store, so a failure at any step leaves markets, positions and currency
// balances unchanged.
package markets

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fastprodman/predictionmarket/internal/auth"
	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos"
	"github.com/fastprodman/predictionmarket/internal/repos/journal"
	"github.com/google/uuid"
)

type Engine struct {
	store     repos.Store
	seq       repos.SequenceSource
	verifier  auth.Verifier
	asserters auth.Verifier
	policy    market.PayoutPolicy
	now       func() time.Time
	newID     func() (uuid.UUID, error)
}

type Option func(*Engine)

// WithPolicy sets the settlement policy. Binary is the default.
func WithPolicy(p market.PayoutPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithAsserters restricts assertion to the listed participants. With no
// participants every verified identity may assert.
func WithAsserters(participants ...string) Option {
	return func(e *Engine) {
		if len(participants) == 0 {
			e.asserters = nil
			return
		}
		e.asserters = auth.NewAllowlist(e.verifier, participants...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an engine. seq may be nil, in which case every
// CreateMarket call must carry an explicit sequence.
func New(store repos.Store, seq repos.SequenceSource, verifier auth.Verifier, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		seq:      seq,
		verifier: verifier,
		policy:   market.Binary{},
		now:      time.Now,
		newID:    uuid.NewRandom,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Policy reports the settlement policy in use.
func (e *Engine) Policy() market.PayoutPolicy {
	return e.policy
}

type CreateMarketRequest struct {
	Outcome1    string
	Outcome2    string
	Description string
	// Sequence disambiguates markets that share a description. When nil
	// the engine draws one from its sequence source.
	Sequence *uint64
}

type DepositRequest struct {
	MarketID market.ID
	Outcome  string
	Amount   int64
}

// Redemption is the result of a successful Redeem.
type Redemption struct {
	MarketID    market.ID
	Participant string
	Outcome     string
	Stake       int64
	Payout      int64
}

func (e *Engine) CreateMarket(ctx context.Context, req CreateMarketRequest) (market.ID, error) {
	err := market.ValidateDefinition(req.Outcome1, req.Outcome2, req.Description)
	if err != nil {
		return "", fmt.Errorf("create market: %w", err)
	}

	var seq uint64

	switch {
	case req.Sequence != nil:
		seq = *req.Sequence
	case e.seq != nil:
		seq, err = e.seq.NextSequence(ctx)
		if err != nil {
			return "", fmt.Errorf("create market: %w", err)
		}
	default:
		return "", fmt.Errorf("create market: %w: sequence required", market.ErrInvalidArgument)
	}

	m, err := market.New(req.Outcome1, req.Outcome2, req.Description, seq)
	if err != nil {
		return "", fmt.Errorf("create market: %w", err)
	}
	m.CreatedAt = e.now().UTC()

	err = e.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		err := tx.Markets().Create(ctx, m)
		if err != nil {
			return err
		}

		for i, o := range m.Outcomes() {
			err = tx.Positions().Open(ctx, o.Ledger, m.ID, i, o.Label)
			if err != nil {
				return fmt.Errorf("open ledger %q: %w", o.Label, err)
			}
		}

		err = tx.Currency().Open(ctx, market.CustodyAccount(m.ID))
		if err != nil {
			return fmt.Errorf("open custody: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create market: %w", err)
	}

	slog.InfoContext(ctx, "market created",
		slog.String("market_id", m.ID.String()),
		slog.Uint64("sequence", seq),
		slog.String("outcome1", m.Outcome1.Label),
		slog.String("outcome2", m.Outcome2.Label),
	)

	return m.ID, nil
}

// Deposit moves amount of the participant's currency into the market's
// custody and credits the same number of position tokens on the chosen
// outcome.
func (e *Engine) Deposit(ctx context.Context, tok auth.Token, req DepositRequest) error {
	if req.Amount <= 0 {
		return fmt.Errorf("deposit: %w: amount must be positive", market.ErrInvalidArgument)
	}

	participant, err := e.verifier.Verify(ctx, tok)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	err = e.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		m, err := tx.Markets().LockAndGet(ctx, req.MarketID)
		if err != nil {
			return err
		}

		idx, err := m.OutcomeIndex(req.Outcome)
		if err != nil {
			return err
		}

		if m.Resolution.Resolved() && !e.policy.AllowsLateDeposits() {
			return fmt.Errorf("%w: %s settlement freezes pools", market.ErrAlreadyResolved, e.policy.Name())
		}

		if m.Pools[idx] > math.MaxInt64-req.Amount {
			return fmt.Errorf("%w: pool overflow", market.ErrInvalidArgument)
		}

		ledger := m.Outcomes()[idx].Ledger

		err = tx.Positions().Credit(ctx, ledger, participant, req.Amount)
		if err != nil {
			return fmt.Errorf("credit position: %w", err)
		}

		err = tx.Currency().Transfer(ctx, participant, market.CustodyAccount(m.ID), req.Amount)
		if err != nil {
			return fmt.Errorf("transfer to custody: %w", err)
		}

		m.Pools[idx] += req.Amount

		err = tx.Markets().Update(ctx, m)
		if err != nil {
			return fmt.Errorf("update pools: %w", err)
		}

		return e.record(ctx, tx, journal.Entry{
			MarketID:    m.ID,
			Participant: participant,
			Kind:        journal.KindDeposit,
			Outcome:     req.Outcome,
			Stake:       req.Amount,
			Amount:      req.Amount,
		})
	})
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	slog.InfoContext(ctx, "deposit accepted",
		slog.String("market_id", req.MarketID.String()),
		slog.String("participant", participant),
		slog.String("outcome", req.Outcome),
		slog.Int64("amount", req.Amount),
	)

	return nil
}

// Assert resolves the market to outcome. It moves no currency.
func (e *Engine) Assert(ctx context.Context, tok auth.Token, id market.ID, outcome string) error {
	verifier := e.verifier
	if e.asserters != nil {
		verifier = e.asserters
	}

	asserter, err := verifier.Verify(ctx, tok)
	if err != nil {
		return fmt.Errorf("assert: %w", err)
	}

	err = e.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		m, err := tx.Markets().LockAndGet(ctx, id)
		if err != nil {
			return err
		}

		err = m.Resolve(outcome, asserter, e.now().UTC())
		if err != nil {
			return err
		}

		return tx.Markets().Update(ctx, m)
	})
	if err != nil {
		return fmt.Errorf("assert: %w", err)
	}

	slog.InfoContext(ctx, "market resolved",
		slog.String("market_id", id.String()),
		slog.String("outcome", outcome),
		slog.String("asserter", asserter),
	)

	return nil
}

// Redeem burns the participant's winning position tokens and pays them
// out of custody according to the settlement policy. Holding no winning
// tokens is not an error: the payout is zero.
func (e *Engine) Redeem(ctx context.Context, tok auth.Token, id market.ID) (Redemption, error) {
	participant, err := e.verifier.Verify(ctx, tok)
	if err != nil {
		return Redemption{}, fmt.Errorf("redeem: %w", err)
	}

	var out Redemption

	err = e.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		m, err := tx.Markets().LockAndGet(ctx, id)
		if err != nil {
			return err
		}

		winner, err := m.Winner()
		if err != nil {
			return fmt.Errorf("%w: market %s", err, m.ID)
		}

		won := m.Outcomes()[winner]

		stake, err := tx.Positions().Drain(ctx, won.Ledger, participant)
		if err != nil {
			return fmt.Errorf("burn position: %w", err)
		}

		payout, err := e.policy.Payout(stake, m.Pools, winner)
		if err != nil {
			return err
		}

		if payout > 0 {
			err = tx.Currency().Transfer(ctx, market.CustodyAccount(m.ID), participant, payout)
			if err != nil {
				return fmt.Errorf("pay out: %w", err)
			}
		}

		out = Redemption{
			MarketID:    m.ID,
			Participant: participant,
			Outcome:     won.Label,
			Stake:       stake,
			Payout:      payout,
		}

		if stake == 0 {
			return nil
		}

		return e.record(ctx, tx, journal.Entry{
			MarketID:    m.ID,
			Participant: participant,
			Kind:        journal.KindRedeem,
			Outcome:     won.Label,
			Stake:       stake,
			Amount:      payout,
		})
	})
	if err != nil {
		return Redemption{}, fmt.Errorf("redeem: %w", err)
	}

	slog.InfoContext(ctx, "redeemed",
		slog.String("market_id", id.String()),
		slog.String("participant", participant),
		slog.Int64("stake", out.Stake),
		slog.Int64("payout", out.Payout),
	)

	return out, nil
}

func (e *Engine) record(ctx context.Context, tx repos.Tx, entry journal.Entry) error {
	id, err := e.newID()
	if err != nil {
		return fmt.Errorf("journal id: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = e.now().UTC()

	err = tx.Journal().Append(ctx, entry)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}

	return nil
}

func (e *Engine) Market(ctx context.Context, id market.ID) (market.Market, error) {
	var m market.Market

	err := e.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		var err error
		m, err = tx.Markets().Get(ctx, id)

		return err
	})
	if err != nil {
		return market.Market{}, fmt.Errorf("get market: %w", err)
	}

	return m, nil
}

// PositionBalance returns participant's position tokens on one outcome.
func (e *Engine) PositionBalance(ctx context.Context, id market.ID, outcome, participant string) (int64, error) {
	var bal int64

	err := e.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		m, err := tx.Markets().Get(ctx, id)
		if err != nil {
			return err
		}

		idx, err := m.OutcomeIndex(outcome)
		if err != nil {
			return err
		}

		bal, err = tx.Positions().BalanceOf(ctx, m.Outcomes()[idx].Ledger, participant)

		return err
	})
	if err != nil {
		return 0, fmt.Errorf("position balance: %w", err)
	}

	return bal, nil
}

// Journal lists the market's currency movements in the order they were
// recorded.
func (e *Engine) Journal(ctx context.Context, id market.ID) ([]journal.Entry, error) {
	var entries []journal.Entry

	err := e.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		_, err := tx.Markets().Get(ctx, id)
		if err != nil {
			return err
		}

		entries, err = tx.Journal().ListByMarket(ctx, id)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}

	return entries, nil
}
