// Package treasury manages the currency that backs market deposits:
// admin issuance, holder withdrawal and transfers, and balance reads.
package treasury

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fastprodman/predictionmarket/internal/auth"
	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos"
	"github.com/fastprodman/predictionmarket/internal/repos/currency"
)

type Service struct {
	store    repos.Store
	verifier auth.Verifier
	admin    auth.Verifier
}

// New builds a treasury. Only admin may mint; an empty admin disables
// minting.
func New(store repos.Store, verifier auth.Verifier, admin string) *Service {
	admins := []string{}
	if admin != "" {
		admins = append(admins, admin)
	}

	return &Service{
		store:    store,
		verifier: verifier,
		admin:    auth.NewAllowlist(verifier, admins...),
	}
}

func checkAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", currency.ErrInvalidAmount)
	}

	return nil
}

// Mint issues new currency to the given account.
func (s *Service) Mint(ctx context.Context, tok auth.Token, to string, amount int64) error {
	err := checkAmount(amount)
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}

	admin, err := s.admin.Verify(ctx, tok)
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		return tx.Currency().Mint(ctx, to, amount)
	})
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}

	slog.InfoContext(ctx, "currency minted",
		slog.String("admin", admin),
		slog.String("account", to),
		slog.Int64("amount", amount),
	)

	return nil
}

// holder verifies tok and checks that its holder may spend from account.
// Market custody is never spendable through the treasury.
func (s *Service) holder(ctx context.Context, tok auth.Token, account string) (string, error) {
	participant, err := s.verifier.Verify(ctx, tok)
	if err != nil {
		return "", err
	}

	if market.IsCustodyAccount(participant) {
		return "", fmt.Errorf("%w: custody account %q", auth.ErrUnauthorized, participant)
	}

	if participant != account {
		return "", fmt.Errorf("%w: %q cannot spend from %q", auth.ErrUnauthorized, participant, account)
	}

	return participant, nil
}

// Burn destroys currency held by from. The token must belong to from.
func (s *Service) Burn(ctx context.Context, tok auth.Token, from string, amount int64) error {
	err := checkAmount(amount)
	if err != nil {
		return fmt.Errorf("burn: %w", err)
	}

	_, err = s.holder(ctx, tok, from)
	if err != nil {
		return fmt.Errorf("burn: %w", err)
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		return tx.Currency().Burn(ctx, from, amount)
	})
	if err != nil {
		return fmt.Errorf("burn: %w", err)
	}

	slog.InfoContext(ctx, "currency burned",
		slog.String("account", from),
		slog.Int64("amount", amount),
	)

	return nil
}

// Transfer moves the token holder's own funds to another account.
func (s *Service) Transfer(ctx context.Context, tok auth.Token, to string, amount int64) error {
	err := checkAmount(amount)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	from, err := s.holder(ctx, tok, tok.Participant)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		return tx.Currency().Transfer(ctx, from, to, amount)
	})
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	return nil
}

// Balance reads an account balance without locking. Unknown accounts hold
// zero.
func (s *Service) Balance(ctx context.Context, account string) (int64, error) {
	var bal int64

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		var err error
		bal, err = tx.Currency().BalanceOf(ctx, account)

		return err
	})
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return bal, nil
}
