// Package app assembles the market engine and treasury from a store and
// configuration. Binaries differ only in the store they pass in.
package app

import (
	"fmt"
	"log/slog"

	"github.com/fastprodman/predictionmarket/internal/auth"
	"github.com/fastprodman/predictionmarket/internal/config"
	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos"
	"github.com/fastprodman/predictionmarket/internal/services/markets"
	"github.com/fastprodman/predictionmarket/internal/services/treasury"
)

type App struct {
	Engine   *markets.Engine
	Treasury *treasury.Service
	Tokens   *auth.HMACVerifier
}

func New(store repos.Store, seq repos.SequenceSource, authCfg config.AuthConfig, settle config.SettlementConfig) (*App, error) {
	tokens, err := auth.NewHMACVerifier([]byte(authCfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	policy, err := market.ParsePolicy(settle.Policy)
	if err != nil {
		return nil, fmt.Errorf("settlement: %w", err)
	}

	engine := markets.New(store, seq, tokens,
		markets.WithPolicy(policy),
		markets.WithAsserters(authCfg.Asserters...),
	)

	slog.Debug("market engine configured",
		slog.String("policy", policy.Name()),
		slog.Int("asserters", len(authCfg.Asserters)),
		slog.Bool("admin", authCfg.Admin != ""),
	)

	return &App{
		Engine:   engine,
		Treasury: treasury.New(store, tokens, authCfg.Admin),
		Tokens:   tokens,
	}, nil
}
