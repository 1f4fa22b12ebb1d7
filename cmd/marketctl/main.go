package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/predictionmarket/internal/app"
	"github.com/fastprodman/predictionmarket/internal/cli"
	"github.com/fastprodman/predictionmarket/internal/config"
	"github.com/fastprodman/predictionmarket/internal/infra/logging"
	"github.com/fastprodman/predictionmarket/internal/infra/pgutils"
	pgstore "github.com/fastprodman/predictionmarket/internal/repos/postgres"
	"github.com/fastprodman/predictionmarket/pkg/envconf"
	"github.com/joho/godotenv"
)

type ctlConfig struct {
	LogLevel   slog.Level `env:"APP_LOG_LEVEL" default:"WARN"`
	Postgres   config.PostgresConfig
	Auth       config.AuthConfig
	Settlement config.SettlementConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cmd := cli.NewRootCommand(connect)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marketctl: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic
	}
}

func connect(ctx context.Context) (*app.App, func() error, error) {
	cfg := new(ctlConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logging.Setup(os.Stderr, logging.FormatText, cfg.LogLevel)

	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	store := pgstore.New(db)

	a, err := app.New(store, store, cfg.Auth, cfg.Settlement)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return a, db.Close, nil
}
