package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/predictionmarket/internal/api"
	"github.com/fastprodman/predictionmarket/internal/app"
	"github.com/fastprodman/predictionmarket/internal/infra/logging"
	"github.com/fastprodman/predictionmarket/internal/infra/pgutils"
	pgstore "github.com/fastprodman/predictionmarket/internal/repos/postgres"
	"github.com/fastprodman/predictionmarket/pkg/envconf"
	"github.com/fastprodman/predictionmarket/pkg/shutdownqueue"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add("postgres", func(context.Context) error {
		return db.Close()
	})

	store := pgstore.New(db)

	services, err := app.New(store, store, cfg.Auth, cfg.Settlement)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, api.NewHandler(services.Engine, services.Treasury))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		slog.Info("Shut down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		//nolint:contextcheck // the parent is already done
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	slog.Info("API started",
		slog.Int("port", int(cfg.Port)),
		slog.String("settlement", services.Engine.Policy().Name()),
	)

	return g.Wait()
}
