package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/predictionmarket/internal/config"
	"github.com/fastprodman/predictionmarket/internal/infra/logging"
)

type apiConfig struct {
	Port            uint16         `env:"APP_PORT" default:"8080"`
	LogLevel        slog.Level     `env:"APP_LOG_LEVEL" default:"INFO"`
	LogFormat       logging.Format `env:"APP_LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration  `env:"APP_SHUTDOWN_TIMEOUT" default:"15s"`
	Postgres        config.PostgresConfig
	Auth            config.AuthConfig
	Settlement      config.SettlementConfig
}
