package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

// AuthConfig configures token verification and the privileged identities.
type AuthConfig struct {
	Secret string `env:"AUTH_SECRET"`
	// Admin may mint and burn currency.
	Admin string `env:"AUTH_ADMIN" default:""`
	// Asserters, when non-empty, are the only identities allowed to
	// resolve markets.
	Asserters []string `env:"AUTH_ASSERTERS" default:""`
}

type SettlementConfig struct {
	Policy string `env:"SETTLEMENT_POLICY" default:"binary"`
}
