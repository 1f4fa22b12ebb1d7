package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fastprodman/predictionmarket/internal/app"
	"github.com/fastprodman/predictionmarket/internal/auth"
	"github.com/fastprodman/predictionmarket/internal/config"
	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConnector(t *testing.T) Connector {
	t.Helper()

	store := memory.New()

	a, err := app.New(store, store,
		config.AuthConfig{Secret: "cli-test-secret-0123456789", Admin: "bank"},
		config.SettlementConfig{Policy: "binary"},
	)
	require.NoError(t, err)

	return func(context.Context) (*app.App, func() error, error) {
		return a, func() error { return nil }, nil
	}
}

func run(t *testing.T, connect Connector, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(connect)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return strings.TrimSpace(out.String()), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(nil)
	require.NotNil(t, cmd)
	assert.Equal(t, "marketctl", cmd.Use)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(nil)

	for _, name := range []string{"create", "show", "deposit", "assert", "redeem", "mint", "balance", "token"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, memoryConnector(t), "balance", "alice", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestMissingToken(t *testing.T) {
	t.Setenv(TokenEnv, "")

	_, err := run(t, memoryConnector(t), "mint", "alice", "--amount", "5")
	require.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestMarketFlow(t *testing.T) {
	t.Setenv(TokenEnv, "")

	connect := memoryConnector(t)

	bank, err := run(t, connect, "token", "bank")
	require.NoError(t, err)
	alice, err := run(t, connect, "token", "alice")
	require.NoError(t, err)

	_, err = run(t, connect, "mint", "alice", "--amount", "500", "--token", bank)
	require.NoError(t, err)

	id, err := run(t, connect, "create", "--outcome1", "Yes", "--outcome2", "No", "--description", "Will it rain?", "--sequence", "10")
	require.NoError(t, err)
	assert.Equal(t, market.DeriveID("Will it rain?", 10).String(), id)

	_, err = run(t, connect, "deposit", id, "--outcome", "Yes", "--amount", "200", "--token", alice)
	require.NoError(t, err)

	out, err := run(t, connect, "balance", "alice")
	require.NoError(t, err)
	assert.Equal(t, "300", out)

	_, err = run(t, connect, "redeem", id, "--token", alice)
	require.ErrorIs(t, err, market.ErrMarketNotResolved)

	_, err = run(t, connect, "assert", id, "Yes", "--token", alice)
	require.NoError(t, err)

	t.Setenv(TokenEnv, alice)

	out, err = run(t, connect, "redeem", id, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Payout": 200`)

	out, err = run(t, connect, "balance", "alice")
	require.NoError(t, err)
	assert.Equal(t, "500", out)
}
