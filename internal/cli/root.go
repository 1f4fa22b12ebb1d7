// Package cli implements the marketctl command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fastprodman/predictionmarket/internal/app"
	"github.com/fastprodman/predictionmarket/internal/auth"
	"github.com/spf13/cobra"
)

// TokenEnv is read when --token is not given.
const TokenEnv = "MARKETCTL_TOKEN"

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Connector opens the backing store and returns the assembled app along
// with a function that releases it.
type Connector func(ctx context.Context) (*app.App, func() error, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string
	Token  string

	connect Connector
}

func NewRootCommand(connect Connector) *cobra.Command {
	opts := &RootOptions{connect: connect}

	cmd := &cobra.Command{
		Use:   "marketctl",
		Short: "Operate binary prediction markets",
		Long: `marketctl creates markets, takes deposits, asserts outcomes and
redeems winning positions against the configured database.

Commands that act for a participant need a token, given with --token or
the MARKETCTL_TOKEN environment variable. "marketctl token <name>" issues
one with the configured secret.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Token == "" {
				opts.Token = os.Getenv(TokenEnv)
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "participant token (participant.signature)")

	cmd.AddCommand(
		newCreateCommand(opts),
		newShowCommand(opts),
		newDepositCommand(opts),
		newAssertCommand(opts),
		newRedeemCommand(opts),
		newMintCommand(opts),
		newBalanceCommand(opts),
		newTokenCommand(opts),
	)

	return cmd
}

// withApp connects, runs fn and releases the connection.
func (o *RootOptions) withApp(ctx context.Context, fn func(a *app.App) error) (err error) {
	a, release, err := o.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	defer func() {
		if cerr := release(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()

	return fn(a)
}

func (o *RootOptions) token() (auth.Token, error) {
	if o.Token == "" {
		return auth.Token{}, fmt.Errorf("%w: --token or %s required", auth.ErrUnauthorized, TokenEnv)
	}

	return auth.ParseToken(o.Token)
}

// print writes v as indented JSON or, in text mode, as the given line.
func (o *RootOptions) print(w io.Writer, text string, v any) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}

	_, err := fmt.Fprintln(w, text)

	return err
}
