package cli

import (
	"fmt"

	"github.com/fastprodman/predictionmarket/internal/app"
	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/services/markets"
	"github.com/spf13/cobra"
)

func newCreateCommand(opts *RootOptions) *cobra.Command {
	var (
		req markets.CreateMarketRequest
		seq uint64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a market with two outcomes",
		Example: `  marketctl create --outcome1 Yes --outcome2 No --description "Will it rain?"
  marketctl create --outcome1 Yes --outcome2 No --description "Will it rain?" --sequence 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("sequence") {
				req.Sequence = &seq
			}

			return opts.withApp(cmd.Context(), func(a *app.App) error {
				id, err := a.Engine.CreateMarket(cmd.Context(), req)
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(), id.String(), map[string]string{"id": id.String()})
			})
		},
	}

	cmd.Flags().StringVar(&req.Outcome1, "outcome1", "", "first outcome label")
	cmd.Flags().StringVar(&req.Outcome2, "outcome2", "", "second outcome label")
	cmd.Flags().StringVar(&req.Description, "description", "", "market description")
	cmd.Flags().Uint64Var(&seq, "sequence", 0, "creation sequence (drawn from the database when omitted)")

	return cmd
}

func newShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <market-id>",
		Short: "Print a market",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := market.ParseID(args[0])
			if err != nil {
				return err
			}

			return opts.withApp(cmd.Context(), func(a *app.App) error {
				m, err := a.Engine.Market(cmd.Context(), id)
				if err != nil {
					return err
				}

				text := fmt.Sprintf("%s %q %s=%d %s=%d %s",
					m.ID, m.Description,
					m.Outcome1.Label, m.Pools[0], m.Outcome2.Label, m.Pools[1],
					m.Resolution)

				return opts.print(cmd.OutOrStdout(), text, m)
			})
		},
	}
}

func newDepositCommand(opts *RootOptions) *cobra.Command {
	var (
		outcome string
		amount  int64
	)

	cmd := &cobra.Command{
		Use:   "deposit <market-id>",
		Short: "Stake currency on an outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := market.ParseID(args[0])
			if err != nil {
				return err
			}

			tok, err := opts.token()
			if err != nil {
				return err
			}

			return opts.withApp(cmd.Context(), func(a *app.App) error {
				err := a.Engine.Deposit(cmd.Context(), tok, markets.DepositRequest{
					MarketID: id,
					Outcome:  outcome,
					Amount:   amount,
				})
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(),
					fmt.Sprintf("deposited %d on %s", amount, outcome),
					map[string]any{"marketId": id, "outcome": outcome, "amount": amount})
			})
		},
	}

	cmd.Flags().StringVar(&outcome, "outcome", "", "outcome label")
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount in minor units")

	return cmd
}

func newAssertCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assert <market-id> <outcome>",
		Short: "Resolve a market to one of its outcomes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := market.ParseID(args[0])
			if err != nil {
				return err
			}

			tok, err := opts.token()
			if err != nil {
				return err
			}

			return opts.withApp(cmd.Context(), func(a *app.App) error {
				err := a.Engine.Assert(cmd.Context(), tok, id, args[1])
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(), "resolved to "+args[1],
					map[string]any{"marketId": id, "outcome": args[1]})
			})
		},
	}
}

func newRedeemCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <market-id>",
		Short: "Redeem winning positions for currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := market.ParseID(args[0])
			if err != nil {
				return err
			}

			tok, err := opts.token()
			if err != nil {
				return err
			}

			return opts.withApp(cmd.Context(), func(a *app.App) error {
				r, err := a.Engine.Redeem(cmd.Context(), tok, id)
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(),
					fmt.Sprintf("redeemed %d %s for %d", r.Stake, r.Outcome, r.Payout), r)
			})
		},
	}
}

func newMintCommand(opts *RootOptions) *cobra.Command {
	var amount int64

	cmd := &cobra.Command{
		Use:   "mint <account>",
		Short: "Issue currency to an account (admin token required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := opts.token()
			if err != nil {
				return err
			}

			return opts.withApp(cmd.Context(), func(a *app.App) error {
				err := a.Treasury.Mint(cmd.Context(), tok, args[0], amount)
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(),
					fmt.Sprintf("minted %d to %s", amount, args[0]),
					map[string]any{"account": args[0], "amount": amount})
			})
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "amount in minor units")

	return cmd
}

func newBalanceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Print an account's currency balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				bal, err := a.Treasury.Balance(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(), fmt.Sprint(bal),
					map[string]any{"account": args[0], "balance": bal})
			})
		},
	}
}

func newTokenCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <participant>",
		Short: "Issue a token for a participant using the configured secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				tok, err := a.Tokens.Issue(args[0])
				if err != nil {
					return err
				}

				return opts.print(cmd.OutOrStdout(), tok.String(), map[string]string{"token": tok.String()})
			})
		},
	}
}
