package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/bondwrap/internal/store"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var underlyingCmd = &cobra.Command{
	Use:   "underlying",
	Short: "Operate the mock underlying token",
	Long: `The underlying token is a plain ERC-20 ledger deployed next to the wrapper.
Use it to fund accounts and to approve the wrapper before wrapping.

"wrapper" can be used wherever an address is expected.`,
}

var underlyingMintCmd = &cobra.Command{
	Use:   "mint <to> <amount>",
	Short: "Mint underlying tokens to an account (test faucet)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		return mutate(cmd.Context(), func(_ context.Context, sys *store.System) error {
			to, err := resolveTarget(mgr, sys, args[0])
			if err != nil {
				return err
			}
			meta := sys.Token.Metadata()
			amount, err := parseAmount(args[1], meta.Decimals)
			if err != nil {
				return err
			}
			if err := sys.Token.Mint(to, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Minted %s to %s",
				ui.Amount(formatUnits(amount, meta.Decimals), meta.Symbol), label(mgr, sys, to))))
			return nil
		})
	},
}

var underlyingApproveCmd = &cobra.Command{
	Use:   "approve <spender> <amount>",
	Short: "Approve a spender (usually \"wrapper\") on the underlying token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		owner, err := actor(mgr)
		if err != nil {
			return err
		}
		return mutate(cmd.Context(), func(_ context.Context, sys *store.System) error {
			spender, err := resolveTarget(mgr, sys, args[0])
			if err != nil {
				return err
			}
			meta := sys.Token.Metadata()
			amount, err := parseAmount(args[1], meta.Decimals)
			if err != nil {
				return err
			}
			if err := sys.Token.Approve(owner, spender, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s may now spend %s of %s",
				label(mgr, sys, spender), ui.Amount(formatUnits(amount, meta.Decimals), meta.Symbol), label(mgr, sys, owner))))
			return nil
		})
	},
}

var underlyingTransferCmd = &cobra.Command{
	Use:   "transfer <to> <amount>",
	Short: "Transfer underlying tokens",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		from, err := actor(mgr)
		if err != nil {
			return err
		}
		return mutate(cmd.Context(), func(ctx context.Context, sys *store.System) error {
			to, err := resolveTarget(mgr, sys, args[0])
			if err != nil {
				return err
			}
			meta := sys.Token.Metadata()
			amount, err := parseAmount(args[1], meta.Decimals)
			if err != nil {
				return err
			}
			if _, err := sys.Token.Transfer(ctx, from, to, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Sent %s to %s",
				ui.Amount(formatUnits(amount, meta.Decimals), meta.Symbol), label(mgr, sys, to))))
			return nil
		})
	},
}

var underlyingInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show underlying token metadata and supply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, err := loadSystem()
		if err != nil {
			return err
		}
		meta := sys.Token.Metadata()
		custody, err := sys.Token.BalanceOf(cmd.Context(), sys.Wrapper.Address())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Underlying Token", [][2]string{
			{"Address", sys.Underlying.Hex()},
			{"Name", meta.Name},
			{"Symbol", meta.Symbol},
			{"Decimals", fmt.Sprint(meta.Decimals)},
			{"Total supply", formatUnits(sys.Token.TotalSupply(), meta.Decimals)},
			{"Held by wrapper", formatUnits(custody, meta.Decimals)},
		}))
		return nil
	},
}

func init() {
	underlyingCmd.AddCommand(underlyingMintCmd, underlyingApproveCmd, underlyingTransferCmd, underlyingInfoCmd)
}
