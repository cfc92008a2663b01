package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/bondwrap/internal/account"
	"github.com/Mohsinsiddi/bondwrap/internal/events"
	"github.com/Mohsinsiddi/bondwrap/internal/store"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var transferCmd = &cobra.Command{
	Use:   "transfer <to> <amount>",
	Short: "Transfer wrapped tokens (unwraps when a bond contract is involved)",
	Long: `Move wrapped tokens from the caller to <to>.

If the transfer meets the wrapper's unwrap trigger (a whitelisted bond
contract on the configured side), the wrapped tokens are burned and <to>
receives the same amount of the underlying token instead.`,
	Args: cobra.ExactArgs(2),
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
			amount, err := parseAmount(args[1], sys.Wrapper.Metadata().Decimals)
			if err != nil {
				return err
			}
			mark := len(sys.Wrapper.Events())
			if _, err := sys.Wrapper.Transfer(ctx, from, to, amount); err != nil {
				return err
			}
			printTransferResult(cmd, mgr, sys, from, to, amount, sys.Wrapper.Events()[mark:])
			return nil
		})
	},
}

var transferFromCmd = &cobra.Command{
	Use:   "transfer-from <from> <to> <amount>",
	Short: "Transfer wrapped tokens on behalf of <from> using the caller's allowance",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		spender, err := actor(mgr)
		if err != nil {
			return err
		}
		return mutate(cmd.Context(), func(ctx context.Context, sys *store.System) error {
			from, err := resolveTarget(mgr, sys, args[0])
			if err != nil {
				return err
			}
			to, err := resolveTarget(mgr, sys, args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2], sys.Wrapper.Metadata().Decimals)
			if err != nil {
				return err
			}
			mark := len(sys.Wrapper.Events())
			if _, err := sys.Wrapper.TransferFrom(ctx, spender, from, to, amount); err != nil {
				return err
			}
			printTransferResult(cmd, mgr, sys, from, to, amount, sys.Wrapper.Events()[mark:])
			return nil
		})
	},
}

func printTransferResult(cmd *cobra.Command, mgr *account.Manager, sys *store.System, from, to common.Address, amount *big.Int, emitted []events.Event) {
	meta := sys.Wrapper.Metadata()
	shown := ui.Amount(formatUnits(amount, meta.Decimals), meta.Symbol)
	out := cmd.OutOrStdout()
	if len(events.Filter(emitted, events.KindUnwrap)) > 0 {
		um := sys.Token.Metadata()
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Unwrapped %s from %s", shown, label(mgr, sys, from))))
		fmt.Fprintln(out, ui.Info(fmt.Sprintf("%s received %s", label(mgr, sys, to),
			ui.Amount(formatUnits(amount, um.Decimals), um.Symbol))))
		return
	}
	fmt.Fprintln(out, ui.Success(fmt.Sprintf("Sent %s from %s to %s", shown, label(mgr, sys, from), label(mgr, sys, to))))
}

var approveCmd = &cobra.Command{
	Use:   "approve <spender> <amount>",
	Short: "Set a spender's allowance over the caller's wrapped tokens",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		owner, err := actor(mgr)
		if err != nil {
			return err
		}
		return mutate(cmd.Context(), func(ctx context.Context, sys *store.System) error {
			spender, err := resolveTarget(mgr, sys, args[0])
			if err != nil {
				return err
			}
			meta := sys.Wrapper.Metadata()
			amount, err := parseAmount(args[1], meta.Decimals)
			if err != nil {
				return err
			}
			if err := sys.Wrapper.Approve(ctx, owner, spender, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s may now spend %s of %s",
				label(mgr, sys, spender), ui.Amount(formatUnits(amount, meta.Decimals), meta.Symbol), label(mgr, sys, owner))))
			return nil
		})
	},
}

var allowanceCmd = &cobra.Command{
	Use:   "allowance <owner> <spender>",
	Short: "Show a wrapped-token allowance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		sys, err := loadSystem()
		if err != nil {
			return err
		}
		owner, err := resolveTarget(mgr, sys, args[0])
		if err != nil {
			return err
		}
		spender, err := resolveTarget(mgr, sys, args[1])
		if err != nil {
			return err
		}
		meta := sys.Wrapper.Metadata()
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Allowance", [][2]string{
			{"Owner", label(mgr, sys, owner)},
			{"Spender", label(mgr, sys, spender)},
			{"Amount", formatUnits(sys.Wrapper.Allowance(owner, spender), meta.Decimals) + " " + meta.Symbol},
		}))
		return nil
	},
}
