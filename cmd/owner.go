package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/bondwrap/internal/store"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var ownerRenounceYes bool

var ownerCmd = &cobra.Command{
	Use:   "owner",
	Short: "Show or change the wrapper owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, err := loadSystem()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Owner: %s\n", label(newAccountManager(), sys, sys.Wrapper.Owner()))
		return nil
	},
}

var ownerTransferCmd = &cobra.Command{
	Use:   "transfer <new-owner>",
	Short: "Hand the owner role to another account (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		caller, err := actor(mgr)
		if err != nil {
			return err
		}
		return mutate(cmd.Context(), func(_ context.Context, sys *store.System) error {
			next, err := resolveTarget(mgr, sys, args[0])
			if err != nil {
				return err
			}
			if err := sys.Wrapper.TransferOwnership(caller, next); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Ownership transferred to "+label(mgr, sys, next)))
			return nil
		})
	},
}

var ownerRenounceCmd = &cobra.Command{
	Use:   "renounce",
	Short: "Give up ownership for good (owner only)",
	Long: `Remove the owner. Afterwards nobody can wrap or change the bond contract
whitelist. Transfers and unwraps keep working.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !ownerRenounceYes && !ui.ConfirmFrom(cmd.InOrStdin(), out, ui.StyleError.Render("⚠ Renounce ownership? This cannot be undone.")) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}
		mgr := newAccountManager()
		caller, err := actor(mgr)
		if err != nil {
			return err
		}
		return mutate(cmd.Context(), func(_ context.Context, sys *store.System) error {
			if err := sys.Wrapper.RenounceOwnership(caller); err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Warn("Ownership renounced. Wrapping and whitelist changes are now disabled."))
			return nil
		})
	},
}

func init() {
	ownerRenounceCmd.Flags().BoolVarP(&ownerRenounceYes, "yes", "y", false, "skip confirmation")
	ownerCmd.AddCommand(ownerTransferCmd, ownerRenounceCmd)
}
