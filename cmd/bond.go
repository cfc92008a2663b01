package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/bondwrap/internal/store"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var bondCmd = &cobra.Command{
	Use:   "bond",
	Short: "Manage the bond contract whitelist",
}

func setBondContract(status bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		caller, err := actor(mgr)
		if err != nil {
			return err
		}
		return mutate(cmd.Context(), func(_ context.Context, sys *store.System) error {
			target, err := resolveTarget(mgr, sys, args[0])
			if err != nil {
				return err
			}
			if err := sys.Wrapper.SetBondContract(caller, target, status); err != nil {
				return err
			}
			verb := "whitelisted"
			if !status {
				verb = "removed from the whitelist"
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s %s", label(mgr, sys, target), verb)))
			return nil
		})
	}
}

var bondAddCmd = &cobra.Command{
	Use:   "add <address>",
	Short: "Whitelist a bond contract (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE:  setBondContract(true),
}

var bondRemoveCmd = &cobra.Command{
	Use:   "remove <address>",
	Short: "Remove a bond contract from the whitelist (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE:  setBondContract(false),
}

var bondCheckCmd = &cobra.Command{
	Use:   "check <address>",
	Short: "Report whether an address is a whitelisted bond contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		sys, err := loadSystem()
		if err != nil {
			return err
		}
		target, err := resolveTarget(mgr, sys, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  bond contract: %s\n", label(mgr, sys, target), ui.Status(sys.Wrapper.IsBondContract(target)))
		return nil
	},
}

var bondListCmd = &cobra.Command{
	Use:   "list",
	Short: "List whitelisted bond contracts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		sys, err := loadSystem()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		list := sys.Wrapper.BondContracts()
		if len(list) == 0 {
			fmt.Fprintln(out, ui.Info("No bond contracts whitelisted."))
			fmt.Fprintln(out, ui.Hint("Add one with: bondwrap bond add <address> --as owner"))
			return nil
		}
		t := ui.NewTable([]ui.Column{{Title: "Name", Width: 16}, {Title: "Address", Width: 44}})
		for _, a := range list {
			t.AddRow(ui.Row{mgr.NameOf(a), a.Hex()})
		}
		fmt.Fprintln(out, t.Render())
		return nil
	},
}

func init() {
	bondCmd.AddCommand(bondAddCmd, bondRemoveCmd, bondCheckCmd, bondListCmd)
}
