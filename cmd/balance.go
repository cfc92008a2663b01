package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/bondwrap/internal/audit"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Show wrapped and underlying balances (default: the caller)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		sys, err := loadSystem()
		if err != nil {
			return err
		}
		addr, err := actor(mgr)
		if len(args) == 1 {
			addr, err = resolveTarget(mgr, sys, args[0])
		}
		if err != nil {
			return err
		}

		wm, um := sys.Wrapper.Metadata(), sys.Token.Metadata()
		under, err := sys.Token.BalanceOf(cmd.Context(), addr)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Balances", [][2]string{
			{"Account", label(mgr, sys, addr)},
			{"Wrapped", formatUnits(sys.Wrapper.BalanceOf(addr), wm.Decimals) + " " + wm.Symbol},
			{"Underlying", formatUnits(under, um.Decimals) + " " + um.Symbol},
			{"Bond contract", ui.Status(sys.Wrapper.IsBondContract(addr))},
		}))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"supply"},
	Short:   "Show supply, custody and holders of the local wrapper",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		sys, err := loadSystem()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		w := sys.Wrapper
		meta := w.Metadata()

		report, err := audit.Local(cmd.Context(), w)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.KeyValueBlock(fmt.Sprintf("%s (%s)", meta.Name, meta.Symbol), [][2]string{
			{"Wrapper", w.Address().Hex()},
			{"Owner", label(mgr, sys, w.Owner())},
			{"Unwrap trigger", string(w.Trigger())},
			{"Total supply", formatUnits(report.TotalSupply, meta.Decimals)},
			{"Custody", formatUnits(report.Custody, meta.Decimals)},
			{"Bond contracts", fmt.Sprint(len(w.BondContracts()))},
			{"Events", fmt.Sprint(len(w.Events()))},
			{"Invariants", ui.Status(report.OK())},
		}))

		t := ui.NewTable([]ui.Column{{Title: "Holder", Width: 20}, {Title: "Address", Width: 44}, {Title: "Wrapped", Width: 24, Right: true}})
		for _, a := range w.Accounts() {
			bal := w.BalanceOf(a)
			if bal.Sign() == 0 {
				continue
			}
			t.AddRow(ui.Row{mgr.NameOf(a), a.Hex(), formatUnits(bal, meta.Decimals)})
		}
		if len(t.Rows) > 0 {
			fmt.Fprintln(out, t.Render())
		}
		return report.Err()
	},
}
