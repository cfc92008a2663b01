package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/bondwrap/internal/account"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var accountRemoveYes bool

var accountCmd = &cobra.Command{
	Use:     "account",
	Aliases: []string{"accounts"},
	Short:   "Manage named accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add <name> <address>",
	Short: "Save an existing address under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := account.ParseAddress(args[1])
		if err != nil {
			return err
		}
		if err := checkAccountName(args[0]); err != nil {
			return err
		}
		mgr := newAccountManager()
		a, err := mgr.Add(args[0], addr)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Account %q added: %s", a.Name, ui.Addr(a.Address.Hex()))))
		if len(mgr.List()) == 1 {
			fmt.Fprintln(out, ui.Hint("First account — it is now the default."))
		}
		return nil
	},
}

var accountNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a watch-only account with a fresh random address",
	Long: `Generate a fresh secp256k1 key, record its address under name and
discard the private key. The account is watch-only: bondwrap never signs, so
the key is not needed to act as the account here, but it cannot be recovered
for use elsewhere. Use "account add" to register an address you control.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkAccountName(args[0]); err != nil {
			return err
		}
		mgr := newAccountManager()
		a, err := mgr.New(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Account %q created (watch-only): %s", a.Name, ui.Addr(a.Address.Hex()))))
		if len(mgr.List()) == 1 {
			fmt.Fprintln(out, ui.Hint("First account — it is now the default."))
		}
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		accounts := newAccountManager().List()
		if len(accounts) == 0 {
			fmt.Fprintln(out, ui.Info("No accounts yet."))
			fmt.Fprintln(out, ui.Hint("Create one with: bondwrap account new owner"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Source", Width: 10},
			{Title: "Default", Width: 8},
		})
		for _, a := range accounts {
			def := ""
			if a.IsDefault {
				def = "✓"
			}
			t.AddRow(ui.Row{a.Name, a.Address.Hex(), a.Source, def})
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d account(s)", len(accounts))))
		return nil
	},
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()
		if !accountRemoveYes && !ui.ConfirmFrom(cmd.InOrStdin(), out, ui.StyleError.Render(fmt.Sprintf("⚠ Remove account %q?", name))) {
			fmt.Fprintln(out, ui.Meta("Cancelled."))
			return nil
		}
		if err := newAccountManager().Remove(name); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Account %q removed.", name)))
		return nil
	},
}

var accountUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := newAccountManager().SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultAccount = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Default account set to %q.", name)))
		return nil
	},
}

// checkAccountName rejects names that would shadow the reserved targets.
func checkAccountName(name string) error {
	switch strings.ToLower(name) {
	case targetWrapper, targetUnderlying:
		return fmt.Errorf("%q is reserved for the deployed contract", name)
	}
	return nil
}

func init() {
	accountRemoveCmd.Flags().BoolVarP(&accountRemoveYes, "yes", "y", false, "skip confirmation")
	accountCmd.AddCommand(accountAddCmd, accountNewCmd, accountListCmd, accountRemoveCmd, accountUseCmd)
}
