package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/bondwrap/internal/store"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var wrapCmd = &cobra.Command{
	Use:   "wrap <amount>",
	Short: "Wrap underlying tokens 1:1 (owner only)",
	Long: `Pull <amount> of the underlying token from the caller into the wrapper's
custody and mint the same amount of wrapped tokens to the caller.

The caller must be the wrapper owner and must have approved the wrapper on
the underlying token first:

  bondwrap underlying approve wrapper 1000 --as owner
  bondwrap wrap 500 --as owner`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newAccountManager()
		caller, err := actor(mgr)
		if err != nil {
			return err
		}
		return mutate(cmd.Context(), func(ctx context.Context, sys *store.System) error {
			meta := sys.Wrapper.Metadata()
			amount, err := parseAmount(args[0], meta.Decimals)
			if err != nil {
				return err
			}
			if err := sys.Wrapper.Wrap(ctx, caller, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Wrapped %s for %s",
				ui.Amount(formatUnits(amount, meta.Decimals), meta.Symbol), label(mgr, sys, caller))))
			return nil
		})
	},
}
