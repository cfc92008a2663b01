package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/bondwrap/internal/ledger"
	"github.com/Mohsinsiddi/bondwrap/internal/store"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/Mohsinsiddi/bondwrap/internal/wrapper"
	"github.com/spf13/cobra"
)

var (
	deployName             string
	deploySymbol           string
	deployDecimals         uint8
	deployUnderlyingName   string
	deployUnderlyingSymbol string
	deployTrigger          string
	deployForce            bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a mock underlying token and a wrapper around it",
	Long: `Create a fresh underlying token and a BondWrapper owned by the caller.

Wrapped token metadata defaults to the config (token_name, token_symbol,
decimals). The underlying token uses the same decimals.

--trigger selects which side of a transfer must be a bond contract for the
transfer to unwrap:
  recipient  unwrap when sending TO a bond contract (default)
  sender     unwrap when a bond contract sends wrapped tokens on; this is
             the bond-market flow, where the market holds wrapped tokens
             and redeems them to buyers

Examples:
  bondwrap deploy --as owner
  bondwrap deploy --symbol bUSDC --decimals 6 --underlying-symbol USDC
  bondwrap deploy --trigger sender --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		st := openStore()
		if st.Exists() && !deployForce {
			return fmt.Errorf("a wrapper is already deployed at %s — pass --force to replace it", st.Path())
		}

		mgr := newAccountManager()
		owner, err := actor(mgr)
		if err != nil {
			return err
		}

		triggerName := deployTrigger
		if triggerName == "" {
			triggerName = cfg.UnwrapTrigger
		}
		trigger, err := wrapper.ParseTrigger(triggerName)
		if err != nil {
			return err
		}

		decimals := cfg.Decimals
		if cmd.Flags().Changed("decimals") {
			decimals = deployDecimals
		}
		meta := ledger.Metadata{Name: deployName, Symbol: deploySymbol, Decimals: decimals}
		if meta.Name == "" {
			meta.Name = cfg.TokenName
		}
		if meta.Symbol == "" {
			meta.Symbol = cfg.TokenSymbol
		}

		opts := append(wrapperOptions(), wrapper.WithMetadata(meta), wrapper.WithTrigger(trigger))
		sys := store.Deploy(owner, ledger.Metadata{
			Name:     deployUnderlyingName,
			Symbol:   deployUnderlyingSymbol,
			Decimals: decimals,
		}, opts...)
		if err := st.Save(sys); err != nil {
			return fmt.Errorf("saving state: %w", err)
		}

		wm := sys.Wrapper.Metadata()
		um := sys.Token.Metadata()
		fmt.Fprintln(out, ui.Success("Wrapper deployed."))
		fmt.Fprintln(out, ui.KeyValueBlock("Deployment", [][2]string{
			{"Wrapper", sys.Wrapper.Address().Hex()},
			{"Wrapped token", fmt.Sprintf("%s (%s, %d decimals)", wm.Name, wm.Symbol, wm.Decimals)},
			{"Underlying", sys.Underlying.Hex()},
			{"Underlying token", fmt.Sprintf("%s (%s)", um.Name, um.Symbol)},
			{"Owner", label(mgr, sys, owner)},
			{"Unwrap trigger", string(sys.Wrapper.Trigger())},
		}))
		fmt.Fprintln(out, ui.Hint("Next: bondwrap underlying mint <account> <amount>, then approve the wrapper and wrap."))
		return nil
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployName, "name", "", "wrapped token name (default: config token_name)")
	deployCmd.Flags().StringVar(&deploySymbol, "symbol", "", "wrapped token symbol (default: config token_symbol)")
	deployCmd.Flags().Uint8Var(&deployDecimals, "decimals", 18, "token decimals (default: config decimals)")
	deployCmd.Flags().StringVar(&deployUnderlyingName, "underlying-name", "Mock Token", "underlying token name")
	deployCmd.Flags().StringVar(&deployUnderlyingSymbol, "underlying-symbol", "TKN", "underlying token symbol")
	deployCmd.Flags().StringVar(&deployTrigger, "trigger", "", "unwrap trigger: recipient, or sender for the bond-market flow (default: config unwrap_trigger)")
	deployCmd.Flags().BoolVar(&deployForce, "force", false, "replace an existing deployment")
}
