package cmd

import (
	"fmt"
	"os"

	"github.com/Mohsinsiddi/bondwrap/internal/config"
	"github.com/Mohsinsiddi/bondwrap/internal/errs"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/bondwrap/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	asFlag  string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "bondwrap",
	Short: "Collateralized bond wrapper tokens",
	Long: `bondwrap — run a 1:1 collateralized wrapper token for bond markets.

  The owner wraps an underlying token into wrapped tokens. Wrapped tokens move
  like any ERC-20, except that a transfer involving a whitelisted bond contract
  burns them and releases the underlying from custody instead.

State is kept in the config directory. Every state-changing command acts as
the account given by --as (a saved account name or a 0x address), or the
default account when --as is omitted.

Deployed wrappers can be inspected read-only over JSON-RPC with
"bondwrap events --rpc" and "bondwrap audit --rpc".`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(errorLine(err)))
		os.Exit(1)
	}
}

// errorLine prefixes typed failures with their text code.
func errorLine(err error) string {
	if code := errs.Code(err); code != "" {
		return code + ": " + err.Error()
	}
	return err.Error()
}

func init() {
	// BONDWRAP_CONFIG_DIR becomes the --config default.
	if envDir := os.Getenv(config.DirEnv); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.bondwrap)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")
	rootCmd.PersistentFlags().StringVar(&asFlag, "as", "", "account to act as (name or address; default account if empty)")
	rootCmd.PersistentFlags().BoolVar(&rawAmounts, "raw", false, "amounts are integer base units instead of token units")

	// Register all sub-commands.
	rootCmd.AddCommand(
		deployCmd,
		accountCmd,
		underlyingCmd,
		wrapCmd,
		transferCmd,
		transferFromCmd,
		approveCmd,
		allowanceCmd,
		bondCmd,
		ownerCmd,
		balanceCmd,
		statusCmd,
		eventsCmd,
		auditCmd,
		abiCmd,
		convertCmd,
		configCmd,
		syncCmd,
		rpcCmd,
	)
}
