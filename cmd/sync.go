package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mohsinsiddi/bondwrap/internal/contract"
	"github.com/Mohsinsiddi/bondwrap/internal/config"
	"github.com/Mohsinsiddi/bondwrap/internal/rpc"
	csync "github.com/Mohsinsiddi/bondwrap/internal/sync"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var (
	syncWatch    bool
	syncVerify   bool
	syncStrategy string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import deployed wrapper addresses from a remote manifest",
}

var syncSetSourceCmd = &cobra.Command{
	Use:   "set-source <url>",
	Short: "Set the remote deployments manifest URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := csync.New(cfg).SetSource(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Sync source set to: "+args[0]))
		return nil
	},
}

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the manifest and update the configured contracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := rpc.ParseStrategy(syncStrategy)
		if err != nil {
			return err
		}
		opts := []csync.Option{csync.WithLogger(appLogger()), csync.WithStrategy(strategy)}
		if syncVerify {
			client, err := newRPCClient("")
			if err != nil {
				return err
			}
			opts = append(opts, csync.WithBackend(contract.Backend(client)))
		}
		syncer := csync.New(cfg, opts...)
		out := cmd.OutOrStdout()

		if syncWatch {
			fmt.Fprintln(out, ui.Meta("Watching for changes every 30s. Press Ctrl+C to stop."))
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return syncer.Watch(ctx, 30*time.Second)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.RPCTimeout)
		defer cancel()
		if err := syncer.Run(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success("Synced."))
		fmt.Fprintln(out, ui.KeyValueBlock("Contracts", [][2]string{
			{"Wrapper", cfg.Contract(config.ContractWrapper)},
			{"Underlying", cfg.Contract(config.ContractUnderlying)},
			{"RPC", cfg.RPCURL},
		}))
		return nil
	},
}

func init() {
	syncRunCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep syncing every 30s")
	syncRunCmd.Flags().StringVar(&syncStrategy, "strategy", "fastest", "how to choose among the manifest's RPC endpoints: fastest|failover")
	syncRunCmd.Flags().BoolVar(&syncVerify, "verify", false, "check the wrapper's token() against the manifest over RPC")
	syncCmd.AddCommand(syncSetSourceCmd, syncRunCmd)
}
