package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/bondwrap/internal/config"
	"github.com/Mohsinsiddi/bondwrap/internal/rpc"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var (
	rpcURLFlag   string
	rpcBenchPick string
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Check the configured JSON-RPC endpoint",
	Long: `Ping the JSON-RPC endpoint used by "events --rpc" and "audit --rpc" and
report its chain id, head block and latency.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newRPCClient(rpcURLFlag)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), config.RPCTimeout)
		defer cancel()

		latency, block, err := client.Ping(ctx)
		if err != nil {
			return fmt.Errorf("%s unreachable: %w", client.URL(), err)
		}
		chainID, err := client.ChainID(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("RPC", [][2]string{
			{"Endpoint", client.URL()},
			{"Chain ID", chainID.String()},
			{"Head block", fmt.Sprint(block)},
			{"Latency", latency.String()},
		}))
		return nil
	},
}

var rpcBenchCmd = &cobra.Command{
	Use:   "bench <url> [url...]",
	Short: "Probe several endpoints and optionally make the best one the default",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.RPCTimeout)
		defer cancel()

		sp := ui.NewSpinner(fmt.Sprintf("Probing %d endpoints…", len(args)))
		sp.Start()
		eps := rpc.Benchmark(ctx, args)
		sp.Stop()

		t := ui.NewTable([]ui.Column{
			{Title: "Endpoint", Width: 40},
			{Title: "Chain", Width: 10},
			{Title: "Head", Width: 12},
			{Title: "Latency", Width: 12, Right: true},
			{Title: "Status", Width: 12},
		})
		for _, ep := range eps {
			chainID, head, latency, status := "—", "—", "—", ui.StyleSuccess.Render("ok")
			if ep.Healthy() {
				chainID = ep.ChainID.String()
				head = fmt.Sprint(ep.BlockNumber)
				latency = ep.Latency.Round(time.Millisecond).String()
			} else {
				status = ui.StyleError.Render("down")
			}
			t.AddRow(ui.Row{ep.URL, chainID, head, latency, status})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, t.Render())

		if rpcBenchPick == "" {
			return nil
		}
		strategy, err := rpc.ParseStrategy(rpcBenchPick)
		if err != nil {
			return err
		}
		winner, err := rpc.Pick(eps, strategy, nil)
		if err != nil {
			return err
		}
		if err := cfg.Set("rpc_url", winner.URL); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Success("rpc_url = "+winner.URL))
		return nil
	},
}

func init() {
	rpcCmd.Flags().StringVar(&rpcURLFlag, "rpc", "", "endpoint to check (default: config rpc_url)")
	rpcBenchCmd.Flags().StringVar(&rpcBenchPick, "pick", "", "save the winner as rpc_url using strategy fastest|failover")
	rpcCmd.AddCommand(rpcBenchCmd)
}
