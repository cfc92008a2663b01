package cmd

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/bondwrap/internal/account"
	"github.com/Mohsinsiddi/bondwrap/internal/audit"
	"github.com/Mohsinsiddi/bondwrap/internal/config"
	"github.com/Mohsinsiddi/bondwrap/internal/events"
	"github.com/Mohsinsiddi/bondwrap/internal/store"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	eventsKinds     []string
	eventsSince     int
	eventsRPC       string
	eventsContract  string
	eventsFromBlock uint64
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List wrapper events (local journal or on-chain logs)",
	Long: `List the events emitted by the wrapper.

Without --rpc the local event journal is shown. With --rpc the logs of a
deployed wrapper contract are fetched and decoded instead.

Examples:
  bondwrap events
  bondwrap events --kind Wrap --kind Unwrap
  bondwrap events --since 10
  bondwrap events --rpc http://localhost:8545 --contract 0xWrapper --from-block 1200`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds, err := parseKinds(eventsKinds)
		if err != nil {
			return err
		}
		mgr := newAccountManager()

		if cmd.Flags().Changed("rpc") || eventsContract != "" {
			evs, err := fetchChainEvents(cmd.Context(), kinds)
			if err != nil {
				return err
			}
			printEvents(cmd, mgr, nil, evs, cfg.Decimals, true)
			return nil
		}

		sys, err := loadSystem()
		if err != nil {
			return err
		}
		evs := sys.Wrapper.Events()
		if eventsSince > 0 && eventsSince < len(evs) {
			evs = evs[eventsSince:]
		} else if eventsSince >= len(evs) {
			evs = nil
		}
		if len(kinds) > 0 {
			evs = events.Filter(evs, kinds...)
		}
		printEvents(cmd, mgr, sys, evs, sys.Wrapper.Metadata().Decimals, false)
		return nil
	},
}

func parseKinds(raw []string) ([]events.Kind, error) {
	var out []events.Kind
	for _, r := range raw {
		found := false
		for _, k := range events.Kinds {
			if strings.EqualFold(string(k), r) {
				out = append(out, k)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown event kind %q (known: %s)", r, kindList())
		}
	}
	return out, nil
}

func kindList() string {
	names := make([]string, len(events.Kinds))
	for i, k := range events.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func fetchChainEvents(ctx context.Context, kinds []events.Kind) ([]events.Event, error) {
	addr := eventsContract
	if addr == "" {
		addr = cfg.Contract(config.ContractWrapper)
	}
	wrapperAddr, err := account.ParseAddress(addr)
	if err != nil {
		return nil, fmt.Errorf("wrapper contract: %w (pass --contract or run: bondwrap config set-contract wrapper <address>)", err)
	}
	client, err := newRPCClient(eventsRPC)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, config.AuditTimeout)
	defer cancel()

	sp := ui.NewSpinner("Fetching logs…")
	sp.Start()
	defer sp.Stop()

	var from *big.Int
	if eventsFromBlock > 0 {
		from = new(big.Int).SetUint64(eventsFromBlock)
	}
	return audit.FetchEvents(ctx, client, wrapperAddr, from, kinds...)
}

func printEvents(cmd *cobra.Command, mgr *account.Manager, sys *store.System, evs []events.Event, decimals uint8, chain bool) {
	out := cmd.OutOrStdout()
	if len(evs) == 0 {
		fmt.Fprintln(out, ui.Info("No events."))
		return
	}
	cols := []ui.Column{
		{Title: "#", Width: 5},
		{Title: "Event", Width: 21},
		{Title: "From", Width: 24},
		{Title: "To", Width: 24},
		{Title: "Amount", Width: 24, Right: true},
	}
	if chain {
		cols = append(cols, ui.Column{Title: "Block", Width: 10})
	}
	t := ui.NewTable(cols)
	for _, e := range evs {
		amount := ""
		switch e.Kind {
		case events.KindBondContractSet:
			amount = fmt.Sprintf("status=%t", e.Status)
		case events.KindOwnershipTransferred:
		default:
			amount = formatUnits(e.Amount, decimals)
		}
		row := ui.Row{fmt.Sprint(e.Seq), string(e.Kind), plainLabel(mgr, sys, e.From), plainLabel(mgr, sys, e.To), amount}
		if chain {
			row = append(row, fmt.Sprint(e.Block))
		}
		t.AddRow(row)
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d event(s)", len(evs))))
}

// plainLabel is label without styling, for fixed-width table cells.
func plainLabel(mgr *account.Manager, sys *store.System, addr common.Address) string {
	if addr == (common.Address{}) {
		return "-"
	}
	if sys != nil {
		switch addr {
		case sys.Wrapper.Address():
			return targetWrapper
		case sys.Underlying:
			return targetUnderlying
		}
	}
	if name := mgr.NameOf(addr); name != "" {
		return name
	}
	return ui.TruncateAddr(addr.Hex())
}

func init() {
	eventsCmd.Flags().StringSliceVar(&eventsKinds, "kind", nil, "only these event kinds ("+kindList()+")")
	eventsCmd.Flags().IntVar(&eventsSince, "since", 0, "skip the first N journal entries (local only)")
	eventsCmd.Flags().StringVar(&eventsRPC, "rpc", "", "JSON-RPC endpoint (default: config rpc_url)")
	eventsCmd.Flags().StringVar(&eventsContract, "contract", "", "deployed wrapper address (default: config contracts.wrapper)")
	eventsCmd.Flags().Uint64Var(&eventsFromBlock, "from-block", 0, "first block to scan (on-chain only)")
}
