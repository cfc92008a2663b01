package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/bondwrap/internal/account"
	"github.com/Mohsinsiddi/bondwrap/internal/audit"
	"github.com/Mohsinsiddi/bondwrap/internal/config"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/spf13/cobra"
)

var (
	auditRPC        string
	auditWrapper    string
	auditUnderlying string
	auditFromBlock  uint64
	auditSkipLogs   bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check the wrapper's collateral invariants",
	Long: `Verify that the wrapper is fully collateralized.

Checks:
  supply matches balances  total supply equals the sum of balances (local only)
  collateralized           underlying held by the wrapper >= wrapped supply
  fully backed 1:1         custody equals supply exactly (warning only)
  events reconcile         sum(Wrap) - sum(Unwrap) equals supply

Without --rpc the local wrapper is audited. With --rpc a deployed wrapper is
read over JSON-RPC; its underlying token is read from token() unless
--underlying is given.

Exits non-zero when an error-level check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			report audit.Report
			err    error
		)
		if cmd.Flags().Changed("rpc") || auditWrapper != "" {
			report, err = auditChain(cmd.Context())
		} else {
			sys, lerr := loadSystem()
			if lerr != nil {
				return lerr
			}
			report, err = audit.Local(cmd.Context(), sys.Wrapper)
		}
		if err != nil {
			return err
		}
		printReport(cmd, report)
		return report.Err()
	},
}

func auditChain(ctx context.Context) (audit.Report, error) {
	addr := auditWrapper
	if addr == "" {
		addr = cfg.Contract(config.ContractWrapper)
	}
	wrapperAddr, err := account.ParseAddress(addr)
	if err != nil {
		return audit.Report{}, fmt.Errorf("wrapper contract: %w (pass --wrapper or run: bondwrap config set-contract wrapper <address>)", err)
	}

	t := audit.Target{Wrapper: wrapperAddr, SkipLogs: auditSkipLogs}
	underlying := auditUnderlying
	if underlying == "" {
		underlying = cfg.Contract(config.ContractUnderlying)
	}
	if underlying != "" {
		if t.Underlying, err = account.ParseAddress(underlying); err != nil {
			return audit.Report{}, fmt.Errorf("underlying token: %w", err)
		}
	}
	if auditFromBlock > 0 {
		t.FromBlock = new(big.Int).SetUint64(auditFromBlock)
	}

	client, err := newRPCClient(auditRPC)
	if err != nil {
		return audit.Report{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, config.AuditTimeout)
	defer cancel()

	sp := ui.NewSpinner("Auditing " + ui.TruncateAddr(wrapperAddr.Hex()) + "…")
	sp.Start()
	defer sp.Stop()
	return audit.OnChain(ctx, client, t)
}

func printReport(cmd *cobra.Command, r audit.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.StyleTitle.Render(fmt.Sprintf("Audit (%s) %s", r.Source, r.Wrapper.Hex())))
	fmt.Fprintln(out, ui.Meta(fmt.Sprintf("supply %s  custody %s", r.TotalSupply, r.Custody)))
	for _, c := range r.Checks {
		line := c.Name + "  " + ui.Meta(c.Detail)
		switch {
		case c.OK:
			fmt.Fprintln(out, ui.Success(line))
		case c.Level == audit.LevelWarn:
			fmt.Fprintln(out, ui.Warn(line))
		default:
			fmt.Fprintln(out, ui.Err(line))
		}
	}
}

func init() {
	auditCmd.Flags().StringVar(&auditRPC, "rpc", "", "JSON-RPC endpoint (default: config rpc_url)")
	auditCmd.Flags().StringVar(&auditWrapper, "wrapper", "", "deployed wrapper address (default: config contracts.wrapper)")
	auditCmd.Flags().StringVar(&auditUnderlying, "underlying", "", "underlying token address (default: read token())")
	auditCmd.Flags().Uint64Var(&auditFromBlock, "from-block", 0, "first block to scan for Wrap/Unwrap logs")
	auditCmd.Flags().BoolVar(&auditSkipLogs, "skip-logs", false, "skip the event reconciliation check")
}
