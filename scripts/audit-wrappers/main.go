// audit-wrappers: audits a set of deployed bond wrappers in parallel and
// prints a summary table. Each argument is RPC_URL=WRAPPER_ADDRESS.
//
// Run from the module root:
//
//	go run ./scripts/audit-wrappers http://127.0.0.1:8545=0xAbc… [more…]
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/bondwrap/internal/audit"
	"github.com/Mohsinsiddi/bondwrap/internal/chain"
	"github.com/ethereum/go-ethereum/common"
)

const rpcTimeout = 30 * time.Second

// ── types ─────────────────────────────────────────────────────────────────────

type target struct {
	rpcURL  string
	wrapper common.Address
}

type result struct {
	rpc     string
	wrapper string // short form
	supply  string
	custody string
	status  string
	note    string
}

// ── main ──────────────────────────────────────────────────────────────────────

func main() {
	targets, err := parseTargets(os.Args[1:])
	if err != nil || len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "usage: audit-wrappers RPC_URL=WRAPPER_ADDRESS [...]")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)

	for _, t := range targets {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
			defer cancel()

			r := result{rpc: t.rpcURL, wrapper: shortAddr(t.wrapper.Hex()), supply: "—", custody: "—"}

			report, err := audit.OnChain(ctx, chain.NewEVMClient(t.rpcURL), audit.Target{Wrapper: t.wrapper})
			switch {
			case err != nil:
				r.status = "unreachable"
				r.note = shortErr(err)
			default:
				r.supply = report.TotalSupply.String()
				r.custody = report.Custody.String()
				r.status = "ok"
				if failed := report.Err(); failed != nil {
					r.status = "VIOLATED"
					r.note = shortErr(failed)
				}
			}

			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}(t)
	}

	wg.Wait()

	printTable(results)

	for _, r := range results {
		if r.status != "ok" {
			os.Exit(1)
		}
	}
}

func parseTargets(args []string) ([]target, error) {
	out := make([]target, 0, len(args))
	for _, a := range args {
		rpcURL, addr, ok := strings.Cut(a, "=")
		if !ok || rpcURL == "" || !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("bad target %q", a)
		}
		out = append(out, target{rpcURL: rpcURL, wrapper: common.HexToAddress(addr)})
	}
	return out, nil
}

// ── output ────────────────────────────────────────────────────────────────────

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.rpc != b.rpc {
			return a.rpc < b.rpc
		}
		return a.wrapper < b.wrapper
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "RPC\tWRAPPER\tSUPPLY\tCUSTODY\tSTATUS\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 24)+"\t"+
		strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 20)+"\t"+
		strings.Repeat("-", 20)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 12))

	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.rpc, r.wrapper, r.supply, r.custody, r.status, r.note)
	}
	w.Flush()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 40 {
		return s[:40] + "…"
	}
	return s
}
