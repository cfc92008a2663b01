// Package audit checks the wrapper's accounting invariants, either on the local
// engine or on a deployed wrapper contract read over JSON-RPC.
package audit

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/bondwrap/internal/chain"
	"github.com/Mohsinsiddi/bondwrap/internal/contract"
	"github.com/Mohsinsiddi/bondwrap/internal/errs"
	"github.com/Mohsinsiddi/bondwrap/internal/events"
	"github.com/Mohsinsiddi/bondwrap/internal/wrapper"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Level is the severity of a failed check.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
)

// Check is one audited property.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Level  Level  `json:"level"`
	Detail string `json:"detail"`
}

// Report is the outcome of an audit.
type Report struct {
	Source      string         `json:"source"`
	Wrapper     common.Address `json:"wrapper"`
	TotalSupply *big.Int       `json:"total_supply"`
	Custody     *big.Int       `json:"custody"`
	Checks      []Check        `json:"checks"`
}

// OK reports whether no error-level check failed. Warnings do not count.
func (r Report) OK() bool {
	return r.Err() == nil
}

// Err returns an invariant violation for the first failed error-level check.
func (r Report) Err() error {
	for _, c := range r.Checks {
		if !c.OK && c.Level == LevelError {
			return errs.InvariantViolation(c.Name+": "+c.Detail, map[string]any{
				"source":  r.Source,
				"wrapper": r.Wrapper.Hex(),
			})
		}
	}
	return nil
}

func (r *Report) add(name string, ok bool, level Level, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, OK: ok, Level: level, Detail: detail})
}

func (r *Report) collateral() {
	r.add("collateralized", r.Custody.Cmp(r.TotalSupply) >= 0, LevelError,
		fmt.Sprintf("custody %s, supply %s", r.Custody, r.TotalSupply))
	r.add("fully backed 1:1", r.Custody.Cmp(r.TotalSupply) == 0, LevelWarn,
		fmt.Sprintf("surplus %s", new(big.Int).Sub(r.Custody, r.TotalSupply)))
}

// NetWrapped is Σ Wrap − Σ Unwrap over evs.
func NetWrapped(evs []events.Event) *big.Int {
	net := new(big.Int)
	for _, e := range evs {
		if e.Amount == nil {
			continue
		}
		switch e.Kind {
		case events.KindWrap:
			net.Add(net, e.Amount)
		case events.KindUnwrap:
			net.Sub(net, e.Amount)
		}
	}
	return net
}

func (r *Report) reconcile(evs []events.Event) {
	net := NetWrapped(evs)
	r.add("events reconcile", net.Cmp(r.TotalSupply) == 0, LevelError,
		fmt.Sprintf("wrapped − unwrapped = %s, supply %s", net, r.TotalSupply))
}

// Local audits an in-process wrapper from one consistent reading of its state.
func Local(ctx context.Context, w *wrapper.BondWrapper) (Report, error) {
	t, err := w.Totals(ctx)
	if err != nil {
		return Report{}, err
	}
	r := Report{
		Source:      "local",
		Wrapper:     w.Address(),
		TotalSupply: t.Supply,
		Custody:     t.Custody,
	}
	r.add("supply matches balances", t.SumBalances.Cmp(r.TotalSupply) == 0, LevelError,
		fmt.Sprintf("Σ balances %s, supply %s", t.SumBalances, r.TotalSupply))
	r.collateral()
	r.reconcile(t.Events)
	return r, nil
}

// ChainReader is the RPC surface an on-chain audit needs. *chain.EVMClient
// satisfies it.
type ChainReader interface {
	contract.Backend
	FilterLogs(ctx context.Context, q chain.LogQuery) ([]types.Log, error)
}

// Target names the deployed contracts to audit. A zero Underlying is read from
// the wrapper's token() getter.
type Target struct {
	Wrapper    common.Address
	Underlying common.Address
	FromBlock  *big.Int
	SkipLogs   bool
}

// OnChain audits a deployed wrapper.
func OnChain(ctx context.Context, rpc ChainReader, t Target) (Report, error) {
	wrapperCaller, err := contract.NewBuiltinCaller(rpc, "bondwrapper")
	if err != nil {
		return Report{}, err
	}
	erc20Caller, err := contract.NewBuiltinCaller(rpc, "erc20")
	if err != nil {
		return Report{}, err
	}

	underlying := t.Underlying
	if underlying == (common.Address{}) {
		out, err := wrapperCaller.Call(ctx, t.Wrapper, "token")
		if err != nil {
			return Report{}, fmt.Errorf("resolving underlying token: %w", err)
		}
		addr, ok := out[0].(common.Address)
		if !ok {
			return Report{}, fmt.Errorf("token(): unexpected output %T", out[0])
		}
		underlying = addr
	}

	supply, err := wrapperCaller.CallBig(ctx, t.Wrapper, "totalSupply")
	if err != nil {
		return Report{}, fmt.Errorf("reading wrapped supply: %w", err)
	}
	custody, err := erc20Caller.CallBig(ctx, underlying, "balanceOf", t.Wrapper)
	if err != nil {
		return Report{}, fmt.Errorf("reading custody: %w", err)
	}

	r := Report{Source: "chain", Wrapper: t.Wrapper, TotalSupply: supply, Custody: custody}
	r.collateral()
	if t.SkipLogs {
		return r, nil
	}

	evs, err := FetchEvents(ctx, rpc, t.Wrapper, t.FromBlock, events.KindWrap, events.KindUnwrap)
	if err != nil {
		return Report{}, err
	}
	r.reconcile(evs)
	return r, nil
}

// FetchEvents reads and decodes the wrapper's logs of the given kinds. No
// kinds means every wrapper event.
func FetchEvents(ctx context.Context, rpc ChainReader, wrapperAddr common.Address, from *big.Int, kinds ...events.Kind) ([]events.Event, error) {
	if len(kinds) == 0 {
		kinds = events.Kinds
	}
	topics := make([]common.Hash, 0, len(kinds))
	for _, k := range kinds {
		topic, err := events.Topic(k)
		if err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}

	logs, err := rpc.FilterLogs(ctx, chain.LogQuery{
		Address:   wrapperAddr,
		Topics:    [][]common.Hash{topics},
		FromBlock: from,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching logs: %w", err)
	}

	out := make([]events.Event, 0, len(logs))
	for i, l := range logs {
		if l.Removed {
			continue
		}
		e, err := events.Decode(l)
		if err != nil {
			return nil, fmt.Errorf("decoding log %d: %w", i, err)
		}
		e.Seq = uint64(i)
		out = append(out, e)
	}
	return out, nil
}
