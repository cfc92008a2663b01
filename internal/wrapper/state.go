package wrapper

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/bondwrap/internal/access"
	"github.com/Mohsinsiddi/bondwrap/internal/asset"
	"github.com/Mohsinsiddi/bondwrap/internal/errs"
	"github.com/Mohsinsiddi/bondwrap/internal/events"
	"github.com/Mohsinsiddi/bondwrap/internal/ledger"
	"github.com/Mohsinsiddi/bondwrap/internal/registry"
	"github.com/ethereum/go-ethereum/common"
)

// Address returns the wrapper's own address, the custody account on the
// underlying asset.
func (w *BondWrapper) Address() common.Address { return w.address }

// Trigger returns the unwrap trigger.
func (w *BondWrapper) Trigger() Trigger { return w.trigger }

// Metadata returns the wrapped token name, symbol and decimals.
func (w *BondWrapper) Metadata() ledger.Metadata {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ledger.Metadata()
}

func (w *BondWrapper) Owner() common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.access.Owner()
}

func (w *BondWrapper) BalanceOf(account common.Address) *big.Int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ledger.BalanceOf(account)
}

func (w *BondWrapper) TotalSupply() *big.Int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ledger.TotalSupply()
}

func (w *BondWrapper) Allowance(owner, spender common.Address) *big.Int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ledger.Allowance(owner, spender)
}

// Accounts returns every address that has held wrapped tokens.
func (w *BondWrapper) Accounts() []common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ledger.Accounts()
}

// IsBondContract reports whether target is whitelisted.
func (w *BondWrapper) IsBondContract(target common.Address) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.registry.IsPrivileged(target)
}

// BondContracts lists the whitelisted addresses.
func (w *BondWrapper) BondContracts() []common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.registry.List()
}

// Events returns the recorded events in emission order.
func (w *BondWrapper) Events() []events.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.journal.All()
}

// Custody returns the underlying balance held by the wrapper.
func (w *BondWrapper) Custody(ctx context.Context) (*big.Int, error) {
	bal, err := w.underlying.BalanceOf(ctx, w.address)
	if err != nil {
		return nil, fmt.Errorf("reading custody: %w", err)
	}
	return bal, nil
}

// Totals is one consistent reading of the wrapper's accounting.
type Totals struct {
	Supply      *big.Int
	SumBalances *big.Int
	Custody     *big.Int
	Events      []events.Event
}

// Totals reads supply, balances, custody and the journal under one lock.
func (w *BondWrapper) Totals(ctx context.Context) (Totals, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	custody, err := w.Custody(ctx)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		Supply:      w.ledger.TotalSupply(),
		SumBalances: w.ledger.SumBalances(),
		Custody:     custody,
		Events:      w.journal.All(),
	}, nil
}

// CheckInvariants verifies that the supply equals the sum of balances and that
// the underlying held in custody covers the supply.
func (w *BondWrapper) CheckInvariants(ctx context.Context) error {
	t, err := w.Totals(ctx)
	if err != nil {
		return err
	}
	if t.Supply.Cmp(t.SumBalances) != 0 {
		return errs.InvariantViolation("total supply does not match sum of balances", map[string]any{
			"total_supply": t.Supply.String(),
			"sum_balances": t.SumBalances.String(),
		})
	}
	if t.Custody.Cmp(t.Supply) < 0 {
		return errs.InvariantViolation("wrapped supply exceeds custody", map[string]any{
			"total_supply": t.Supply.String(),
			"custody":      t.Custody.String(),
		})
	}
	return nil
}

// State is the persisted form of a BondWrapper.
type State struct {
	Address       common.Address   `json:"address"`
	Trigger       Trigger          `json:"trigger,omitempty"`
	Owner         common.Address   `json:"owner"`
	BondContracts []common.Address `json:"bond_contracts"`
	Ledger        ledger.Snapshot  `json:"ledger"`
	Events        []events.Event   `json:"events"`
}

// Snapshot captures the full engine state.
func (w *BondWrapper) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Address:       w.address,
		Trigger:       w.trigger,
		Owner:         w.access.Owner(),
		BondContracts: w.registry.List(),
		Ledger:        w.ledger.Snapshot(),
		Events:        w.journal.All(),
	}
}

// Restore rebuilds a wrapper from a snapshot. WithMetadata and WithTrigger are
// ignored; the snapshot carries its own.
func Restore(s State, underlying asset.Underlying, opts ...Option) *BondWrapper {
	o := buildOptions(opts)
	o.trigger = s.Trigger
	reg := registry.New()
	for _, a := range s.BondContracts {
		reg.Set(a, true)
	}
	return &BondWrapper{
		address:    s.Address,
		underlying: underlying,
		trigger:    o.resolvedTrigger(),
		access:     access.New(s.Owner),
		registry:   reg,
		ledger:     ledger.FromSnapshot(s.Ledger),
		journal:    events.NewJournal(s.Events),
		logger:     resolveLogger(o),
	}
}
