// Package wrapper implements BondWrapper, a 1:1 collateralized wrapper around
// an underlying fungible asset.
//
// The owner wraps by handing underlying tokens to the wrapper, which mints the
// same amount of wrapped tokens. Wrapped tokens move like any ERC-20 except when
// a whitelisted bond contract takes part in the transfer: then they are burned
// and the recipient receives the underlying tokens from custody instead.
//
// Which side of a transfer has to be whitelisted for it to unwrap is set by
// Trigger. TriggerRecipient (the default) unwraps transfers sent to a bond
// contract and releases the underlying to it. TriggerSender unwraps transfers
// sent by a bond contract and releases the underlying to the recipient.
//
// Every mutating call runs under one lock and is all-or-nothing. Ledger,
// registry, owner and event journal are restored when any step fails.
package wrapper

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/bondwrap/internal/access"
	"github.com/Mohsinsiddi/bondwrap/internal/asset"
	"github.com/Mohsinsiddi/bondwrap/internal/errs"
	"github.com/Mohsinsiddi/bondwrap/internal/events"
	"github.com/Mohsinsiddi/bondwrap/internal/ledger"
	"github.com/Mohsinsiddi/bondwrap/internal/registry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goliatone/go-logger/glog"
)

// LoggerName is the name the wrapper resolves its logger under.
const LoggerName = "bondwrap"

// Trigger selects which transfer party must be a bond contract to unwrap.
type Trigger string

const (
	TriggerRecipient Trigger = "recipient"
	TriggerSender    Trigger = "sender"
)

// ParseTrigger accepts "recipient", "sender" or "" (the default).
func ParseTrigger(s string) (Trigger, error) {
	switch Trigger(s) {
	case "", TriggerRecipient:
		return TriggerRecipient, nil
	case TriggerSender:
		return TriggerSender, nil
	}
	return "", fmt.Errorf("unknown unwrap trigger %q (want %q or %q)", s, TriggerRecipient, TriggerSender)
}

// BondWrapper is the wrap/unwrap engine.
type BondWrapper struct {
	mu         sync.Mutex
	address    common.Address
	underlying asset.Underlying
	trigger    Trigger

	access   *access.Ownable
	registry *registry.Registry
	ledger   *ledger.Ledger
	journal  *events.Journal

	logger glog.Logger
}

type options struct {
	trigger  Trigger
	meta     ledger.Metadata
	logger   glog.Logger
	provider glog.LoggerProvider
}

// Option configures a BondWrapper.
type Option func(*options)

// WithMetadata sets the wrapped token name, symbol and decimals.
func WithMetadata(meta ledger.Metadata) Option {
	return func(o *options) { o.meta = meta }
}

// WithTrigger selects the unwrap trigger. Unknown values fall back to
// TriggerRecipient.
func WithTrigger(t Trigger) Option {
	return func(o *options) { o.trigger = t }
}

// WithLogger sets the logger.
func WithLogger(logger glog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLoggerProvider resolves the logger by name from provider. It takes
// precedence over WithLogger.
func WithLoggerProvider(provider glog.LoggerProvider) Option {
	return func(o *options) { o.provider = provider }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o options) resolvedTrigger() Trigger {
	if o.trigger == TriggerSender {
		return TriggerSender
	}
	return TriggerRecipient
}

func resolveLogger(o options) glog.Logger {
	if o.provider == nil && o.logger != nil {
		return o.logger
	}
	_, logger := glog.Resolve(LoggerName, o.provider, o.logger)
	return glog.Ensure(logger)
}

// New deploys a wrapper at address, owned by owner, holding underlying in custody.
func New(address, owner common.Address, underlying asset.Underlying, opts ...Option) *BondWrapper {
	o := buildOptions(opts)
	w := &BondWrapper{
		address:    address,
		underlying: underlying,
		trigger:    o.resolvedTrigger(),
		access:     access.New(owner),
		registry:   registry.New(),
		ledger:     ledger.New(o.meta),
		journal:    events.NewJournal(nil),
		logger:     resolveLogger(o),
	}
	w.journal.Append(events.OwnershipTransferred(common.Address{}, owner))
	w.logger.Info("wrapper deployed", "address", address.Hex(), "owner", owner.Hex(), "trigger", string(w.trigger))
	return w
}

// atomically runs fn under the lock. Any error restores the state captured
// before fn ran and drops the events fn recorded.
func (w *BondWrapper) atomically(op string, fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ledgerBefore := w.ledger.Clone()
	registryBefore := w.registry.Clone()
	ownerBefore := w.access.Owner()
	mark := w.journal.Len()

	if err := fn(); err != nil {
		w.ledger = ledgerBefore
		w.registry = registryBefore
		w.access = access.New(ownerBefore)
		w.journal.Truncate(mark)
		w.logger.Warn("operation rejected", "op", op, "code", errs.Code(err), "error", err.Error())
		return err
	}
	return nil
}

func validAmount(amount *big.Int) error {
	return ledger.CheckAmount(amount)
}

// Wrap pulls amount of the underlying asset from caller into custody and mints
// the same amount of wrapped tokens to caller. Owner only. caller must have
// approved the wrapper on the underlying asset beforehand.
func (w *BondWrapper) Wrap(ctx context.Context, caller common.Address, amount *big.Int) error {
	return w.atomically("wrap", func() error {
		if err := w.access.OnlyOwner(caller); err != nil {
			return err
		}
		if err := validAmount(amount); err != nil {
			return err
		}
		if amount.Sign() == 0 {
			return errs.InvalidArgument("invalid amount")
		}

		ok, err := w.underlying.TransferFrom(ctx, w.address, caller, w.address, amount)
		if err != nil || !ok {
			return errs.UnderlyingTransfer("transferFrom", err)
		}
		if err := w.ledger.Mint(caller, amount); err != nil {
			return err
		}

		w.journal.Append(events.Transfer(common.Address{}, caller, amount))
		w.journal.Append(events.Wrap(caller, amount))
		w.logger.Info("wrap", "who", caller.Hex(), "amount", amount.String())
		return nil
	})
}

// Transfer moves amount of wrapped tokens from caller to to, or unwraps them
// when the trigger party is a bond contract.
func (w *BondWrapper) Transfer(ctx context.Context, caller, to common.Address, amount *big.Int) (bool, error) {
	err := w.atomically("transfer", func() error {
		return w.transfer(ctx, caller, to, amount)
	})
	return err == nil, err
}

// TransferFrom is Transfer on behalf of from, spending spender's allowance.
// The allowance is checked before anything else and stays spent after an unwrap.
func (w *BondWrapper) TransferFrom(ctx context.Context, spender, from, to common.Address, amount *big.Int) (bool, error) {
	err := w.atomically("transferFrom", func() error {
		if err := validAmount(amount); err != nil {
			return err
		}
		if err := w.ledger.SpendAllowance(from, spender, amount); err != nil {
			return err
		}
		return w.transfer(ctx, from, to, amount)
	})
	return err == nil, err
}

func (w *BondWrapper) transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	if from == (common.Address{}) {
		return errs.InvalidArgument("invalid sender")
	}
	if to == (common.Address{}) {
		return errs.InvalidArgument("invalid receiver")
	}

	if !w.unwraps(from, to) {
		if err := w.ledger.Move(from, to, amount); err != nil {
			return err
		}
		w.journal.Append(events.Transfer(from, to, amount))
		w.logger.Debug("transfer", "from", from.Hex(), "to", to.Hex(), "amount", amount.String())
		return nil
	}

	if err := w.ledger.Burn(from, amount); err != nil {
		return err
	}
	ok, err := w.underlying.Transfer(ctx, w.address, to, amount)
	if err != nil || !ok {
		return errs.UnderlyingTransfer("transfer", err)
	}

	w.journal.Append(events.Transfer(from, common.Address{}, amount))
	w.journal.Append(events.Unwrap(from, to, amount))
	w.logger.Info("unwrap", "from", from.Hex(), "to", to.Hex(), "amount", amount.String())
	return nil
}

func (w *BondWrapper) unwraps(from, to common.Address) bool {
	if w.trigger == TriggerSender {
		return w.registry.IsPrivileged(from)
	}
	return w.registry.IsPrivileged(to)
}

// Approve overwrites the allowance of spender over owner's wrapped tokens.
func (w *BondWrapper) Approve(_ context.Context, owner, spender common.Address, amount *big.Int) error {
	return w.atomically("approve", func() error {
		if err := w.ledger.Approve(owner, spender, amount); err != nil {
			return err
		}
		w.journal.Append(events.Approval(owner, spender, amount))
		return nil
	})
}

// SetBondContract adds or removes target from the bond contract whitelist.
// Owner only; target must not be the zero address. Repeating a call is a no-op
// on state but is still recorded.
func (w *BondWrapper) SetBondContract(caller, target common.Address, status bool) error {
	return w.atomically("setBondContract", func() error {
		if err := w.access.OnlyOwner(caller); err != nil {
			return err
		}
		if target == (common.Address{}) {
			return errs.InvalidArgument("invalid address")
		}
		w.registry.Set(target, status)
		w.journal.Append(events.BondContractSet(target, status))
		w.logger.Info("bond contract set", "target", target.Hex(), "status", status)
		return nil
	})
}

// TransferOwnership hands the owner role to newOwner.
func (w *BondWrapper) TransferOwnership(caller, newOwner common.Address) error {
	return w.atomically("transferOwnership", func() error {
		prev, err := w.access.TransferOwnership(caller, newOwner)
		if err != nil {
			return err
		}
		w.journal.Append(events.OwnershipTransferred(prev, newOwner))
		w.logger.Info("ownership transferred", "previous", prev.Hex(), "owner", newOwner.Hex())
		return nil
	})
}

// RenounceOwnership removes the owner. Wrapping and whitelist changes are
// impossible afterwards.
func (w *BondWrapper) RenounceOwnership(caller common.Address) error {
	return w.atomically("renounceOwnership", func() error {
		prev, err := w.access.RenounceOwnership(caller)
		if err != nil {
			return err
		}
		w.journal.Append(events.OwnershipTransferred(prev, common.Address{}))
		w.logger.Info("ownership renounced", "previous", prev.Hex())
		return nil
	})
}
