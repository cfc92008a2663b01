package asset

import (
	"context"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/bondwrap/internal/errs"
	"github.com/Mohsinsiddi/bondwrap/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// Token is a mintable in-memory ERC-20. It plays the role of the underlying
// asset in local deployments and tests.
type Token struct {
	mu     sync.Mutex
	ledger *ledger.Ledger
}

var _ Underlying = (*Token)(nil)

// NewToken creates an empty token.
func NewToken(meta ledger.Metadata) *Token {
	return &Token{ledger: ledger.New(meta)}
}

// TokenFromSnapshot restores a token persisted with Snapshot.
func TokenFromSnapshot(s ledger.Snapshot) *Token {
	return &Token{ledger: ledger.FromSnapshot(s)}
}

// Metadata returns the token name, symbol and decimals.
func (t *Token) Metadata() ledger.Metadata {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Metadata()
}

// Mint creates amount new tokens for to. Unrestricted, like a test mock.
func (t *Token) Mint(to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Mint(to, amount)
}

// Approve sets the allowance of spender over owner's tokens.
func (t *Token) Approve(owner, spender common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Approve(owner, spender, amount)
}

// Allowance returns the remaining allowance of spender over owner.
func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Allowance(owner, spender)
}

// TotalSupply returns the minted supply.
func (t *Token) TotalSupply() *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.TotalSupply()
}

// Accounts lists every address that has held the token.
func (t *Token) Accounts() []common.Address {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Accounts()
}

// Transfer moves amount from caller to to.
func (t *Token) Transfer(_ context.Context, caller, to common.Address, amount *big.Int) (bool, error) {
	if to == (common.Address{}) {
		return false, errs.InvalidArgument("invalid receiver")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ledger.Move(caller, to, amount); err != nil {
		return false, err
	}
	return true, nil
}

// TransferFrom moves amount from from to to, spending spender's allowance.
// Nothing changes when either the allowance or the balance is short.
func (t *Token) TransferFrom(_ context.Context, spender, from, to common.Address, amount *big.Int) (bool, error) {
	if to == (common.Address{}) {
		return false, errs.InvalidArgument("invalid receiver")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if bal := t.ledger.BalanceOf(from); amount != nil && bal.Cmp(amount) < 0 {
		return false, errs.InsufficientBalance(from.Hex(), bal, amount)
	}
	if err := t.ledger.SpendAllowance(from, spender, amount); err != nil {
		return false, err
	}
	if err := t.ledger.Move(from, to, amount); err != nil {
		return false, err
	}
	return true, nil
}

// BalanceOf returns the balance of account.
func (t *Token) BalanceOf(_ context.Context, account common.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.BalanceOf(account), nil
}

// Snapshot exports the token state for persistence.
func (t *Token) Snapshot() ledger.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Snapshot()
}
