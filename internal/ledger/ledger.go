// Package ledger implements fungible-token accounting: balances, delegated
// allowances and total supply. It has no notion of ownership or of the
// underlying collateral; those live in the wrapper.
package ledger

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/Mohsinsiddi/bondwrap/internal/errs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// Default token metadata.
const (
	DefaultName     = "Bond Wrapped Token"
	DefaultSymbol   = "bwTKN"
	DefaultDecimals = 18
)

// Metadata describes the token held by a Ledger.
type Metadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Ledger holds balances and allowances. It is not safe for concurrent use;
// callers serialize access.
type Ledger struct {
	meta        Metadata
	balances    map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int
	totalSupply *big.Int
}

// New creates an empty ledger. Zero-valued metadata fields fall back to defaults.
func New(meta Metadata) *Ledger {
	if meta.Name == "" {
		meta.Name = DefaultName
	}
	if meta.Symbol == "" {
		meta.Symbol = DefaultSymbol
	}
	if meta.Decimals == 0 {
		meta.Decimals = DefaultDecimals
	}
	return &Ledger{
		meta:        meta,
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[common.Address]map[common.Address]*big.Int),
		totalSupply: new(big.Int),
	}
}

// Metadata returns the token name, symbol and decimals.
func (l *Ledger) Metadata() Metadata { return l.meta }

// BalanceOf returns a copy of the balance of account.
func (l *Ledger) BalanceOf(account common.Address) *big.Int {
	if b, ok := l.balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// TotalSupply returns a copy of the total supply.
func (l *Ledger) TotalSupply() *big.Int {
	return new(big.Int).Set(l.totalSupply)
}

// Allowance returns how much spender may still move on behalf of owner.
func (l *Ledger) Allowance(owner, spender common.Address) *big.Int {
	if a, ok := l.allowances[owner][spender]; ok {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

// Approve overwrites the allowance of spender over owner's balance.
func (l *Ledger) Approve(owner, spender common.Address, amount *big.Int) error {
	if err := CheckAmount(amount); err != nil {
		return err
	}
	if owner == (common.Address{}) {
		return errs.InvalidArgument("invalid approver")
	}
	if spender == (common.Address{}) {
		return errs.InvalidArgument("invalid spender")
	}
	inner, ok := l.allowances[owner]
	if !ok {
		inner = make(map[common.Address]*big.Int)
		l.allowances[owner] = inner
	}
	inner[spender] = new(big.Int).Set(amount)
	return nil
}

// SpendAllowance decrements the allowance of spender over owner by amount.
func (l *Ledger) SpendAllowance(owner, spender common.Address, amount *big.Int) error {
	if err := CheckAmount(amount); err != nil {
		return err
	}
	current := l.Allowance(owner, spender)
	if current.Cmp(amount) < 0 {
		return errs.InsufficientAllowance(owner.Hex(), spender.Hex(), current, amount)
	}
	if amount.Sign() == 0 {
		return nil
	}
	l.allowances[owner][spender] = current.Sub(current, amount)
	return nil
}

// Move transfers amount from one account to another. Moving to self is allowed
// and leaves the balance unchanged.
func (l *Ledger) Move(from, to common.Address, amount *big.Int) error {
	if err := CheckAmount(amount); err != nil {
		return err
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	if err := l.credit(to, amount); err != nil {
		l.balances[from] = new(big.Int).Add(l.BalanceOf(from), amount)
		return err
	}
	return nil
}

// Mint credits amount to account and grows the supply.
func (l *Ledger) Mint(to common.Address, amount *big.Int) error {
	if err := CheckAmount(amount); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return errs.InvalidArgument("invalid receiver")
	}
	supply := new(big.Int).Add(l.totalSupply, amount)
	if supply.Cmp(math.MaxBig256) > 0 {
		return errs.InvalidArgument("total supply overflows uint256")
	}
	if err := l.credit(to, amount); err != nil {
		return err
	}
	l.totalSupply = supply
	return nil
}

// Burn debits amount from account and shrinks the supply.
func (l *Ledger) Burn(from common.Address, amount *big.Int) error {
	if err := CheckAmount(amount); err != nil {
		return err
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	l.totalSupply.Sub(l.totalSupply, amount)
	return nil
}

// Accounts returns every address that has ever held a balance, sorted.
func (l *Ledger) Accounts() []common.Address {
	out := make([]common.Address, 0, len(l.balances))
	for a := range l.balances {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}

// SumBalances adds every balance. It equals TotalSupply in any reachable state.
func (l *Ledger) SumBalances() *big.Int {
	sum := new(big.Int)
	for _, b := range l.balances {
		sum.Add(sum, b)
	}
	return sum
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		meta:        l.meta,
		balances:    make(map[common.Address]*big.Int, len(l.balances)),
		allowances:  make(map[common.Address]map[common.Address]*big.Int, len(l.allowances)),
		totalSupply: new(big.Int).Set(l.totalSupply),
	}
	for a, b := range l.balances {
		c.balances[a] = new(big.Int).Set(b)
	}
	for owner, inner := range l.allowances {
		ci := make(map[common.Address]*big.Int, len(inner))
		for spender, amt := range inner {
			ci[spender] = new(big.Int).Set(amt)
		}
		c.allowances[owner] = ci
	}
	return c
}

func (l *Ledger) debit(from common.Address, amount *big.Int) error {
	bal := l.BalanceOf(from)
	if bal.Cmp(amount) < 0 {
		return errs.InsufficientBalance(from.Hex(), bal, amount)
	}
	if amount.Sign() == 0 {
		return nil
	}
	l.balances[from] = bal.Sub(bal, amount)
	return nil
}

func (l *Ledger) credit(to common.Address, amount *big.Int) error {
	bal := l.BalanceOf(to)
	bal.Add(bal, amount)
	if bal.Cmp(math.MaxBig256) > 0 {
		return errs.InvalidArgument("balance overflows uint256")
	}
	l.balances[to] = bal
	return nil
}

// CheckAmount rejects nil, negative and above-uint256 amounts.
func CheckAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 || amount.Cmp(math.MaxBig256) > 0 {
		return errs.InvalidArgument("invalid amount")
	}
	return nil
}
