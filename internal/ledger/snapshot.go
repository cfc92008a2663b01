package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the serializable form of a Ledger.
type Snapshot struct {
	Metadata    Metadata                                       `json:"metadata"`
	Balances    map[common.Address]*big.Int                    `json:"balances"`
	Allowances  map[common.Address]map[common.Address]*big.Int `json:"allowances"`
	TotalSupply *big.Int                                       `json:"total_supply"`
}

// Snapshot exports a deep copy of the ledger state.
func (l *Ledger) Snapshot() Snapshot {
	c := l.Clone()
	return Snapshot{
		Metadata:    c.meta,
		Balances:    c.balances,
		Allowances:  c.allowances,
		TotalSupply: c.totalSupply,
	}
}

// FromSnapshot rebuilds a ledger. The snapshot is copied, not retained.
func FromSnapshot(s Snapshot) *Ledger {
	l := New(s.Metadata)
	for a, b := range s.Balances {
		if b != nil {
			l.balances[a] = new(big.Int).Set(b)
		}
	}
	for owner, inner := range s.Allowances {
		ci := make(map[common.Address]*big.Int, len(inner))
		for spender, amt := range inner {
			if amt != nil {
				ci[spender] = new(big.Int).Set(amt)
			}
		}
		l.allowances[owner] = ci
	}
	if s.TotalSupply != nil {
		l.totalSupply.Set(s.TotalSupply)
	}
	return l
}
