// Package registry keeps the set of privileged counterparties ("bond contracts").
// Transfers of wrapped tokens to a registered address unwrap instead of moving.
// Authorization is the caller's concern; see wrapper.SetBondContract.
package registry

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Registry maps addresses to a privileged flag. Absent entries are not privileged.
type Registry struct {
	entries map[common.Address]bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[common.Address]bool)}
}

// Set records flag for target. Setting the current value again is a no-op.
func (r *Registry) Set(target common.Address, flag bool) {
	if !flag {
		delete(r.entries, target)
		return
	}
	r.entries[target] = true
}

// IsPrivileged reports whether target is registered.
func (r *Registry) IsPrivileged(target common.Address) bool {
	return r.entries[target]
}

// List returns the registered addresses in ascending byte order.
func (r *Registry) List() []common.Address {
	out := make([]common.Address, 0, len(r.entries))
	for a := range r.entries {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}

// Len returns the number of registered addresses.
func (r *Registry) Len() int { return len(r.entries) }

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	c := New()
	for a := range r.entries {
		c.entries[a] = true
	}
	return c
}
