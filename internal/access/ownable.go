// Package access implements single-owner authorization.
package access

import (
	"github.com/Mohsinsiddi/bondwrap/internal/errs"
	"github.com/ethereum/go-ethereum/common"
)

// Ownable gates privileged operations behind one owner address.
type Ownable struct {
	owner common.Address
}

// New sets the initial owner, normally the deployer.
func New(owner common.Address) *Ownable {
	return &Ownable{owner: owner}
}

// Owner returns the current owner. The zero address means ownership was renounced.
func (o *Ownable) Owner() common.Address {
	return o.owner
}

// OnlyOwner fails with an authorization error unless caller is the owner.
func (o *Ownable) OnlyOwner(caller common.Address) error {
	if o.owner == (common.Address{}) || caller != o.owner {
		return errs.Unauthorized(caller.Hex())
	}
	return nil
}

// TransferOwnership hands the owner role to newOwner and returns the previous owner.
func (o *Ownable) TransferOwnership(caller, newOwner common.Address) (common.Address, error) {
	if err := o.OnlyOwner(caller); err != nil {
		return common.Address{}, err
	}
	if newOwner == (common.Address{}) {
		return common.Address{}, errs.InvalidArgument("new owner is the zero address")
	}
	prev := o.owner
	o.owner = newOwner
	return prev, nil
}

// RenounceOwnership leaves the contract without an owner. Every owner-only
// operation fails afterwards.
func (o *Ownable) RenounceOwnership(caller common.Address) (common.Address, error) {
	if err := o.OnlyOwner(caller); err != nil {
		return common.Address{}, err
	}
	prev := o.owner
	o.owner = common.Address{}
	return prev, nil
}
