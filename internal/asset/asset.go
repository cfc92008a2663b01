// Package asset defines the underlying fungible asset the wrapper holds in
// custody, and provides Token, an in-memory reference implementation.
package asset

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Underlying is the slice of the ERC-20 surface the wrapper consumes. caller is
// the address executing the call (msg.sender on chain). A false result or an
// error both mean the transfer did not happen.
type Underlying interface {
	Transfer(ctx context.Context, caller, to common.Address, amount *big.Int) (bool, error)
	TransferFrom(ctx context.Context, spender, from, to common.Address, amount *big.Int) (bool, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
}
