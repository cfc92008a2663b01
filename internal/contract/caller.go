package contract

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Backend executes a read-only call. *chain.EVMClient satisfies it.
type Backend interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Caller calls read-only (view/pure) contract functions.
type Caller struct {
	backend Backend
	abi     abi.ABI
}

// NewCaller creates a Caller over an already parsed ABI.
func NewCaller(backend Backend, parsed abi.ABI) *Caller {
	return &Caller{backend: backend, abi: parsed}
}

// NewBuiltinCaller creates a Caller for a registered built-in ABI.
func NewBuiltinCaller(backend Backend, id string) (*Caller, error) {
	parsed, err := ParseBuiltin(id)
	if err != nil {
		return nil, err
	}
	return NewCaller(backend, parsed), nil
}

// Call calls a read function on a contract and returns the decoded outputs.
func (c *Caller) Call(ctx context.Context, to common.Address, method string, args ...any) ([]any, error) {
	m, ok := c.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("function %q not found in ABI", method)
	}
	if !m.IsConstant() {
		return nil, fmt.Errorf("function %q is not a read function (stateMutability: %s)", method, m.StateMutability)
	}

	calldata, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	result, err := c.backend.CallContract(ctx, to, calldata)
	if err != nil {
		return nil, fmt.Errorf("contract call failed: %w", err)
	}
	if len(result) == 0 && len(m.Outputs) > 0 {
		return nil, fmt.Errorf("%s: empty return data (is %s a contract?)", method, to.Hex())
	}

	decoded, err := c.abi.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return decoded, nil
}

// CallBig calls a function returning a single uint256.
func (c *Caller) CallBig(ctx context.Context, to common.Address, method string, args ...any) (*big.Int, error) {
	out, err := c.Call(ctx, to, method, args...)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s: expected 1 output, got %d", method, len(out))
	}
	n, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected output type %T", method, out[0])
	}
	return n, nil
}

// Signature renders the canonical signature, e.g. "transfer(address,uint256)".
func Signature(e ABIEntry) string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.Type
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

func keccak(s string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(s))
	return h.Sum(nil)
}

// Selector returns the 4-byte function selector as 0x-prefixed hex.
func Selector(e ABIEntry) string {
	return "0x" + hex.EncodeToString(keccak(Signature(e))[:4])
}

// Topic returns the event topic0 hash.
func Topic(e ABIEntry) common.Hash {
	return common.BytesToHash(keccak(Signature(e)))
}
