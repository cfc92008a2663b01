// Package events holds the observations emitted by the wrapper and their
// Ethereum log encoding. Encode and Decode use the bondwrapper ABI, so a log
// produced by the local engine and one fetched from a deployed contract decode
// to the same Event.
package events

import (
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/bondwrap/internal/contract"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
)

// Kind is the event name as it appears in the ABI.
type Kind string

const (
	KindWrap                 Kind = "Wrap"
	KindUnwrap               Kind = "Unwrap"
	KindTransfer             Kind = "Transfer"
	KindApproval             Kind = "Approval"
	KindOwnershipTransferred Kind = "OwnershipTransferred"
	KindBondContractSet      Kind = "BondContractSet"
)

// Kinds lists every event kind in ABI declaration order.
var Kinds = []Kind{KindWrap, KindUnwrap, KindTransfer, KindApproval, KindOwnershipTransferred, KindBondContractSet}

// Event is one observation. Which fields are meaningful depends on Kind:
//
//	Wrap                 From=who          Amount
//	Unwrap               From, To          Amount
//	Transfer             From, To          Amount
//	Approval             From=owner, To=spender, Amount
//	OwnershipTransferred From=previous, To=new
//	BondContractSet      To=bond contract, Status
type Event struct {
	Seq    uint64         `json:"seq"`
	Kind   Kind           `json:"kind"`
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount *big.Int       `json:"amount,omitempty"`
	Status bool           `json:"status,omitempty"`

	// Set only for events decoded from chain logs.
	Block  uint64 `json:"block,omitempty"`
	TxHash string `json:"tx_hash,omitempty"`
}

func amountOf(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func Wrap(who common.Address, amount *big.Int) Event {
	return Event{Kind: KindWrap, From: who, Amount: amountOf(amount)}
}

func Unwrap(from, to common.Address, amount *big.Int) Event {
	return Event{Kind: KindUnwrap, From: from, To: to, Amount: amountOf(amount)}
}

func Transfer(from, to common.Address, amount *big.Int) Event {
	return Event{Kind: KindTransfer, From: from, To: to, Amount: amountOf(amount)}
}

func Approval(owner, spender common.Address, amount *big.Int) Event {
	return Event{Kind: KindApproval, From: owner, To: spender, Amount: amountOf(amount)}
}

func OwnershipTransferred(previous, next common.Address) Event {
	return Event{Kind: KindOwnershipTransferred, From: previous, To: next}
}

func BondContractSet(target common.Address, status bool) Event {
	return Event{Kind: KindBondContractSet, To: target, Status: status}
}

// layout maps ABI input names onto Event fields.
type layout struct {
	from, to, amount, status string
}

var layouts = map[Kind]layout{
	KindWrap:                 {from: "who", amount: "amount"},
	KindUnwrap:               {from: "from", to: "to", amount: "amount"},
	KindTransfer:             {from: "from", to: "to", amount: "value"},
	KindApproval:             {from: "owner", to: "spender", amount: "value"},
	KindOwnershipTransferred: {from: "previousOwner", to: "newOwner"},
	KindBondContractSet:      {to: "bondContract", status: "status"},
}

var wrapperABI = contract.MustParseBuiltin("bondwrapper")

// Topic returns topic0 for kind.
func Topic(kind Kind) (common.Hash, error) {
	ev, ok := wrapperABI.Events[string(kind)]
	if !ok {
		return common.Hash{}, fmt.Errorf("unknown event %q", kind)
	}
	return ev.ID, nil
}

func (e Event) value(l layout, name string) (any, error) {
	switch name {
	case l.from:
		return e.From, nil
	case l.to:
		return e.To, nil
	case l.amount:
		return amountOf(e.Amount), nil
	case l.status:
		return e.Status, nil
	}
	return nil, fmt.Errorf("%s: no field for input %q", e.Kind, name)
}

// Encode renders e as the log a deployed wrapper at address would emit.
func Encode(address common.Address, e Event) (types.Log, error) {
	ev, ok := wrapperABI.Events[string(e.Kind)]
	if !ok {
		return types.Log{}, fmt.Errorf("unknown event %q", e.Kind)
	}
	l := layouts[e.Kind]
	if e.Amount != nil && (e.Amount.Sign() < 0 || e.Amount.Cmp(math.MaxBig256) > 0) {
		return types.Log{}, fmt.Errorf("%s: amount %s is not a uint256", e.Kind, e.Amount)
	}

	topics := []common.Hash{ev.ID}
	var data []any
	for _, in := range ev.Inputs {
		v, err := e.value(l, in.Name)
		if err != nil {
			return types.Log{}, err
		}
		if !in.Indexed {
			data = append(data, v)
			continue
		}
		addr, ok := v.(common.Address)
		if !ok {
			return types.Log{}, fmt.Errorf("%s: indexed input %q is not an address", e.Kind, in.Name)
		}
		topics = append(topics, common.BytesToHash(addr.Bytes()))
	}

	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return types.Log{}, fmt.Errorf("packing %s: %w", e.Kind, err)
	}
	return types.Log{Address: address, Topics: topics, Data: packed}, nil
}

// Decode is the inverse of Encode. It accepts logs fetched with eth_getLogs
// and fills Block and TxHash from them.
func Decode(log types.Log) (Event, error) {
	if len(log.Topics) == 0 {
		return Event{}, fmt.Errorf("log has no topics")
	}
	ev, err := wrapperABI.EventByID(log.Topics[0])
	if err != nil {
		return Event{}, fmt.Errorf("unknown event topic %s", log.Topics[0].Hex())
	}

	var indexed abi.Arguments
	for _, in := range ev.Inputs {
		if in.Indexed {
			indexed = append(indexed, in)
		}
	}
	if len(log.Topics)-1 != len(indexed) {
		return Event{}, fmt.Errorf("%s: expected %d indexed topics, got %d", ev.Name, len(indexed), len(log.Topics)-1)
	}

	fields := map[string]any{}
	if err := ev.Inputs.UnpackIntoMap(fields, log.Data); err != nil {
		return Event{}, fmt.Errorf("unpacking %s: %w", ev.Name, err)
	}
	if err := abi.ParseTopicsIntoMap(fields, indexed, log.Topics[1:]); err != nil {
		return Event{}, fmt.Errorf("parsing %s topics: %w", ev.Name, err)
	}

	kind := Kind(ev.Name)
	l := layouts[kind]
	out := Event{Kind: kind, Block: log.BlockNumber}
	if log.TxHash != (common.Hash{}) {
		out.TxHash = log.TxHash.Hex()
	}
	if v, ok := fields[l.from].(common.Address); ok {
		out.From = v
	}
	if v, ok := fields[l.to].(common.Address); ok {
		out.To = v
	}
	if v, ok := fields[l.amount].(*big.Int); ok {
		out.Amount = new(big.Int).Set(v)
	}
	if v, ok := fields[l.status].(bool); ok {
		out.Status = v
	}
	return out, nil
}
