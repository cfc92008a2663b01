package contract_test

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/bondwrap/internal/contract"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers eth_call by 4-byte selector.
type fakeBackend struct {
	returns map[string][]byte
	err     error
	calls   [][]byte
}

func (f *fakeBackend) CallContract(_ context.Context, _ common.Address, data []byte) ([]byte, error) {
	f.calls = append(f.calls, data)
	if f.err != nil {
		return nil, f.err
	}
	return f.returns["0x"+hex.EncodeToString(data[:4])], nil
}

var token = common.HexToAddress("0x0000000000000000000000000000000000070c3e")

func TestSelectorsMatchKnownValues(t *testing.T) {
	tests := []struct {
		entry    contract.ABIEntry
		expected string
	}{
		{contract.ABIEntry{Name: "balanceOf", Inputs: []contract.ABIParam{{Type: "address"}}}, "0x70a08231"},
		{contract.ABIEntry{Name: "transfer", Inputs: []contract.ABIParam{{Type: "address"}, {Type: "uint256"}}}, "0xa9059cbb"},
		{contract.ABIEntry{Name: "totalSupply"}, "0x18160ddd"},
		{contract.ABIEntry{Name: "approve", Inputs: []contract.ABIParam{{Type: "address"}, {Type: "uint256"}}}, "0x095ea7b3"},
		{contract.ABIEntry{Name: "allowance", Inputs: []contract.ABIParam{{Type: "address"}, {Type: "address"}}}, "0xdd62ed3e"},
		{contract.ABIEntry{Name: "transferFrom", Inputs: []contract.ABIParam{{Type: "address"}, {Type: "address"}, {Type: "uint256"}}}, "0x23b872dd"},
		{contract.ABIEntry{Name: "decimals"}, "0x313ce567"},
	}
	for _, tt := range tests {
		t.Run(contract.Signature(tt.entry), func(t *testing.T) {
			assert.Equal(t, tt.expected, contract.Selector(tt.entry))
		})
	}
}

func TestSelectorAgreesWithParsedABI(t *testing.T) {
	parsed := contract.MustParseBuiltin("bondwrapper")
	for _, e := range contract.GetBuiltinABI("bondwrapper") {
		if e.Type != "function" {
			continue
		}
		m, ok := parsed.Methods[e.Name]
		require.True(t, ok, e.Name)
		assert.Equal(t, contract.Selector(e), "0x"+hex.EncodeToString(m.ID), e.Name)
	}
}

func TestTopicAgreesWithParsedABI(t *testing.T) {
	parsed := contract.MustParseBuiltin("bondwrapper")
	for _, e := range contract.GetBuiltinABI("bondwrapper") {
		if !e.IsEvent() {
			continue
		}
		ev, ok := parsed.Events[e.Name]
		require.True(t, ok, e.Name)
		assert.Equal(t, ev.ID, contract.Topic(e), e.Name)
	}
}

func TestTransferEventTopic(t *testing.T) {
	e := contract.ABIEntry{Name: "Transfer", Type: "event", Inputs: []contract.ABIParam{
		{Type: "address"}, {Type: "address"}, {Type: "uint256"},
	}}
	assert.Equal(t,
		common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		contract.Topic(e))
}

func TestCallerCallBig(t *testing.T) {
	parsed := contract.MustParseBuiltin("erc20")
	ret, err := parsed.Methods["balanceOf"].Outputs.Pack(big.NewInt(1000))
	require.NoError(t, err)
	backend := &fakeBackend{returns: map[string][]byte{"0x70a08231": ret}}

	caller := contract.NewCaller(backend, parsed)
	got, err := caller.CallBig(context.Background(), token, "balanceOf", common.HexToAddress("0x0a11ce"))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Int64())

	require.Len(t, backend.calls, 1)
	assert.Len(t, backend.calls[0], 4+32)
}

func TestCallerCallDecodesString(t *testing.T) {
	parsed := contract.MustParseBuiltin("erc20")
	ret, err := parsed.Methods["symbol"].Outputs.Pack("USDC")
	require.NoError(t, err)
	backend := &fakeBackend{returns: map[string][]byte{"0x95d89b41": ret}}

	caller, err := contract.NewBuiltinCaller(backend, "erc20")
	require.NoError(t, err)
	out, err := caller.Call(context.Background(), token, "symbol")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "USDC", out[0])
}

func TestCallerRejectsUnknownFunction(t *testing.T) {
	caller := contract.NewCaller(&fakeBackend{}, contract.MustParseBuiltin("erc20"))
	_, err := caller.Call(context.Background(), token, "mint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in ABI")
}

func TestCallerRejectsWriteFunction(t *testing.T) {
	caller := contract.NewCaller(&fakeBackend{}, contract.MustParseBuiltin("erc20"))
	_, err := caller.Call(context.Background(), token, "transfer", token, big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a read function")
}

func TestCallerBackendError(t *testing.T) {
	caller := contract.NewCaller(&fakeBackend{err: errors.New("boom")}, contract.MustParseBuiltin("erc20"))
	_, err := caller.CallBig(context.Background(), token, "totalSupply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCallerEmptyReturnData(t *testing.T) {
	caller := contract.NewCaller(&fakeBackend{returns: map[string][]byte{}}, contract.MustParseBuiltin("erc20"))
	_, err := caller.CallBig(context.Background(), token, "totalSupply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty return data")
}

func TestCallerBadArguments(t *testing.T) {
	caller := contract.NewCaller(&fakeBackend{}, contract.MustParseBuiltin("erc20"))
	_, err := caller.Call(context.Background(), token, "balanceOf", "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoding call")
}

func TestNewBuiltinCallerUnknown(t *testing.T) {
	_, err := contract.NewBuiltinCaller(&fakeBackend{}, "no-such-abi")
	require.Error(t, err)
}
