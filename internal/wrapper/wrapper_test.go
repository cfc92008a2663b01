package wrapper_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/Mohsinsiddi/bondwrap/internal/asset"
	"github.com/Mohsinsiddi/bondwrap/internal/errs"
	"github.com/Mohsinsiddi/bondwrap/internal/events"
	"github.com/Mohsinsiddi/bondwrap/internal/ledger"
	"github.com/Mohsinsiddi/bondwrap/internal/wrapper"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goliatone/go-logger/glog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

var (
	wrapperAddr = common.HexToAddress("0x00000000000000000000000000000000000b0dd1")
	owner       = common.HexToAddress("0x000000000000000000000000000000000000aaaa")
	bondMarket  = common.HexToAddress("0x000000000000000000000000000000000000b0d0")
	random1     = common.HexToAddress("0x0000000000000000000000000000000000001111")
	random2     = common.HexToAddress("0x0000000000000000000000000000000000002222")
	random3     = common.HexToAddress("0x0000000000000000000000000000000000003333")
)

const initialBalance = 1000

// flakyUnderlying wraps the reference token and can be told to reject pushes
// or to misreport custody.
type flakyUnderlying struct {
	*asset.Token
	failTransfer  bool
	falseTransfer bool
	custody       *big.Int
}

func (f *flakyUnderlying) Transfer(ctx context.Context, caller, to common.Address, amount *big.Int) (bool, error) {
	if f.failTransfer {
		return false, errors.New("token paused")
	}
	if f.falseTransfer {
		return false, nil
	}
	return f.Token.Transfer(ctx, caller, to, amount)
}

func (f *flakyUnderlying) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	if f.custody != nil && account == wrapperAddr {
		return new(big.Int).Set(f.custody), nil
	}
	return f.Token.BalanceOf(ctx, account)
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) glog.Logger { return l }

func (l *captureLogger) WithFields(map[string]any) glog.Logger { return l }

func (l *captureLogger) record(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *captureLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

type fixture struct {
	ctx        context.Context
	underlying *flakyUnderlying
	w          *wrapper.BondWrapper
	log        *captureLogger
}

// deploy returns a wrapper whose owner holds 1000 underlying tokens
// and has approved the wrapper for all of them.
func deploy(t *testing.T, opts ...wrapper.Option) *fixture {
	t.Helper()
	token := asset.NewToken(ledger.Metadata{Name: "Mock Token", Symbol: "MOCK", Decimals: 18})
	require.NoError(t, token.Mint(owner, big.NewInt(initialBalance)))
	require.NoError(t, token.Approve(owner, wrapperAddr, big.NewInt(initialBalance)))

	u := &flakyUnderlying{Token: token}
	log := &captureLogger{}
	w := wrapper.New(wrapperAddr, owner, u, append([]wrapper.Option{wrapper.WithLogger(log)}, opts...)...)
	return &fixture{ctx: context.Background(), underlying: u, w: w, log: log}
}

// wrapped deploys and wraps 500 as the owner.
func wrapped(t *testing.T, opts ...wrapper.Option) *fixture {
	t.Helper()
	f := deploy(t, opts...)
	require.NoError(t, f.w.Wrap(f.ctx, owner, big.NewInt(500)))
	return f
}

func amt(n int64) *big.Int { return big.NewInt(n) }

func assertAmount(t *testing.T, want int64, got *big.Int, msgAndArgs ...any) {
	t.Helper()
	require.NotNil(t, got, msgAndArgs...)
	assert.Equal(t, big.NewInt(want).String(), got.String(), msgAndArgs...)
}

func (f *fixture) underlyingOf(t *testing.T, a common.Address) *big.Int {
	t.Helper()
	bal, err := f.underlying.Token.BalanceOf(f.ctx, a)
	require.NoError(t, err)
	return bal
}

func (f *fixture) custody(t *testing.T) *big.Int {
	t.Helper()
	c, err := f.w.Custody(f.ctx)
	require.NoError(t, err)
	return c
}

func (f *fixture) assertInvariants(t *testing.T) {
	t.Helper()
	require.NoError(t, f.w.CheckInvariants(f.ctx))
	assertAmount(t, f.custody(t).Int64(), f.w.TotalSupply(), "supply == custody")
}

func kinds(evs []events.Event) []events.Kind {
	out := make([]events.Kind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}

// ---------------------------------------------------------------------------
// deployment
// ---------------------------------------------------------------------------

func TestNewRecordsOwnership(t *testing.T) {
	f := deploy(t)

	assert.Equal(t, owner, f.w.Owner())
	assert.Equal(t, wrapperAddr, f.w.Address())
	assert.Equal(t, wrapper.TriggerRecipient, f.w.Trigger())
	assertAmount(t, 0, f.w.TotalSupply())
	assert.Equal(t, ledger.DefaultSymbol, f.w.Metadata().Symbol)

	evs := f.w.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.KindOwnershipTransferred, evs[0].Kind)
	assert.Equal(t, owner, evs[0].To)
	assert.True(t, f.log.has("info", "wrapper deployed"))
}

func TestWithMetadata(t *testing.T) {
	f := deploy(t, wrapper.WithMetadata(ledger.Metadata{Name: "Bond USDC", Symbol: "bUSDC", Decimals: 6}))
	meta := f.w.Metadata()
	assert.Equal(t, "bUSDC", meta.Symbol)
	assert.Equal(t, uint8(6), meta.Decimals)
}

func TestParseTrigger(t *testing.T) {
	got, err := wrapper.ParseTrigger("")
	require.NoError(t, err)
	assert.Equal(t, wrapper.TriggerRecipient, got)

	got, err = wrapper.ParseTrigger("sender")
	require.NoError(t, err)
	assert.Equal(t, wrapper.TriggerSender, got)

	_, err = wrapper.ParseTrigger("caller")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// wrap
// ---------------------------------------------------------------------------

func TestWrapMintsAndPullsCustody(t *testing.T) {
	f := wrapped(t)

	assertAmount(t, 500, f.w.BalanceOf(owner))
	assertAmount(t, 500, f.custody(t))
	assertAmount(t, 500, f.underlyingOf(t, owner))
	assertAmount(t, 500, f.w.TotalSupply())

	wraps := events.Filter(f.w.Events(), events.KindWrap)
	require.Len(t, wraps, 1)
	assert.Equal(t, owner, wraps[0].From)
	assertAmount(t, 500, wraps[0].Amount)

	assert.Equal(t,
		[]events.Kind{events.KindOwnershipTransferred, events.KindTransfer, events.KindWrap},
		kinds(f.w.Events()))
	assert.True(t, f.log.has("info", "wrap"))
	f.assertInvariants(t)
}

func TestWrapZeroRejected(t *testing.T) {
	f := deploy(t)

	err := f.w.Wrap(f.ctx, owner, amt(0))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidArgument(err))
	assertAmount(t, 0, f.w.TotalSupply())
	assertAmount(t, initialBalance, f.underlyingOf(t, owner))
}

func TestWrapNilAndNegativeRejected(t *testing.T) {
	f := deploy(t)
	assert.True(t, errs.IsInvalidArgument(f.w.Wrap(f.ctx, owner, nil)))
	assert.True(t, errs.IsInvalidArgument(f.w.Wrap(f.ctx, owner, amt(-1))))
}

func TestNonOwnerWrapRejected(t *testing.T) {
	f := deploy(t)
	require.NoError(t, f.underlying.Mint(random1, amt(100)))
	require.NoError(t, f.underlying.Approve(random1, wrapperAddr, amt(100)))

	err := f.w.Wrap(f.ctx, random1, amt(100))
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
	assert.Contains(t, err.Error(), errs.MsgNotOwner)

	assertAmount(t, 0, f.w.BalanceOf(random1))
	assertAmount(t, 100, f.underlyingOf(t, random1))
	assertAmount(t, 0, f.custody(t))
	assert.Len(t, f.w.Events(), 1)
	assert.True(t, f.log.has("warn", "operation rejected"))
}

func TestWrapWithoutApprovalFails(t *testing.T) {
	f := deploy(t)
	require.NoError(t, f.underlying.Approve(owner, wrapperAddr, amt(100)))

	err := f.w.Wrap(f.ctx, owner, amt(500))
	require.Error(t, err)
	assert.True(t, errs.IsUnderlyingTransfer(err))
	assertAmount(t, 0, f.w.BalanceOf(owner))
	assertAmount(t, 0, f.w.TotalSupply())
	assertAmount(t, initialBalance, f.underlyingOf(t, owner))
	assertAmount(t, 100, f.underlying.Allowance(owner, wrapperAddr))
}

func TestWrapBeyondUnderlyingBalanceFails(t *testing.T) {
	f := deploy(t)
	require.NoError(t, f.underlying.Approve(owner, wrapperAddr, amt(5000)))

	err := f.w.Wrap(f.ctx, owner, amt(1001))
	require.Error(t, err)
	assert.True(t, errs.IsUnderlyingTransfer(err))
	assertAmount(t, 0, f.w.TotalSupply())
}

// ---------------------------------------------------------------------------
// plain transfer
// ---------------------------------------------------------------------------

func TestTransferMovesBalance(t *testing.T) {
	f := wrapped(t)

	ok, err := f.w.Transfer(f.ctx, owner, random2, amt(200))
	require.NoError(t, err)
	assert.True(t, ok)

	assertAmount(t, 300, f.w.BalanceOf(owner))
	assertAmount(t, 200, f.w.BalanceOf(random2))
	assertAmount(t, 500, f.custody(t))
	assertAmount(t, 500, f.w.TotalSupply())
	assert.Empty(t, events.Filter(f.w.Events(), events.KindUnwrap))

	last := f.w.Events()[len(f.w.Events())-1]
	assert.Equal(t, events.KindTransfer, last.Kind)
	assert.Equal(t, owner, last.From)
	assert.Equal(t, random2, last.To)
	f.assertInvariants(t)
}

func TestTransferExceedingBalanceLeavesStateUnchanged(t *testing.T) {
	f := wrapped(t)
	before := f.w.Snapshot()

	ok, err := f.w.Transfer(f.ctx, owner, random2, amt(501))
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errs.IsInsufficientBalance(err))

	assert.Equal(t, before, f.w.Snapshot())
	assertAmount(t, 500, f.w.BalanceOf(owner))
	assertAmount(t, 0, f.w.BalanceOf(random2))
}

func TestTransferToZeroAddressRejected(t *testing.T) {
	f := wrapped(t)
	_, err := f.w.Transfer(f.ctx, owner, common.Address{}, amt(1))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidArgument(err))
	assertAmount(t, 500, f.w.TotalSupply())
}

func TestZeroAmountTransferAllowed(t *testing.T) {
	f := wrapped(t)
	ok, err := f.w.Transfer(f.ctx, random1, random2, amt(0))
	require.NoError(t, err)
	assert.True(t, ok)
	assertAmount(t, 0, f.w.BalanceOf(random2))
}

func TestNegativeTransferRejected(t *testing.T) {
	f := wrapped(t)
	_, err := f.w.Transfer(f.ctx, owner, random2, amt(-5))
	assert.True(t, errs.IsInvalidArgument(err))
}

// ---------------------------------------------------------------------------
// unwrap through a bond contract
// ---------------------------------------------------------------------------

func TestUnwrapToBondContract(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))

	ok, err := f.w.Transfer(f.ctx, owner, bondMarket, amt(200))
	require.NoError(t, err)
	assert.True(t, ok)

	assertAmount(t, 300, f.w.BalanceOf(owner))
	assertAmount(t, 0, f.w.BalanceOf(bondMarket))
	assertAmount(t, 200, f.underlyingOf(t, bondMarket))
	assertAmount(t, 300, f.w.TotalSupply())
	assertAmount(t, 300, f.custody(t))

	unwraps := events.Filter(f.w.Events(), events.KindUnwrap)
	require.Len(t, unwraps, 1)
	assert.Equal(t, owner, unwraps[0].From)
	assert.Equal(t, bondMarket, unwraps[0].To)
	assertAmount(t, 200, unwraps[0].Amount)

	evs := f.w.Events()
	burn := evs[len(evs)-2]
	assert.Equal(t, events.KindTransfer, burn.Kind)
	assert.Equal(t, common.Address{}, burn.To)
	assert.True(t, f.log.has("info", "unwrap"))
	f.assertInvariants(t)
}

func TestSenderTriggerUnwrapsFromBondContract(t *testing.T) {
	f := wrapped(t, wrapper.WithTrigger(wrapper.TriggerSender))
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))

	_, err := f.w.Transfer(f.ctx, owner, bondMarket, amt(200))
	require.NoError(t, err)
	assertAmount(t, 200, f.w.BalanceOf(bondMarket), "sending to the market is a plain move")

	_, err = f.w.Transfer(f.ctx, bondMarket, random3, amt(200))
	require.NoError(t, err)

	assertAmount(t, 0, f.w.BalanceOf(bondMarket))
	assertAmount(t, 0, f.w.BalanceOf(random3))
	assertAmount(t, 200, f.underlyingOf(t, random3))
	assertAmount(t, 300, f.w.TotalSupply())

	unwraps := events.Filter(f.w.Events(), events.KindUnwrap)
	require.Len(t, unwraps, 1)
	assert.Equal(t, bondMarket, unwraps[0].From)
	assert.Equal(t, random3, unwraps[0].To)
	assertAmount(t, 200, unwraps[0].Amount)
	f.assertInvariants(t)
}

func TestSelfRedeem(t *testing.T) {
	f := wrapped(t)
	_, err := f.w.Transfer(f.ctx, owner, bondMarket, amt(100))
	require.NoError(t, err)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))

	_, err = f.w.Transfer(f.ctx, bondMarket, bondMarket, amt(100))
	require.NoError(t, err)

	assertAmount(t, 0, f.w.BalanceOf(bondMarket))
	assertAmount(t, 100, f.underlyingOf(t, bondMarket))
	assertAmount(t, 400, f.w.TotalSupply())
	f.assertInvariants(t)
}

func TestZeroAmountUnwrapIsNoop(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))

	_, err := f.w.Transfer(f.ctx, random1, bondMarket, amt(0))
	require.NoError(t, err)
	assertAmount(t, 500, f.w.TotalSupply())
	assertAmount(t, 0, f.underlyingOf(t, bondMarket))
	assert.Len(t, events.Filter(f.w.Events(), events.KindUnwrap), 1)
}

func TestUnwrapExceedingBalanceFails(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))

	_, err := f.w.Transfer(f.ctx, random1, bondMarket, amt(1))
	require.Error(t, err)
	assert.True(t, errs.IsInsufficientBalance(err))
	assertAmount(t, 0, f.underlyingOf(t, bondMarket))
	assertAmount(t, 500, f.custody(t))
}

// ---------------------------------------------------------------------------
// transferFrom unwrap
// ---------------------------------------------------------------------------

func TestTransferFromUnwrapsFromBondContract(t *testing.T) {
	f := wrapped(t, wrapper.WithTrigger(wrapper.TriggerSender))
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))
	_, err := f.w.Transfer(f.ctx, owner, bondMarket, amt(200))
	require.NoError(t, err)

	require.NoError(t, f.w.Approve(f.ctx, bondMarket, owner, amt(200)))
	ok, err := f.w.TransferFrom(f.ctx, owner, bondMarket, random3, amt(200))
	require.NoError(t, err)
	assert.True(t, ok)

	assertAmount(t, 0, f.w.BalanceOf(bondMarket))
	assertAmount(t, 0, f.w.Allowance(bondMarket, owner))
	assertAmount(t, 200, f.underlyingOf(t, random3))

	unwraps := events.Filter(f.w.Events(), events.KindUnwrap)
	require.Len(t, unwraps, 1)
	assert.Equal(t, bondMarket, unwraps[0].From)
	assert.Equal(t, random3, unwraps[0].To)
	f.assertInvariants(t)
}

func TestTransferFromUnwrapsToBondContract(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))
	require.NoError(t, f.w.Approve(f.ctx, owner, random1, amt(250)))

	_, err := f.w.TransferFrom(f.ctx, random1, owner, bondMarket, amt(200))
	require.NoError(t, err)

	assertAmount(t, 300, f.w.BalanceOf(owner))
	assertAmount(t, 50, f.w.Allowance(owner, random1))
	assertAmount(t, 200, f.underlyingOf(t, bondMarket))
	assertAmount(t, 300, f.w.TotalSupply())
	f.assertInvariants(t)
}

func TestTransferFromPlainMove(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.Approve(f.ctx, owner, random1, amt(100)))

	_, err := f.w.TransferFrom(f.ctx, random1, owner, random2, amt(60))
	require.NoError(t, err)
	assertAmount(t, 60, f.w.BalanceOf(random2))
	assertAmount(t, 40, f.w.Allowance(owner, random1))
}

func TestTransferFromAllowanceCheckedFirst(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.Approve(f.ctx, random2, random1, amt(10)))

	// random2 holds nothing, yet the allowance error wins.
	_, err := f.w.TransferFrom(f.ctx, random1, random2, random3, amt(100))
	require.Error(t, err)
	assert.True(t, errs.IsInsufficientAllowance(err))
	assertAmount(t, 10, f.w.Allowance(random2, random1))
}

func TestTransferFromInsufficientBalanceRestoresAllowance(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.Approve(f.ctx, random2, random1, amt(100)))

	_, err := f.w.TransferFrom(f.ctx, random1, random2, random3, amt(50))
	require.Error(t, err)
	assert.True(t, errs.IsInsufficientBalance(err))
	assertAmount(t, 100, f.w.Allowance(random2, random1))
}

// ---------------------------------------------------------------------------
// rollback on underlying failure
// ---------------------------------------------------------------------------

func TestUnwrapRollsBackWhenUnderlyingErrors(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))
	require.NoError(t, f.w.Approve(f.ctx, owner, random1, amt(200)))
	before := f.w.Snapshot()

	f.underlying.failTransfer = true
	ok, err := f.w.TransferFrom(f.ctx, random1, owner, bondMarket, amt(200))
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errs.IsUnderlyingTransfer(err))
	assert.Contains(t, err.Error(), "underlying transfer failed")

	assert.Equal(t, before, f.w.Snapshot())
	assertAmount(t, 500, f.w.BalanceOf(owner))
	assertAmount(t, 500, f.w.TotalSupply())
	assertAmount(t, 200, f.w.Allowance(owner, random1))
	assertAmount(t, 0, f.underlyingOf(t, bondMarket))

	f.underlying.failTransfer = false
	f.assertInvariants(t)
}

func TestUnwrapRollsBackWhenUnderlyingReturnsFalse(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))
	f.underlying.falseTransfer = true

	_, err := f.w.Transfer(f.ctx, owner, bondMarket, amt(100))
	require.Error(t, err)
	assert.True(t, errs.IsUnderlyingTransfer(err))
	assertAmount(t, 500, f.w.BalanceOf(owner))
	assertAmount(t, 500, f.w.TotalSupply())
	assert.Empty(t, events.Filter(f.w.Events(), events.KindUnwrap))
}

// ---------------------------------------------------------------------------
// registry
// ---------------------------------------------------------------------------

func TestSetBondContract(t *testing.T) {
	f := deploy(t)

	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))
	assert.True(t, f.w.IsBondContract(bondMarket))
	assert.False(t, f.w.IsBondContract(random1))

	require.NoError(t, f.w.SetBondContract(owner, bondMarket, false))
	assert.False(t, f.w.IsBondContract(bondMarket))
	assert.Empty(t, f.w.BondContracts())

	sets := events.Filter(f.w.Events(), events.KindBondContractSet)
	require.Len(t, sets, 2)
	assert.True(t, sets[0].Status)
	assert.False(t, sets[1].Status)
}

func TestSetBondContractIdempotent(t *testing.T) {
	f := deploy(t)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))
	once := f.w.BondContracts()
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))

	assert.Equal(t, once, f.w.BondContracts())
	assert.Equal(t, []common.Address{bondMarket}, f.w.BondContracts())
}

func TestSetBondContractZeroAddressRejected(t *testing.T) {
	f := deploy(t)
	err := f.w.SetBondContract(owner, common.Address{}, true)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidArgument(err))
	assert.Empty(t, f.w.BondContracts())
}

func TestSetBondContractNonOwnerRejected(t *testing.T) {
	f := deploy(t)

	err := f.w.SetBondContract(random1, bondMarket, true)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
	assert.False(t, f.w.IsBondContract(bondMarket))

	// The owner gate runs before argument validation.
	err = f.w.SetBondContract(random1, common.Address{}, true)
	assert.True(t, errs.IsUnauthorized(err))
}

// ---------------------------------------------------------------------------
// approve / ownership
// ---------------------------------------------------------------------------

func TestApprove(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.Approve(f.ctx, owner, random1, amt(30)))
	require.NoError(t, f.w.Approve(f.ctx, owner, random1, amt(10)))
	assertAmount(t, 10, f.w.Allowance(owner, random1))

	approvals := events.Filter(f.w.Events(), events.KindApproval)
	require.Len(t, approvals, 2)
	assert.Equal(t, random1, approvals[1].To)

	err := f.w.Approve(f.ctx, owner, common.Address{}, amt(1))
	assert.True(t, errs.IsInvalidArgument(err))
}

func TestTransferOwnership(t *testing.T) {
	f := deploy(t)

	require.NoError(t, f.w.TransferOwnership(owner, random1))
	assert.Equal(t, random1, f.w.Owner())

	assert.True(t, errs.IsUnauthorized(f.w.SetBondContract(owner, bondMarket, true)))
	require.NoError(t, f.w.SetBondContract(random1, bondMarket, true))

	last := events.Filter(f.w.Events(), events.KindOwnershipTransferred)
	require.Len(t, last, 2)
	assert.Equal(t, owner, last[1].From)
	assert.Equal(t, random1, last[1].To)
}

func TestTransferOwnershipValidation(t *testing.T) {
	f := deploy(t)
	assert.True(t, errs.IsUnauthorized(f.w.TransferOwnership(random1, random1)))
	assert.True(t, errs.IsInvalidArgument(f.w.TransferOwnership(owner, common.Address{})))
	assert.Equal(t, owner, f.w.Owner())
}

func TestRenounceOwnership(t *testing.T) {
	f := deploy(t)
	require.NoError(t, f.w.RenounceOwnership(owner))

	assert.Equal(t, common.Address{}, f.w.Owner())
	assert.True(t, errs.IsUnauthorized(f.w.Wrap(f.ctx, owner, amt(1))))
	assert.True(t, errs.IsUnauthorized(f.w.SetBondContract(owner, bondMarket, true)))
	assert.True(t, errs.IsUnauthorized(f.w.RenounceOwnership(owner)))
}

// ---------------------------------------------------------------------------
// invariants / persistence / concurrency
// ---------------------------------------------------------------------------

func TestCheckInvariantsDetectsCustodyShortfall(t *testing.T) {
	f := wrapped(t)
	f.underlying.custody = amt(499)

	err := f.w.CheckInvariants(f.ctx)
	require.Error(t, err)
	assert.True(t, errs.IsInvariantViolation(err))
}

func TestCheckInvariantsAllowsSurplusCustody(t *testing.T) {
	f := wrapped(t)
	f.underlying.custody = amt(600)
	assert.NoError(t, f.w.CheckInvariants(f.ctx))
}

func TestSnapshotRestore(t *testing.T) {
	f := wrapped(t, wrapper.WithTrigger(wrapper.TriggerSender))
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))
	require.NoError(t, f.w.Approve(f.ctx, owner, random1, amt(7)))
	state := f.w.Snapshot()

	restored := wrapper.Restore(state, f.underlying)
	assert.Equal(t, state, restored.Snapshot())
	assert.Equal(t, wrapper.TriggerSender, restored.Trigger())
	assert.True(t, restored.IsBondContract(bondMarket))
	assertAmount(t, 7, restored.Allowance(owner, random1))

	// The restored journal continues the sequence.
	require.NoError(t, restored.Approve(f.ctx, owner, random1, amt(8)))
	evs := restored.Events()
	assert.Equal(t, evs[len(evs)-2].Seq+1, evs[len(evs)-1].Seq)
}

func TestRestoreDefaultsTrigger(t *testing.T) {
	f := deploy(t)
	state := f.w.Snapshot()
	state.Trigger = ""
	assert.Equal(t, wrapper.TriggerRecipient, wrapper.Restore(state, f.underlying).Trigger())
}

func TestConcurrentTransfersSerialize(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.w.Transfer(f.ctx, owner, random1, amt(1))
		}()
		go func() {
			defer wg.Done()
			_, _ = f.w.Transfer(f.ctx, owner, bondMarket, amt(1))
		}()
	}
	wg.Wait()

	assertAmount(t, 400, f.w.BalanceOf(owner))
	assertAmount(t, 50, f.w.BalanceOf(random1))
	assertAmount(t, 50, f.underlyingOf(t, bondMarket))
	assertAmount(t, 450, f.w.TotalSupply())
	assert.Len(t, events.Filter(f.w.Events(), events.KindUnwrap), 50)
	f.assertInvariants(t)
}

func TestInvariantsHoldDuringConcurrentUnwraps(t *testing.T) {
	f := wrapped(t)
	require.NoError(t, f.w.SetBondContract(owner, bondMarket, true))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_, _ = f.w.Transfer(f.ctx, owner, bondMarket, amt(1))
		}
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		require.NoError(t, f.w.CheckInvariants(f.ctx))
		totals, err := f.w.Totals(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, totals.Custody.Cmp(totals.Supply))
	}
	assertAmount(t, 300, f.w.TotalSupply())
}

func TestWrapAboveUint256Rejected(t *testing.T) {
	f := deploy(t)
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)

	err := f.w.Wrap(f.ctx, owner, tooBig)
	assert.True(t, errs.IsInvalidArgument(err))
	assertAmount(t, 0, f.w.TotalSupply())
	assertAmount(t, initialBalance, f.underlyingOf(t, owner))

	_, err = f.w.Transfer(f.ctx, owner, random1, tooBig)
	assert.True(t, errs.IsInvalidArgument(err))
}
