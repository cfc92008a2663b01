package store_test

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/bondwrap/internal/events"
	"github.com/Mohsinsiddi/bondwrap/internal/ledger"
	"github.com/Mohsinsiddi/bondwrap/internal/store"
	"github.com/Mohsinsiddi/bondwrap/internal/wrapper"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner      = common.HexToAddress("0x000000000000000000000000000000000000aaaa")
	bondMarket = common.HexToAddress("0x000000000000000000000000000000000000b0d0")
	random     = common.HexToAddress("0x000000000000000000000000000000000000cccc")
)

func deployed(t *testing.T, opts ...wrapper.Option) *store.System {
	t.Helper()
	ctx := context.Background()
	sys := store.Deploy(owner, ledger.Metadata{Name: "Mock", Symbol: "MOCK", Decimals: 18}, opts...)
	require.NoError(t, sys.Token.Mint(owner, big.NewInt(1000)))
	require.NoError(t, sys.Token.Approve(owner, sys.Wrapper.Address(), big.NewInt(1000)))
	require.NoError(t, sys.Wrapper.Wrap(ctx, owner, big.NewInt(400)))
	require.NoError(t, sys.Wrapper.SetBondContract(owner, bondMarket, true))
	return sys
}

func TestDeployAddressesAreDistinctAndStable(t *testing.T) {
	a := store.Deploy(owner, ledger.Metadata{})
	b := store.Deploy(owner, ledger.Metadata{})

	assert.NotEqual(t, a.Underlying, a.Wrapper.Address())
	assert.Equal(t, a.Underlying, b.Underlying)
	assert.Equal(t, a.Wrapper.Address(), b.Wrapper.Address())
	assert.Equal(t, owner, a.Wrapper.Owner())
}

func TestLoadMissingIsNotDeployed(t *testing.T) {
	s := store.New(filepath.Join(t.TempDir(), "state.json"))
	assert.False(t, s.Exists())

	_, err := s.Load()
	assert.ErrorIs(t, err, store.ErrNotDeployed)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.New(filepath.Join(t.TempDir(), "state.json"))
	sys := deployed(t)
	require.NoError(t, s.Save(sys))
	assert.True(t, s.Exists())

	got, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, sys.Underlying, got.Underlying)
	assert.Equal(t, sys.Wrapper.Address(), got.Wrapper.Address())
	assert.Equal(t, owner, got.Wrapper.Owner())
	assert.True(t, got.Wrapper.IsBondContract(bondMarket))
	assert.Equal(t, "400", got.Wrapper.TotalSupply().String())
	assert.Equal(t, "400", got.Wrapper.BalanceOf(owner).String())
	assert.Equal(t, len(sys.Wrapper.Events()), len(got.Wrapper.Events()))

	custody, err := got.Wrapper.Custody(ctx)
	require.NoError(t, err)
	assert.Equal(t, "400", custody.String())
	assert.Equal(t, "600", got.Token.Allowance(owner, got.Wrapper.Address()).String())
	require.NoError(t, got.Wrapper.CheckInvariants(ctx))
}

func TestLoadedSystemKeepsWorking(t *testing.T) {
	ctx := context.Background()
	s := store.New(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, s.Save(deployed(t)))

	sys, err := s.Load()
	require.NoError(t, err)

	_, err = sys.Wrapper.Transfer(ctx, owner, bondMarket, big.NewInt(100))
	require.NoError(t, err)
	bal, err := sys.Token.BalanceOf(ctx, bondMarket)
	require.NoError(t, err)
	assert.Equal(t, "100", bal.String())
	require.NoError(t, s.Save(sys))

	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "300", again.Wrapper.TotalSupply().String())
	last := again.Wrapper.Events()[len(again.Wrapper.Events())-1]
	assert.Equal(t, events.KindUnwrap, last.Kind)
}

func TestTriggerSurvivesReload(t *testing.T) {
	ctx := context.Background()
	s := store.New(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, s.Save(deployed(t, wrapper.WithTrigger(wrapper.TriggerSender))))

	sys, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, wrapper.TriggerSender, sys.Wrapper.Trigger())

	// Sender trigger: a plain move into the bond contract.
	_, err = sys.Wrapper.Transfer(ctx, owner, bondMarket, big.NewInt(50))
	require.NoError(t, err)
	assert.Equal(t, "50", sys.Wrapper.BalanceOf(bondMarket).String())

	_, err = sys.Wrapper.Transfer(ctx, bondMarket, random, big.NewInt(50))
	require.NoError(t, err)
	bal, err := sys.Token.BalanceOf(ctx, random)
	require.NoError(t, err)
	assert.Equal(t, "50", bal.String())
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))

	_, err := store.New(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing state")
}

func TestLoadWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99}`), 0o600))

	_, err := store.New(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestSavePermissionsAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json")
	require.NoError(t, store.New(path).Save(deployed(t)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestRemove(t *testing.T) {
	s := store.New(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, s.Remove())
	require.NoError(t, s.Save(deployed(t)))
	require.NoError(t, s.Remove())
	assert.False(t, s.Exists())
}
