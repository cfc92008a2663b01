package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/bondwrap/internal/account"
	"github.com/Mohsinsiddi/bondwrap/internal/chain"
	"github.com/Mohsinsiddi/bondwrap/internal/config"
	"github.com/Mohsinsiddi/bondwrap/internal/store"
	"github.com/Mohsinsiddi/bondwrap/internal/ui"
	"github.com/Mohsinsiddi/bondwrap/internal/wrapper"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goliatone/go-logger/glog"
)

// Reserved target names understood wherever an address is expected.
const (
	targetWrapper    = "wrapper"
	targetUnderlying = "underlying"
)

func newAccountManager() *account.Manager {
	return account.NewManager(account.WithStore(account.NewJSONStore(cfg.AccountsPath())))
}

// consoleLogger is the stderr logger used with --verbose, nil otherwise.
func consoleLogger() *ui.ConsoleLogger {
	if !verbose {
		return nil
	}
	return ui.NewConsoleLogger(os.Stderr, ui.LevelDebug)
}

func wrapperOptions() []wrapper.Option {
	if l := consoleLogger(); l != nil {
		return []wrapper.Option{wrapper.WithLoggerProvider(l)}
	}
	return nil
}

func appLogger() glog.Logger {
	if l := consoleLogger(); l != nil {
		return l.GetLogger("bondwrap")
	}
	return glog.Nop()
}

func newRPCClient(url string) (*chain.EVMClient, error) {
	if url == "" {
		url = cfg.RPCURL
	}
	if url == "" {
		return nil, fmt.Errorf("no RPC endpoint — pass --rpc or run: bondwrap config set rpc_url <url>")
	}
	return chain.NewEVMClient(url, chain.WithTimeout(config.RPCTimeout), chain.WithLogger(appLogger())), nil
}

func openStore() *store.Store {
	return store.New(cfg.StatePath())
}

func loadSystem() (*store.System, error) {
	return openStore().Load(wrapperOptions()...)
}

// mutate loads the system, runs fn and persists the result when fn succeeds.
// A failed operation leaves the state file untouched.
func mutate(ctx context.Context, fn func(ctx context.Context, sys *store.System) error) error {
	sys, err := loadSystem()
	if err != nil {
		return err
	}
	if err := fn(ctx, sys); err != nil {
		return err
	}
	return openStore().Save(sys)
}

// actor resolves --as, falling back to the configured default account.
func actor(mgr *account.Manager) (common.Address, error) {
	who := asFlag
	if who == "" {
		who = cfg.DefaultAccount
	}
	addr, err := mgr.Resolve(who)
	if err != nil {
		return common.Address{}, fmt.Errorf("resolving caller: %w (add one with: bondwrap account new <name>)", err)
	}
	return addr, nil
}

// resolveTarget resolves an account name, a 0x address or one of the reserved
// names "wrapper" and "underlying". sys may be nil when no system is loaded.
func resolveTarget(mgr *account.Manager, sys *store.System, s string) (common.Address, error) {
	switch strings.ToLower(s) {
	case "":
		return common.Address{}, fmt.Errorf("address required")
	case targetWrapper:
		if sys == nil {
			return common.Address{}, store.ErrNotDeployed
		}
		return sys.Wrapper.Address(), nil
	case targetUnderlying:
		if sys == nil {
			return common.Address{}, store.ErrNotDeployed
		}
		return sys.Underlying, nil
	}
	return mgr.Resolve(s)
}

// label renders addr with its account name when it has one.
func label(mgr *account.Manager, sys *store.System, addr common.Address) string {
	if addr == (common.Address{}) {
		return ui.Meta("0x0 (none)")
	}
	name := mgr.NameOf(addr)
	if sys != nil {
		switch addr {
		case sys.Wrapper.Address():
			name = targetWrapper
		case sys.Underlying:
			name = targetUnderlying
		}
	}
	if name == "" {
		return ui.Addr(addr.Hex())
	}
	return ui.Val(name) + " " + ui.Meta("("+ui.TruncateAddr(addr.Hex())+")")
}
