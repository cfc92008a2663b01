// Package sync imports deployed wrapper addresses from a remote deployments
// manifest into the local config.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/Mohsinsiddi/bondwrap/internal/config"
	"github.com/Mohsinsiddi/bondwrap/internal/contract"
	"github.com/Mohsinsiddi/bondwrap/internal/rpc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goliatone/go-logger/glog"
)

// Manifest is the structure of a deployments.json manifest.
//
//	{"rpc_url": "https://…", "contracts": {"wrapper": "0x…", "underlying": "0x…"}}
//
// rpc_urls lists fallback endpoints; with chain_id set, only endpoints serving
// that chain are considered.
type Manifest struct {
	RPCURL    string            `json:"rpc_url,omitempty"`
	RPCURLs   []string          `json:"rpc_urls,omitempty"`
	ChainID   uint64            `json:"chain_id,omitempty"`
	Contracts map[string]string `json:"contracts"`
}

// Endpoints returns rpc_url followed by rpc_urls, without duplicates.
func (m *Manifest) Endpoints() []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range append([]string{m.RPCURL}, m.RPCURLs...) {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// Syncer fetches a manifest and records its addresses in the config.
type Syncer struct {
	cfg     *config.Config
	client  *http.Client
	backend  contract.Backend
	strategy rpc.Strategy
	logger   glog.Logger
	now     func() time.Time
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithBackend enables the token() cross-check against a live node.
func WithBackend(b contract.Backend) Option {
	return func(s *Syncer) { s.backend = b }
}

// WithHTTPClient replaces the manifest HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Syncer) { s.client = hc }
}

// WithStrategy sets how the RPC endpoint is chosen when the manifest lists
// several.
func WithStrategy(st rpc.Strategy) Option {
	return func(s *Syncer) { s.strategy = st }
}

// WithLogger sets the logger.
func WithLogger(l glog.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// New creates a new Syncer.
func New(cfg *config.Config, opts ...Option) *Syncer {
	s := &Syncer{
		cfg:      cfg,
		client:   &http.Client{Timeout: 15 * time.Second},
		strategy: rpc.StrategyFastest,
		logger:   glog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run fetches the manifest from the configured source and updates the config.
func (s *Syncer) Run(ctx context.Context) error {
	if s.cfg.SyncSource == "" {
		return fmt.Errorf("no sync source configured — run: bondwrap sync set-source <url>")
	}

	m, err := s.fetchManifest(ctx, s.cfg.SyncSource)
	if err != nil {
		return fmt.Errorf("fetching manifest: %w", err)
	}
	if len(m.Contracts) == 0 {
		return fmt.Errorf("manifest lists no contracts")
	}

	for role, addr := range m.Contracts {
		if err := s.cfg.SetContract(role, addr); err != nil {
			return fmt.Errorf("contract %q: %w", role, err)
		}
		s.logger.Debug("contract synced", "role", role, "address", addr)
	}
	if urls := m.Endpoints(); len(urls) > 0 {
		var want *big.Int
		if m.ChainID != 0 {
			want = new(big.Int).SetUint64(m.ChainID)
		}
		url, err := rpc.Select(ctx, urls, s.strategy, want)
		if err != nil {
			return fmt.Errorf("choosing RPC endpoint: %w", err)
		}
		s.logger.Debug("rpc endpoint chosen", "url", url, "candidates", len(urls))
		s.cfg.RPCURL = url
	}

	if err := s.verify(ctx); err != nil {
		return err
	}

	s.cfg.LastSynced = s.now().UTC().Format(time.RFC3339)
	return s.cfg.Save()
}

// verify checks that the wrapper's token() getter names the manifest's
// underlying. Skipped without a backend or when either address is missing.
func (s *Syncer) verify(ctx context.Context) error {
	wrapperAddr := s.cfg.Contract(config.ContractWrapper)
	underlyingAddr := s.cfg.Contract(config.ContractUnderlying)
	if s.backend == nil || wrapperAddr == "" || underlyingAddr == "" {
		return nil
	}

	caller, err := contract.NewBuiltinCaller(s.backend, "bondwrapper")
	if err != nil {
		return err
	}
	out, err := caller.Call(ctx, common.HexToAddress(wrapperAddr), "token")
	if err != nil {
		return fmt.Errorf("verifying wrapper: %w", err)
	}
	got, ok := out[0].(common.Address)
	if !ok || got != common.HexToAddress(underlyingAddr) {
		return fmt.Errorf("wrapper %s wraps %v, manifest says %s", wrapperAddr, out[0], underlyingAddr)
	}
	s.logger.Info("manifest verified", "wrapper", wrapperAddr, "underlying", underlyingAddr)
	return nil
}

// SetSource sets the remote manifest URL.
func (s *Syncer) SetSource(url string) error {
	s.cfg.SyncSource = url
	return s.cfg.Save()
}

// Watch runs Syncer.Run on a ticker until ctx is cancelled. Failures after the
// first run are logged and retried on the next tick.
func (s *Syncer) Watch(ctx context.Context, interval time.Duration) error {
	if err := s.Run(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Run(ctx); err != nil {
				s.logger.Warn("sync failed", "error", err.Error())
			}
		}
	}
}

func (s *Syncer) fetchManifest(ctx context.Context, url string) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest server returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
