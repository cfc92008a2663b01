// Package store persists a deployed wrapper and its underlying token between
// CLI invocations.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Mohsinsiddi/bondwrap/internal/asset"
	"github.com/Mohsinsiddi/bondwrap/internal/ledger"
	"github.com/Mohsinsiddi/bondwrap/internal/wrapper"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// stateVersion is bumped whenever the file layout changes incompatibly.
const stateVersion = 1

// ErrNotDeployed is returned by Load when no state file exists yet.
var ErrNotDeployed = errors.New("no wrapper deployed — run: bondwrap deploy")

// System is a wrapper together with the token it holds in custody.
type System struct {
	Underlying common.Address
	Token      *asset.Token
	Wrapper    *wrapper.BondWrapper
}

// Deploy creates a fresh underlying token and a wrapper around it, both owned
// by owner. Addresses are derived the way contract creation derives them:
// the token from owner's nonce 0, the wrapper from nonce 1.
func Deploy(owner common.Address, underlying ledger.Metadata, opts ...wrapper.Option) *System {
	tokenAddr := crypto.CreateAddress(owner, 0)
	wrapperAddr := crypto.CreateAddress(owner, 1)
	token := asset.NewToken(underlying)
	return &System{
		Underlying: tokenAddr,
		Token:      token,
		Wrapper:    wrapper.New(wrapperAddr, owner, token, opts...),
	}
}

type underlyingState struct {
	Address common.Address  `json:"address"`
	Ledger  ledger.Snapshot `json:"ledger"`
}

type stateFile struct {
	Version    int             `json:"version"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Underlying underlyingState `json:"underlying"`
	Wrapper    wrapper.State   `json:"wrapper"`
}

// Store reads and writes the state file.
type Store struct {
	path string
	now  func() time.Time
}

// New returns a store backed by path.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Exists reports whether a state file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load rebuilds the system. opts are passed to wrapper.Restore.
func (s *Store) Load(opts ...wrapper.Option) (*System, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNotDeployed
	}
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	if f.Version != stateVersion {
		return nil, fmt.Errorf("state file version %d not supported (want %d)", f.Version, stateVersion)
	}

	token := asset.TokenFromSnapshot(f.Underlying.Ledger)
	return &System{
		Underlying: f.Underlying.Address,
		Token:      token,
		Wrapper:    wrapper.Restore(f.Wrapper, token, opts...),
	}, nil
}

// Save writes sys to disk. The file is replaced atomically.
func (s *Store) Save(sys *System) error {
	f := stateFile{
		Version:   stateVersion,
		UpdatedAt: s.now().UTC(),
		Underlying: underlyingState{
			Address: sys.Underlying,
			Ledger:  sys.Token.Snapshot(),
		},
		Wrapper: sys.Wrapper.Snapshot(),
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Remove deletes the state file. A missing file is not an error.
func (s *Store) Remove() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
