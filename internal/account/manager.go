// Package account is a named address book. Commands refer to identities by
// name ("owner", "bondMarket") and the manager resolves them to addresses.
package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Account sources.
const (
	SourceImported  = "imported"
	SourceGenerated = "generated"
)

// Errors.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidName     = errors.New("invalid account name")
)

// Account is one named identity.
type Account struct {
	Name      string         `json:"name"`
	Address   common.Address `json:"address"`
	Source    string         `json:"source"`
	IsDefault bool           `json:"is_default,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// Store is an interface for persisting accounts.
type Store interface {
	Load() ([]*Account, error)
	Save([]*Account) error
}

// Manager handles account CRUD.
type Manager struct {
	store    Store
	accounts map[string]*Account
	loaded   bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithInMemoryStore uses an in-memory store (useful for tests).
func WithInMemoryStore() Option {
	return func(m *Manager) {
		m.store = &memStore{}
	}
}

// WithStore sets a custom store.
func WithStore(s Store) Option {
	return func(m *Manager) {
		m.store = s
	}
}

// NewManager creates a new account manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		accounts: make(map[string]*Account),
		store:    &memStore{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func validName(name string) error {
	if name == "" || strings.HasPrefix(name, "0x") || strings.ContainsAny(name, " \t=") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ParseAddress accepts a 0x-prefixed 20-byte hex address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// Add registers an existing address under name.
func (m *Manager) Add(name string, addr common.Address) (*Account, error) {
	return m.insert(name, addr, SourceImported)
}

// New generates a fresh secp256k1 key and registers its address under name.
// The private key is discarded, so the account is watch-only.
func (m *Manager) New(name string) (*Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	return m.insert(name, crypto.PubkeyToAddress(key.PublicKey), SourceGenerated)
}

func (m *Manager) insert(name string, addr common.Address, source string) (*Account, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if addr == (common.Address{}) {
		return nil, fmt.Errorf("%w: zero address", ErrInvalidAddress)
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	if _, exists := m.accounts[name]; exists {
		return nil, ErrAccountExists
	}
	a := &Account{
		Name:      name,
		Address:   addr,
		Source:    source,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	m.accounts[name] = a
	return a, m.persist()
}

// Get returns an account by name.
func (m *Manager) Get(name string) (*Account, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	a, ok := m.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
	}
	return a, nil
}

// Resolve turns a name or a hex address into an address. Empty input resolves
// to the default account.
func (m *Manager) Resolve(nameOrAddress string) (common.Address, error) {
	if nameOrAddress == "" {
		d := m.Default()
		if d == nil {
			return common.Address{}, fmt.Errorf("%w: no default account", ErrAccountNotFound)
		}
		return d.Address, nil
	}
	if strings.HasPrefix(nameOrAddress, "0x") {
		return ParseAddress(nameOrAddress)
	}
	a, err := m.Get(nameOrAddress)
	if err != nil {
		return common.Address{}, err
	}
	return a.Address, nil
}

// NameOf returns the account name registered for addr, or "".
func (m *Manager) NameOf(addr common.Address) string {
	m.load() //nolint:errcheck
	for _, a := range m.accounts {
		if a.Address == addr {
			return a.Name
		}
	}
	return ""
}

// Remove deletes an account by name.
func (m *Manager) Remove(name string) error {
	if err := m.load(); err != nil {
		return err
	}
	if _, ok := m.accounts[name]; !ok {
		return fmt.Errorf("%w: %q", ErrAccountNotFound, name)
	}
	delete(m.accounts, name)
	return m.persist()
}

// List returns all accounts sorted by name.
func (m *Manager) List() []*Account {
	m.load() //nolint:errcheck
	out := make([]*Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetDefault marks an account as the default.
func (m *Manager) SetDefault(name string) error {
	if err := m.load(); err != nil {
		return err
	}
	if _, ok := m.accounts[name]; !ok {
		return fmt.Errorf("%w: %q", ErrAccountNotFound, name)
	}
	for _, a := range m.accounts {
		a.IsDefault = a.Name == name
	}
	return m.persist()
}

// Default returns the default account, or nil if none.
func (m *Manager) Default() *Account {
	m.load() //nolint:errcheck
	for _, a := range m.accounts {
		if a.IsDefault {
			return a
		}
	}
	// Fallback: the only account is the default.
	if len(m.accounts) == 1 {
		for _, a := range m.accounts {
			return a
		}
	}
	return nil
}

// --- internal ---

func (m *Manager) load() error {
	if m.loaded {
		return nil
	}
	accounts, err := m.store.Load()
	if err != nil {
		return err
	}
	for _, a := range accounts {
		m.accounts[a.Name] = a
	}
	m.loaded = true
	return nil
}

func (m *Manager) persist() error {
	return m.store.Save(m.List())
}

// --- in-memory store ---

type memStore struct {
	accounts []*Account
}

func (s *memStore) Load() ([]*Account, error) {
	return s.accounts, nil
}

func (s *memStore) Save(accounts []*Account) error {
	s.accounts = accounts
	return nil
}

// --- JSON file store ---

// JSONStore persists accounts to a JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON-backed account store.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Load() ([]*Account, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var accounts []*Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return accounts, nil
}

func (s *JSONStore) Save(accounts []*Account) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
