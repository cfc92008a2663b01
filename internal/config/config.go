package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

const (
	defaultTokenName   = "Bond Wrapped Token"
	defaultTokenSymbol = "bwTKN"
	defaultDecimals    = 18
	defaultTrigger     = "recipient"

	configFile   = "config.json"
	accountsFile = "accounts.json"
	stateFile    = "state.json"
)

// DirEnv names the default config directory; the --config flag takes precedence.
const DirEnv = "BONDWRAP_CONFIG_DIR"

// Load reads config from dir (or creates defaults). dir defaults to ~/.bondwrap.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".bondwrap")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.Contracts == nil {
		cfg.Contracts = make(map[string]string)
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// AccountsPath is the address book file.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.configDir, accountsFile)
}

// StatePath is the persisted wrapper state file.
func (c *Config) StatePath() string {
	return filepath.Join(c.configDir, stateFile)
}

// Keys lists the settings accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(*Config, string) error{
	"default_account": func(c *Config, v string) error { c.DefaultAccount = v; return nil },
	"token_name":      func(c *Config, v string) error { c.TokenName = v; return nil },
	"token_symbol":    func(c *Config, v string) error { c.TokenSymbol = v; return nil },
	"rpc_url":         func(c *Config, v string) error { c.RPCURL = v; return nil },
	"sync_source":     func(c *Config, v string) error { c.SyncSource = v; return nil },
	"decimals": func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return fmt.Errorf("decimals must be 0-255: %w", err)
		}
		c.Decimals = uint8(n)
		return nil
	},
	"unwrap_trigger": func(c *Config, v string) error {
		if v != "recipient" && v != "sender" {
			return fmt.Errorf("unwrap_trigger must be \"recipient\" or \"sender\", got %q", v)
		}
		c.UnwrapTrigger = v
		return nil
	},
}

// Set updates one setting by its JSON key.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	return set(c, value)
}

// SetContract records the deployed address for role.
func (c *Config) SetContract(role, address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid address %q", address)
	}
	if c.Contracts == nil {
		c.Contracts = make(map[string]string)
	}
	c.Contracts[role] = common.HexToAddress(address).Hex()
	return nil
}

// Contract returns the deployed address for role, or "" if unset.
func (c *Config) Contract(role string) string {
	return c.Contracts[role]
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		TokenName:     defaultTokenName,
		TokenSymbol:   defaultTokenSymbol,
		Decimals:      defaultDecimals,
		UnwrapTrigger: defaultTrigger,
		Contracts:     make(map[string]string),
		configDir:     dir,
	}
}
