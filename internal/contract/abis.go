package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// BuiltinKind describes a contract type whose ABI is embedded in the binary.
// New built-ins register themselves via init() in their own <name>_abi.go file.
type BuiltinKind struct {
	ID          string     // machine key, e.g. "bondwrapper", "erc20"
	Name        string     // human label
	Description string     // one-line summary shown by `bondwrap abi`
	ABI         []ABIEntry // full ABI, ready to use
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin adds a built-in ABI to the global registry.
func RegisterBuiltin(b BuiltinKind) {
	builtinRegistry[b.ID] = b
}

// GetBuiltin returns a built-in by ID. ok is false if not found.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// GetBuiltinABI returns the ABI entries for a built-in ID, or nil if unknown.
func GetBuiltinABI(id string) []ABIEntry {
	b, ok := builtinRegistry[id]
	if !ok {
		return nil
	}
	return b.ABI
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []BuiltinKind {
	out := make([]BuiltinKind, 0, len(builtinRegistry))
	for _, b := range builtinRegistry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ABIJSON renders entries in the standard Solidity JSON ABI format.
func ABIJSON(entries []ABIEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// ParseBuiltin converts a registered built-in into a go-ethereum abi.ABI.
func ParseBuiltin(id string) (abi.ABI, error) {
	entries := GetBuiltinABI(id)
	if entries == nil {
		return abi.ABI{}, fmt.Errorf("unknown builtin ABI %q", id)
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return abi.ABI{}, err
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing builtin ABI %q: %w", id, err)
	}
	return parsed, nil
}

// MustParseBuiltin is ParseBuiltin for package-level initialisation.
func MustParseBuiltin(id string) abi.ABI {
	parsed, err := ParseBuiltin(id)
	if err != nil {
		panic(err)
	}
	return parsed
}
