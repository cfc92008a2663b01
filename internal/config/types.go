package config

// Config holds all bondwrap configuration.
type Config struct {
	DefaultAccount string            `json:"default_account"`
	TokenName      string            `json:"token_name"`
	TokenSymbol    string            `json:"token_symbol"`
	Decimals       uint8             `json:"decimals"`
	UnwrapTrigger  string            `json:"unwrap_trigger"` // "recipient" | "sender"
	RPCURL         string            `json:"rpc_url,omitempty"`
	Contracts      map[string]string `json:"contracts"` // deployed addresses by role: "wrapper", "underlying"
	SyncSource     string            `json:"sync_source,omitempty"`
	LastSynced     string            `json:"last_synced,omitempty"`

	// internal: config dir path used for Save()
	configDir string
}

// Contract roles understood by the chain-reading commands.
const (
	ContractWrapper    = "wrapper"
	ContractUnderlying = "underlying"
)
