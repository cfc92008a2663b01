package config

import "time"

// Timeout constants used across cmd.
const (
	RPCTimeout   = 15 * time.Second // single JSON-RPC round trip
	AuditTimeout = 60 * time.Second // on-chain audit incl. log scan
)
