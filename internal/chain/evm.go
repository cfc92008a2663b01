package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goliatone/go-logger/glog"
)

// DefaultTimeout bounds a single JSON-RPC round trip.
const DefaultTimeout = 15 * time.Second

// EVMClient is a minimal JSON-RPC client for EVM chains. It only carries the
// read side the wrapper needs: eth_call, eth_getLogs and chain metadata.
type EVMClient struct {
	url    string
	client *http.Client
	logger glog.Logger
}

// Option configures an EVMClient.
type Option func(*EVMClient)

// WithTimeout overrides the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *EVMClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *EVMClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger glog.Logger) Option {
	return func(c *EVMClient) {
		c.logger = glog.Ensure(logger)
	}
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string, opts ...Option) *EVMClient {
	c := &EVMClient{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
		logger: glog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// URL returns the endpoint the client talks to.
func (c *EVMClient) URL() string { return c.url }

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// ChainID returns the chain id reported by the node.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.call(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return id.ToInt(), nil
}

// CallContract executes a read-only call against the latest block.
func (c *EVMClient) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	var out hexutil.Bytes
	msg := map[string]string{
		"to":   to.Hex(),
		"data": hexutil.Encode(data),
	}
	if err := c.call(ctx, &out, "eth_call", msg, "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// LogQuery filters eth_getLogs. Nil block bounds mean "earliest" and "latest".
type LogQuery struct {
	Address   common.Address
	Topics    [][]common.Hash
	FromBlock *big.Int
	ToBlock   *big.Int
}

func (q LogQuery) toArg() map[string]any {
	arg := map[string]any{
		"address":   q.Address.Hex(),
		"fromBlock": blockArg(q.FromBlock, "earliest"),
		"toBlock":   blockArg(q.ToBlock, "latest"),
	}
	if len(q.Topics) > 0 {
		topics := make([]any, len(q.Topics))
		for i, alts := range q.Topics {
			switch len(alts) {
			case 0:
				topics[i] = nil
			case 1:
				topics[i] = alts[0].Hex()
			default:
				hexes := make([]string, len(alts))
				for j, h := range alts {
					hexes[j] = h.Hex()
				}
				topics[i] = hexes
			}
		}
		arg["topics"] = topics
	}
	return arg
}

func blockArg(n *big.Int, fallback string) string {
	if n == nil {
		return fallback
	}
	return hexutil.EncodeBig(n)
}

// rpcLog mirrors the eth_getLogs wire shape. Nodes differ on which fields
// they populate, so it is decoded leniently and converted afterwards.
type rpcLog struct {
	Address     common.Address `json:"address"`
	Topics      []common.Hash  `json:"topics"`
	Data        hexutil.Bytes  `json:"data"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
	TxHash      common.Hash    `json:"transactionHash"`
	TxIndex     hexutil.Uint   `json:"transactionIndex"`
	BlockHash   common.Hash    `json:"blockHash"`
	Index       hexutil.Uint   `json:"logIndex"`
	Removed     bool           `json:"removed"`
}

func (l rpcLog) toLog() types.Log {
	return types.Log{
		Address:     l.Address,
		Topics:      l.Topics,
		Data:        l.Data,
		BlockNumber: uint64(l.BlockNumber),
		TxHash:      l.TxHash,
		TxIndex:     uint(l.TxIndex),
		BlockHash:   l.BlockHash,
		Index:       uint(l.Index),
		Removed:     l.Removed,
	}
}

// FilterLogs queries event logs matching q.
func (c *EVMClient) FilterLogs(ctx context.Context, q LogQuery) ([]types.Log, error) {
	var raw []rpcLog
	if err := c.call(ctx, &raw, "eth_getLogs", q.toArg()); err != nil {
		return nil, err
	}
	logs := make([]types.Log, len(raw))
	for i, l := range raw {
		logs[i] = l.toLog()
	}
	return logs, nil
}

// Ping tests the RPC endpoint and returns latency + block number.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

func (c *EVMClient) call(ctx context.Context, result any, method string, params ...any) error {
	if params == nil {
		params = []any{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Trace("rpc request", "method", method, "url", c.url)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if rpcResp.Error != nil {
		c.logger.Debug("rpc error", "method", method, "code", rpcResp.Error.Code, "message", rpcResp.Error.Message)
		return rpcResp.Error
	}
	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return fmt.Errorf("%s: empty result", method)
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("parsing result: %w", err)
	}
	return nil
}
