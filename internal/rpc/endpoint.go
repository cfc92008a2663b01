// Package rpc probes JSON-RPC endpoints and picks the one bondwrap should talk to.
package rpc

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/Mohsinsiddi/bondwrap/internal/chain"
)

// probeTimeout bounds a single endpoint probe.
const probeTimeout = 5 * time.Second

// Endpoint is a probed RPC endpoint.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	ChainID     *big.Int
	Err         error
}

// Healthy reports whether the probe succeeded.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Probe pings url and reads its chain id.
func Probe(ctx context.Context, url string) Endpoint {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	c := chain.NewEVMClient(url, chain.WithTimeout(probeTimeout))
	ep := Endpoint{URL: url}
	ep.Latency, ep.BlockNumber, ep.Err = c.Ping(ctx)
	if ep.Err != nil {
		return ep
	}
	ep.ChainID, ep.Err = c.ChainID(ctx)
	return ep
}

// Benchmark probes every url in parallel. Results keep the order of urls.
func Benchmark(ctx context.Context, urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(idx int, url string) {
			defer wg.Done()
			out[idx] = Probe(ctx, url)
		}(i, u)
	}
	wg.Wait()
	return out
}

// Select benchmarks urls and picks one with strategy. A single url is returned
// without probing unless wantChain is set.
func Select(ctx context.Context, urls []string, strategy Strategy, wantChain *big.Int) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoHealthyRPC
	}
	if len(urls) == 1 && wantChain == nil {
		return urls[0], nil
	}
	winner, err := Pick(Benchmark(ctx, urls), strategy, wantChain)
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
