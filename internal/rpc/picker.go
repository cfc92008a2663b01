package rpc

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNoHealthyRPC is returned when no endpoint qualifies.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Strategy selects among probed endpoints.
type Strategy string

const (
	// StrategyFastest scores latency and head freshness.
	StrategyFastest Strategy = "fastest"
	// StrategyFailover takes the first healthy endpoint in listed order.
	StrategyFailover Strategy = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
)

// ParseStrategy accepts "fastest", "failover" or "" (fastest).
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyFastest:
		return StrategyFastest, nil
	case StrategyFailover:
		return StrategyFailover, nil
	}
	return "", fmt.Errorf("unknown RPC strategy %q (want %q or %q)", s, StrategyFastest, StrategyFailover)
}

// Pick chooses an endpoint. Unhealthy endpoints and, when wantChain is set,
// endpoints serving another chain are never chosen.
func Pick(endpoints []Endpoint, strategy Strategy, wantChain *big.Int) (*Endpoint, error) {
	candidates := eligible(endpoints, wantChain)
	if len(candidates) == 0 {
		return nil, ErrNoHealthyRPC
	}
	if strategy == StrategyFailover {
		return candidates[0], nil
	}

	var bestBlock uint64
	for _, e := range candidates {
		if e.BlockNumber > bestBlock {
			bestBlock = e.BlockNumber
		}
	}

	var winner *Endpoint
	var bestScore float64
	for _, e := range candidates {
		if bestBlock-e.BlockNumber > staleBlockThreshold {
			continue
		}
		s := score(e, bestBlock)
		if winner == nil || s > bestScore {
			winner, bestScore = e, s
		}
	}
	return winner, nil
}

func eligible(endpoints []Endpoint, wantChain *big.Int) []*Endpoint {
	var out []*Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Healthy() {
			continue
		}
		if wantChain != nil && (e.ChainID == nil || e.ChainID.Cmp(wantChain) != 0) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// score is higher for faster nodes, minus a point per block behind the head.
func score(e *Endpoint, bestBlock uint64) float64 {
	var s float64
	if ms := e.Latency.Milliseconds(); ms > 0 {
		s += 1000.0 / float64(ms)
	} else {
		s += 1000.0
	}
	s -= float64(bestBlock - e.BlockNumber)
	return s
}
