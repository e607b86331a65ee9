// Package service hosts the ambient layer around the pure dlmm quoting
// core: request throttling and a multi-snapshot scanner that evaluates
// several independent pools for the same pair concurrently.
package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/solroute-labs/dlmm-quote/pkg/dlmm"
)

// PoolSnapshot is one self-consistent view of a pool: its pricing state
// plus every bin array a quote against it might need. Snapshots are
// independent of one another — QuoteService never mutates them and never
// shares state across snapshots, so they may be quoted concurrently.
type PoolSnapshot struct {
	Label     string
	Pool      *dlmm.LbPair
	BinArrays dlmm.BinArrayMap
	Extension dlmm.BitmapExtension
	MintIn    dlmm.MintInfo
	MintOut   dlmm.MintInfo
}

// QuoteService wraps the dlmm quoting core with request throttling,
// suitable for a process that fields many quote requests (e.g. a routing
// backend comparing several pools for the same pair).
type QuoteService struct {
	limiter    *RateLimiter
	takeCount  int
	hostFeeBps uint16
}

// NewQuoteService builds a service throttled to requestsPerSecond quote
// evaluations per second. takeCount bounds how many bin arrays a single
// quote may traverse per side, mirroring the on-chain compute budget.
func NewQuoteService(requestsPerSecond int, takeCount int, hostFeeBps uint16) *QuoteService {
	return &QuoteService{
		limiter:    NewRateLimiter(requestsPerSecond),
		takeCount:  takeCount,
		hostFeeBps: hostFeeBps,
	}
}

// QuoteExactIn throttles then delegates to dlmm.QuoteExactIn.
func (s *QuoteService) QuoteExactIn(ctx context.Context, snap PoolSnapshot, amountIn uint64, swapForY bool, clock dlmm.Clock) (*dlmm.QuoteExactInResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return dlmm.QuoteExactIn(snap.Pool, amountIn, swapForY, snap.BinArrays, snap.Extension, clock, snap.MintIn, snap.MintOut, s.hostFeeBps, s.takeCount)
}

// QuoteExactOut throttles then delegates to dlmm.QuoteExactOut.
func (s *QuoteService) QuoteExactOut(ctx context.Context, snap PoolSnapshot, amountOut uint64, swapForY bool, clock dlmm.Clock) (*dlmm.QuoteExactOutResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return dlmm.QuoteExactOut(snap.Pool, amountOut, swapForY, snap.BinArrays, snap.Extension, clock, snap.MintIn, snap.MintOut, s.hostFeeBps, s.takeCount)
}

// BestQuote is the winning snapshot and its quoted output from BestExactIn.
type BestQuote struct {
	Snapshot PoolSnapshot
	Result   *dlmm.QuoteExactInResult
}

// correlationID renders a short base58 tag from a snapshot's label, for
// tying together the log lines of one BestExactIn fan-out in a noisy
// multi-request log stream.
func correlationID(label string) string {
	return base58.Encode([]byte(label))
}

// BestExactIn quotes amountIn against every snapshot concurrently and
// returns whichever yields the greatest amount_out. Snapshots represent
// independent pools for the same pair — this is not multi-hop routing,
// every candidate is evaluated against the exact same trade in isolation.
func (s *QuoteService) BestExactIn(ctx context.Context, snapshots []PoolSnapshot, amountIn uint64, swapForY bool, clock dlmm.Clock) (*BestQuote, error) {
	type quoteResult struct {
		snap   PoolSnapshot
		result *dlmm.QuoteExactInResult
		err    error
	}

	resultChan := make(chan quoteResult, len(snapshots))
	var wg sync.WaitGroup

	for _, snap := range snapshots {
		wg.Add(1)
		go func(snap PoolSnapshot) {
			defer wg.Done()
			result, err := s.QuoteExactIn(ctx, snap, amountIn, swapForY, clock)
			resultChan <- quoteResult{snap: snap, result: result, err: err}
		}(snap)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var (
		best     *BestQuote
		firstErr error
	)
	for r := range resultChan {
		if r.err != nil {
			log.Printf("quote failed for pool %s [%s]: %v", r.snap.Label, correlationID(r.snap.Label), r.err)
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		if best == nil || r.result.AmountOut > best.Result.AmountOut {
			best = &BestQuote{Snapshot: r.snap, Result: r.result}
		}
	}

	if best == nil {
		return nil, firstErr
	}
	return best, nil
}
