// Package prefetch warms a chainstate.CoinCache with the coins a
// candidate block is about to consume, reading them in parallel from a
// slower chainstate.CoinView ahead of serial block validation.
package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-backend/internal/chainstate"
)

// minWorkerCount is the smallest worker_count this module treats as
// viable. Below it the dispatcher would never have a peer to hand the
// tail of a batch to, so FetchInputs degenerates to a no-op and callers
// fall back to whatever serial lookup they already perform.
const minWorkerCount = 2

// perWorkerResults is the per-participant slot described by the
// Prefetcher's results field. Index k belongs exclusively to worker k;
// the last index belongs to the dispatcher when it participates as a
// worker.
type perWorkerResults struct {
	items []chainstate.FetchedCoin
}

// Prefetcher is a long-lived pool of workers plus the coordinator state
// they share. It is created once with New and handles many FetchInputs
// calls over its lifetime; it is never copied, and its only valid handle
// is the *Prefetcher New returns.
type Prefetcher struct {
	coord       *coordinator
	batchSize   int
	workerCount int
	logger      *zap.Logger

	wg      sync.WaitGroup
	results []perWorkerResults

	// Set by FetchInputs before publish and read-only by every
	// participant thereafter, per the shared-resource policy in ยง5.
	ctx     context.Context
	cache   chainstate.CoinCache
	backing chainstate.CoinView
}

// New creates a Prefetcher and spawns its worker pool. If workerCount is
// below minWorkerCount, the prefetcher is still returned but every
// subsequent FetchInputs call is a no-op; Close remains safe to call.
func New(batchSize, workerCount int, logger *zap.Logger) *Prefetcher {
	p := &Prefetcher{
		coord:       newCoordinator(),
		batchSize:   batchSize,
		workerCount: workerCount,
		logger:      logger,
	}

	if workerCount < minWorkerCount {
		if logger != nil {
			logger.Warn("prefetch: worker_count below minimum, prefetching disabled",
				zap.Int("worker_count", workerCount), zap.Int("minimum", minWorkerCount))
		}
		return p
	}

	p.results = make([]perWorkerResults, workerCount+1)
	p.wg.Add(workerCount)
	for k := 0; k < workerCount; k++ {
		go p.workerLoop(k)
	}
	return p
}

// FetchInputs extracts every candidate outpoint from block, primes the
// coordinator, participates in the claim loop as the dispatcher, then
// drains every participant's result slot into cache via a non-dirty
// insert. No other call to FetchInputs on the same Prefetcher may be in
// progress concurrently.
func (p *Prefetcher) FetchInputs(ctx context.Context, cache chainstate.CoinCache, backing chainstate.CoinView, block *wire.MsgBlock) {
	if p.workerCount < minWorkerCount || block == nil || len(block.Transactions) <= 1 {
		callsTotal.WithLabelValues("noop").Inc()
		return
	}

	start := time.Now()

	p.ctx = ctx
	p.cache = cache
	p.backing = backing

	var outpoints []chainstate.OutPoint
	txids := make(map[chainHash]struct{}, len(block.Transactions)-1)
	for _, tx := range block.Transactions {
		if chainstate.IsCoinbaseTx(tx) {
			continue
		}
		for _, in := range tx.TxIn {
			outpoints = append(outpoints, in.PreviousOutPoint)
		}
		txids[chainHash(tx.TxHash())] = struct{}{}
	}

	p.coord.reset(outpoints, txids)
	p.coord.publish()

	// The dispatcher runs the same claim loop as every worker, tagged
	// with the last results slot and the is-dispatcher bit.
	p.runParticipant(p.workerCount, true)

	for k := range p.results {
		for _, fc := range p.results[k].items {
			cache.InsertIfAbsent(fc.OutPoint, fc.Coin)
		}
		p.results[k].items = nil
	}

	p.coord.finish()
	p.ctx = nil
	p.cache = nil
	p.backing = nil

	callsTotal.WithLabelValues("completed").Inc()
	callDuration.Observe(time.Since(start).Seconds())
}

// Close sets the stop flag, wakes every worker, and joins them. Any
// in-flight FetchInputs call must already have returned; that is the
// caller's obligation, matching the destructor contract this module
// replaces with an explicit method.
func (p *Prefetcher) Close() {
	if p.workerCount < minWorkerCount {
		return
	}
	p.coord.shutdown()
	p.wg.Wait()
}
