package prefetch

import (
	"errors"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-backend/internal/chainstate"
)

// workerLoop is the steady-state loop for worker k. It runs for the
// lifetime of the Prefetcher, spanning many calls to FetchInputs, and
// returns only once Close has set the stop flag.
func (p *Prefetcher) workerLoop(k int) {
	defer p.wg.Done()
	p.runParticipant(k, false)
}

// runParticipant implements the claim -> process -> report loop shared by
// every worker and by the dispatcher's own pass through the same
// protocol. For a worker, claim only ever reports terminal once stop has
// been set, so this simply runs until Close. For the dispatcher, claim
// reports terminal once this call's work has fully drained.
func (p *Prefetcher) runParticipant(participant int, isDispatcher bool) {
	localBatchSize := 0
	for {
		res := p.coord.claim(localBatchSize, isDispatcher, p.workerCount, p.batchSize)
		if res.terminal {
			return
		}
		localBatchSize = len(res.batch)
		p.lookup(participant, res.batch)
	}
}

// lookup processes one claimed batch outside the coordinator lock,
// appending resolved coins to this participant's own result slice and
// short-circuiting the whole call on the first missing coin or store
// error, exactly as ยง4.1's lookup loop specifies.
func (p *Prefetcher) lookup(participant int, batch []chainstate.OutPoint) {
	dst := &p.results[participant]
	for _, op := range batch {
		if p.coord.sameBlock(chainHash(op.Hash)) {
			observeOutcome("skipped_same_block")
			continue
		}
		if p.cache.Has(op) {
			observeOutcome("skipped_cache_hit")
			continue
		}

		coin, err := p.backing.GetCoin(p.ctx, op)
		if err != nil {
			if p.logger != nil {
				if errors.Is(err, chainstate.ErrCoinNotFound) {
					p.logger.Debug("prefetch: coin not found, draining call",
						zap.Stringer("outpoint", &op))
				} else {
					p.logger.Debug("prefetch: backing store error, draining call",
						zap.Stringer("outpoint", &op), zap.Error(err))
				}
			}
			observeOutcome("abandoned")
			p.coord.abandon()
			return
		}

		dst.items = append(dst.items, chainstate.FetchedCoin{OutPoint: op, Coin: *coin})
		observeOutcome("fetched")
	}
}
