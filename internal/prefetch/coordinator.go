package prefetch

import (
	"sync"

	"github.com/goodnatureofminers/blockinsight7000-backend/internal/chainstate"
)

// coordinator is the mutex-protected state shared by the dispatcher and all
// worker goroutines during one FetchInputs call. A single lock guards all of
// it: every critical section here is one integer update plus at most one
// signal, so contention is never the bottleneck — the backing store call and
// cache lookups always happen outside the lock.
type coordinator struct {
	mu sync.Mutex

	workAvailable      *sync.Cond // workers wait here for outpoints to claim
	dispatcherProgress *sync.Cond // the dispatcher waits here for its own drain

	outpoints []chainstate.OutPoint // published once per call, read-only after
	lastIndex int                   // unclaimed prefix is outpoints[0:lastIndex]
	inFlight  int                   // claimed outpoints not yet settled
	idle      int                   // participants currently blocked on either condition

	txids map[chainHash]struct{} // non-coinbase tx hashes seen earlier in the block

	stop bool
}

// chainHash is the same 32-byte array chainhash.Hash wraps; kept as a plain
// type here so the txid set doesn't need to import chainhash just to name
// its element type in the struct above.
type chainHash = [32]byte

func newCoordinator() *coordinator {
	c := &coordinator{}
	c.workAvailable = sync.NewCond(&c.mu)
	c.dispatcherProgress = sync.NewCond(&c.mu)
	return c
}

// reset prepares the coordinator for a new call. Caller must hold no lock;
// reset takes it itself. Only the dispatcher calls this, and only while no
// worker can be observing the coordinator (the previous call already
// quiesced outpoints/txids per invariant 6).
func (c *coordinator) reset(outpoints []chainstate.OutPoint, txids map[chainHash]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outpoints = outpoints
	c.txids = txids
	c.lastIndex = len(outpoints)
	c.inFlight = len(outpoints)
}

// publish wakes every worker once the outpoint slice and txid set above are
// safe to read: both were written before this call, under this same lock,
// so the lock acquisition every worker performs in claim() is the
// happens-before edge that makes the unguarded reads of outpoints/txids in
// the lookup loop (ยง5) safe.
func (c *coordinator) publish() {
	c.workAvailable.Broadcast()
}

// claimResult describes what a participant should do after calling claim.
type claimResult struct {
	terminal bool                  // no more work will ever arrive for this call
	batch    []chainstate.OutPoint // claimed range, to be processed outside the lock
}

// claim implements the coordinator protocol from ยง4.1: settle the
// participant's previous batch, then either hand back a new batch or report
// that this call is over for this participant.
//
// localBatchSize is the size of the batch this participant previously
// claimed (0 on a participant's first call). isDispatcher marks the
// dispatcher's own pass through this loop: only the dispatcher may
// terminate on last_index==0 && in_flight==0; a worker blocks instead,
// waiting for the next call.
func (c *coordinator) claim(localBatchSize int, isDispatcher bool, workerCount, maxBatch int) claimResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if localBatchSize > 0 {
		c.inFlight -= localBatchSize
		if !isDispatcher && c.inFlight == 0 {
			c.dispatcherProgress.Signal()
		}
	}

	for c.lastIndex == 0 {
		if c.stop {
			return claimResult{terminal: true}
		}
		if isDispatcher && c.inFlight == 0 {
			return claimResult{terminal: true}
		}
		c.idle++
		if isDispatcher {
			c.dispatcherProgress.Wait()
		} else {
			c.workAvailable.Wait()
		}
		c.idle--
	}

	batchSize := c.lastIndex / (workerCount + 1 + c.idle)
	if batchSize > maxBatch {
		batchSize = maxBatch
	}
	if batchSize < 1 {
		batchSize = 1
	}
	end := c.lastIndex
	c.lastIndex -= batchSize
	batch := c.outpoints[c.lastIndex:end]
	return claimResult{batch: batch}
}

// abandon implements the short-circuit drain triggered by a missing coin or
// a transient store error: the unclaimed suffix of outpoints is discarded
// so no other participant can claim more work for this call. It does not
// settle the caller's own current batch — that happens the normal way, via
// the residual-bookkeeping step at the top of the caller's next claim call,
// exactly as if the batch had been looked up in full. Only the globally
// unclaimed remainder needs special handling here, because nothing else
// will ever settle it once last_index is zeroed.
func (c *coordinator) abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight -= c.lastIndex
	c.lastIndex = 0
	c.dispatcherProgress.Signal()
}

// shutdown sets the stop flag and wakes every worker so each can observe it
// and return from its loop.
func (c *coordinator) shutdown() {
	c.mu.Lock()
	c.stop = true
	c.mu.Unlock()
	c.workAvailable.Broadcast()
}

// sameBlock reports whether hash belongs to a non-coinbase transaction
// already scanned earlier in the same block. txids is read-only for the
// duration of a call, so this is safe to call without holding the lock once
// the caller has already observed a non-terminal claim in this call.
func (c *coordinator) sameBlock(hash chainHash) bool {
	_, ok := c.txids[hash]
	return ok
}

// finish clears the per-call state, restoring invariant 6 for the next
// call. Only the dispatcher calls this, after its own claim loop has
// observed the terminal condition.
func (c *coordinator) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outpoints = nil
	c.txids = nil
}

// quiescentForTest reports whether the coordinator is in the between-calls
// state described by invariant 6; used only by tests.
func (c *coordinator) quiescentForTest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastIndex == 0 && c.inFlight == 0 && len(c.outpoints) == 0 && len(c.txids) == 0
}
