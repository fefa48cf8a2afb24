package chainstate

import "sync"

//go:generate mockgen -source=$GOFILE -destination=coincache_mocks_test.go -package=$GOPACKAGE

// CoinCache is the fast, in-memory front of the coin store. It may hold a
// spent sentinel for an outpoint whose spend has not yet been flushed to the
// backing CoinView.
type CoinCache interface {
	// Has reports whether any entry, spent or unspent, exists for op.
	Has(op OutPoint) bool
	// InsertIfAbsent inserts coin for op only if no entry exists yet. It is a
	// silent no-op when an entry, including a spent sentinel, is already
	// present — callers rely on this to avoid a stale unspent coin
	// clobbering a spend that hasn't been written through yet.
	InsertIfAbsent(op OutPoint, coin Coin)
}

type cacheEntry struct {
	coin  Coin
	spent bool
}

// MemCoinCache is an in-memory CoinCache. It is the CoinCache implementation
// the prefetcher warms in this module; validation code also uses Get and
// Spend, which the prefetcher itself never calls.
type MemCoinCache struct {
	mu      sync.RWMutex
	entries map[OutPoint]cacheEntry
}

// NewMemCoinCache constructs an empty cache.
func NewMemCoinCache() *MemCoinCache {
	return &MemCoinCache{entries: make(map[OutPoint]cacheEntry)}
}

// Has implements CoinCache.
func (c *MemCoinCache) Has(op OutPoint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[op]
	return ok
}

// InsertIfAbsent implements CoinCache.
func (c *MemCoinCache) InsertIfAbsent(op OutPoint, coin Coin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[op]; exists {
		return
	}
	c.entries[op] = cacheEntry{coin: coin}
}

// Get returns the unspent coin for op, if any entry for op exists and it is
// not the spent sentinel.
func (c *MemCoinCache) Get(op OutPoint) (Coin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[op]
	if !ok || entry.spent {
		return Coin{}, false
	}
	return entry.coin, true
}

// Spend marks op as spent without removing it, modelling a coin that was
// consumed within the current cache but whose dirty state has not yet been
// flushed down to the backing CoinView. A subsequent InsertIfAbsent for the
// same outpoint is then a no-op, which is exactly the property the
// prefetcher's callers depend on.
func (c *MemCoinCache) Spend(op OutPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[op] = cacheEntry{spent: true}
}

// Len returns the number of entries, spent or unspent, currently cached.
func (c *MemCoinCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
