package chainstate

import "github.com/btcsuite/btcd/btcutil"

// Coin is an unspent output record: everything validation needs to know
// about one output without re-reading the transaction that produced it.
// The prefetcher never inspects its fields; it only moves Coins from a
// CoinView into a CoinCache.
type Coin struct {
	Height     uint32
	IsCoinbase bool
	Value      btcutil.Amount
	Script     []byte
}

// FetchedCoin pairs an OutPoint with the Coin it resolved to. It is the unit
// a prefetcher worker appends to its local result slice.
type FetchedCoin struct {
	OutPoint OutPoint
	Coin     Coin
}
