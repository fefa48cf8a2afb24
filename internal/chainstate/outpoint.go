// Package chainstate defines the coin-level value types and store contracts
// that sit between block validation and the persistent UTXO store.
package chainstate

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// OutPoint identifies a transaction output by the hash of the transaction
// that created it and the output's index within that transaction. It is an
// alias of wire.OutPoint so this package interoperates directly with the
// rest of this module's Bitcoin plumbing without conversion.
type OutPoint = wire.OutPoint

// Block is the unit of work a prefetcher call warms the cache for.
type Block = wire.MsgBlock

// Tx is a single transaction within a Block.
type Tx = wire.MsgTx

// coinbaseIndex is the PreviousOutPoint.Index value reserved for coinbase
// inputs, which have no real previous output.
const coinbaseIndex = 0xffffffff

// IsCoinbaseTx reports whether tx is a coinbase transaction: exactly one
// input whose previous outpoint has the all-zero hash and the reserved
// coinbase index.
func IsCoinbaseTx(tx *Tx) bool {
	if tx == nil || len(tx.TxIn) != 1 {
		return false
	}
	prevOut := tx.TxIn[0].PreviousOutPoint
	return prevOut.Index == coinbaseIndex && prevOut.Hash == zeroHash
}

var zeroHash chainhash.Hash
