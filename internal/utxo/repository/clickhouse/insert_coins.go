package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-backend/internal/utxo/model"
)

// InsertCoins stores unspent output rows in ClickHouse. The block batcher's
// flush in internal/utxo/service/backfill_ingester.go calls this for every
// output a block produces; GetCoin reads the same table back out for the
// prefetcher's backing CoinView.
func (r *Repository) InsertCoins(ctx context.Context, coins []model.UTXOCoin) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_coins", firstCoin(coins), firstNetwork(coins), err, start)
	}()

	if len(coins) == 0 {
		return nil
	}

	const query = `
INSERT INTO utxo_coins (
	coin,
	network,
	txid,
	output_index,
	block_height,
	is_coinbase,
	value,
	script_hex
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare coins batch: %w", err)
	}

	for _, coin := range coins {
		if err = batch.Append(
			string(coin.Coin),
			string(coin.Network),
			coin.TxID,
			coin.OutputIndex,
			coin.BlockHeight,
			coin.IsCoinbase,
			coin.Value,
			coin.ScriptHex,
		); err != nil {
			return fmt.Errorf("append coin: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert coins: %w", err)
	}
	return nil
}

// DeleteCoins removes the rows for the given outpoints, modelling the
// durable side of a spend once it has been flushed down from the cache.
// The block batcher's flush in internal/utxo/service/backfill_ingester.go
// calls this (via spendCoins) for every non-coinbase input a block spends.
// ScriptHex's absence from the arguments is intentional: a delete only
// needs the key.
//
// txids and outputIndexes are matched pairwise, not as independent IN
// lists — a plain "txid IN ? AND output_index IN ?" would also delete any
// row whose txid happens to appear with a different, unrelated
// output_index in the batch, so the WHERE clause compares (txid,
// output_index) tuples instead.
func (r *Repository) DeleteCoins(ctx context.Context, coin model.Coin, network model.Network, txids []string, outputIndexes []uint32) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("delete_coins", coin, network, err, start)
	}()

	if len(txids) == 0 {
		return nil
	}

	tuplePlaceholders := strings.Repeat("(?,?),", len(txids))
	tuplePlaceholders = tuplePlaceholders[:len(tuplePlaceholders)-1]

	query := fmt.Sprintf(`
ALTER TABLE utxo_coins DELETE
WHERE coin = ? AND network = ? AND (txid, output_index) IN (%s)`, tuplePlaceholders)

	args := make([]any, 0, 2+2*len(txids))
	args = append(args, coin, network)
	for i := range txids {
		args = append(args, txids[i], outputIndexes[i])
	}

	if err = r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete coins: %w", err)
	}
	return nil
}
