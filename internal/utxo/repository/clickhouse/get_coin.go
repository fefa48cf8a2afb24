package clickhouse

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/goodnatureofminers/blockinsight7000-backend/internal/chainstate"
	"github.com/goodnatureofminers/blockinsight7000-backend/internal/utxo/model"
)

// GetCoin resolves a single unspent output from ClickHouse, backing a
// chainstate.CoinView for coin/network. It returns chainstate.ErrCoinNotFound
// when no row exists for op, which a caller such as the prefetcher treats
// as an expected outcome rather than an error worth logging.
func (r *Repository) GetCoin(ctx context.Context, coin model.Coin, network model.Network, op chainstate.OutPoint) (*chainstate.Coin, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("get_coin", coin, network, err, start)
	}()

	rows, err := r.conn.Query(ctx, getCoinQuery(), coin, network, op.Hash.String(), op.Index)
	if err != nil {
		return nil, fmt.Errorf("query coin: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	if !rows.Next() {
		err = chainstate.ErrCoinNotFound
		return nil, err
	}

	var (
		height     uint32
		isCoinbase bool
		value      int64
		scriptHex  string
	)
	if err = rows.Scan(&height, &isCoinbase, &value, &scriptHex); err != nil {
		return nil, fmt.Errorf("scan coin: %w", err)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coin: %w", err)
	}

	script, decodeErr := hex.DecodeString(scriptHex)
	if decodeErr != nil {
		err = fmt.Errorf("decode coin script: %w", decodeErr)
		return nil, err
	}

	return &chainstate.Coin{
		Height:     height,
		IsCoinbase: isCoinbase,
		Value:      btcutil.Amount(value),
		Script:     script,
	}, nil
}

func getCoinQuery() string {
	return `
SELECT
	block_height,
	is_coinbase,
	value,
	script_hex
FROM utxo_coins
WHERE coin = ? AND network = ? AND txid = ? AND output_index = ?
LIMIT 1`
}
