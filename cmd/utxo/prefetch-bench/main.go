// Command prefetch-bench measures the wall-clock win a prefetch.Prefetcher
// gives block validation against a backing store with a fixed per-call
// latency, the same shape of measurement the original C++ bench harness
// takes against a DelayedCoinsView.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-backend/internal/chainstate"
	"github.com/goodnatureofminers/blockinsight7000-backend/internal/prefetch"
)

type config struct {
	TxCount     int           `long:"tx-count" env:"PREFETCH_BENCH_TX_COUNT" description:"number of non-coinbase transactions in the synthetic block" default:"2000"`
	InputsPerTx int           `long:"inputs-per-tx" env:"PREFETCH_BENCH_INPUTS_PER_TX" description:"number of inputs per transaction" default:"2"`
	Delay       time.Duration `long:"delay" env:"PREFETCH_BENCH_DELAY" description:"simulated backing-store latency per GetCoin call" default:"2ms"`
	WorkerCount int           `long:"worker-count" env:"PREFETCH_BENCH_WORKER_COUNT" description:"prefetch worker count, 0 selects NumCPU-1" default:"0"`
	BatchSize   int           `long:"batch-size" env:"PREFETCH_BENCH_BATCH_SIZE" description:"prefetch claim batch size" default:"128"`
	Iterations  int           `long:"iterations" env:"PREFETCH_BENCH_ITERATIONS" description:"number of benchmark iterations" default:"5"`
}

func main() {
	cfg := config{}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = runtime.NumCPU() - 1
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("prefetch bench failed", zap.Error(err))
	}
}

func run(cfg config, logger *zap.Logger) error {
	block := syntheticBlock(cfg.TxCount, cfg.InputsPerTx)
	backing := newDelayedCoinView(cfg.Delay)

	logger.Info("prefetch bench starting",
		zap.Int("tx_count", cfg.TxCount),
		zap.Int("inputs_per_tx", cfg.InputsPerTx),
		zap.Duration("delay", cfg.Delay),
		zap.Int("worker_count", cfg.WorkerCount),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Int("iterations", cfg.Iterations),
	)

	baseline := benchmarkSerial(block, backing, cfg.Iterations)
	logger.Info("serial baseline", zap.Duration("mean", baseline))

	warmed := benchmarkPrefetched(block, backing, cfg.WorkerCount, cfg.BatchSize, cfg.Iterations, logger)
	logger.Info("prefetched", zap.Duration("mean", warmed))

	if warmed > 0 {
		fmt.Printf("serial=%s prefetched=%s speedup=%.2fx\n", baseline, warmed, float64(baseline)/float64(warmed))
	}
	return nil
}

// benchmarkSerial fetches every non-coinbase input one at a time, the
// pre-prefetcher baseline block validation would otherwise pay.
func benchmarkSerial(block *wire.MsgBlock, backing chainstate.CoinView, iterations int) time.Duration {
	ctx := context.Background()
	var total time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		for _, tx := range block.Transactions {
			if chainstate.IsCoinbaseTx(tx) {
				continue
			}
			for _, in := range tx.TxIn {
				_, _ = backing.GetCoin(ctx, in.PreviousOutPoint)
			}
		}
		total += time.Since(start)
	}
	return total / time.Duration(iterations)
}

// benchmarkPrefetched runs FetchInputs against a fresh cache each iteration
// and times only the call itself, matching what the C++ harness measures:
// fetcher.FetchInputs(cache, db, block) after flushing the cache.
func benchmarkPrefetched(block *wire.MsgBlock, backing chainstate.CoinView, workerCount, batchSize, iterations int, logger *zap.Logger) time.Duration {
	p := prefetch.New(batchSize, workerCount, logger)
	defer p.Close()

	ctx := context.Background()
	var total time.Duration
	for i := 0; i < iterations; i++ {
		cache := chainstate.NewMemCoinCache()
		start := time.Now()
		p.FetchInputs(ctx, cache, backing, block)
		total += time.Since(start)
	}
	return total / time.Duration(iterations)
}

// delayedCoinView simulates a backing store with fixed per-call latency,
// the Go analogue of DelayedCoinsView in the original benchmark.
type delayedCoinView struct {
	delay time.Duration
}

func newDelayedCoinView(delay time.Duration) *delayedCoinView {
	return &delayedCoinView{delay: delay}
}

func (v *delayedCoinView) GetCoin(ctx context.Context, _ chainstate.OutPoint) (*chainstate.Coin, error) {
	select {
	case <-time.After(v.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &chainstate.Coin{}, nil
}

// syntheticBlock builds a block with one coinbase transaction followed by
// txCount transactions, each spending inputsPerTx distinct, previously
// unseen outpoints so no input is ever a same-block dependency.
func syntheticBlock(txCount, inputsPerTx int) *wire.MsgBlock {
	block := &wire.MsgBlock{
		Header:       wire.BlockHeader{},
		Transactions: make([]*wire.MsgTx, 0, txCount+1),
	}
	block.Transactions = append(block.Transactions, coinbaseTx())

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < txCount; i++ {
		tx := wire.NewMsgTx(wire.TxVersion)
		for j := 0; j < inputsPerTx; j++ {
			var hash chainhash.Hash
			rng.Read(hash[:])
			tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: hash, Index: uint32(j)}, nil, nil))
		}
		tx.AddTxOut(wire.NewTxOut(1, nil))
		block.Transactions = append(block.Transactions, tx)
	}
	return block
}

func coinbaseTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0xffffffff}, nil, nil))
	tx.AddTxOut(wire.NewTxOut(5000000000, nil))
	return tx
}
