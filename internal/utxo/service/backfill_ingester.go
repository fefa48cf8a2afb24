package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/goodnatureofminers/blockinsight7000-backend/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-backend/internal/utils"
	"github.com/goodnatureofminers/blockinsight7000-backend/internal/utxo/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-backend/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-backend/pkg/batcher"
	"github.com/goodnatureofminers/blockinsight7000-backend/pkg/safe"
	"github.com/goodnatureofminers/blockinsight7000-backend/pkg/workerpool"
	"go.uber.org/zap"
)

const (
	defaultBackfillIngesterWorkerCount = 50
	randomUnprocessedHeightsLimit      = 10000
	inputFlushThreshold                = 1000
	coinFlushThreshold                 = 1000

	blockBatcherCapacity      = 500
	blockBatcherFlushInterval = 30 * time.Second
	blockBatcherWorkerCount   = 1

	idleSleepDuration      = time.Minute
	postBatchSleepDuration = 5 * time.Second
)

type BackfillIngesterService struct {
	repo         ClickhouseRepository
	rpc          RpcClient
	logger       *zap.Logger
	coin         model.Coin
	network      model.Network
	blockBatcher *batcher.Batcher[model.InsertBlock]
	workerCount  int
}

func NewBackfillIngesterService(
	repo ClickhouseRepository,
	rpc RpcClient,
	coin model.Coin,
	network model.Network,
	logger *zap.Logger,
) (*BackfillIngesterService, error) {
	return &BackfillIngesterService{
		repo:        repo,
		rpc:         rpc,
		logger:      logger,
		coin:        coin,
		network:     network,
		workerCount: defaultBackfillIngesterWorkerCount,
		blockBatcher: batcher.New[model.InsertBlock](
			logger.Named("blockBatcher"),
			func(ctx context.Context, insertBlocks []model.InsertBlock) error {
				blocks := make([]model.Block, 0, len(insertBlocks))
				inputs := make([]model.TransactionInput, 0, len(insertBlocks))
				coins := make([]model.UTXOCoin, 0, len(insertBlocks))
				for _, block := range insertBlocks {
					blocks = append(blocks, block.Block)
					inputs = append(inputs, block.Inputs...)
					coins = append(coins, block.Coins...)
					if len(inputs) >= inputFlushThreshold {
						if err := repo.InsertTransactionInputs(ctx, inputs); err != nil {
							return err
						}
						logger.Debug("InsertTransactionInputs")
						if err := spendCoins(ctx, repo, inputs); err != nil {
							return err
						}
						inputs = make([]model.TransactionInput, 0, len(insertBlocks))
					}
					if len(coins) >= coinFlushThreshold {
						if err := repo.InsertCoins(ctx, coins); err != nil {
							return err
						}
						logger.Debug("InsertCoins")
						coins = make([]model.UTXOCoin, 0, len(insertBlocks))
					}
				}
				if err := repo.InsertTransactionInputs(ctx, inputs); err != nil {
					return err
				}
				if err := spendCoins(ctx, repo, inputs); err != nil {
					return err
				}
				if err := repo.InsertCoins(ctx, coins); err != nil {
					return err
				}

				return repo.InsertBlocks(ctx, blocks)
			},
			blockBatcherCapacity,
			blockBatcherFlushInterval,
			blockBatcherWorkerCount,
		),
	}, nil
}

func (s *BackfillIngesterService) Run(ctx context.Context) error {
	s.blockBatcher.Start(ctx)
	defer s.blockBatcher.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		maxHaight, err := s.repo.MaxContiguousBlockHeight(ctx, s.coin, s.network)
		if err != nil {
			return err
		}

		heights, err := s.repo.RandomUnprocessedBlockHeights(ctx, s.coin, s.network, maxHaight, randomUnprocessedHeightsLimit)
		if err != nil {
			return err
		}

		if len(heights) == 0 {
			s.logger.Info("no missing block heights; going idle", zap.Duration("sleep", idleSleepDuration))
			if err := clock.SleepWithContext(ctx, idleSleepDuration); err != nil {
				return err
			}
			continue
		}

		s.logger.Info("starting sync batch", zap.Int("height_count", len(heights)))

		err = s.processHeightsWithWorkers(ctx, heights)
		if err != nil {
			return err
		}
		s.logger.Info("completed sync batch", zap.Duration("sleep", postBatchSleepDuration))
		if err := clock.SleepWithContext(ctx, postBatchSleepDuration); err != nil {
			return err
		}
	}
}

func (s *BackfillIngesterService) processHeightsWithWorkers(ctx context.Context, heights []uint64) error {
	return workerpool.Process(ctx, s.workerCount, heights, s.processBlock, nil)
}

// spendCoins deletes the coins a batch of inputs consumes, keeping the
// utxo_coins table in sync with the CoinView the prefetcher warms. Coinbase
// inputs reference no real previous output and are skipped.
func spendCoins(ctx context.Context, repo ClickhouseRepository, inputs []model.TransactionInput) error {
	if len(inputs) == 0 {
		return nil
	}

	var coin model.Coin
	var network model.Network
	txids := make([]string, 0, len(inputs))
	outputIndexes := make([]uint32, 0, len(inputs))
	for _, in := range inputs {
		if in.IsCoinbase {
			continue
		}
		coin = in.Coin
		network = in.Network
		txids = append(txids, in.PrevTxID)
		outputIndexes = append(outputIndexes, in.PrevVout)
	}
	if len(txids) == 0 {
		return nil
	}

	return repo.DeleteCoins(ctx, coin, network, txids, outputIndexes)
}

// coinsFromOutputs derives the unspent-coin rows a transaction's outputs
// create. txIdx 0 is the coinbase transaction by Bitcoin block convention.
func coinsFromOutputs(
	coin model.Coin,
	network model.Network,
	blockHeight uint64,
	tx btcjson.TxRawResult,
	txIdx int,
) ([]model.UTXOCoin, error) {
	height, err := safe.Uint32(blockHeight)
	if err != nil {
		return nil, fmt.Errorf("block height overflow: %w", err)
	}

	coins := make([]model.UTXOCoin, 0, len(tx.Vout))
	for idx, vout := range tx.Vout {
		if vout.Value < 0 {
			return nil, fmt.Errorf("tx %s output %d negative value: %f", tx.Txid, idx, vout.Value)
		}

		index, err := safe.Uint32(idx)
		if err != nil {
			return nil, fmt.Errorf("tx %s output index overflow: %w", tx.Txid, err)
		}
		value, err := bitcoin.BtcToSatoshis(vout.Value)
		if err != nil {
			return nil, fmt.Errorf("tx %s output %d satoshi value: %w", tx.Txid, idx, err)
		}

		coins = append(coins, model.UTXOCoin{
			Coin:        coin,
			Network:     network,
			TxID:        tx.Txid,
			OutputIndex: index,
			BlockHeight: height,
			IsCoinbase:  txIdx == 0,
			Value:       int64(value),
			ScriptHex:   vout.ScriptPubKey.Hex,
		})
	}
	return coins, nil
}

func (s *BackfillIngesterService) processBlock(
	ctx context.Context,
	height uint64,
) error {
	hash, err := s.rpc.GetBlockHash(int64(height))
	if err != nil {
		return fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	src, err := s.rpc.GetBlockVerboseTx(hash)
	if err != nil {
		return fmt.Errorf("get block %s: %w", hash, err)
	}

	bits, err := utils.ParseBits(src.Bits)
	if err != nil {
		return fmt.Errorf("block %d bits parse: %w", src.Height, err)
	}
	if src.Height > math.MaxUint32 {
		return fmt.Errorf("block height %d exceeds uint32", src.Height)
	}
	if src.Size < 0 {
		return fmt.Errorf("block %d negative size: %d", src.Height, src.Size)
	}

	timestamp := time.Unix(src.Time, 0).UTC()
	block := model.Block{
		Coin:       s.coin,
		Network:    s.network,
		Height:     uint64(src.Height),
		Hash:       src.Hash,
		Timestamp:  timestamp,
		Version:    uint32(src.Version),
		MerkleRoot: src.MerkleRoot,
		Bits:       bits,
		Nonce:      src.Nonce,
		Difficulty: src.Difficulty,
		Size:       uint32(src.Size),
		TXCount:    uint32(len(src.Tx)),
		Status:     model.BlockProcessed,
	}

	resolver := newTransactionOutputResolver(s.repo, s.coin, s.network)

	totalOutputs := 0
	totalInputs := 0
	for _, tx := range src.Tx {
		totalOutputs += len(tx.Vout)
		totalInputs += len(tx.Vin)
	}

	inputs := make([]model.TransactionInput, 0, totalInputs)
	coins := make([]model.UTXOCoin, 0, totalOutputs)

	for txIdx, tx := range src.Tx {

		if len(tx.Vin) > math.MaxUint16 {
			return fmt.Errorf("tx %s vin count overflow: %d", tx.Txid, len(tx.Vin))
		}
		if len(tx.Vout) > math.MaxUint16 {
			return fmt.Errorf("tx %s vout count overflow: %d", tx.Txid, len(tx.Vout))
		}
		if tx.Size < 0 {
			return fmt.Errorf("tx %s negative size: %d", tx.Txid, tx.Size)
		}
		if tx.Vsize < 0 {
			return fmt.Errorf("tx %s negative vsize: %d", tx.Txid, tx.Vsize)
		}

		txInputs, err := convertInputs(ctx, resolver, tx, s.coin, s.network, block.Height, timestamp)
		if err != nil {
			return err
		}
		inputs = append(inputs, txInputs...)

		txCoins, err := coinsFromOutputs(s.coin, s.network, block.Height, tx, txIdx)
		if err != nil {
			return err
		}
		coins = append(coins, txCoins...)
	}

	return s.blockBatcher.Add(ctx, model.InsertBlock{
		Block:  block,
		Inputs: inputs,
		Coins:  coins,
	})
}

func convertInputs(
	ctx context.Context,
	resolver *transactionOutputResolver,
	tx btcjson.TxRawResult,
	coin model.Coin,
	network model.Network,
	blockHeight uint64,
	blockTime time.Time,
) ([]model.TransactionInput, error) {
	inputs := make([]model.TransactionInput, 0, len(tx.Vin))

	for idx, vin := range tx.Vin {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		scriptHex := ""
		scriptAsm := ""
		if vin.ScriptSig != nil {
			scriptHex = vin.ScriptSig.Hex
			scriptAsm = vin.ScriptSig.Asm
		}

		input := model.TransactionInput{
			Coin:         coin,
			Network:      network,
			BlockHeight:  blockHeight,
			BlockTime:    blockTime,
			TxID:         tx.Txid,
			Index:        uint32(idx),
			PrevTxID:     vin.Txid,
			PrevVout:     vin.Vout,
			Sequence:     vin.Sequence,
			IsCoinbase:   vin.IsCoinBase(),
			ScriptSigHex: scriptHex,
			ScriptSigAsm: scriptAsm,
			Witness:      append([]string(nil), vin.Witness...),
		}

		if !vin.IsCoinBase() {
			prevOutputs, err := resolver.Resolve(ctx, vin.Txid)
			if err != nil {
				return nil, fmt.Errorf("resolve prev outputs for tx %s: %w", vin.Txid, err)
			}
			if int(vin.Vout) >= len(prevOutputs) {
				return nil, fmt.Errorf("input references missing vout %d in tx %s", vin.Vout, vin.Txid)
			}
			prevOut := prevOutputs[vin.Vout]
			input.Value = prevOut.Value
			input.Addresses = append([]string(nil), prevOut.Addresses...)
		}

		inputs = append(inputs, input)
	}

	return inputs, nil
}
