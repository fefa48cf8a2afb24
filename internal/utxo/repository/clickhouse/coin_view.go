package clickhouse

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-backend/internal/chainstate"
	"github.com/goodnatureofminers/blockinsight7000-backend/internal/utxo/model"
)

// CoinView adapts Repository.GetCoin to chainstate.CoinView for one fixed
// coin/network pair, which is all a single prefetcher instance ever needs:
// chainstate.CoinView.GetCoin takes no coin/network parameters of its own,
// since the prefetcher it backs is scoped to one chain at a time.
type CoinView struct {
	repo    *Repository
	coin    model.Coin
	network model.Network
}

// NewCoinView returns a chainstate.CoinView backed by repo, scoped to coin
// and network.
func NewCoinView(repo *Repository, coin model.Coin, network model.Network) *CoinView {
	return &CoinView{repo: repo, coin: coin, network: network}
}

// GetCoin implements chainstate.CoinView.
func (v *CoinView) GetCoin(ctx context.Context, op chainstate.OutPoint) (*chainstate.Coin, error) {
	return v.repo.GetCoin(ctx, v.coin, v.network, op)
}
