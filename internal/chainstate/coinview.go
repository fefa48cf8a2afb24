package chainstate

import (
	"context"
	"errors"
)

// ErrCoinNotFound is returned by CoinView.GetCoin when the requested
// outpoint has no corresponding coin in the backing store. It is a normal,
// expected outcome for an invalid block and is not logged as an error by
// callers that treat it as such.
var ErrCoinNotFound = errors.New("chainstate: coin not found")

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// CoinView is the slower, durable coin store behind a CoinCache. GetCoin may
// block on I/O and may return a transient error other than ErrCoinNotFound;
// callers that only need best-effort warming (the prefetcher) treat both
// outcomes the same way: stop looking, don't fail the caller.
type CoinView interface {
	GetCoin(ctx context.Context, op OutPoint) (*Coin, error)
}
