package ports

import (
	"context"

	"github.com/nchandak/condorbot/internal/domain"
)

// MarketData supplies the three series a strategy evaluates.
// Series come back oldest-first; alignment across them is positional,
// so implementations must not reorder or gap-fill independently.
type MarketData interface {
	// Candles returns the spot OHLC history.
	Candles(ctx context.Context) ([]domain.Candle, error)

	// OpenInterest returns ATM call/put OI per bar.
	OpenInterest(ctx context.Context) ([]domain.OIData, error)

	// FuturesOpenInterest returns current+next month futures OI per bar.
	FuturesOpenInterest(ctx context.Context) ([]domain.FuturesOI, error)
}

// ChainProvider fetches a point-in-time option chain for an index.
type ChainProvider interface {
	// Snapshot returns spot, the ATM strike, and the OI totals around it.
	Snapshot(ctx context.Context, symbol string) (domain.ChainSnapshot, error)
}
