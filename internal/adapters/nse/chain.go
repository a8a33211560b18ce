package nse

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/nchandak/condorbot/internal/domain"
)

// Snapshot fetches the option chain and futures quote for symbol and
// condenses them into one point-in-time reading: spot, the strike
// nearest to spot, OI on both sides of it, and futures OI by month.
//
// The chain is mandatory; the futures quote is supplementary, so a
// failure there degrades to zeros instead of failing the snapshot.
func (c *Client) Snapshot(ctx context.Context, symbol string) (domain.ChainSnapshot, error) {
	chainURL := fmt.Sprintf("%s%s?symbol=%s", c.baseURL, chainPath, url.QueryEscape(symbol))

	var chain optionChainResponse
	if err := c.get(ctx, chainURL, &chain); err != nil {
		return domain.ChainSnapshot{}, fmt.Errorf("nse.Snapshot: option chain: %w", err)
	}

	snap, err := mapChainSnapshot(chain)
	if err != nil {
		return domain.ChainSnapshot{}, fmt.Errorf("nse.Snapshot: %w", err)
	}

	quoteURL := fmt.Sprintf("%s%s?symbol=%s", c.baseURL, quotePath, url.QueryEscape(symbol))

	var quote derivativeQuoteResponse
	if err := c.get(ctx, quoteURL, &quote); err != nil {
		slog.Warn("futures quote fetch failed, snapshot has no futures OI",
			"symbol", symbol, "err", err)
		return snap, nil
	}
	snap.FutCurrentMonth, snap.FutNextMonth = mapFuturesOI(quote)

	slog.Debug("chain snapshot",
		"symbol", symbol,
		"spot", snap.Spot,
		"atm", snap.ATMStrike,
		"call_oi", snap.CallOIATM,
		"put_oi", snap.PutOIATM,
	)
	return snap, nil
}
