package nse

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nchandak/condorbot/internal/domain"
)

// NSE prints expiries like "30-Jan-2025".
const expiryLayout = "02-Jan-2006"

// mapChainSnapshot reduces a raw chain to the front-expiry strike
// nearest to spot. Rows of later expiries are ignored: the strategy
// reads ATM OI on the current series only.
func mapChainSnapshot(resp optionChainResponse) (domain.ChainSnapshot, error) {
	rec := resp.Records
	if len(rec.Data) == 0 {
		return domain.ChainSnapshot{}, fmt.Errorf("empty option chain")
	}
	if rec.UnderlyingValue <= 0 {
		return domain.ChainSnapshot{}, fmt.Errorf("missing underlying value")
	}

	front := ""
	if len(rec.ExpiryDates) > 0 {
		front = rec.ExpiryDates[0]
	}

	var best *chainRow
	bestDiff := math.MaxFloat64
	for i := range rec.Data {
		row := &rec.Data[i]
		if front != "" && row.ExpiryDate != front {
			continue
		}
		diff := math.Abs(row.StrikePrice - rec.UnderlyingValue)
		if diff < bestDiff {
			bestDiff = diff
			best = row
		}
	}
	if best == nil {
		return domain.ChainSnapshot{}, fmt.Errorf("no rows for expiry %s", front)
	}

	snap := domain.ChainSnapshot{
		Timestamp: rec.Timestamp,
		Spot:      rec.UnderlyingValue,
		ATMStrike: int(best.StrikePrice),
	}
	if best.CE != nil {
		snap.CallOIATM = best.CE.OpenInterest
	}
	if best.PE != nil {
		snap.PutOIATM = best.PE.OpenInterest
	}
	return snap, nil
}

// mapFuturesOI sums open interest per expiry over the index futures
// contracts and returns the two nearest months. Contracts with an
// unparseable expiry are skipped rather than failing the snapshot.
func mapFuturesOI(resp derivativeQuoteResponse) (current, next float64) {
	type monthOI struct {
		date time.Time
		oi   float64
	}

	byExpiry := map[string]*monthOI{}
	for _, s := range resp.Stocks {
		if s.Metadata.InstrumentType != "Index Futures" {
			continue
		}
		when, err := time.Parse(expiryLayout, s.Metadata.ExpiryDate)
		if err != nil {
			continue
		}
		m, ok := byExpiry[s.Metadata.ExpiryDate]
		if !ok {
			m = &monthOI{date: when}
			byExpiry[s.Metadata.ExpiryDate] = m
		}
		m.oi += s.MarketDept.TradeInfo.OpenInterest
	}

	months := make([]*monthOI, 0, len(byExpiry))
	for _, m := range byExpiry {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].date.Before(months[j].date) })

	if len(months) > 0 {
		current = months[0].oi
	}
	if len(months) > 1 {
		next = months[1].oi
	}
	return current, next
}
