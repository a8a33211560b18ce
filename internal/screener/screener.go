// Package screener ranks listed stocks for intraday setups: volume-
// confirmed momentum and all-time-high proximity. Screens are pure
// functions over per-symbol Quotes; the universe loader builds Quotes
// from daily-bar CSV files.
package screener

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/nchandak/condorbot/internal/adapters/csvdata"
	"github.com/nchandak/condorbot/internal/domain"
)

// Quote condenses one symbol's daily history into screening inputs.
type Quote struct {
	Symbol         string
	Price          float64   // last close
	Volume         int64     // last bar's volume
	AvgVolume      float64   // mean volume across the history
	PriceChangePct float64   // close-to-close change across the history
	AllTimeHigh    float64   // highest high seen
	Closes         []float64 // for RSI-based trend strength
}

// QuoteFromBars condenses chronological bars into a Quote. An empty
// history yields ok=false.
func QuoteFromBars(symbol string, bars []domain.DayBar) (Quote, bool) {
	if len(bars) == 0 {
		return Quote{}, false
	}

	closes := make([]float64, len(bars))
	var volSum, high float64
	for i, b := range bars {
		closes[i] = b.Close
		volSum += float64(b.Volume)
		if b.High > high {
			high = b.High
		}
	}

	last := bars[len(bars)-1]
	changePct := 0.0
	if bars[0].Close > 0 {
		changePct = (last.Close - bars[0].Close) / bars[0].Close * 100
	}

	return Quote{
		Symbol:         symbol,
		Price:          last.Close,
		Volume:         last.Volume,
		AvgVolume:      volSum / float64(len(bars)),
		PriceChangePct: changePct,
		AllTimeHigh:    high,
		Closes:         closes,
	}, true
}

// LoadUniverse builds Quotes from every *.csv file in dir; the file
// name (upper-cased, without extension) becomes the symbol. Files that
// fail to parse are logged and skipped rather than aborting the screen.
func LoadUniverse(dir string) ([]Quote, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("screener.LoadUniverse: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("screener.LoadUniverse: no csv files in %s", dir)
	}

	quotes := make([]Quote, 0, len(paths))
	for _, path := range paths {
		symbol := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), ".csv"))
		bars, err := csvdata.LoadDayBars(path)
		if err != nil {
			slog.Warn("skipping symbol", "symbol", symbol, "err", err)
			continue
		}
		q, ok := QuoteFromBars(symbol, bars)
		if !ok {
			slog.Warn("skipping symbol with empty history", "symbol", symbol)
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}
