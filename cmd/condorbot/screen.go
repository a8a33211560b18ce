package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/nchandak/condorbot/config"
	"github.com/nchandak/condorbot/internal/screener"
)

// runScreen loads the daily-bar universe and runs the requested stock
// screens. Screens are read-only: no storage, no signals.
func runScreen(cfg *config.Config, which string, table bool) error {
	sc := cfg.Screener

	quotes, err := screener.LoadUniverse(sc.UniverseDir)
	if err != nil {
		return err
	}
	slog.Info("universe loaded", "dir", sc.UniverseDir, "symbols", len(quotes))

	switch which {
	case "trending":
		screenTrending(sc, quotes, table)
	case "ath":
		screenATH(sc, quotes, table)
	case "all":
		screenTrending(sc, quotes, table)
		screenATH(sc, quotes, table)
	default:
		return fmt.Errorf("unknown screen %q (want trending, ath or all)", which)
	}
	return nil
}

func screenTrending(sc config.ScreenerConfig, quotes []screener.Quote, table bool) {
	tr := screener.NewTrending(screener.TrendingConfig{
		MinVolumeIncreasePct: sc.MinVolumeIncreasePct,
		MinPriceChangePct:    sc.MinPriceChangePct,
		MinAvgVolume:         sc.MinAvgVolume,
	})
	results := tr.ScreenAll(quotes)

	hits := make([]screener.TrendingResult, 0, len(results))
	for _, r := range results {
		if r.Qualifies {
			hits = append(hits, r)
		}
	}

	fmt.Printf("\nTRENDING STOCKS: %d of %d qualify\n", len(hits), len(results))
	if len(hits) == 0 {
		return
	}

	if !table {
		for _, r := range hits {
			fmt.Printf("  %-12s %10.2f  %+6.2f%% %-4s  vol %+7.1f%%  score %d\n",
				r.Symbol, r.Price, r.PriceChangePct, r.TrendDirection, r.VolumeRatioPct, r.Score)
		}
		return
	}

	t := tablewriter.NewWriter(os.Stdout)
	t.Header("Symbol", "Price", "Change %", "Dir", "Vol vs Avg %", "Trend", "Score")
	for _, r := range hits {
		t.Append(
			r.Symbol,
			fmt.Sprintf("%.2f", r.Price),
			fmt.Sprintf("%+.2f", r.PriceChangePct),
			r.TrendDirection,
			fmt.Sprintf("%+.1f", r.VolumeRatioPct),
			fmt.Sprintf("%.1f", r.TrendScore),
			fmt.Sprintf("%d", r.Score),
		)
	}
	t.Render()
}

func screenATH(sc config.ScreenerConfig, quotes []screener.Quote, table bool) {
	ath := screener.NewATH(screener.ATHConfig{
		DistancePct: sc.ATHDistancePct,
		MinVolume:   sc.ATHMinVolume,
		MinPrice:    sc.ATHMinPrice,
	})
	results := ath.ScreenAll(quotes)

	fmt.Printf("\nNEAR ALL-TIME HIGH: %d of %d qualify\n", len(results), len(quotes))
	if len(results) == 0 {
		return
	}

	if table {
		t := tablewriter.NewWriter(os.Stdout)
		t.Header("Symbol", "Price", "ATH", "Below %", "Vol Ratio", "Proximity", "Total")
		for _, r := range results {
			t.Append(
				r.Symbol,
				fmt.Sprintf("%.2f", r.Price),
				fmt.Sprintf("%.2f", r.AllTimeHigh),
				fmt.Sprintf("%.2f", r.DistancePct),
				fmt.Sprintf("%.2fx", r.VolumeRatio),
				fmt.Sprintf("%.0f", r.ProximityScore),
				fmt.Sprintf("%.0f", r.TotalScore),
			)
		}
		t.Render()
	} else {
		for _, r := range results {
			fmt.Printf("  %-12s %10.2f  %5.2f%% below ATH %.2f  vol %.2fx  total %.0f\n",
				r.Symbol, r.Price, r.DistancePct, r.AllTimeHigh, r.VolumeRatio, r.TotalScore)
		}
	}

	breakouts := screener.BreakoutCandidates(results, screener.DefaultBreakoutScore)
	if len(breakouts) == 0 {
		return
	}
	fmt.Printf("\nBREAKOUT CANDIDATES (score >= %.0f)\n", screener.DefaultBreakoutScore)
	for _, r := range breakouts {
		fmt.Printf("  %-12s %10.2f  %5.2f%% below high  total %.0f\n",
			r.Symbol, r.Price, r.DistancePct, r.TotalScore)
	}
}
