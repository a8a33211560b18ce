package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nchandak/condorbot/config"
	"github.com/nchandak/condorbot/internal/adapters/csvdata"
	"github.com/nchandak/condorbot/internal/engine"
	"github.com/nchandak/condorbot/internal/execution"
	"github.com/nchandak/condorbot/internal/ports"
	"github.com/nchandak/condorbot/internal/strategy"
)

// runBacktest replays the configured CSV series through the strategy
// bar by bar and prints the summary via the notifier.
func runBacktest(ctx context.Context, cfg *config.Config, strat strategy.Strategy, store ports.SignalStore, notifier ports.Notifier, exec bool) {
	d := cfg.Data
	if d.CandlesCSV == "" || d.OICSV == "" || d.FuturesCSV == "" {
		slog.Error("backtest needs data.candles_csv, data.oi_csv and data.futures_csv set in the config")
		os.Exit(1)
	}

	slog.Info("=== BACKTEST MODE: replaying recorded series ===",
		"candles", d.CandlesCSV,
		"oi", d.OICSV,
		"futures", d.FuturesCSV,
	)

	src := csvdata.NewSource(d.CandlesCSV, d.OICSV, d.FuturesCSV)

	var executor ports.Executor
	if exec {
		planner := execution.NewPlanner(
			cfg.Trading.UnderlyingSymbol,
			cfg.Trading.LotSize,
			cfg.Trading.StrikeStep,
			cfg.Trading.Capital,
			cfg.Trading.HedgeDistance,
		)
		executor = execution.NewPaperExecutor(planner, store)
	}

	bt := engine.NewBacktest(src, strat, store, notifier, executor)

	sum, err := bt.Run(ctx)
	if err != nil {
		slog.Error("backtest failed", "err", err)
		os.Exit(1)
	}

	slog.Info("backtest complete",
		"bars", sum.Bars,
		"evaluations", sum.Evaluations,
		"signals", len(sum.Signals),
	)
}
