package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nchandak/condorbot/config"
	"github.com/nchandak/condorbot/internal/adapters/nse"
	"github.com/nchandak/condorbot/internal/engine"
	"github.com/nchandak/condorbot/internal/execution"
	"github.com/nchandak/condorbot/internal/ports"
	"github.com/nchandak/condorbot/internal/strategy"
)

// runLive polls the NSE option chain on the configured cadence and
// evaluates the strategy whenever a bar seals. With -once it runs a
// single cycle and exits, regardless of market hours.
func runLive(ctx context.Context, cfg *config.Config, strat strategy.Strategy, store ports.SignalStore, notifier ports.Notifier, once, exec bool) {
	chain := nse.NewClient(cfg.Data.NSEBaseURL)

	planner := execution.NewPlanner(
		cfg.Trading.UnderlyingSymbol,
		cfg.Trading.LotSize,
		cfg.Trading.StrikeStep,
		cfg.Trading.Capital,
		cfg.Trading.HedgeDistance,
	)
	executor := execution.NewPaperExecutor(planner, store)

	eng := engine.New(chain, strat, store, notifier, executor, engine.Config{
		Symbol:       cfg.Trading.UnderlyingSymbol,
		PollInterval: cfg.Data.PollInterval(),
		BarInterval:  cfg.Data.BarInterval(),
		HistoryBars:  cfg.Data.HistoryBars,
		Execute:      exec,
	})

	if once {
		res, err := eng.RunOnce(ctx)
		if err != nil {
			slog.Error("cycle failed", "err", err)
			os.Exit(1)
		}
		slog.Info("cycle complete",
			"spot", res.Snapshot.Spot,
			"bars", res.Bars,
			"bar_closed", res.BarClosed,
			"signal", res.Signal != nil,
		)
		return
	}

	if err := eng.Run(ctx); err != nil {
		slog.Error("engine exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("condorbot stopped cleanly")
}
