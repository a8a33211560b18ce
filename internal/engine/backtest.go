package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nchandak/condorbot/internal/domain"
	"github.com/nchandak/condorbot/internal/ports"
	"github.com/nchandak/condorbot/internal/strategy"
)

// Backtest replays historical series through a strategy bar by bar.
type Backtest struct {
	data     ports.MarketData
	strat    strategy.Strategy
	store    ports.SignalStore // optional
	notifier ports.Notifier    // optional
	executor ports.Executor    // optional; tradeable signals get planned
}

// NewBacktest wires a replay run. Store, notifier and executor may each
// be nil to skip persistence, reporting or planning.
func NewBacktest(data ports.MarketData, strat strategy.Strategy, store ports.SignalStore, notifier ports.Notifier, executor ports.Executor) *Backtest {
	return &Backtest{
		data:     data,
		strat:    strat,
		store:    store,
		notifier: notifier,
		executor: executor,
	}
}

// Run loads the three series, truncates them to the shortest, and
// evaluates the strategy on every growing prefix of at least four bars,
// mirroring how the live engine would have seen the data arrive. The
// spot for planning is the prefix's last close.
func (b *Backtest) Run(ctx context.Context) (domain.BacktestSummary, error) {
	summary := domain.BacktestSummary{BySituation: make(map[string]int)}

	candles, err := b.data.Candles(ctx)
	if err != nil {
		return summary, fmt.Errorf("engine.Backtest: candles: %w", err)
	}
	oi, err := b.data.OpenInterest(ctx)
	if err != nil {
		return summary, fmt.Errorf("engine.Backtest: open interest: %w", err)
	}
	fut, err := b.data.FuturesOpenInterest(ctx)
	if err != nil {
		return summary, fmt.Errorf("engine.Backtest: futures: %w", err)
	}

	n := len(candles)
	if len(oi) < n {
		n = len(oi)
	}
	if len(fut) < n {
		n = len(fut)
	}
	candles, oi, fut = candles[:n], oi[:n], fut[:n]
	summary.Bars = n

	slog.Info("backtest started", "strategy", b.strat.Name(), "bars", n)

	for i := 4; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Evaluations++

		sig := b.strat.Evaluate(candles[:i], oi[:i], fut[:i])
		if sig == nil {
			continue
		}
		sig.ID = uuid.NewString()
		summary.Signals = append(summary.Signals, *sig)
		summary.BySituation[sig.Situation()]++

		if b.store != nil {
			if err := b.store.SaveSignal(ctx, *sig); err != nil {
				slog.Warn("backtest signal not persisted", "id", sig.ID, "err", err)
			}
		}

		if sig.Tradeable() && b.executor != nil {
			spot := candles[i-1].Close
			if _, err := b.executor.Execute(ctx, *sig, spot); err != nil {
				slog.Warn("backtest planning failed", "id", sig.ID, "err", err)
			}
		}
	}

	if b.notifier != nil {
		if err := b.notifier.NotifyBacktest(ctx, summary); err != nil {
			slog.Warn("backtest report failed", "err", err)
		}
	}
	return summary, nil
}
