package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/nchandak/condorbot/internal/domain"
	"github.com/nchandak/condorbot/internal/ports"
	"github.com/nchandak/condorbot/internal/strategy"
)

// NSE cash/derivatives session, minutes from midnight IST.
const (
	marketOpenMinute  = 9*60 + 15
	marketCloseMinute = 15*60 + 30
)

const stateLastBar = "last_bar_ts"

// Config holds live engine settings.
type Config struct {
	Symbol       string
	PollInterval time.Duration // snapshot cadence
	BarInterval  time.Duration // candle width; <= PollInterval means one bar per poll
	HistoryBars  int           // bounded series length handed to the strategy
	Execute      bool          // plan paper orders for tradeable signals
}

// Engine polls the option chain on a schedule, folds snapshots into
// bars, and routes strategy output to storage, notifier and executor.
type Engine struct {
	chain    ports.ChainProvider
	strat    strategy.Strategy
	store    ports.SignalStore
	notifier ports.Notifier
	executor ports.Executor
	cfg      Config
	loc      *time.Location
	buf      *SeriesBuffer
	running  atomic.Bool
}

// New creates a live engine. Store, notifier and executor may be nil;
// the matching step is then skipped.
func New(chain ports.ChainProvider, strat strategy.Strategy, store ports.SignalStore, notifier ports.Notifier, executor ports.Executor, cfg Config) *Engine {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Minute
	}
	if cfg.HistoryBars <= 0 {
		cfg.HistoryBars = 500
	}
	barInterval := cfg.BarInterval
	if barInterval <= cfg.PollInterval {
		barInterval = 0 // one bar per poll
	}
	return &Engine{
		chain:    chain,
		strat:    strat,
		store:    store,
		notifier: notifier,
		executor: executor,
		cfg:      cfg,
		loc:      istLocation(),
		buf:      NewSeriesBuffer(barInterval, cfg.HistoryBars),
	}
}

// istLocation resolves Asia/Kolkata, falling back to a fixed UTC+5:30
// zone on systems without a tz database.
func istLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// MarketOpen reports whether t falls inside the NSE session
// (Mon-Fri, 09:15-15:30). Exchange holidays are not modelled; on a
// holiday the chain simply returns stale data and no bars move.
func MarketOpen(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= marketOpenMinute && minute <= marketCloseMinute
}

// CycleResult describes what one poll produced.
type CycleResult struct {
	Snapshot  domain.ChainSnapshot
	BarClosed bool
	Bars      int
	Signal    *domain.Signal
	Plan      *domain.OrderPlan
}

// RunOnce performs a single poll-fold-evaluate cycle. The strategy only
// runs when a bar completed and at least four bars exist.
func (e *Engine) RunOnce(ctx context.Context) (*CycleResult, error) {
	snap, err := e.chain.Snapshot(ctx, e.cfg.Symbol)
	if err != nil {
		return nil, fmt.Errorf("engine.RunOnce: snapshot: %w", err)
	}

	result := &CycleResult{Snapshot: snap}
	result.BarClosed = e.buf.Add(snap, time.Now().In(e.loc))
	result.Bars = e.buf.Len()

	if !result.BarClosed {
		slog.Debug("bar building", "spot", snap.Spot, "bars", result.Bars)
		return result, nil
	}

	candles, oi, fut := e.buf.Series()
	e.recordLastBar(ctx, candles)

	if len(candles) < 4 {
		slog.Debug("warming up", "bars", len(candles))
		return result, nil
	}

	sig := e.strat.Evaluate(candles, oi, fut)
	if sig == nil {
		slog.Debug("no signal", "bars", len(candles), "spot", snap.Spot)
		return result, nil
	}

	sig.ID = uuid.NewString()
	result.Signal = sig
	slog.Info("signal generated",
		"id", sig.ID,
		"action", sig.Action,
		"situation", sig.Situation(),
		"call_dist", sig.CallDistance,
		"put_dist", sig.PutDistance)

	if e.store != nil {
		if err := e.store.SaveSignal(ctx, *sig); err != nil {
			slog.Warn("signal not persisted", "id", sig.ID, "err", err)
		}
	}
	if e.notifier != nil {
		if err := e.notifier.NotifySignal(ctx, *sig); err != nil {
			slog.Warn("signal notification failed", "err", err)
		}
	}

	if sig.Tradeable() && e.cfg.Execute && e.executor != nil {
		plan, err := e.executor.Execute(ctx, *sig, snap.Spot)
		if err != nil {
			slog.Warn("order planning failed", "signal", sig.ID, "err", err)
		} else {
			result.Plan = &plan
			if e.notifier != nil {
				if err := e.notifier.NotifyPlan(ctx, plan); err != nil {
					slog.Warn("plan notification failed", "err", err)
				}
			}
		}
	}

	return result, nil
}

func (e *Engine) recordLastBar(ctx context.Context, candles []domain.Candle) {
	if e.store == nil || len(candles) == 0 {
		return
	}
	ts := candles[len(candles)-1].Timestamp
	if err := e.store.SetState(ctx, stateLastBar, ts); err != nil {
		slog.Warn("state not persisted", "key", stateLastBar, "err", err)
	}
}

// Run schedules cycles at the poll interval until ctx is cancelled.
// Cycles outside market hours are skipped, and a cycle is dropped when
// the previous one still runs.
func (e *Engine) Run(ctx context.Context) error {
	c := cron.New(cron.WithSeconds(), cron.WithLocation(e.loc))
	_, err := c.AddFunc(fmt.Sprintf("@every %s", e.cfg.PollInterval), func() {
		e.cycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("engine.Run: schedule: %w", err)
	}

	slog.Info("live engine started",
		"symbol", e.cfg.Symbol,
		"poll", e.cfg.PollInterval.String(),
		"execute", e.cfg.Execute)

	c.Start()
	e.cycle(ctx) // immediate first poll; cron fires after one interval

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	slog.Info("live engine stopped")
	return nil
}

func (e *Engine) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	now := time.Now().In(e.loc)
	if !MarketOpen(now) {
		slog.Debug("market closed, skipping poll", "t", now.Format("Mon 15:04"))
		return
	}
	if !e.running.CompareAndSwap(false, true) {
		slog.Warn("previous cycle still running, skipping poll")
		return
	}
	defer e.running.Store(false)

	result, err := e.RunOnce(ctx)
	if err != nil {
		slog.Error("cycle failed", "err", err)
		return
	}
	if result.Signal == nil {
		return
	}
	if result.Plan != nil {
		slog.Info("cycle complete with plan",
			"signal", result.Signal.ID, "legs", len(result.Plan.Legs))
	}
}
