package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nchandak/condorbot/config"
	"github.com/nchandak/condorbot/internal/adapters/notify"
	"github.com/nchandak/condorbot/internal/adapters/storage"
	"github.com/nchandak/condorbot/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one polling cycle and exit")
	backtest := flag.Bool("backtest", false, "replay the configured CSV series and exit")
	screen := flag.String("screen", "", "run a stock screen and exit: trending|ath|all")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "render signals, plans and screens as full tables")
	noExec := flag.Bool("no-exec", false, "generate signals without planning orders")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("condorbot starting",
		"config", *configPath,
		"symbol", cfg.Trading.UnderlyingSymbol,
		"strategy", cfg.Strategy.Name,
		"poll_interval", cfg.Data.PollInterval(),
		"dry_run", cfg.Trading.IsDryRun(),
		"once", *once,
		"backtest", *backtest,
	)

	if *screen != "" {
		if err := runScreen(cfg, *screen, *table); err != nil {
			slog.Error("screen failed", "err", err)
			os.Exit(1)
		}
		return
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "path", cfg.Storage.Path)
		os.Exit(1)
	}
	defer store.Close()

	registry := strategy.NewRegistry()
	registry.Register(strategy.NewCondor(strategy.CondorConfig{
		TolerancePct:    cfg.Strategy.TolerancePct,
		MinOIChangePct:  cfg.Strategy.MinOIChangePct,
		FutMinDropPct:   cfg.Strategy.FutMinDropPct,
		MAWindow:        cfg.Strategy.MAWindow,
		PatternLookback: cfg.Strategy.PatternLookback,
	}))
	strat, ok := registry.Get(cfg.Strategy.Name)
	if !ok {
		slog.Error("unknown strategy", "name", cfg.Strategy.Name)
		os.Exit(1)
	}

	notifier := notify.NewConsole(*table || *backtest)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pruneOldSignals(ctx, store, cfg.Storage.RetentionDays)

	if *backtest {
		runBacktest(ctx, cfg, strat, store, notifier, !*noExec)
		return
	}

	runLive(ctx, cfg, strat, store, notifier, *once, !*noExec)
}

// pruneOldSignals applies the retention policy on startup. Failures
// only warn: stale rows are not worth refusing to trade over.
func pruneOldSignals(ctx context.Context, store *storage.SQLiteStore, retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	n, err := store.PruneSignalsBefore(ctx, cutoff)
	if err != nil {
		slog.Warn("pruning old signals failed", "err", err)
		return
	}
	if n > 0 {
		slog.Info("pruned old signals", "count", n, "retention_days", retentionDays)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))
}
