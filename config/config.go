// Package config loads the bot configuration: YAML file, .env overlay,
// environment overrides, defaults, then validation. Validation is
// fail-closed on hard errors; risky-but-legal settings only warn.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full bot configuration.
type Config struct {
	Trading  TradingConfig  `yaml:"trading"`
	Strategy StrategyConfig `yaml:"strategy"`
	Data     DataConfig     `yaml:"data"`
	Storage  StorageConfig  `yaml:"storage"`
	Screener ScreenerConfig `yaml:"screener"`
	Log      LogConfig      `yaml:"log"`
}

// TradingConfig describes the instrument and risk limits.
type TradingConfig struct {
	UnderlyingSymbol string  `yaml:"underlying_symbol"`
	Exchange         string  `yaml:"exchange"`
	LotSize          int     `yaml:"lot_size"`
	StrikeStep       int     `yaml:"strike_step"`
	Capital          float64 `yaml:"capital"`
	MaxLossPerTrade  float64 `yaml:"max_loss_per_trade"`
	HedgeDistance    int     `yaml:"hedge_distance"`
	EnableHedge      bool    `yaml:"enable_hedge"`
	ProductType      string  `yaml:"product_type"`
	DryRun           *bool   `yaml:"dry_run"` // nil defaults to true
}

// IsDryRun reports whether order plans stay on paper. Unset means yes.
func (t TradingConfig) IsDryRun() bool {
	return t.DryRun == nil || *t.DryRun
}

// StrategyConfig tunes the signal rules. Zero thresholds defer to the
// strategy's own defaults.
type StrategyConfig struct {
	Name            string  `yaml:"name"`
	TolerancePct    float64 `yaml:"tolerance_pct"`
	MinOIChangePct  float64 `yaml:"min_oi_change_pct"`
	FutMinDropPct   float64 `yaml:"fut_min_drop_pct"`
	MAWindow        int     `yaml:"ma_window"`
	PatternLookback int     `yaml:"pattern_lookback"`
}

// DataConfig points at the market data sources.
type DataConfig struct {
	CandlesCSV       string `yaml:"candles_csv"`
	OICSV            string `yaml:"oi_csv"`
	FuturesCSV       string `yaml:"futures_csv"`
	NSEBaseURL       string `yaml:"nse_base_url"` // empty uses the production endpoint
	PollIntervalSecs int    `yaml:"poll_interval_seconds"`
	BarIntervalSecs  int    `yaml:"bar_interval_seconds"`
	HistoryBars      int    `yaml:"history_bars"`
}

// PollInterval returns the live polling cadence.
func (d DataConfig) PollInterval() time.Duration {
	return time.Duration(d.PollIntervalSecs) * time.Second
}

// BarInterval returns the candle width for live aggregation.
func (d DataConfig) BarInterval() time.Duration {
	return time.Duration(d.BarIntervalSecs) * time.Second
}

// StorageConfig controls persistence.
type StorageConfig struct {
	Path          string `yaml:"path"` // SQLite file, or ":memory:"
	RetentionDays int    `yaml:"retention_days"`
}

// ScreenerConfig holds the stock screen thresholds.
type ScreenerConfig struct {
	UniverseDir          string  `yaml:"universe_dir"`
	MinVolumeIncreasePct float64 `yaml:"min_volume_increase_pct"`
	MinPriceChangePct    float64 `yaml:"min_price_change_pct"`
	MinAvgVolume         int64   `yaml:"min_avg_volume"`
	ATHDistancePct       float64 `yaml:"ath_distance_pct"`
	ATHMinVolume         int64   `yaml:"ath_min_volume"`
	ATHMinPrice          float64 `yaml:"ath_min_price"`
}

// LogConfig controls log output and rotation.
type LogConfig struct {
	Level      string `yaml:"level"`  // debug | info | warn | error
	Format     string `yaml:"format"` // text | json
	File       string `yaml:"file"`   // empty logs to stdout only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

var (
	validExchanges    = []string{"NFO", "NSE", "BSE", "MCX"}
	validProductTypes = []string{"INTRADAY", "CARRYFORWARD", "DELIVERY"}
	standardSymbols   = []string{"NIFTY", "BANKNIFTY", "FINNIFTY", "MIDCPNIFTY"}
)

// Load reads the YAML file at path, overlays .env and environment
// variables, fills defaults and validates. Hard validation errors fail
// the load.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("config.Load: invalid configuration:\n  - %s",
			strings.Join(errs, "\n  - "))
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("NSE_BASE_URL"); v != "" {
		cfg.Data.NSEBaseURL = v
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Trading.UnderlyingSymbol == "" {
		cfg.Trading.UnderlyingSymbol = "NIFTY"
	}
	if cfg.Trading.Exchange == "" {
		cfg.Trading.Exchange = "NFO"
	}
	if cfg.Trading.LotSize == 0 {
		cfg.Trading.LotSize = 50
	}
	if cfg.Trading.StrikeStep == 0 {
		cfg.Trading.StrikeStep = 50
	}
	if cfg.Trading.Capital == 0 {
		cfg.Trading.Capital = 200_000
	}
	if cfg.Trading.HedgeDistance == 0 {
		cfg.Trading.HedgeDistance = 900
	}
	if cfg.Trading.ProductType == "" {
		cfg.Trading.ProductType = "CARRYFORWARD"
	}
	if cfg.Strategy.Name == "" {
		cfg.Strategy.Name = "non_directional_condor"
	}
	if cfg.Data.PollIntervalSecs <= 0 {
		cfg.Data.PollIntervalSecs = 180
	}
	if cfg.Data.HistoryBars <= 0 {
		cfg.Data.HistoryBars = 500
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "condorbot.db"
	}
	if cfg.Storage.RetentionDays == 0 {
		cfg.Storage.RetentionDays = 30
	}
	if cfg.Screener.UniverseDir == "" {
		cfg.Screener.UniverseDir = "data/universe"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 20
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Log.MaxAgeDays <= 0 {
		cfg.Log.MaxAgeDays = 30
	}
}

// Validate returns hard errors and logs soft warnings. Call after
// defaults are applied.
func (c *Config) Validate() []string {
	var errs []string

	t := c.Trading
	if !contains(validExchanges, t.Exchange) {
		errs = append(errs, fmt.Sprintf("invalid exchange %q, must be one of %v", t.Exchange, validExchanges))
	}
	if !contains(standardSymbols, t.UnderlyingSymbol) {
		slog.Warn("underlying symbol not in the standard index list, proceeding anyway",
			"symbol", t.UnderlyingSymbol, "standard", standardSymbols)
	}
	if t.LotSize <= 0 {
		errs = append(errs, fmt.Sprintf("lot_size must be positive, got %d", t.LotSize))
	} else if t.LotSize > 1000 {
		slog.Warn("lot size seems very large", "lot_size", t.LotSize)
	}
	if t.StrikeStep <= 0 {
		errs = append(errs, fmt.Sprintf("strike_step must be positive, got %d", t.StrikeStep))
	}
	if t.Capital <= 0 {
		errs = append(errs, fmt.Sprintf("capital must be positive, got %.0f", t.Capital))
	} else if t.Capital < 100_000 {
		slog.Warn("capital is quite low for options selling", "capital", t.Capital)
	}
	if t.MaxLossPerTrade < 0 {
		errs = append(errs, fmt.Sprintf("max_loss_per_trade must be positive, got %.0f", t.MaxLossPerTrade))
	} else if t.MaxLossPerTrade > 0 && t.Capital > 0 && t.MaxLossPerTrade > t.Capital*0.05 {
		slog.Warn("max loss per trade exceeds 5% of capital",
			"max_loss", t.MaxLossPerTrade, "capital", t.Capital)
	}
	if !contains(validProductTypes, t.ProductType) {
		errs = append(errs, fmt.Sprintf("invalid product_type %q, must be one of %v", t.ProductType, validProductTypes))
	}
	if t.EnableHedge && t.HedgeDistance <= 0 {
		errs = append(errs, "hedging enabled but hedge_distance not set")
	}
	if !t.IsDryRun() {
		slog.Warn("DRY RUN IS DISABLED - order plans will be marked live; ensure this is intentional")
	}

	s := c.Strategy
	for name, v := range map[string]float64{
		"tolerance_pct":     s.TolerancePct,
		"min_oi_change_pct": s.MinOIChangePct,
		"fut_min_drop_pct":  s.FutMinDropPct,
	} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("strategy %s must be non-negative, got %v", name, v))
		}
	}

	sc := c.Screener
	for name, v := range map[string]float64{
		"min_volume_increase_pct": sc.MinVolumeIncreasePct,
		"min_price_change_pct":    sc.MinPriceChangePct,
		"ath_distance_pct":        sc.ATHDistancePct,
		"ath_min_price":           sc.ATHMinPrice,
	} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("screener %s must be non-negative, got %v", name, v))
		}
	}

	if c.Storage.RetentionDays < 0 {
		errs = append(errs, fmt.Sprintf("retention_days must be non-negative, got %d", c.Storage.RetentionDays))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format %q", c.Log.Format))
	}

	return errs
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
