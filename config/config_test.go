package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nchandak/condorbot/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
trading:
  underlying_symbol: NIFTY
  exchange: NFO
  lot_size: 75
  strike_step: 50
  capital: 1000000
  max_loss_per_trade: 10000
  hedge_distance: 900
  dry_run: true
strategy:
  name: non_directional_condor
  tolerance_pct: 0.002
  ma_window: 20
data:
  candles_csv: data/candles.csv
  oi_csv: data/oi.csv
  futures_csv: data/futures.csv
  poll_interval_seconds: 60
storage:
  path: test.db
  retention_days: 7
log:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "NIFTY", cfg.Trading.UnderlyingSymbol)
	assert.Equal(t, 75, cfg.Trading.LotSize)
	assert.True(t, cfg.Trading.IsDryRun())
	assert.Equal(t, 0.002, cfg.Strategy.TolerancePct)
	assert.Equal(t, int64(60_000_000_000), int64(cfg.Data.PollInterval()))
	assert.Equal(t, "test.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DefaultsFillGaps(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "trading:\n  capital: 500000\n"))
	require.NoError(t, err)

	assert.Equal(t, "NIFTY", cfg.Trading.UnderlyingSymbol)
	assert.Equal(t, "NFO", cfg.Trading.Exchange)
	assert.Equal(t, 50, cfg.Trading.LotSize)
	assert.Equal(t, 900, cfg.Trading.HedgeDistance)
	assert.Equal(t, "CARRYFORWARD", cfg.Trading.ProductType)
	assert.True(t, cfg.Trading.IsDryRun(), "dry run defaults on when unset")
	assert.Equal(t, "non_directional_condor", cfg.Strategy.Name)
	assert.Equal(t, 180, cfg.Data.PollIntervalSecs)
	assert.Equal(t, "condorbot.db", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("NSE_BASE_URL", "http://localhost:9999")

	cfg, err := config.Load(writeConfig(t, "log:\n  level: info\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "http://localhost:9999", cfg.Data.NSEBaseURL)
}

func TestLoad_InvalidExchange(t *testing.T) {
	_, err := config.Load(writeConfig(t, "trading:\n  exchange: NYSE\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid exchange "NYSE"`)
}

func TestLoad_CollectsAllErrors(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
trading:
  exchange: NYSE
  lot_size: -1
  capital: -5
log:
  level: loud
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exchange")
	assert.Contains(t, err.Error(), "lot_size must be positive")
	assert.Contains(t, err.Error(), "capital must be positive")
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestLoad_DryRunOffIsLegalButLoud(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "trading:\n  dry_run: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Trading.IsDryRun())
}

func TestLoad_HedgeEnabledNeedsDistance(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
trading:
  enable_hedge: true
  hedge_distance: -50
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hedge_distance")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
