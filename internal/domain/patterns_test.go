package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SMA ---

func TestSMA_Basic(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 40.0, SMA(values, 3)) // (30+40+50)/3
}

func TestSMA_WindowLargerThanData(t *testing.T) {
	// Window shrinks to the series: plain mean.
	assert.Equal(t, 15.0, SMA([]float64{10, 20}, 5))
}

func TestSMA_Empty(t *testing.T) {
	assert.Equal(t, 0.0, SMA(nil, 5))
}

func TestSMA_SingleValue(t *testing.T) {
	assert.Equal(t, 42.0, SMA([]float64{42}, 1))
}

// --- InferTrend ---

func TestInferTrend_Bullish(t *testing.T) {
	candles := []Candle{
		{Timestamp: "2024-01-01 09:00", Open: 100, High: 102, Low: 99, Close: 101},
		{Timestamp: "2024-01-01 09:01", Open: 101, High: 103, Low: 100, Close: 102},
		{Timestamp: "2024-01-01 09:02", Open: 102, High: 104, Low: 101, Close: 103},
		{Timestamp: "2024-01-01 09:03", Open: 103, High: 105, Low: 102, Close: 104},
		{Timestamp: "2024-01-01 09:04", Open: 104, High: 106, Low: 103, Close: 105},
	}
	assert.Equal(t, Bullish, InferTrend(candles, 3))
}

func TestInferTrend_Bearish(t *testing.T) {
	candles := []Candle{
		{Timestamp: "2024-01-01 09:00", Open: 105, High: 106, Low: 104, Close: 105},
		{Timestamp: "2024-01-01 09:01", Open: 104, High: 105, Low: 103, Close: 104},
		{Timestamp: "2024-01-01 09:02", Open: 103, High: 104, Low: 102, Close: 103},
		{Timestamp: "2024-01-01 09:03", Open: 102, High: 103, Low: 101, Close: 102},
		{Timestamp: "2024-01-01 09:04", Open: 101, High: 102, Low: 100, Close: 101},
	}
	assert.Equal(t, Bearish, InferTrend(candles, 3))
}

func TestInferTrend_Range(t *testing.T) {
	// Last close equals the reference close: neither net up nor net down.
	candles := []Candle{
		{Open: 100, High: 102, Low: 99, Close: 100},
		{Open: 100, High: 102, Low: 99, Close: 101},
		{Open: 101, High: 102, Low: 99, Close: 100},
		{Open: 100, High: 102, Low: 99, Close: 100},
	}
	assert.Equal(t, Range, InferTrend(candles, 3))
}

func TestInferTrend_Empty(t *testing.T) {
	assert.Equal(t, Range, InferTrend(nil, DefaultMAWindow))
}

func TestInferTrend_SingleCandle(t *testing.T) {
	// One candle compares against itself: never net up or down.
	candles := []Candle{{Open: 100, High: 102, Low: 99, Close: 101}}
	assert.Equal(t, Range, InferTrend(candles, 1))
}

// --- DetectDoubleTop ---

func TestDetectDoubleTop_Valid(t *testing.T) {
	candles := []Candle{
		{Open: 100, High: 105, Low: 99, Close: 104},    // first peak
		{Open: 104, High: 105, Low: 100, Close: 101},   // decline
		{Open: 101, High: 102, Low: 98, Close: 99},     // valley
		{Open: 99, High: 103, Low: 98, Close: 102},     // recovery
		{Open: 102, High: 105.1, Low: 101, Close: 101}, // retest + rejection
	}
	m := DetectDoubleTop(candles, DefaultPatternLookback, DefaultTolerancePct)
	assert.True(t, m.Matched)
	assert.Equal(t, 4, m.RejectionIndex)
	assert.Equal(t, 105.1, m.RefLevel) // max of the two peaks
}

func TestDetectDoubleTop_ToleranceExceeded(t *testing.T) {
	candles := []Candle{
		{Open: 100, High: 105, Low: 99, Close: 104},
		{Open: 104, High: 105, Low: 100, Close: 101},
		{Open: 101, High: 102, Low: 98, Close: 99},
		{Open: 99, High: 103, Low: 98, Close: 102},
		{Open: 102, High: 108, Low: 101, Close: 103}, // 108 vs 105 is ~2.9%
	}
	m := DetectDoubleTop(candles, DefaultPatternLookback, DefaultTolerancePct)
	assert.False(t, m.Matched)
}

func TestDetectDoubleTop_NoRejection(t *testing.T) {
	candles := []Candle{
		{Open: 100, High: 105, Low: 99, Close: 104},
		{Open: 104, High: 105, Low: 100, Close: 101},
		{Open: 101, High: 102, Low: 98, Close: 99},
		{Open: 99, High: 103, Low: 98, Close: 102},
		{Open: 102, High: 105, Low: 101, Close: 105}, // closes above open
	}
	m := DetectDoubleTop(candles, DefaultPatternLookback, DefaultTolerancePct)
	assert.False(t, m.Matched)
}

func TestDetectDoubleTop_InsufficientCandles(t *testing.T) {
	candles := []Candle{
		{Open: 100, High: 105, Low: 99, Close: 104},
		{Open: 104, High: 105, Low: 100, Close: 101},
	}
	m := DetectDoubleTop(candles, DefaultPatternLookback, DefaultTolerancePct)
	assert.False(t, m.Matched)
}

func TestDetectDoubleTop_LookbackTrimsOldPeak(t *testing.T) {
	// A matching peak 9 bars back is outside the default window.
	candles := []Candle{
		{Open: 100, High: 120, Low: 99, Close: 104}, // outside lookback
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 100, High: 101, Low: 99, Close: 100},
		{Open: 102, High: 120, Low: 101, Close: 101}, // rejection, but 120 vs 101 inside window
	}
	m := DetectDoubleTop(candles, DefaultPatternLookback, DefaultTolerancePct)
	assert.False(t, m.Matched)
}

// --- DetectDoubleBottom ---

func TestDetectDoubleBottom_Valid(t *testing.T) {
	candles := []Candle{
		{Open: 105, High: 106, Low: 100, Close: 101},  // first trough
		{Open: 101, High: 104, Low: 100, Close: 103},  // recovery
		{Open: 103, High: 107, Low: 102, Close: 106},  // peak
		{Open: 106, High: 107, Low: 99.9, Close: 103}, // second trough
		{Open: 99, High: 105, Low: 99.9, Close: 104},  // rejection candle
	}
	m := DetectDoubleBottom(candles, DefaultPatternLookback, DefaultTolerancePct)
	assert.True(t, m.Matched)
	assert.Equal(t, 4, m.RejectionIndex)
	assert.Equal(t, 99.9, m.RefLevel) // min of the two troughs
}

func TestDetectDoubleBottom_ToleranceExceeded(t *testing.T) {
	candles := []Candle{
		{Open: 105, High: 106, Low: 100, Close: 101},
		{Open: 101, High: 104, Low: 100, Close: 103},
		{Open: 103, High: 107, Low: 102, Close: 106},
		{Open: 106, High: 107, Low: 102, Close: 103},
		{Open: 103, High: 105, Low: 95, Close: 104}, // 95 vs 100 is ~5%
	}
	m := DetectDoubleBottom(candles, DefaultPatternLookback, DefaultTolerancePct)
	assert.False(t, m.Matched)
}

func TestDetectDoubleBottom_NoRejection(t *testing.T) {
	candles := []Candle{
		{Open: 105, High: 106, Low: 100, Close: 101},
		{Open: 101, High: 104, Low: 100, Close: 103},
		{Open: 103, High: 107, Low: 102, Close: 106},
		{Open: 106, High: 107, Low: 102, Close: 103},
		{Open: 103, High: 105, Low: 100, Close: 101}, // closes below open
	}
	m := DetectDoubleBottom(candles, DefaultPatternLookback, DefaultTolerancePct)
	assert.False(t, m.Matched)
}

func TestDetectDoubleBottom_InsufficientCandles(t *testing.T) {
	candles := []Candle{
		{Open: 105, High: 106, Low: 100, Close: 101},
		{Open: 101, High: 104, Low: 100, Close: 103},
	}
	m := DetectDoubleBottom(candles, DefaultPatternLookback, DefaultTolerancePct)
	assert.False(t, m.Matched)
}

// --- Candle helpers ---

func TestCandle_BearishBullish(t *testing.T) {
	assert.True(t, Candle{Open: 102, Close: 101}.Bearish())
	assert.True(t, Candle{Open: 99, Close: 104}.Bullish())
	doji := Candle{Open: 100, Close: 100}
	assert.False(t, doji.Bearish())
	assert.False(t, doji.Bullish())
}
