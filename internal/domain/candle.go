package domain

// Candle is one OHLC bar of the underlying index.
// Timestamps are opaque strings: series alignment is positional, the
// evaluation core never parses or compares them.
type Candle struct {
	Timestamp string
	Open      float64
	High      float64
	Low       float64
	Close     float64
}

// Bearish reports whether the candle closed below its open.
func (c Candle) Bearish() bool {
	return c.Close < c.Open
}

// Bullish reports whether the candle closed above its open.
func (c Candle) Bullish() bool {
	return c.Close > c.Open
}

// DayBar is one daily OHLCV bar of a listed stock, the screeners'
// input. Unlike index candles it carries traded volume.
type DayBar struct {
	Timestamp string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Closes extracts the close series from a candle sequence.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Highs extracts the high series from a candle sequence.
func Highs(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

// Lows extracts the low series from a candle sequence.
func Lows(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

// SMA computes the simple moving average of the last window values.
// A window larger than the series shrinks to the series length, so the
// result degrades to the plain mean. An empty series yields 0.
func SMA(values []float64, window int) float64 {
	if len(values) < window {
		window = len(values)
	}
	if window <= 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window)
}
