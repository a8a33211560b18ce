package domain

// MarketState classifies the prevailing trend of the underlying.
type MarketState int

const (
	Bullish MarketState = iota
	Bearish
	Range
)

func (s MarketState) String() string {
	switch s {
	case Bullish:
		return "BULLISH"
	case Bearish:
		return "BEARISH"
	default:
		return "RANGE"
	}
}

// DefaultMAWindow is the SMA window InferTrend uses unless overridden.
const DefaultMAWindow = 10

// InferTrend classifies the trend from an SMA and the net price direction.
//
//   - BULLISH: last close above the SMA and above the close two bars back.
//   - BEARISH: last close below the SMA and below the close two bars back.
//   - RANGE otherwise, and always for an empty series.
//
// With fewer than two candles the reference close is the first bar, so a
// single candle can never be net up or down against itself.
func InferTrend(candles []Candle, maWindow int) MarketState {
	if len(candles) == 0 {
		return Range
	}

	closes := Closes(candles)
	smaVal := SMA(closes, maWindow)
	lastClose := closes[len(closes)-1]

	refIdx := 0
	if len(closes) >= 2 {
		refIdx = len(closes) - 2
	}
	netUp := lastClose > closes[refIdx]
	netDown := lastClose < closes[refIdx]

	if lastClose > smaVal && netUp {
		return Bullish
	}
	if lastClose < smaVal && netDown {
		return Bearish
	}
	return Range
}
