package domain

import "math"

// Defaults for the pattern detectors.
const (
	DefaultPatternLookback = 8
	DefaultTolerancePct    = 0.002 // 0.2%
)

// PatternMatch is the result of a double-top/double-bottom scan.
// RejectionIndex and RefLevel are only meaningful when Matched is true.
type PatternMatch struct {
	Matched        bool
	RejectionIndex int     // index of the rejection candle in the full series
	RefLevel       float64 // double-top: max of the two peaks; double-bottom: min of the two troughs
}

// DetectDoubleTop scans the tail of the series for a double-top ending in
// a rejection candle.
//
// Within the last lookback candles, the highest high excluding the final
// candle is the first peak; the final candle's high is the second (the
// retest). The pattern holds when:
//
//   - |second − first| / max(1, first) ≤ tolerancePct, and
//   - the final candle is a rejection: it closes below its open and its
//     high reaches at least one of the two peak levels.
//
// Fewer than 4 candles never match.
func DetectDoubleTop(candles []Candle, lookback int, tolerancePct float64) PatternMatch {
	n := len(candles)
	if n < 4 {
		return PatternMatch{}
	}

	window := candles
	if n >= lookback {
		window = candles[n-lookback:]
	}
	highs := Highs(window)

	firstHigh := maxOf(highs[:len(highs)-1])
	secondHigh := window[len(window)-1].High

	closeEnough := math.Abs(secondHigh-firstHigh)/math.Max(1.0, firstHigh) <= tolerancePct

	last := window[len(window)-1]
	rejection := last.Bearish() && (last.High >= secondHigh || last.High >= firstHigh)

	if closeEnough && rejection {
		return PatternMatch{
			Matched:        true,
			RejectionIndex: n - 1,
			RefLevel:       math.Max(firstHigh, secondHigh),
		}
	}
	return PatternMatch{}
}

// DetectDoubleBottom is the bearish mirror of DetectDoubleTop, with two
// deliberate asymmetries kept from the rule set: the second trough is the
// low at window position n−2 (not the final candle's), and the tolerance
// denominator is the second trough rather than the first.
func DetectDoubleBottom(candles []Candle, lookback int, tolerancePct float64) PatternMatch {
	n := len(candles)
	if n < 4 {
		return PatternMatch{}
	}

	window := candles
	if n >= lookback {
		window = candles[n-lookback:]
	}
	lows := Lows(window)

	firstLow := minOf(lows[:len(lows)-1])
	secondLow := lows[len(lows)-2]

	closeEnough := math.Abs(secondLow-firstLow)/math.Max(1.0, secondLow) <= tolerancePct

	last := window[len(window)-1]
	rejection := last.Bullish() && (last.Low <= secondLow || last.Low <= firstLow)

	if closeEnough && rejection {
		return PatternMatch{
			Matched:        true,
			RejectionIndex: n - 1,
			RefLevel:       math.Min(firstLow, secondLow),
		}
	}
	return PatternMatch{}
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
