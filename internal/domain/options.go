package domain

import "math"

// ATMStrike returns the at-the-money strike for a spot price given the
// strike step of the chain (NIFTY: 50, some indexes: 100). The strike
// grid is walked by truncation, matching how the chain itself is quoted.
func ATMStrike(spot float64, step int) int {
	if step <= 0 {
		return 0
	}
	return int(spot/float64(step)) * step
}

// StraddleMetrics describes the ATM straddle: its cost, its breakeven
// band and the daily move the market is pricing in.
type StraddleMetrics struct {
	ATMStrike      int
	StraddlePrice  float64 // call premium + put premium
	AvgIV          float64
	UpperBreakeven float64
	LowerBreakeven float64
	RangeWidth     float64 // upper − lower
	CallPutRatio   float64 // call premium / put premium, 0 when put is 0
	ExpectedMove   float64 // spot × avgIV / √365, the one-day expected move
}

// AnalyzeStraddle computes the ATM straddle metrics for a chain.
// IVs are fractional (0.14 = 14%).
func AnalyzeStraddle(spot float64, step int, callPremium, putPremium, callIV, putIV float64) StraddleMetrics {
	atm := ATMStrike(spot, step)
	price := callPremium + putPremium
	avgIV := (callIV + putIV) / 2

	ratio := 0.0
	if putPremium > 0 {
		ratio = callPremium / putPremium
	}

	return StraddleMetrics{
		ATMStrike:      atm,
		StraddlePrice:  price,
		AvgIV:          avgIV,
		UpperBreakeven: float64(atm) + price,
		LowerBreakeven: float64(atm) - price,
		RangeWidth:     2 * price,
		CallPutRatio:   ratio,
		ExpectedMove:   spot * avgIV / math.Sqrt(365),
	}
}

// PayoffPoint is the straddle P&L at one spot level at expiry.
type PayoffPoint struct {
	Spot   float64
	Call   float64
	Put    float64
	Payoff float64 // call + put − cost
}

// StraddlePayoff evaluates a long straddle across a range of expiry
// spots. Short positions read the same table with the sign flipped.
func StraddlePayoff(spots []float64, atmStrike int, cost float64) []PayoffPoint {
	out := make([]PayoffPoint, 0, len(spots))
	for _, s := range spots {
		call := math.Max(s-float64(atmStrike), 0)
		put := math.Max(float64(atmStrike)-s, 0)
		out = append(out, PayoffPoint{
			Spot:   s,
			Call:   call,
			Put:    put,
			Payoff: call + put - cost,
		})
	}
	return out
}

// SkewMetrics summarizes implied-volatility skew across strikes.
// OverallSkew > 0 means puts are bid over calls (downside fear).
type SkewMetrics struct {
	ATMIV       float64
	AvgCallIV   float64
	AvgPutIV    float64
	CallPutIV   float64 // avg call IV / avg put IV, 0 when put side is 0
	CallSkew    float64 // max − min across call strikes
	PutSkew     float64
	OverallSkew float64 // avg put IV − avg call IV
}

// CalcIVSkew computes skew metrics from per-strike IV maps.
func CalcIVSkew(callIVs, putIVs map[int]float64, atmStrike int) SkewMetrics {
	m := SkewMetrics{
		ATMIV:     (callIVs[atmStrike] + putIVs[atmStrike]) / 2,
		AvgCallIV: meanOfMap(callIVs),
		AvgPutIV:  meanOfMap(putIVs),
		CallSkew:  spreadOfMap(callIVs),
		PutSkew:   spreadOfMap(putIVs),
	}
	if m.AvgPutIV > 0 {
		m.CallPutIV = m.AvgCallIV / m.AvgPutIV
	}
	m.OverallSkew = m.AvgPutIV - m.AvgCallIV
	return m
}

// PCRReading holds put-call ratios computed from volume and OI.
// An OI ratio of 0 with OIValid=false means the call side had no OI.
type PCRReading struct {
	VolumePCR float64
	OIPCR     float64
	OIValid   bool
}

// CalcPCR computes volume- and OI-based put-call ratios.
// A zero call volume yields a zero VolumePCR.
func CalcPCR(putVolume, callVolume, putOI, callOI float64) PCRReading {
	r := PCRReading{}
	if callVolume > 0 {
		r.VolumePCR = putVolume / callVolume
	}
	if callOI > 0 {
		r.OIPCR = putOI / callOI
		r.OIValid = true
	}
	return r
}

// SentimentFromPCR maps a put-call ratio to a sentiment label.
// Low PCR = calls dominate = bullish positioning; the ladder widens
// toward the bearish end because high PCR readings are rarer.
func SentimentFromPCR(pcr float64) string {
	switch {
	case pcr < 0.5:
		return "Extremely Bullish"
	case pcr < 0.7:
		return "Bullish"
	case pcr < 1.0:
		return "Slightly Bullish"
	case pcr < 1.3:
		return "Neutral"
	case pcr < 1.5:
		return "Slightly Bearish"
	case pcr < 2.0:
		return "Bearish"
	default:
		return "Extremely Bearish"
	}
}

// VIXReading interprets an India VIX level.
type VIXReading struct {
	VIX         float64
	Category    string // Very Low .. Very High
	MarketState string
}

// InterpretVIX buckets a VIX value into the bands option sellers care
// about: premium richness rises with the band.
func InterpretVIX(vix float64) VIXReading {
	r := VIXReading{VIX: vix}
	switch {
	case vix < 12:
		r.Category, r.MarketState = "Very Low", "Low Volatility"
	case vix < 16:
		r.Category, r.MarketState = "Low", "Calm"
	case vix < 20:
		r.Category, r.MarketState = "Moderate", "Balanced"
	case vix < 30:
		r.Category, r.MarketState = "High", "Nervous"
	default:
		r.Category, r.MarketState = "Very High", "Panic"
	}
	return r
}

// VIXPercentile locates the current VIX within a historical series.
// MeanReversionHigh is set when the reading sits outside the 40–60
// percentile band, where a snap back toward the mean is more likely.
type VIXPercentile struct {
	Current           float64
	Percentile        float64
	HistoricalAvg     float64
	HistoricalMin     float64
	HistoricalMax     float64
	AboveAverage      bool
	MeanReversionHigh bool
}

// CalcVIXPercentile computes the percentile stats; an empty history
// yields the zero value.
func CalcVIXPercentile(current float64, history []float64) VIXPercentile {
	if len(history) == 0 {
		return VIXPercentile{}
	}

	below := 0
	sum := 0.0
	for _, v := range history {
		if v <= current {
			below++
		}
		sum += v
	}
	avg := sum / float64(len(history))
	pct := float64(below) / float64(len(history)) * 100

	return VIXPercentile{
		Current:           current,
		Percentile:        pct,
		HistoricalAvg:     avg,
		HistoricalMin:     minOf(history),
		HistoricalMax:     maxOf(history),
		AboveAverage:      current > avg,
		MeanReversionHigh: !(pct > 40 && pct < 60),
	}
}

func meanOfMap(m map[int]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range m {
		sum += v
	}
	return sum / float64(len(m))
}

func spreadOfMap(m map[int]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	first := true
	var lo, hi float64
	for _, v := range m {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}
