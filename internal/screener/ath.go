package screener

import (
	"math"
	"sort"
)

// DefaultBreakoutScore is the total score at which a near-ATH stock
// counts as a breakout candidate.
const DefaultBreakoutScore = 70.0

// ATHConfig holds the all-time-high proximity screen thresholds.
type ATHConfig struct {
	DistancePct float64 // qualifying band below the ATH
	MinVolume   int64
	MinPrice    float64
}

// DefaultATHConfig returns the standard proximity thresholds.
func DefaultATHConfig() ATHConfig {
	return ATHConfig{
		DistancePct: 5,
		MinVolume:   500_000,
		MinPrice:    100,
	}
}

// ATHResult is one symbol's proximity screen outcome.
type ATHResult struct {
	Symbol         string
	Price          float64
	AllTimeHigh    float64
	DistancePct    float64 // % below the ATH; negative when above
	DistanceValue  float64
	Volume         int64
	AvgVolume      float64
	VolumeRatio    float64 // current / average
	ProximityScore float64 // 100 at the high, fading to 50 at the band edge
	MomentumScore  float64 // volume ratio × 30, capped at 30
	TotalScore     float64
	MeetsVolume    bool
	MeetsPrice     bool
	WithinBand     bool
	Qualifies      bool
}

// ATH screens for stocks pressing against their all-time highs.
type ATH struct {
	cfg ATHConfig
}

// NewATH creates the screen; zero config fields take defaults.
func NewATH(cfg ATHConfig) *ATH {
	def := DefaultATHConfig()
	if cfg.DistancePct <= 0 {
		cfg.DistancePct = def.DistancePct
	}
	if cfg.MinVolume <= 0 {
		cfg.MinVolume = def.MinVolume
	}
	if cfg.MinPrice <= 0 {
		cfg.MinPrice = def.MinPrice
	}
	return &ATH{cfg: cfg}
}

// Screen evaluates one quote. A symbol qualifies when it trades within
// the distance band of its ATH on at least 80% of the volume floor.
// Quotes with no ATH on record never qualify.
func (s *ATH) Screen(q Quote) ATHResult {
	if q.AllTimeHigh == 0 {
		return ATHResult{Symbol: q.Symbol}
	}

	dist := (q.AllTimeHigh - q.Price) / q.AllTimeHigh * 100

	var proximity float64
	switch {
	case dist <= 0:
		proximity = 100 // at or above the high
	case dist <= s.cfg.DistancePct:
		proximity = 100 - dist/s.cfg.DistancePct*50
	default:
		proximity = 0
	}

	volRatio := 1.0
	if q.AvgVolume > 0 {
		volRatio = float64(q.Volume) / q.AvgVolume
	}
	momentum := math.Min(volRatio*30, 30)

	meetsVolume := float64(q.Volume) >= float64(s.cfg.MinVolume)*0.8
	withinBand := dist <= s.cfg.DistancePct

	return ATHResult{
		Symbol:         q.Symbol,
		Price:          q.Price,
		AllTimeHigh:    q.AllTimeHigh,
		DistancePct:    dist,
		DistanceValue:  q.AllTimeHigh - q.Price,
		Volume:         q.Volume,
		AvgVolume:      q.AvgVolume,
		VolumeRatio:    volRatio,
		ProximityScore: proximity,
		MomentumScore:  momentum,
		TotalScore:     proximity + momentum,
		MeetsVolume:    meetsVolume,
		MeetsPrice:     q.Price >= s.cfg.MinPrice,
		WithinBand:     withinBand,
		Qualifies:      withinBand && meetsVolume,
	}
}

// ScreenAll evaluates every quote and returns only the qualifiers,
// closest to the high first, bigger volume ratio breaking ties.
func (s *ATH) ScreenAll(quotes []Quote) []ATHResult {
	results := make([]ATHResult, 0, len(quotes))
	for _, q := range quotes {
		r := s.Screen(q)
		if !r.Qualifies {
			continue
		}
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].DistancePct != results[j].DistancePct {
			return results[i].DistancePct < results[j].DistancePct
		}
		return results[i].VolumeRatio > results[j].VolumeRatio
	})
	return results
}

// BreakoutCandidates filters results likely to clear the high: total
// score at or above threshold with the volume criterion met, strongest
// first. Pass DefaultBreakoutScore for the usual cut.
func BreakoutCandidates(results []ATHResult, threshold float64) []ATHResult {
	out := make([]ATHResult, 0, len(results))
	for _, r := range results {
		if r.TotalScore >= threshold && r.MeetsVolume {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	return out
}

// Strength locates the current price inside its historical range.
type Strength struct {
	Symbol       string
	Price        float64
	High         float64
	Low          float64
	AvgPrice     float64
	Percentile   float64 // share of history at or below the current price
	Score        float64 // 0-100 position inside the range
	DaysNearHigh int     // closes within 5% of the high
	Consistency  string  // High, Medium or Low
}

// HistoricalStrength measures how persistently a stock has traded near
// the top of its range. An empty history yields ok=false.
func HistoricalStrength(symbol string, prices []float64, current float64) (Strength, bool) {
	if len(prices) == 0 {
		return Strength{}, false
	}

	high, low, sum := prices[0], prices[0], 0.0
	atOrBelow, nearHigh := 0, 0
	for _, p := range prices {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
		sum += p
	}
	for _, p := range prices {
		if p <= current {
			atOrBelow++
		}
		if high > 0 && p >= high*0.95 {
			nearHigh++
		}
	}

	score := 0.0
	if high > low {
		score = (current - low) / (high - low) * 100
	}

	consistency := "Low"
	switch {
	case score > 75:
		consistency = "High"
	case score > 50:
		consistency = "Medium"
	}

	return Strength{
		Symbol:       symbol,
		Price:        current,
		High:         high,
		Low:          low,
		AvgPrice:     sum / float64(len(prices)),
		Percentile:   float64(atOrBelow) / float64(len(prices)) * 100,
		Score:        score,
		DaysNearHigh: nearHigh,
		Consistency:  consistency,
	}, true
}
