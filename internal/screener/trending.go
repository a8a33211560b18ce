package screener

import (
	"math"
	"sort"

	"github.com/markcheno/go-talib"
)

// TrendingConfig holds the momentum screen thresholds.
type TrendingConfig struct {
	MinVolumeIncreasePct float64 // current volume this % above its average
	MinPriceChangePct    float64 // absolute move to count as trending
	MinAvgVolume         int64   // liquidity floor
	RSIPeriod            int
}

// DefaultTrendingConfig returns the standard intraday thresholds.
func DefaultTrendingConfig() TrendingConfig {
	return TrendingConfig{
		MinVolumeIncreasePct: 50,
		MinPriceChangePct:    2,
		MinAvgVolume:         100_000,
		RSIPeriod:            14,
	}
}

// TrendingResult is one symbol's momentum screen outcome.
type TrendingResult struct {
	Symbol         string
	Price          float64
	PriceChangePct float64
	TrendDirection string // UP or DOWN
	Volume         int64
	AvgVolume      float64
	VolumeRatioPct float64 // % above (or below) average volume
	TrendScore     float64 // (RSI + 50 + momentum) / 3; 50 when unknown
	Score          int     // 0-100 screening score
	MeetsVolume    bool
	MeetsPriceMove bool
	Qualifies      bool
}

// Trending screens for stocks moving hard on unusual volume.
type Trending struct {
	cfg TrendingConfig
}

// NewTrending creates the screen; zero config fields take defaults.
func NewTrending(cfg TrendingConfig) *Trending {
	def := DefaultTrendingConfig()
	if cfg.MinVolumeIncreasePct <= 0 {
		cfg.MinVolumeIncreasePct = def.MinVolumeIncreasePct
	}
	if cfg.MinPriceChangePct <= 0 {
		cfg.MinPriceChangePct = def.MinPriceChangePct
	}
	if cfg.MinAvgVolume <= 0 {
		cfg.MinAvgVolume = def.MinAvgVolume
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	return &Trending{cfg: cfg}
}

// TrendStrength blends Wilder's RSI with window momentum:
// (RSI + 50 + momentum%) / 3. Values above 50 read as a firm trend.
// Needs RSIPeriod+1 closes; ok is false on shorter histories.
func (s *Trending) TrendStrength(closes []float64) (float64, bool) {
	need := s.cfg.RSIPeriod + 1
	if len(closes) < need {
		return 0, false
	}
	window := closes[len(closes)-need:]
	if window[0] == 0 {
		return 0, false
	}

	rsi := talib.Rsi(window, s.cfg.RSIPeriod)
	momentum := (window[len(window)-1] - window[0]) / window[0] * 100
	return (rsi[len(rsi)-1] + 50 + momentum) / 3, true
}

// Screen evaluates one quote: +50 for a volume surge, +30 for a big
// price move, +20 for firm trend strength. A score of 50 qualifies.
func (s *Trending) Screen(q Quote) TrendingResult {
	ratio := 0.0
	if q.AvgVolume > 0 {
		ratio = (float64(q.Volume) - q.AvgVolume) / q.AvgVolume * 100
	}

	meetsVolume := q.Volume > s.cfg.MinAvgVolume && ratio >= s.cfg.MinVolumeIncreasePct
	meetsPrice := math.Abs(q.PriceChangePct) >= s.cfg.MinPriceChangePct

	direction := "DOWN"
	if q.PriceChangePct > 0 {
		direction = "UP"
	}

	trend, known := s.TrendStrength(q.Closes)

	score := 0
	if meetsVolume {
		score += 50
	}
	if meetsPrice {
		score += 30
	}
	if known && trend > 50 {
		score += 20
	}
	if !known {
		trend = 50 // neutral placeholder for short histories
	}

	return TrendingResult{
		Symbol:         q.Symbol,
		Price:          q.Price,
		PriceChangePct: q.PriceChangePct,
		TrendDirection: direction,
		Volume:         q.Volume,
		AvgVolume:      q.AvgVolume,
		VolumeRatioPct: ratio,
		TrendScore:     trend,
		Score:          score,
		MeetsVolume:    meetsVolume,
		MeetsPriceMove: meetsPrice,
		Qualifies:      score >= 50,
	}
}

// ScreenAll evaluates every quote and returns the results ranked by
// score, volume surge breaking ties.
func (s *Trending) ScreenAll(quotes []Quote) []TrendingResult {
	results := make([]TrendingResult, 0, len(quotes))
	for _, q := range quotes {
		results = append(results, s.Screen(q))
	}
	RankTrending(results)
	return results
}

// RankTrending sorts in place: highest score first, then the bigger
// volume surge.
func RankTrending(results []TrendingResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].VolumeRatioPct > results[j].VolumeRatioPct
	})
}
