package screener_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nchandak/condorbot/internal/screener"
)

func risingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func fallingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 114 - float64(i)
	}
	return out
}

func TestTrending_TrendStrength(t *testing.T) {
	s := screener.NewTrending(screener.TrendingConfig{})

	// 15 straight gains: RSI 100, momentum 14% -> (100+50+14)/3.
	up, ok := s.TrendStrength(risingCloses(15))
	require.True(t, ok)
	assert.InDelta(t, 54.67, up, 0.1)

	// 15 straight losses: RSI 0, momentum -12.28%.
	down, ok := s.TrendStrength(fallingCloses(15))
	require.True(t, ok)
	assert.InDelta(t, 12.57, down, 0.1)

	_, ok = s.TrendStrength(risingCloses(10))
	assert.False(t, ok, "needs RSI period + 1 closes")
}

func TestTrending_Screen_AllCriteria(t *testing.T) {
	s := screener.NewTrending(screener.TrendingConfig{})

	r := s.Screen(screener.Quote{
		Symbol:         "RELIANCE",
		Price:          3050,
		Volume:         5_000_000,
		AvgVolume:      3_000_000,
		PriceChangePct: 2.5,
		Closes:         risingCloses(15),
	})

	assert.InDelta(t, 66.67, r.VolumeRatioPct, 0.01)
	assert.True(t, r.MeetsVolume)
	assert.True(t, r.MeetsPriceMove)
	assert.Equal(t, "UP", r.TrendDirection)
	assert.Equal(t, 100, r.Score)
	assert.True(t, r.Qualifies)
}

func TestTrending_Screen_VolumeSurgeAloneQualifies(t *testing.T) {
	s := screener.NewTrending(screener.TrendingConfig{})

	r := s.Screen(screener.Quote{
		Symbol:         "TCS",
		Price:          4200,
		Volume:         2_500_000,
		AvgVolume:      1_500_000,
		PriceChangePct: 1.8,
		Closes:         risingCloses(5), // too short for a trend read
	})

	assert.Equal(t, 50, r.Score)
	assert.True(t, r.Qualifies)
	assert.False(t, r.MeetsPriceMove)
	assert.Equal(t, 50.0, r.TrendScore, "unknown trend reads as neutral")
}

func TestTrending_Screen_PriceMoveAloneDoesNot(t *testing.T) {
	s := screener.NewTrending(screener.TrendingConfig{})

	r := s.Screen(screener.Quote{
		Symbol:         "WIPRO",
		Price:          450,
		Volume:         2_600_000,
		AvgVolume:      2_500_000, // only 4% above average
		PriceChangePct: -3.1,
	})

	assert.Equal(t, "DOWN", r.TrendDirection)
	assert.Equal(t, 30, r.Score)
	assert.False(t, r.Qualifies)
}

func TestTrending_Screen_LiquidityFloor(t *testing.T) {
	s := screener.NewTrending(screener.TrendingConfig{})

	// Triple the average volume, but below the absolute floor.
	r := s.Screen(screener.Quote{
		Symbol:    "PENNY",
		Volume:    90_000,
		AvgVolume: 30_000,
	})

	assert.False(t, r.MeetsVolume)
	assert.Equal(t, 0, r.Score)
}

func TestRankTrending(t *testing.T) {
	results := []screener.TrendingResult{
		{Symbol: "A", Score: 80, VolumeRatioPct: 10},
		{Symbol: "B", Score: 100, VolumeRatioPct: 5},
		{Symbol: "C", Score: 80, VolumeRatioPct: 60},
	}

	screener.RankTrending(results)

	assert.Equal(t, "B", results[0].Symbol)
	assert.Equal(t, "C", results[1].Symbol)
	assert.Equal(t, "A", results[2].Symbol)
}

func TestTrending_ScreenAll(t *testing.T) {
	s := screener.NewTrending(screener.TrendingConfig{})

	results := s.ScreenAll([]screener.Quote{
		{Symbol: "SLOW", Volume: 200_000, AvgVolume: 195_000},
		{Symbol: "FAST", Volume: 5_000_000, AvgVolume: 2_000_000, PriceChangePct: 3.2},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "FAST", results[0].Symbol)
	assert.True(t, results[0].Qualifies)
	assert.False(t, results[1].Qualifies)
}
