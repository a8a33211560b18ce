// Package engine runs the strategy over market data: a cron-driven live
// loop fed by chain snapshots, and a CSV replay for backtests.
package engine

import (
	"time"

	"github.com/nchandak/condorbot/internal/domain"
)

const barTimeLayout = "2006-01-02 15:04"

// SeriesBuffer folds chain snapshots into the aligned candle/OI/futures
// series the strategies consume. A bar aggregates every snapshot that
// falls into the same interval bucket: open is the first spot seen, high
// and low the extremes, close the last, and the OI observations of a bar
// are whatever the chain showed when the bar completed.
//
// With a non-positive interval every snapshot becomes its own bar, which
// is the common deployment (poll cadence == bar cadence).
//
// Not safe for concurrent use; the engine serializes cycles.
type SeriesBuffer struct {
	interval time.Duration
	maxBars  int

	candles []domain.Candle
	oi      []domain.OIData
	fut     []domain.FuturesOI

	open    bool
	bucket  time.Time
	cur     domain.Candle
	curOI   domain.OIData
	curFut  domain.FuturesOI
}

// NewSeriesBuffer creates a buffer holding at most maxBars completed
// bars (older bars fall off the front).
func NewSeriesBuffer(interval time.Duration, maxBars int) *SeriesBuffer {
	if maxBars <= 0 {
		maxBars = 500
	}
	return &SeriesBuffer{interval: interval, maxBars: maxBars}
}

// Add folds one snapshot observed at now into the buffer and reports
// whether a bar completed (and the series therefore grew).
func (b *SeriesBuffer) Add(snap domain.ChainSnapshot, now time.Time) bool {
	if b.interval <= 0 {
		b.startBar(snap, now, now)
		b.closeBar()
		return true
	}

	bucket := now.Truncate(b.interval)
	if !b.open {
		b.startBar(snap, now, bucket)
		return false
	}

	if bucket.Equal(b.bucket) {
		b.updateBar(snap)
		return false
	}

	// Interval rolled over: seal the running bar, then start the next
	// one from this snapshot.
	b.closeBar()
	b.startBar(snap, now, bucket)
	return true
}

func (b *SeriesBuffer) startBar(snap domain.ChainSnapshot, now, bucket time.Time) {
	b.open = true
	b.bucket = bucket
	b.cur = domain.Candle{
		Timestamp: bucket.Format(barTimeLayout),
		Open:      snap.Spot,
		High:      snap.Spot,
		Low:       snap.Spot,
		Close:     snap.Spot,
	}
	b.curOI = domain.OIData{
		Timestamp: b.cur.Timestamp,
		CallATM:   snap.CallOIATM,
		PutATM:    snap.PutOIATM,
	}
	b.curFut = domain.FuturesOI{
		Timestamp:    b.cur.Timestamp,
		CurrentMonth: snap.FutCurrentMonth,
		NextMonth:    snap.FutNextMonth,
	}
}

func (b *SeriesBuffer) updateBar(snap domain.ChainSnapshot) {
	if snap.Spot > b.cur.High {
		b.cur.High = snap.Spot
	}
	if snap.Spot < b.cur.Low {
		b.cur.Low = snap.Spot
	}
	b.cur.Close = snap.Spot
	b.curOI.CallATM = snap.CallOIATM
	b.curOI.PutATM = snap.PutOIATM
	b.curFut.CurrentMonth = snap.FutCurrentMonth
	b.curFut.NextMonth = snap.FutNextMonth
}

func (b *SeriesBuffer) closeBar() {
	b.candles = append(b.candles, b.cur)
	b.oi = append(b.oi, b.curOI)
	b.fut = append(b.fut, b.curFut)
	b.open = false

	if len(b.candles) > b.maxBars {
		drop := len(b.candles) - b.maxBars
		b.candles = b.candles[drop:]
		b.oi = b.oi[drop:]
		b.fut = b.fut[drop:]
	}
}

// Len returns the number of completed bars.
func (b *SeriesBuffer) Len() int {
	return len(b.candles)
}

// Series returns the completed, aligned series. The slices stay owned by
// the buffer; callers must not mutate them.
func (b *SeriesBuffer) Series() ([]domain.Candle, []domain.OIData, []domain.FuturesOI) {
	return b.candles, b.oi, b.fut
}
