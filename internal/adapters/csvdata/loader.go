// Package csvdata reads the three historical series (spot candles, ATM
// option OI, futures OI) from CSV files. Columns are matched by header
// name, not position, so exports from different tools line up.
package csvdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nchandak/condorbot/internal/domain"
)

// Source implements ports.MarketData over three CSV files.
type Source struct {
	candlesPath string
	oiPath      string
	futPath     string
}

func NewSource(candlesPath, oiPath, futPath string) *Source {
	return &Source{candlesPath: candlesPath, oiPath: oiPath, futPath: futPath}
}

func (s *Source) Candles(ctx context.Context) ([]domain.Candle, error) {
	return LoadCandles(s.candlesPath)
}

func (s *Source) OpenInterest(ctx context.Context) ([]domain.OIData, error) {
	return LoadOI(s.oiPath)
}

func (s *Source) FuturesOpenInterest(ctx context.Context) ([]domain.FuturesOI, error) {
	return LoadFutures(s.futPath)
}

// LoadCandles reads timestamp,open,high,low,close rows.
func LoadCandles(path string) ([]domain.Candle, error) {
	var out []domain.Candle
	err := readRows(path, []string{"timestamp", "open", "high", "low", "close"},
		func(row rowReader) error {
			c := domain.Candle{Timestamp: row.str("timestamp")}
			var err error
			if c.Open, err = row.num("open"); err != nil {
				return err
			}
			if c.High, err = row.num("high"); err != nil {
				return err
			}
			if c.Low, err = row.num("low"); err != nil {
				return err
			}
			if c.Close, err = row.num("close"); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("csvdata.LoadCandles: %w", err)
	}
	return out, nil
}

// LoadOI reads timestamp,oi_call_atm,oi_put_atm rows.
func LoadOI(path string) ([]domain.OIData, error) {
	var out []domain.OIData
	err := readRows(path, []string{"timestamp", "oi_call_atm", "oi_put_atm"},
		func(row rowReader) error {
			o := domain.OIData{Timestamp: row.str("timestamp")}
			var err error
			if o.CallATM, err = row.num("oi_call_atm"); err != nil {
				return err
			}
			if o.PutATM, err = row.num("oi_put_atm"); err != nil {
				return err
			}
			out = append(out, o)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("csvdata.LoadOI: %w", err)
	}
	return out, nil
}

// LoadFutures reads timestamp,current_month_oi,next_month_oi rows.
func LoadFutures(path string) ([]domain.FuturesOI, error) {
	var out []domain.FuturesOI
	err := readRows(path, []string{"timestamp", "current_month_oi", "next_month_oi"},
		func(row rowReader) error {
			f := domain.FuturesOI{Timestamp: row.str("timestamp")}
			var err error
			if f.CurrentMonth, err = row.num("current_month_oi"); err != nil {
				return err
			}
			if f.NextMonth, err = row.num("next_month_oi"); err != nil {
				return err
			}
			out = append(out, f)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("csvdata.LoadFutures: %w", err)
	}
	return out, nil
}

// LoadDayBars reads timestamp,open,high,low,close,volume rows of daily
// stock history for the screeners.
func LoadDayBars(path string) ([]domain.DayBar, error) {
	var out []domain.DayBar
	err := readRows(path, []string{"timestamp", "open", "high", "low", "close", "volume"},
		func(row rowReader) error {
			b := domain.DayBar{Timestamp: row.str("timestamp")}
			var err error
			if b.Open, err = row.num("open"); err != nil {
				return err
			}
			if b.High, err = row.num("high"); err != nil {
				return err
			}
			if b.Low, err = row.num("low"); err != nil {
				return err
			}
			if b.Close, err = row.num("close"); err != nil {
				return err
			}
			vol, err := row.num("volume")
			if err != nil {
				return err
			}
			b.Volume = int64(vol)
			out = append(out, b)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("csvdata.LoadDayBars: %w", err)
	}
	return out, nil
}

// rowReader resolves one record's fields by column name. num errors
// carry the line number so bad exports are easy to locate.
type rowReader struct {
	record []string
	index  map[string]int
	line   int
}

func (r rowReader) str(col string) string {
	return strings.TrimSpace(r.record[r.index[col]])
}

func (r rowReader) num(col string) (float64, error) {
	raw := r.str(col)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %q: bad number %q", r.line, col, raw)
	}
	return v, nil
}

// readRows opens path, validates that all required columns exist, and
// feeds every data row through fn. The header is line 1.
func readRows(path string, required []string, fn func(rowReader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return fmt.Errorf("%s: read header: %w", path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%s: line %d: %w", path, line, err)
		}
		if err := fn(rowReader{record: record, index: index, line: line}); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
}
