// Package execution turns tradeable signals into four-leg order plans.
// The condor goes in hedges-first: far BUY legs before near SELL legs,
// so the margin benefit is in place before the shorts.
package execution

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nchandak/condorbot/internal/domain"
)

// ErrNotTradeable marks signals the planner refuses by design
// (no_trade stand-asides).
var ErrNotTradeable = errors.New("signal is not tradeable")

const (
	defaultStrikeStep = 50
	defaultDistance   = 100

	// Whole-position stop as a fraction of trading capital.
	stopLossPctOfCapital = 0.01
)

// Planner derives strikes, symbols and leg ordering from a signal.
type Planner struct {
	underlying string
	lotSize    int
	strikeStep int
	capital    float64
	hedge      int
}

// NewPlanner creates a planner for one underlying. A zero strikeStep
// falls back to the NIFTY grid of 50; hedge is the protective-leg
// distance used when a signal does not carry its own.
func NewPlanner(underlying string, lotSize, strikeStep int, capital float64, hedge int) *Planner {
	if strikeStep <= 0 {
		strikeStep = defaultStrikeStep
	}
	if hedge <= 0 {
		hedge = domain.DefaultHedgeDistance
	}
	return &Planner{
		underlying: underlying,
		lotSize:    lotSize,
		strikeStep: strikeStep,
		capital:    capital,
		hedge:      hedge,
	}
}

// Plan builds the condor legs for sig at the given spot price:
//
//	BUY  call at spot + hedge_distance   (protection)
//	BUY  put  at spot - hedge_distance   (protection)
//	SELL call at spot + call_distance    (premium)
//	SELL put  at spot - put_distance     (premium)
//
// The stop loss is 1% of total capital.
func (p *Planner) Plan(sig domain.Signal, spot float64) (domain.OrderPlan, error) {
	if sig.Action == domain.ActionNoTrade {
		return domain.OrderPlan{}, fmt.Errorf("execution.Plan: %s: %w", sig.ID, ErrNotTradeable)
	}
	if sig.Action != domain.ActionSellIronCondor {
		return domain.OrderPlan{}, fmt.Errorf("execution.Plan: unknown action %q", sig.Action)
	}
	if spot <= 0 {
		return domain.OrderPlan{}, fmt.Errorf("execution.Plan: invalid spot %.2f", spot)
	}

	callDist := sig.CallDistance
	if callDist == 0 {
		callDist = defaultDistance
	}
	putDist := sig.PutDistance
	if putDist == 0 {
		putDist = defaultDistance
	}
	hedge := sig.HedgeDistance
	if hedge == 0 {
		hedge = p.hedge
	}

	expiry, err := ExpiryToken(sig.Timestamp)
	if err != nil {
		return domain.OrderPlan{}, fmt.Errorf("execution.Plan: expiry from %q: %w", sig.Timestamp, err)
	}

	buyCall := NearestStrike(spot+float64(hedge), p.strikeStep)
	buyPut := NearestStrike(spot-float64(hedge), p.strikeStep)
	sellCall := NearestStrike(spot+float64(callDist), p.strikeStep)
	sellPut := NearestStrike(spot-float64(putDist), p.strikeStep)

	return domain.OrderPlan{
		SignalID:   sig.ID,
		Underlying: p.underlying,
		Spot:       spot,
		Expiry:     expiry,
		StopLoss:   p.capital * stopLossPctOfCapital,
		CreatedAt:  time.Now().UTC(),
		Legs: []domain.OrderLeg{
			p.leg(buyCall, expiry, domain.OptionCE, domain.SideBuy),
			p.leg(buyPut, expiry, domain.OptionPE, domain.SideBuy),
			p.leg(sellCall, expiry, domain.OptionCE, domain.SideSell),
			p.leg(sellPut, expiry, domain.OptionPE, domain.SideSell),
		},
	}, nil
}

func (p *Planner) leg(strike int, expiry, optType, side string) domain.OrderLeg {
	return domain.OrderLeg{
		ID:            uuid.NewString(),
		TradingSymbol: fmt.Sprintf("%s%s%d%s", p.underlying, expiry, strike, optType),
		Strike:        strike,
		OptionType:    optType,
		Side:          side,
		Quantity:      p.lotSize,
		OrderType:     domain.OrderTypeMarket,
		ProductType:   domain.ProductCarryForward,
		Status:        domain.StatusPlanned,
	}
}

// NearestStrike rounds price to the nearest strike on the step grid.
func NearestStrike(price float64, step int) int {
	if step <= 0 {
		step = defaultStrikeStep
	}
	return int(math.Round(price/float64(step))) * step
}

// ExpiryToken derives the monthly contract code ("24JAN") from a bar
// timestamp like "2024-01-15 09:30". Only the date part is read.
func ExpiryToken(timestamp string) (string, error) {
	fields := strings.Fields(timestamp)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty timestamp")
	}
	t, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return "", err
	}
	return strings.ToUpper(t.Format("06Jan")), nil
}
