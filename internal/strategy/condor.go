package strategy

import (
	"github.com/nchandak/condorbot/internal/domain"
)

const condorName = "non_directional_condor"

// Condor is the non-directional iron-condor strategy: it sells premium
// around double-top/double-bottom rejections confirmed by ATM option OI
// and combined futures OI behavior.
type Condor struct {
	tolerancePct   float64
	minOIChangePct float64
	futMinDropPct  float64
	maWindow       int
	lookback       int
}

// CondorConfig tunes the strategy thresholds. Zero values fall back to
// the standard defaults (MinOIChangePct stays 0: any rise confirms).
type CondorConfig struct {
	TolerancePct    float64
	MinOIChangePct  float64
	FutMinDropPct   float64
	MAWindow        int
	PatternLookback int
}

// NewCondor creates the strategy with the given thresholds.
func NewCondor(cfg CondorConfig) *Condor {
	if cfg.TolerancePct <= 0 {
		cfg.TolerancePct = domain.DefaultTolerancePct
	}
	if cfg.FutMinDropPct <= 0 {
		cfg.FutMinDropPct = domain.DefaultFutMinDropPct
	}
	if cfg.MAWindow <= 0 {
		cfg.MAWindow = domain.DefaultMAWindow
	}
	if cfg.PatternLookback <= 0 {
		cfg.PatternLookback = domain.DefaultPatternLookback
	}
	return &Condor{
		tolerancePct:   cfg.TolerancePct,
		minOIChangePct: cfg.MinOIChangePct,
		futMinDropPct:  cfg.FutMinDropPct,
		maWindow:       cfg.MAWindow,
		lookback:       cfg.PatternLookback,
	}
}

// Name implements Strategy.
func (c *Condor) Name() string {
	return condorName
}

// condorSide parameterizes the bullish/bearish mirror of the decision
// table: which pattern and OI leg confirm the setup, the situation-code
// suffix, and the asymmetric strikes of the unwinding case.
type condorSide struct {
	suffix     string
	reasonFade string // situation 1: pattern printed but OI disagrees
	reasonSell string // situation 2: pattern + OI confirmation
	reasonDrop string // situation 3: confirmation + futures unwinding
	callDist3  int
	putDist3   int
}

var (
	bullSide = condorSide{
		suffix:     "",
		reasonFade: "Double-top false; ATM call OI falling and futures OI stable",
		reasonSell: "Double-top + rising ATM call OI",
		reasonDrop: "Double-top + rising ATM call OI + futures OI drop (long unwinding)",
		callDist3:  75,
		putDist3:   125,
	}
	bearSide = condorSide{
		suffix:     "B",
		reasonFade: "Double-bottom false; ATM put OI falling and futures OI stable",
		reasonSell: "Double-bottom + rising ATM put OI",
		reasonDrop: "Double-bottom + rising ATM put OI + futures OI drop",
		callDist3:  125,
		putDist3:   75,
	}
)

// Evaluate implements Strategy. It classifies the trend, checks the
// matching pattern for that trend, and walks the situation table:
//
//	pattern  OI rising  fut dropping  →  outcome
//	   no          -            -        nil
//	  yes         no           no        no_trade   (situation 1 / 1B)
//	  yes        yes           no        sell 100/100 (situation 2 / 2B)
//	  yes        yes          yes        sell 75/125 toward the pattern
//	                                     side (situation 3 / 3B)
//	  yes         no          yes        nil; the rule set has no row
//	                                     for this combination
//
// A RANGE trend or any empty series always yields nil.
func (c *Condor) Evaluate(candles []domain.Candle, oi []domain.OIData, fut []domain.FuturesOI) *domain.Signal {
	if len(candles) == 0 || len(oi) == 0 || len(fut) == 0 {
		return nil
	}

	trend := domain.InferTrend(candles, c.maWindow)
	ts := candles[len(candles)-1].Timestamp

	futDropping, _ := domain.FuturesOIChange(fut, c.futMinDropPct, domain.DefaultRecentRiseWindow, domain.DefaultMinRecentRisePct)

	switch trend {
	case domain.Bullish:
		top := domain.DetectDoubleTop(candles, c.lookback, c.tolerancePct)
		if !top.Matched {
			return nil
		}
		return c.resolve(ts, bullSide, domain.CallOIRising(oi, c.minOIChangePct), futDropping)

	case domain.Bearish:
		bottom := domain.DetectDoubleBottom(candles, c.lookback, c.tolerancePct)
		if !bottom.Matched {
			return nil
		}
		return c.resolve(ts, bearSide, domain.PutOIRising(oi, c.minOIChangePct), futDropping)
	}

	return nil
}

// resolve maps the confirmation flags of a detected pattern onto the
// situation table for one side.
func (c *Condor) resolve(ts string, side condorSide, oiRising, futDropping bool) *domain.Signal {
	switch {
	case !oiRising && !futDropping:
		return &domain.Signal{
			Timestamp: ts,
			Action:    domain.ActionNoTrade,
			Context: map[string]string{
				domain.CtxReason:    side.reasonFade,
				domain.CtxSituation: "1" + side.suffix,
			},
			HedgeDistance: domain.DefaultHedgeDistance,
		}
	case oiRising && !futDropping:
		return &domain.Signal{
			Timestamp: ts,
			Action:    domain.ActionSellIronCondor,
			Context: map[string]string{
				domain.CtxReason:    side.reasonSell,
				domain.CtxSituation: "2" + side.suffix,
			},
			CallDistance:  100,
			PutDistance:   100,
			HedgeDistance: domain.DefaultHedgeDistance,
		}
	case oiRising && futDropping:
		return &domain.Signal{
			Timestamp: ts,
			Action:    domain.ActionSellIronCondor,
			Context: map[string]string{
				domain.CtxReason:    side.reasonDrop,
				domain.CtxSituation: "3" + side.suffix,
			},
			CallDistance:  side.callDist3,
			PutDistance:   side.putDist3,
			HedgeDistance: domain.DefaultHedgeDistance,
		}
	}
	// OI not rising while futures drop: no row in the rule set.
	return nil
}
