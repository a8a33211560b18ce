package domain

import "time"

// Order sides and flags shared by the planner and storage layers.
// Values match what the exchange APIs expect so persisted rows can be
// replayed against a broker without translation.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OptionCE = "CE"
	OptionPE = "PE"

	OrderTypeMarket     = "MARKET"
	ProductCarryForward = "CARRYFORWARD"
	ProductIntraday     = "INTRADAY"

	// StatusPlanned marks legs that were generated but never routed.
	StatusPlanned = "PLANNED"
)

// OrderLeg is a single option order inside an iron-condor plan.
type OrderLeg struct {
	ID            string
	TradingSymbol string
	Strike        int
	// OptionType is CE for calls, PE for puts.
	OptionType string
	Side       string
	Quantity   int
	// Price 0 means execute at market.
	Price       float64
	OrderType   string
	ProductType string
	Status      string
}

// OrderPlan is the full four-leg order set derived from one signal.
// Legs are ordered for safe entry: hedges first, short strikes after,
// so margin benefit applies before the short legs go in.
type OrderPlan struct {
	SignalID   string
	Underlying string
	Spot       float64
	Expiry     string
	Legs       []OrderLeg
	// StopLoss is the rupee amount at which the whole position exits.
	StopLoss  float64
	CreatedAt time.Time
}

// ShortLegs returns the sell side of the condor.
func (p OrderPlan) ShortLegs() []OrderLeg {
	var out []OrderLeg
	for _, l := range p.Legs {
		if l.Side == SideSell {
			out = append(out, l)
		}
	}
	return out
}

// HedgeLegs returns the protective buys.
func (p OrderPlan) HedgeLegs() []OrderLeg {
	var out []OrderLeg
	for _, l := range p.Legs {
		if l.Side == SideBuy {
			out = append(out, l)
		}
	}
	return out
}

// BacktestSummary aggregates one replay over a historical window.
type BacktestSummary struct {
	Bars        int
	Evaluations int
	Signals     []Signal
	BySituation map[string]int
}
