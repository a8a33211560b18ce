package domain

// Signal actions.
const (
	ActionSellIronCondor = "sell_iron_condor"
	ActionNoTrade        = "no_trade"
)

// Context keys present on every signal.
const (
	CtxReason    = "reason"
	CtxSituation = "situation"
)

// DefaultHedgeDistance is the distance in points of the protective buy
// legs from spot.
const DefaultHedgeDistance = 900

// Signal is the strategy's output record. Immutable once produced; it
// has no lifecycle beyond being appended to a signal list (and persisted
// by the storage layer, which assigns the ID).
type Signal struct {
	ID              string // set on persistence, not part of evaluation
	Timestamp       string
	Action          string // ActionSellIronCondor | ActionNoTrade
	Context         map[string]string
	CallDistance    int // points from spot to the short call; 0 when no trade
	PutDistance     int // points from spot to the short put; 0 when no trade
	HedgeDistance   int // points from spot to the protective legs
	CapitalDeployed float64
}

// Reason returns the human-readable rule explanation from the context.
func (s *Signal) Reason() string {
	return s.Context[CtxReason]
}

// Situation returns the decision-table situation code ("1", "2B", ...).
func (s *Signal) Situation() string {
	return s.Context[CtxSituation]
}

// Tradeable reports whether the signal calls for placing a position.
func (s *Signal) Tradeable() bool {
	return s.Action == ActionSellIronCondor
}

// ChainSnapshot is one live-poll observation of the derivatives chain,
// the raw material the engine folds into aligned candle/OI/futures
// series.
type ChainSnapshot struct {
	Timestamp       string
	Spot            float64
	ATMStrike       int
	CallOIATM       float64
	PutOIATM        float64
	FutCurrentMonth float64
	FutNextMonth    float64
}
