// Package strategy contains the signal-generation strategies and the
// registry the engine selects them from.
package strategy

import (
	"github.com/nchandak/condorbot/internal/domain"
)

// Strategy is the contract for turning aligned market series into a
// signal. Implementations must be pure: same series in, same signal
// out, no hidden state between calls.
type Strategy interface {
	// Name returns the strategy's unique identifier.
	Name() string

	// Evaluate inspects the aligned candle/OI/futures series and returns
	// a signal, or nil when the rules produce nothing actionable. The
	// series must be index-aligned; Evaluate does not re-synchronize by
	// timestamp.
	Evaluate(candles []domain.Candle, oi []domain.OIData, fut []domain.FuturesOI) *domain.Signal
}

// Registry holds the available strategies indexed by name.
type Registry map[string]Strategy

// NewRegistry creates an empty registry.
func NewRegistry() Registry {
	return make(Registry)
}

// Register adds a strategy to the registry.
func (r Registry) Register(s Strategy) {
	r[s.Name()] = s
}

// Get returns the strategy by name.
func (r Registry) Get(name string) (Strategy, bool) {
	s, ok := r[name]
	return s, ok
}
