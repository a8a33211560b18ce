package ports

import (
	"context"

	"github.com/nchandak/condorbot/internal/domain"
)

// Executor turns a tradeable signal into a four-leg order plan.
// Implementations decide what "execute" means: the paper executor
// only records the plan, a broker-backed one would route it.
type Executor interface {
	// Execute plans the condor legs for sig at the given spot price.
	// Non-tradeable signals are rejected with an error.
	Execute(ctx context.Context, sig domain.Signal, spot float64) (domain.OrderPlan, error)
}
