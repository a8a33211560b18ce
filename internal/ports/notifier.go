package ports

import (
	"context"

	"github.com/nchandak/condorbot/internal/domain"
)

// Notifier presents engine output to the operator.
type Notifier interface {
	// NotifySignal reports one evaluated signal.
	// The console implementation prints a formatted table.
	NotifySignal(ctx context.Context, sig domain.Signal) error

	// NotifyPlan reports the order legs planned for a signal.
	NotifyPlan(ctx context.Context, plan domain.OrderPlan) error

	// NotifyBacktest reports the aggregate result of a replay.
	NotifyBacktest(ctx context.Context, summary domain.BacktestSummary) error
}
