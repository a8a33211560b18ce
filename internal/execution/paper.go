package execution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nchandak/condorbot/internal/domain"
	"github.com/nchandak/condorbot/internal/ports"
)

// PaperExecutor implements ports.Executor without touching a broker:
// it plans the four legs and records them as PLANNED. The store may be
// nil for replay runs that only need the plan back.
type PaperExecutor struct {
	planner *Planner
	store   ports.SignalStore
}

var _ ports.Executor = (*PaperExecutor)(nil)

func NewPaperExecutor(planner *Planner, store ports.SignalStore) *PaperExecutor {
	return &PaperExecutor{planner: planner, store: store}
}

func (e *PaperExecutor) Execute(ctx context.Context, sig domain.Signal, spot float64) (domain.OrderPlan, error) {
	plan, err := e.planner.Plan(sig, spot)
	if err != nil {
		return domain.OrderPlan{}, err
	}
	if e.store != nil {
		if err := e.store.SaveOrderPlan(ctx, plan); err != nil {
			return domain.OrderPlan{}, fmt.Errorf("execution.Execute: save plan: %w", err)
		}
	}
	slog.Info("paper order plan recorded",
		"signal", sig.ID,
		"legs", len(plan.Legs),
		"spot", spot,
		"stop_loss", plan.StopLoss)
	return plan, nil
}
