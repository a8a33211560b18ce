package ports

import (
	"context"
	"time"

	"github.com/nchandak/condorbot/internal/domain"
)

// SignalStore persists generated signals, planned orders and bot state.
type SignalStore interface {
	// SaveSignal persists one signal with its decision context.
	SaveSignal(ctx context.Context, sig domain.Signal) error

	// SaveOrderPlan persists a plan and all of its legs atomically.
	SaveOrderPlan(ctx context.Context, plan domain.OrderPlan) error

	// RecentSignals returns up to limit signals, newest first.
	RecentSignals(ctx context.Context, limit int) ([]domain.Signal, error)

	// PlanForSignal loads the order plan generated for a signal.
	// Returns a wrapped sql.ErrNoRows when none was planned.
	PlanForSignal(ctx context.Context, signalID string) (domain.OrderPlan, error)

	// SetState upserts a key in the bot state table.
	SetState(ctx context.Context, key, value string) error

	// GetState returns the stored value, or "" when the key is absent.
	GetState(ctx context.Context, key string) (string, error)

	// PruneSignalsBefore deletes signals (and their plans) created
	// before cutoff. Returns the number of signals removed.
	PruneSignalsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close closes the database connection cleanly.
	Close() error
}
