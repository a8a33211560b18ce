package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nchandak/condorbot/internal/adapters/storage"
	"github.com/nchandak/condorbot/internal/domain"
	"github.com/nchandak/condorbot/internal/ports"
)

var _ ports.SignalStore = (*storage.SQLiteStore)(nil)

func makeSignal(id, situation string) domain.Signal {
	return domain.Signal{
		ID:        id,
		Timestamp: "2024-01-01 09:30",
		Action:    domain.ActionSellIronCondor,
		Context: map[string]string{
			domain.CtxSituation: situation,
			domain.CtxReason:    "Double-top + rising ATM call OI",
		},
		CallDistance:  100,
		PutDistance:   100,
		HedgeDistance: 900,
	}
}

func makePlan(signalID string) domain.OrderPlan {
	return domain.OrderPlan{
		SignalID:   signalID,
		Underlying: "NIFTY",
		Spot:       24387.5,
		Expiry:     "25AUG",
		StopLoss:   10000,
		CreatedAt:  time.Now().UTC(),
		Legs: []domain.OrderLeg{
			{ID: "leg-1", TradingSymbol: "NIFTY25AUG25300CE", Strike: 25300, OptionType: domain.OptionCE, Side: domain.SideBuy, Quantity: 75, OrderType: domain.OrderTypeMarket, ProductType: domain.ProductCarryForward, Status: domain.StatusPlanned},
			{ID: "leg-2", TradingSymbol: "NIFTY25AUG23500PE", Strike: 23500, OptionType: domain.OptionPE, Side: domain.SideBuy, Quantity: 75, OrderType: domain.OrderTypeMarket, ProductType: domain.ProductCarryForward, Status: domain.StatusPlanned},
			{ID: "leg-3", TradingSymbol: "NIFTY25AUG24500CE", Strike: 24500, OptionType: domain.OptionCE, Side: domain.SideSell, Quantity: 75, OrderType: domain.OrderTypeMarket, ProductType: domain.ProductCarryForward, Status: domain.StatusPlanned},
			{ID: "leg-4", TradingSymbol: "NIFTY25AUG24300PE", Strike: 24300, OptionType: domain.OptionPE, Side: domain.SideSell, Quantity: 75, OrderType: domain.OrderTypeMarket, ProductType: domain.ProductCarryForward, Status: domain.StatusPlanned},
		},
	}
}

func TestSQLiteStore_SaveAndRecentSignals(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveSignal(ctx, makeSignal("sig-1", "2")))
	require.NoError(t, db.SaveSignal(ctx, makeSignal("sig-2", "3")))

	signals, err := db.RecentSignals(ctx, 10)
	require.NoError(t, err)
	require.Len(t, signals, 2)

	// Newest first.
	assert.Equal(t, "sig-2", signals[0].ID)
	assert.Equal(t, "sig-1", signals[1].ID)

	// Context round-trips through the situation/reason columns.
	assert.Equal(t, "3", signals[0].Situation())
	assert.Equal(t, "Double-top + rising ATM call OI", signals[0].Reason())
	assert.Equal(t, domain.ActionSellIronCondor, signals[0].Action)
	assert.Equal(t, 100, signals[0].CallDistance)
	assert.Equal(t, 900, signals[0].HedgeDistance)
}

func TestSQLiteStore_RecentSignalsLimit(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, db.SaveSignal(ctx, makeSignal(id, "1")))
	}

	signals, err := db.RecentSignals(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, signals, 2)
	assert.Equal(t, "c", signals[0].ID)
}

func TestSQLiteStore_SaveSignalWithoutID(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	err = db.SaveSignal(context.Background(), domain.Signal{Action: domain.ActionNoTrade})
	assert.Error(t, err)
}

func TestSQLiteStore_OrderPlanRoundTrip(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveSignal(ctx, makeSignal("sig-1", "2")))
	require.NoError(t, db.SaveOrderPlan(ctx, makePlan("sig-1")))

	plan, err := db.PlanForSignal(ctx, "sig-1")
	require.NoError(t, err)

	assert.Equal(t, "NIFTY", plan.Underlying)
	assert.InDelta(t, 24387.5, plan.Spot, 0.001)
	assert.Equal(t, "25AUG", plan.Expiry)
	assert.InDelta(t, 10000.0, plan.StopLoss, 0.001)

	// Leg order is entry order: hedges first, shorts after.
	require.Len(t, plan.Legs, 4)
	assert.Equal(t, domain.SideBuy, plan.Legs[0].Side)
	assert.Equal(t, domain.SideBuy, plan.Legs[1].Side)
	assert.Equal(t, domain.SideSell, plan.Legs[2].Side)
	assert.Equal(t, domain.SideSell, plan.Legs[3].Side)
	assert.Equal(t, "NIFTY25AUG24500CE", plan.Legs[2].TradingSymbol)
	assert.Equal(t, 24500, plan.Legs[2].Strike)
	assert.Equal(t, domain.OptionCE, plan.Legs[2].OptionType)
}

func TestSQLiteStore_PlanForSignal_NoRows(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.PlanForSignal(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSQLiteStore_SaveOrderPlan_Validation(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	err = db.SaveOrderPlan(ctx, domain.OrderPlan{Legs: makePlan("x").Legs})
	assert.Error(t, err, "missing signal ID must be rejected")

	err = db.SaveOrderPlan(ctx, domain.OrderPlan{SignalID: "sig-1"})
	assert.Error(t, err, "empty plan must be rejected")
}

func TestSQLiteStore_State(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	// Absent key reads as empty, not as an error.
	val, err := db.GetState(ctx, "last_bar")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	require.NoError(t, db.SetState(ctx, "last_bar", "2024-01-01 09:30"))
	val, err = db.GetState(ctx, "last_bar")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 09:30", val)

	// Upsert replaces.
	require.NoError(t, db.SetState(ctx, "last_bar", "2024-01-01 09:33"))
	val, err = db.GetState(ctx, "last_bar")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 09:33", val)
}

func TestSQLiteStore_PruneSignalsBefore(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveSignal(ctx, makeSignal("sig-1", "2")))
	require.NoError(t, db.SaveOrderPlan(ctx, makePlan("sig-1")))

	// Cutoff in the past: nothing goes.
	deleted, err := db.PruneSignalsBefore(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	// Cutoff in the future: signal and its legs go together.
	deleted, err = db.PruneSignalsBefore(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	signals, err := db.RecentSignals(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, signals)

	_, err = db.PlanForSignal(ctx, "sig-1")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
