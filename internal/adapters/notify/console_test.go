package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nchandak/condorbot/internal/adapters/notify"
	"github.com/nchandak/condorbot/internal/domain"
	"github.com/nchandak/condorbot/internal/ports"
)

var _ ports.Notifier = (*notify.Console)(nil)

func makeSellSignal() domain.Signal {
	return domain.Signal{
		ID:        "sig-1",
		Timestamp: "2024-01-01 09:30",
		Action:    domain.ActionSellIronCondor,
		Context: map[string]string{
			domain.CtxSituation: "2",
			domain.CtxReason:    "Double-top + rising ATM call OI",
		},
		CallDistance:  100,
		PutDistance:   100,
		HedgeDistance: 900,
	}
}

func makeCondorPlan() domain.OrderPlan {
	return domain.OrderPlan{
		SignalID:   "sig-1",
		Underlying: "NIFTY",
		Spot:       24387.5,
		Expiry:     "25AUG",
		StopLoss:   10000,
		Legs: []domain.OrderLeg{
			{ID: "l1", TradingSymbol: "NIFTY25AUG25300CE", Strike: 25300, OptionType: domain.OptionCE, Side: domain.SideBuy, Quantity: 75, OrderType: domain.OrderTypeMarket, ProductType: domain.ProductCarryForward, Status: domain.StatusPlanned},
			{ID: "l2", TradingSymbol: "NIFTY25AUG23500PE", Strike: 23500, OptionType: domain.OptionPE, Side: domain.SideBuy, Quantity: 75, OrderType: domain.OrderTypeMarket, ProductType: domain.ProductCarryForward, Status: domain.StatusPlanned},
			{ID: "l3", TradingSymbol: "NIFTY25AUG24500CE", Strike: 24500, OptionType: domain.OptionCE, Side: domain.SideSell, Quantity: 75, OrderType: domain.OrderTypeMarket, ProductType: domain.ProductCarryForward, Status: domain.StatusPlanned},
			{ID: "l4", TradingSymbol: "NIFTY25AUG24300PE", Strike: 24300, OptionType: domain.OptionPE, Side: domain.SideSell, Quantity: 75, OrderType: domain.OrderTypeMarket, ProductType: domain.ProductCarryForward, Status: domain.StatusPlanned},
		},
	}
}

func TestConsole_NotifySignal_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.NotifySignal(context.Background(), makeSellSignal()))

	assert.Equal(t,
		"2024-01-01 09:30 | sell_iron_condor | Double-top + rising ATM call OI | call_dist=100 put_dist=100\n",
		buf.String())
}

func TestConsole_NotifySignal_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.NotifySignal(context.Background(), makeSellSignal()))

	out := buf.String()
	assert.Contains(t, out, "sell_iron_condor")
	assert.Contains(t, out, "2024-01-01 09:30")
	assert.Contains(t, out, "900")
}

func TestConsole_NotifySignal_LongReasonTruncated(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	sig := makeSellSignal()
	sig.Context[domain.CtxReason] = "Double-top + rising ATM call OI + futures OI drop (long unwinding)"

	require.NoError(t, n.NotifySignal(context.Background(), sig))
	assert.Contains(t, buf.String(), "...")
}

func TestConsole_NotifyPlan_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.NotifyPlan(context.Background(), makeCondorPlan()))

	out := buf.String()
	assert.Contains(t, out, "[PLAN] NIFTY")
	assert.Contains(t, out, "legs=4")
	assert.Contains(t, out, "SL=10000")
	assert.Contains(t, out, "sell NIFTY25AUG24500CE NIFTY25AUG24300PE")
	assert.Contains(t, out, "hedge NIFTY25AUG25300CE NIFTY25AUG23500PE")
}

func TestConsole_NotifyPlan_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, n.NotifyPlan(context.Background(), makeCondorPlan()))

	out := buf.String()
	assert.Contains(t, out, "NIFTY condor @ 24387.50")
	assert.Contains(t, out, "NIFTY25AUG24500CE")
	assert.Contains(t, out, "SELL")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "CARRYFORWARD")
}

func TestConsole_NotifyBacktest_Empty(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.NotifyBacktest(context.Background(), domain.BacktestSummary{
		Bars:        40,
		Evaluations: 37,
	}))

	assert.Equal(t, "No signals found.\n", buf.String())
}

func TestConsole_NotifyBacktest_Histogram(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	noTrade := makeSellSignal()
	noTrade.Action = domain.ActionNoTrade
	noTrade.Context[domain.CtxSituation] = "1"
	noTrade.CallDistance = 0
	noTrade.PutDistance = 0

	sum := domain.BacktestSummary{
		Bars:        40,
		Evaluations: 37,
		Signals:     []domain.Signal{noTrade, makeSellSignal()},
		BySituation: map[string]int{"1": 1, "2": 1},
	}

	require.NoError(t, n.NotifyBacktest(context.Background(), sum))

	out := buf.String()
	assert.Contains(t, out, "40 bars, 37 evaluations, 2 signals")
	assert.Contains(t, out, "situation 1: 1")
	assert.Contains(t, out, "situation 2: 1")
	assert.Contains(t, out, "tradeable: 1/2")
	assert.Contains(t, out, "no_trade")
	assert.Contains(t, out, "call_dist=100 put_dist=100")
}
