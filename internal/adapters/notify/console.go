package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/nchandak/condorbot/internal/domain"
)

// Console implements ports.Notifier. Compact mode prints one line per
// event for log-style scanning; table mode renders full tables.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifySignal prints one evaluated signal.
func (c *Console) NotifySignal(_ context.Context, sig domain.Signal) error {
	if !c.table {
		fmt.Fprintln(c.out, signalLine(sig))
		return nil
	}
	c.printSignalTable([]domain.Signal{sig})
	return nil
}

// NotifyPlan prints the planned condor legs.
func (c *Console) NotifyPlan(_ context.Context, plan domain.OrderPlan) error {
	if !c.table {
		shorts := plan.ShortLegs()
		hedges := plan.HedgeLegs()
		line := fmt.Sprintf("[PLAN] %s spot=%.2f legs=%d SL=%.0f",
			plan.Underlying, plan.Spot, len(plan.Legs), plan.StopLoss)
		if len(shorts) == 2 && len(hedges) == 2 {
			line += fmt.Sprintf(" | sell %s %s | hedge %s %s",
				shorts[0].TradingSymbol, shorts[1].TradingSymbol,
				hedges[0].TradingSymbol, hedges[1].TradingSymbol)
		}
		fmt.Fprintln(c.out, line)
		return nil
	}

	fmt.Fprintf(c.out, "\n%s condor @ %.2f, expiry %s, stop loss %.0f\n",
		plan.Underlying, plan.Spot, plan.Expiry, plan.StopLoss)

	table := tablewriter.NewWriter(c.out)
	table.Header("Symbol", "Strike", "Type", "Side", "Qty", "Product", "Status")
	for _, leg := range plan.Legs {
		table.Append(
			leg.TradingSymbol,
			fmt.Sprintf("%d", leg.Strike),
			leg.OptionType,
			leg.Side,
			fmt.Sprintf("%d", leg.Quantity),
			leg.ProductType,
			leg.Status,
		)
	}
	table.Render()
	return nil
}

// NotifyBacktest prints the replay result: every signal in bar order,
// then a situation histogram.
func (c *Console) NotifyBacktest(_ context.Context, sum domain.BacktestSummary) error {
	if len(sum.Signals) == 0 {
		fmt.Fprintln(c.out, "No signals found.")
		return nil
	}

	fmt.Fprintf(c.out, "\n%d bars, %d evaluations, %d signals\n",
		sum.Bars, sum.Evaluations, len(sum.Signals))

	if c.table {
		c.printSignalTable(sum.Signals)
	} else {
		for _, sig := range sum.Signals {
			fmt.Fprintln(c.out, signalLine(sig))
		}
	}

	keys := make([]string, 0, len(sum.BySituation))
	for k := range sum.BySituation {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(c.out, "  situation %s: %d\n", k, sum.BySituation[k])
	}

	tradeable := 0
	for _, sig := range sum.Signals {
		if sig.Tradeable() {
			tradeable++
		}
	}
	fmt.Fprintf(c.out, "  tradeable: %d/%d\n", tradeable, len(sum.Signals))
	return nil
}

// signalLine is the one-line form used by compact mode and the replay.
func signalLine(sig domain.Signal) string {
	return fmt.Sprintf("%s | %s | %s | call_dist=%d put_dist=%d",
		sig.Timestamp, sig.Action, sig.Reason(), sig.CallDistance, sig.PutDistance)
}

func (c *Console) printSignalTable(signals []domain.Signal) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Time", "Action", "Sit", "Reason", "Call", "Put", "Hedge")

	for _, sig := range signals {
		table.Append(
			sig.Timestamp,
			sig.Action,
			sig.Situation(),
			truncate(sig.Reason(), 48),
			fmt.Sprintf("%d", sig.CallDistance),
			fmt.Sprintf("%d", sig.PutDistance),
			fmt.Sprintf("%d", sig.HedgeDistance),
		)
	}
	table.Render()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
