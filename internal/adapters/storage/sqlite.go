package storage

// sqlite.go: signal and order persistence.
//
// Layout:
//   - `signals`: one row per evaluated signal, decision context flattened
//     into situation/reason columns.
//   - `orders`: one row per planned leg, FK to the signal. Plan-level
//     fields (underlying, spot, expiry, stop loss) ride on every leg row,
//     mirroring how flat broker order books look.
//   - `bot_state`: key/value scratch space (last processed bar, capital).
//
// The driver is pure Go, no CGo. SQLite is single-writer, so the pool is
// pinned to one connection.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nchandak/condorbot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS signals (
    id             TEXT PRIMARY KEY,
    ts             TEXT    NOT NULL,
    action         TEXT    NOT NULL,
    situation      TEXT    NOT NULL DEFAULT '',
    reason         TEXT    NOT NULL DEFAULT '',
    call_distance  INTEGER NOT NULL DEFAULT 0,
    put_distance   INTEGER NOT NULL DEFAULT 0,
    hedge_distance INTEGER NOT NULL DEFAULT 0,
    capital        REAL    NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    id           TEXT PRIMARY KEY,
    signal_id    TEXT    NOT NULL REFERENCES signals(id),
    symbol       TEXT    NOT NULL,
    strike       INTEGER NOT NULL DEFAULT 0,
    option_type  TEXT    NOT NULL DEFAULT '',
    side         TEXT    NOT NULL,
    quantity     INTEGER NOT NULL,
    price        REAL    NOT NULL DEFAULT 0,
    order_type   TEXT    NOT NULL,
    product_type TEXT    NOT NULL,
    status       TEXT    NOT NULL,
    underlying   TEXT    NOT NULL DEFAULT '',
    spot         REAL    NOT NULL DEFAULT 0,
    expiry       TEXT    NOT NULL DEFAULT '',
    stop_loss    REAL    NOT NULL DEFAULT 0,
    created_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS bot_state (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signals_created ON signals(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_orders_signal   ON orders(signal_id);
`

// SQLiteStore implements ports.SignalStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies
// the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveSignal persists one signal. The decision context map is flattened
// into the situation and reason columns.
func (s *SQLiteStore) SaveSignal(ctx context.Context, sig domain.Signal) error {
	if sig.ID == "" {
		return fmt.Errorf("storage.SaveSignal: signal has no ID")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signals
			(id, ts, action, situation, reason,
			 call_distance, put_distance, hedge_distance, capital, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sig.ID,
		sig.Timestamp,
		sig.Action,
		sig.Situation(),
		sig.Reason(),
		sig.CallDistance,
		sig.PutDistance,
		sig.HedgeDistance,
		sig.CapitalDeployed,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveSignal: insert %s: %w", sig.ID, err)
	}
	return nil
}

// SaveOrderPlan persists every leg of the plan in one transaction.
func (s *SQLiteStore) SaveOrderPlan(ctx context.Context, plan domain.OrderPlan) error {
	if plan.SignalID == "" {
		return fmt.Errorf("storage.SaveOrderPlan: plan has no signal ID")
	}
	if len(plan.Legs) == 0 {
		return fmt.Errorf("storage.SaveOrderPlan: plan has no legs")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveOrderPlan: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO orders
			(id, signal_id, symbol, strike, option_type, side, quantity,
			 price, order_type, product_type, status,
			 underlying, spot, expiry, stop_loss, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveOrderPlan: prepare: %w", err)
	}
	defer stmt.Close()

	createdAt := plan.CreatedAt.UTC()
	if plan.CreatedAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	for _, leg := range plan.Legs {
		if _, err := stmt.ExecContext(ctx,
			leg.ID,
			plan.SignalID,
			leg.TradingSymbol,
			leg.Strike,
			leg.OptionType,
			leg.Side,
			leg.Quantity,
			leg.Price,
			leg.OrderType,
			leg.ProductType,
			leg.Status,
			plan.Underlying,
			plan.Spot,
			plan.Expiry,
			plan.StopLoss,
			createdAt,
		); err != nil {
			return fmt.Errorf("storage.SaveOrderPlan: insert leg %s: %w", leg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveOrderPlan: commit: %w", err)
	}
	return nil
}

// RecentSignals returns up to limit signals, newest first.
func (s *SQLiteStore) RecentSignals(ctx context.Context, limit int) ([]domain.Signal, error) {
	// rowid breaks ties for signals stamped in the same instant.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, action, situation, reason,
		       call_distance, put_distance, hedge_distance, capital
		FROM signals
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentSignals: query: %w", err)
	}
	defer rows.Close()

	var signals []domain.Signal
	for rows.Next() {
		var sig domain.Signal
		var situation, reason string

		if err := rows.Scan(
			&sig.ID,
			&sig.Timestamp,
			&sig.Action,
			&situation,
			&reason,
			&sig.CallDistance,
			&sig.PutDistance,
			&sig.HedgeDistance,
			&sig.CapitalDeployed,
		); err != nil {
			return nil, fmt.Errorf("storage.RecentSignals: scan row: %w", err)
		}

		sig.Context = map[string]string{
			domain.CtxSituation: situation,
			domain.CtxReason:    reason,
		}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

// PlanForSignal reassembles the plan saved for signalID from its leg
// rows. Returns a wrapped sql.ErrNoRows when nothing was planned.
func (s *SQLiteStore) PlanForSignal(ctx context.Context, signalID string) (domain.OrderPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, strike, option_type, side, quantity,
		       price, order_type, product_type, status,
		       underlying, spot, expiry, stop_loss, created_at
		FROM orders
		WHERE signal_id = ?
		ORDER BY rowid`, signalID)
	if err != nil {
		return domain.OrderPlan{}, fmt.Errorf("storage.PlanForSignal: query: %w", err)
	}
	defer rows.Close()

	plan := domain.OrderPlan{SignalID: signalID}
	var createdAt string
	for rows.Next() {
		var leg domain.OrderLeg
		if err := rows.Scan(
			&leg.ID,
			&leg.TradingSymbol,
			&leg.Strike,
			&leg.OptionType,
			&leg.Side,
			&leg.Quantity,
			&leg.Price,
			&leg.OrderType,
			&leg.ProductType,
			&leg.Status,
			&plan.Underlying,
			&plan.Spot,
			&plan.Expiry,
			&plan.StopLoss,
			&createdAt,
		); err != nil {
			return domain.OrderPlan{}, fmt.Errorf("storage.PlanForSignal: scan row: %w", err)
		}
		plan.Legs = append(plan.Legs, leg)
	}
	if err := rows.Err(); err != nil {
		return domain.OrderPlan{}, err
	}
	if len(plan.Legs) == 0 {
		return domain.OrderPlan{}, fmt.Errorf("storage.PlanForSignal: %s: %w", signalID, sql.ErrNoRows)
	}

	t, _ := time.Parse(time.RFC3339, createdAt)
	if t.IsZero() {
		t, _ = time.Parse("2006-01-02 15:04:05", createdAt)
	}
	plan.CreatedAt = t
	return plan, nil
}

// SetState upserts a key in the bot_state table.
func (s *SQLiteStore) SetState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bot_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SetState: upsert %q: %w", key, err)
	}
	return nil
}

// GetState returns the stored value, or "" when the key is absent.
func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM bot_state WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage.GetState: %q: %w", key, err)
	}
	return value, nil
}

// PruneSignalsBefore deletes signals created before cutoff together
// with their order legs. Returns the number of signals removed.
func (s *SQLiteStore) PruneSignalsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage.PruneSignalsBefore: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM orders
		WHERE signal_id IN (SELECT id FROM signals WHERE created_at < ?)`,
		cutoff.UTC(),
	); err != nil {
		return 0, fmt.Errorf("storage.PruneSignalsBefore: delete orders: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM signals WHERE created_at < ?`, cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage.PruneSignalsBefore: delete signals: %w", err)
	}
	deleted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage.PruneSignalsBefore: commit: %w", err)
	}
	return deleted, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
