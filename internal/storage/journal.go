// Package storage persists an audit trail of acknowledged orders in
// SQLite. The journal is observability only: the order pipeline never
// reads it to make decisions.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/shopspring/decimal"

	"github.com/praizykolluri46/binance-bot/internal/domain"
)

// OrderJournal records exchange-acknowledged orders in SQLite.
type OrderJournal struct {
	db *sql.DB
}

// NewOrderJournal opens (or creates) the journal database with WAL mode
// enabled.
func NewOrderJournal(dbPath string) (*OrderJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL,
			client_order_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			price TEXT NOT NULL,
			orig_qty TEXT NOT NULL,
			executed_qty TEXT NOT NULL,
			recorded_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create orders table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata table: %w", err)
	}

	return &OrderJournal{db: db}, nil
}

// RecordOrder appends one acknowledged order to the journal.
func (j *OrderJournal) RecordOrder(ctx context.Context, r domain.OrderResult) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO orders
			(order_id, client_order_id, symbol, side, type, status, price, orig_qty, executed_qty, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.OrderID, r.ClientOrderID, r.Symbol, string(r.Side), r.Type, string(r.Status),
		r.Price.String(), r.OrigQty.String(), r.ExecutedQty.String(),
		time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// RecentOrders returns the newest entries, most recent first.
func (j *OrderJournal) RecentOrders(ctx context.Context, limit int) ([]domain.OrderResult, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT order_id, client_order_id, symbol, side, type, status, price, orig_qty, executed_qty, recorded_at
		 FROM orders ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var results []domain.OrderResult
	for rows.Next() {
		var r domain.OrderResult
		var side, status, price, origQty, executedQty string
		if err := rows.Scan(&r.OrderID, &r.ClientOrderID, &r.Symbol, &side, &r.Type,
			&status, &price, &origQty, &executedQty, &r.UpdateTimeMs); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		r.Side = domain.Side(side)
		r.Status = domain.OrderStatus(status)
		r.Price = mustDecimal(price)
		r.OrigQty = mustDecimal(origQty)
		r.ExecutedQty = mustDecimal(executedQty)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return results, nil
}

// UpsertMetadata saves a key-value pair, e.g. the last session mode.
func (j *OrderJournal) UpsertMetadata(ctx context.Context, key, value string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UnixMilli(),
	)
	return err
}

// GetMetadata retrieves a value; missing keys return "".
func (j *OrderJournal) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := j.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Close closes the database connection.
func (j *OrderJournal) Close() error {
	return j.db.Close()
}

// mustDecimal trusts the journal's own writes; anything unparseable scans
// as zero rather than failing the whole readback.
func mustDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}
