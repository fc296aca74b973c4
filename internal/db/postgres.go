package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/amirphl/stock-ledger/internal/db/conf"
	"github.com/amirphl/stock-ledger/internal/journal"
	_ "github.com/lib/pq"
)

// Transaction context key
type txKey struct{}

// WithTransaction adds a transaction to the context
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTransaction retrieves a transaction from context, or returns nil if not present
func GetTransaction(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return nil
}

// executeWithTransaction executes a function with proper transaction management.
// If a transaction exists in context, it uses that. Otherwise, it creates a new one.
func (p *Default) executeWithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	if tx := GetTransaction(ctx); tx != nil {
		return fn(tx)
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if fnErr := fn(tx); fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction rollback failed: %w (original error: %v)", rbErr, fnErr)
		}
		return fnErr
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("transaction commit failed: %w", commitErr)
	}

	return nil
}

// queryWithTransaction executes a query using transaction from context if available
func (p *Default) queryWithTransaction(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if tx := GetTransaction(ctx); tx != nil {
		return tx.QueryContext(ctx, query, args...)
	}
	return p.db.QueryContext(ctx, query, args...)
}

type Default struct {
	db *sql.DB
}

func New(c conf.Config) (*Default, error) {
	return &Default{db: c.DB}, nil
}

func (p *Default) GetDB() *sql.DB {
	return p.db
}

// -------- Journaler --------

// LogEvent appends a ledger event to the journal table.
func (p *Default) LogEvent(ctx context.Context, e journal.Event) error {
	return p.executeWithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO events (id, time, type, item, count, price, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			e.ID, e.Time.UTC(), e.Type, e.Item, e.Count, e.Price, e.Note)
		if err != nil {
			return fmt.Errorf("failed to log %s event for %q at %s: %w", e.Type, e.Item, e.Time, err)
		}
		return nil
	})
}

// GetEvents returns the events of one type with time in [start, end),
// oldest first.
func (p *Default) GetEvents(ctx context.Context, eventType string, start, end time.Time) ([]journal.Event, error) {
	rows, err := p.queryWithTransaction(ctx, `
	SELECT id, time, type, item, count, price, note
	FROM events
	WHERE type = $1 AND time >= $2 AND time < $3
	ORDER BY time ASC`,
		eventType, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s events: %w", eventType, err)
	}
	defer rows.Close()

	var out []journal.Event
	for rows.Next() {
		var e journal.Event
		if err := rows.Scan(&e.ID, &e.Time, &e.Type, &e.Item, &e.Count, &e.Price, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Time = e.Time.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// -------- Snapshots --------

// SaveSnapshot inserts a snapshot and all of its lines in one transaction.
func (p *Default) SaveSnapshot(ctx context.Context, snap Snapshot) (int64, error) {
	var id int64
	err := p.executeWithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
		INSERT INTO snapshots (taken_at, total)
		VALUES ($1,$2) RETURNING id`,
			snap.TakenAt.UTC(), snap.Total).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_lines (snapshot_id, item, price, count, total)
		VALUES ($1,$2,$3,$4,$5)`)
		if err != nil {
			return fmt.Errorf("failed to prepare snapshot line insert: %w", err)
		}
		defer stmt.Close()

		for _, line := range snap.Lines {
			if _, err := stmt.ExecContext(ctx, id, line.Item, line.Price, line.Count, line.Total); err != nil {
				return fmt.Errorf("failed to save snapshot line for %q: %w", line.Item, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetSnapshot loads one snapshot with its lines.
func (p *Default) GetSnapshot(ctx context.Context, id int64) (*Snapshot, error) {
	snap := Snapshot{ID: id}
	err := p.db.QueryRowContext(ctx, `
	SELECT taken_at, total FROM snapshots WHERE id = $1`, id).
		Scan(&snap.TakenAt, &snap.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %d: %w", id, err)
	}
	snap.TakenAt = snap.TakenAt.UTC()

	lines, err := p.getSnapshotLines(ctx, id)
	if err != nil {
		return nil, err
	}
	snap.Lines = lines
	return &snap, nil
}

// GetLatestSnapshot loads the most recently taken snapshot, or nil when no
// snapshot has been saved yet.
func (p *Default) GetLatestSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := p.db.QueryRowContext(ctx, `
	SELECT id, taken_at, total FROM snapshots
	ORDER BY taken_at DESC, id DESC LIMIT 1`).
		Scan(&snap.ID, &snap.TakenAt, &snap.Total)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	snap.TakenAt = snap.TakenAt.UTC()

	lines, err := p.getSnapshotLines(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	snap.Lines = lines
	return &snap, nil
}

func (p *Default) getSnapshotLines(ctx context.Context, id int64) ([]SnapshotLine, error) {
	rows, err := p.queryWithTransaction(ctx, `
	SELECT item, price, count, total FROM snapshot_lines
	WHERE snapshot_id = $1 ORDER BY item ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot lines for %d: %w", id, err)
	}
	defer rows.Close()

	var lines []SnapshotLine
	for rows.Next() {
		var line SnapshotLine
		if err := rows.Scan(&line.Item, &line.Price, &line.Count, &line.Total); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
