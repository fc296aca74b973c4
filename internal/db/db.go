// Package db
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/amirphl/stock-ledger/internal/journal"
)

// Snapshot is a point-in-time copy of the ledger's statistics, persisted by
// the surrounding application after a replay. The ledger core itself stays
// purely in-memory; snapshots are bookkeeping for later inspection, not a
// durability mechanism.
type Snapshot struct {
	ID      int64
	TakenAt time.Time
	Total   float64
	Lines   []SnapshotLine
}

// SnapshotLine is one item's statistic inside a snapshot.
type SnapshotLine struct {
	Item  string
	Price float64
	Count float64
	Total float64
}

// Storage is the interface for everything the application persists.
type Storage interface {
	GetDB() *sql.DB
	journal.Journaler
	SaveSnapshot(ctx context.Context, snap Snapshot) (int64, error)
	GetSnapshot(ctx context.Context, id int64) (*Snapshot, error)
	GetLatestSnapshot(ctx context.Context) (*Snapshot, error)
}
