package db

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/amirphl/stock-ledger/internal/journal"
)

// MemoryStorage keeps the journal and snapshots in process memory. It backs
// the CLI when no database is configured, and the tests.
type MemoryStorage struct {
	mu sync.RWMutex

	// Events (append-only)
	events []journal.Event

	// Snapshots by ID and auto-increment counter
	snapshots      map[int64]Snapshot
	nextSnapshotID int64
}

func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		events:    make([]journal.Event, 0, 1024),
		snapshots: make(map[int64]Snapshot),
	}
}

// GetDB returns nil for in-memory storage (no SQL database)
func (m *MemoryStorage) GetDB() *sql.DB { return nil }

// -------- Journaler --------

func (m *MemoryStorage) LogEvent(ctx context.Context, event journal.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.Time = event.Time.UTC()
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryStorage) GetEvents(ctx context.Context, eventType string, start, end time.Time) ([]journal.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start = start.UTC()
	end = end.UTC()
	var out []journal.Event
	for _, e := range m.events {
		if e.Type == eventType && (e.Time.Equal(start) || e.Time.After(start)) && e.Time.Before(end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// -------- Snapshots --------

func (m *MemoryStorage) SaveSnapshot(ctx context.Context, snap Snapshot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSnapshotID++
	id := m.nextSnapshotID
	snap.ID = id
	snap.TakenAt = snap.TakenAt.UTC()
	m.snapshots[id] = snap
	return id, nil
}

func (m *MemoryStorage) GetSnapshot(ctx context.Context, id int64) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.snapshots[id]; ok {
		ss := s
		return &ss, nil
	}
	return nil, errors.New("snapshot not found")
}

func (m *MemoryStorage) GetLatestSnapshot(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *Snapshot
	for _, s := range m.snapshots {
		if latest == nil || s.TakenAt.After(latest.TakenAt) || (s.TakenAt.Equal(latest.TakenAt) && s.ID > latest.ID) {
			ss := s
			latest = &ss
		}
	}
	return latest, nil
}
