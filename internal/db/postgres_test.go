package db

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/stock-ledger/internal/db/conf"
	"github.com/amirphl/stock-ledger/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a local PostgreSQL; skipped otherwise by conf.NewTestConfig.
func TestPostgres_EventsRoundTrip(t *testing.T) {
	cfg, cleanup := conf.NewTestConfig(t)
	defer cleanup()

	storage, err := New(*cfg)
	require.NoError(t, err)

	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	events := []journal.Event{
		journal.NewEvent(journal.EventStock, base, "widget", 5, 10.0, ""),
		journal.NewEvent(journal.EventStock, base.Add(time.Minute), "gadget", 2, 3.5, ""),
		journal.NewEvent(journal.EventSale, base.Add(2*time.Minute), "widget", 1, 0, ""),
	}
	for _, e := range events {
		require.NoError(t, storage.LogEvent(ctx, e))
	}

	got, err := storage.GetEvents(ctx, journal.EventStock, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, events[0].ID, got[0].ID)
	assert.Equal(t, "widget", got[0].Item)
	assert.Equal(t, 5.0, got[0].Count)
	assert.True(t, got[0].Time.Equal(base))
	assert.Equal(t, "gadget", got[1].Item)

	// Upper bound is exclusive.
	got, err = storage.GetEvents(ctx, journal.EventStock, base, base.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "widget", got[0].Item)
}

func TestPostgres_SnapshotRoundTrip(t *testing.T) {
	cfg, cleanup := conf.NewTestConfig(t)
	defer cleanup()

	storage, err := New(*cfg)
	require.NoError(t, err)

	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	latest, err := storage.GetLatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	id, err := storage.SaveSnapshot(ctx, Snapshot{
		TakenAt: base,
		Total:   87.0,
		Lines: []SnapshotLine{
			{Item: "widget", Price: 10.0, Count: 8, Total: 80.0},
			{Item: "gadget", Price: 3.5, Count: 2, Total: 7.0},
		},
	})
	require.NoError(t, err)

	got, err := storage.GetSnapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 87.0, got.Total)
	require.Len(t, got.Lines, 2)
	// Lines come back sorted by item.
	assert.Equal(t, "gadget", got.Lines[0].Item)
	assert.Equal(t, "widget", got.Lines[1].Item)

	id2, err := storage.SaveSnapshot(ctx, Snapshot{TakenAt: base.Add(time.Hour), Total: 90.0})
	require.NoError(t, err)

	latest, err = storage.GetLatestSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, id2, latest.ID)
	assert.Equal(t, 90.0, latest.Total)
}
