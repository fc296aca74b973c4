package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out strictly increasing timestamps, one minute apart.
type fakeClock struct {
	next time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{next: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	t := c.next
	c.next = c.next.Add(time.Minute)
	return t
}

func newTestStore() (*Store, *fakeClock) {
	clock := newFakeClock()
	return NewStore(WithClock(clock.Now)), clock
}

func TestStore_Empty(t *testing.T) {
	s, _ := newTestStore()

	assert.Zero(t, s.Total())
	assert.Empty(t, s.Statistics())
	assert.Empty(t, s.StockHistoryOverPeriod(time.Time{}, time.Time{}))
	assert.Empty(t, s.SalesHistoryOverPeriod(time.Time{}, time.Time{}))
}

func TestStore_StockIdempotentReStocking(t *testing.T) {
	s, _ := newTestStore()

	require.NoError(t, s.Stock("widget", 5, 10.0))
	require.NoError(t, s.Stock("widget", 3, 10.0))

	st, err := s.Statistic("widget")
	require.NoError(t, err)
	assert.Equal(t, 8.0, st.Count)
	assert.Equal(t, 80.0, st.Total)

	err = s.Stock("widget", 1, 12.0)
	require.ErrorIs(t, err, ErrPriceMismatch)

	// The rejected call must leave everything untouched.
	st, err = s.Statistic("widget")
	require.NoError(t, err)
	assert.Equal(t, 8.0, st.Count)
	assert.Equal(t, 80.0, s.Total())
	assert.Len(t, s.StockHistoryOverPeriod(time.Time{}, time.Time{}), 2)
}

func TestStore_SellOutOfStock(t *testing.T) {
	s, _ := newTestStore()

	require.NoError(t, s.Stock("widget", 5, 10.0))

	err := s.Sell("widget", 6)
	require.ErrorIs(t, err, ErrOutOfStock)

	st, err := s.Statistic("widget")
	require.NoError(t, err)
	assert.Equal(t, 5.0, st.Count)
	assert.Empty(t, s.SalesHistoryOverPeriod(time.Time{}, time.Time{}))

	// Selling exactly the on-hand count drains the item to zero.
	require.NoError(t, s.Sell("widget", 5))
	st, err = s.Statistic("widget")
	require.NoError(t, err)
	assert.Zero(t, st.Count)
	assert.Zero(t, st.Total)
	assert.Zero(t, s.Total())
}

func TestStore_UnknownItem(t *testing.T) {
	s, _ := newTestStore()

	require.ErrorIs(t, s.Sell("ghost", 1), ErrItemUnknown)

	_, err := s.Statistic("ghost")
	require.ErrorIs(t, err, ErrItemUnknown)
}

func TestStore_InvalidArguments(t *testing.T) {
	s, _ := newTestStore()

	assert.ErrorIs(t, s.Stock("", 1, 1.0), ErrInvalidArgument)
	assert.ErrorIs(t, s.Stock("widget", 0, 1.0), ErrInvalidArgument)
	assert.ErrorIs(t, s.Stock("widget", -2, 1.0), ErrInvalidArgument)
	assert.ErrorIs(t, s.Stock("widget", 1, -1.0), ErrInvalidArgument)
	assert.ErrorIs(t, s.Sell("", 1), ErrInvalidArgument)
	assert.ErrorIs(t, s.Sell("widget", 0), ErrInvalidArgument)

	_, err := s.Statistic("")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Nothing was registered by the rejected calls.
	assert.Empty(t, s.Statistics())
	assert.Zero(t, s.Total())
}

func TestStore_TotalConsistency(t *testing.T) {
	s, _ := newTestStore()

	ops := []struct {
		sell         bool
		name         string
		count, price float64
	}{
		{false, "widget", 5, 10.0},
		{false, "gadget", 2, 3.5},
		{true, "widget", 3, 0},
		{false, "widget", 1, 10.0},
		{false, "gizmo", 7, 1.25},
		{true, "gadget", 2, 0},
		{true, "gizmo", 6, 0},
	}

	for _, op := range ops {
		if op.sell {
			require.NoError(t, s.Sell(op.name, op.count))
		} else {
			require.NoError(t, s.Stock(op.name, op.count, op.price))
		}

		var sum float64
		for _, st := range s.Statistics() {
			assert.InDelta(t, st.Count*st.Item.Price, st.Total, 1e-9)
			sum += st.Total
		}
		assert.InDelta(t, sum, s.Total(), 1e-9)
	}

	assert.InDelta(t, 3*10.0+0*3.5+1*1.25, s.Total(), 1e-9)
}

func TestStore_Statistics(t *testing.T) {
	s, _ := newTestStore()

	require.NoError(t, s.Stock("widget", 5, 10.0))
	require.NoError(t, s.Stock("gadget", 2, 3.5))
	require.NoError(t, s.Stock("gizmo", 1, 1.25))

	t.Run("all in registration order", func(t *testing.T) {
		all := s.Statistics()
		require.Len(t, all, 3)
		assert.Equal(t, "widget", all[0].Item.Name)
		assert.Equal(t, "gadget", all[1].Item.Name)
		assert.Equal(t, "gizmo", all[2].Item.Name)
	})

	t.Run("selected names in input order", func(t *testing.T) {
		got, err := s.StatisticsFor([]string{"gizmo", "widget"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "gizmo", got[0].Item.Name)
		assert.Equal(t, "widget", got[1].Item.Name)
	})

	t.Run("unknown name fails the whole call", func(t *testing.T) {
		got, err := s.StatisticsFor([]string{"widget", "ghost", "gadget"})
		require.ErrorIs(t, err, ErrItemUnknown)
		assert.Nil(t, got)
	})

	t.Run("snapshots are copies", func(t *testing.T) {
		st, err := s.Statistic("widget")
		require.NoError(t, err)
		st.Count = 9999

		again, err := s.Statistic("widget")
		require.NoError(t, err)
		assert.Equal(t, 5.0, again.Count)
	})
}

func TestStore_HistoryOverPeriod(t *testing.T) {
	s, clock := newTestStore()
	begin := clock.next

	require.NoError(t, s.Stock("widget", 5, 10.0)) // begin
	require.NoError(t, s.Stock("gadget", 2, 3.5))  // begin+1m
	require.NoError(t, s.Sell("widget", 1))        // begin+2m
	require.NoError(t, s.Stock("widget", 4, 10.0)) // begin+3m
	require.NoError(t, s.Sell("gadget", 2))        // begin+4m

	t.Run("defaults cover all history", func(t *testing.T) {
		stock := s.StockHistoryOverPeriod(time.Time{}, time.Time{})
		sales := s.SalesHistoryOverPeriod(time.Time{}, time.Time{})
		assert.Len(t, stock, 3)
		assert.Len(t, sales, 2)
	})

	t.Run("half-open bounds on record timestamps", func(t *testing.T) {
		// [begin+1m, begin+3m) keeps only the second stock record.
		got := s.StockHistoryOverPeriod(begin.Add(time.Minute), begin.Add(3*time.Minute))
		require.Len(t, got, 1)
		assert.Equal(t, "gadget", got[0].Item.Name)
	})

	t.Run("chronological order within bounds", func(t *testing.T) {
		got := s.StockHistoryOverPeriod(begin, begin.Add(time.Hour))
		require.Len(t, got, 3)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].At.Before(got[i-1].At))
		}
		for _, rec := range got {
			assert.False(t, rec.At.Before(begin))
			assert.True(t, rec.At.Before(begin.Add(time.Hour)))
		}
	})

	t.Run("empty period", func(t *testing.T) {
		assert.Empty(t, s.StockHistoryOverPeriod(begin, begin))
		assert.Empty(t, s.SalesHistoryOverPeriod(begin.Add(-time.Hour), begin))
	})

	t.Run("result is detached from the log", func(t *testing.T) {
		got := s.StockHistoryOverPeriod(time.Time{}, time.Time{})
		require.NotEmpty(t, got)
		got[0].Count = 9999

		again := s.StockHistoryOverPeriod(time.Time{}, time.Time{})
		assert.Equal(t, 5.0, again[0].Count)
	})
}

func TestStore_StatisticsOverPeriod(t *testing.T) {
	s, clock := newTestStore()
	begin := clock.next

	require.NoError(t, s.Stock("widget", 5, 10.0))
	require.NoError(t, s.Stock("gadget", 2, 3.5))
	require.NoError(t, s.Sell("widget", 3))
	require.NoError(t, s.Stock("widget", 4, 10.0))

	widget := Item{Name: "widget", Price: 10.0}
	gadget := Item{Name: "gadget", Price: 3.5}

	t.Run("full range matches stock-only contributions", func(t *testing.T) {
		got := s.StockStatisticsOverPeriod(time.Time{}, time.Time{})
		require.Len(t, got, 2)
		assert.Equal(t, 9.0, got[widget].Count)
		assert.Equal(t, 90.0, got[widget].Total)
		assert.Equal(t, 2.0, got[gadget].Count)
		assert.Equal(t, 7.0, got[gadget].Total)
	})

	t.Run("sales side", func(t *testing.T) {
		got := s.SalesStatisticsOverPeriod(time.Time{}, time.Time{})
		require.Len(t, got, 1)
		assert.Equal(t, 3.0, got[widget].Count)
		assert.Equal(t, 30.0, got[widget].Total)
	})

	t.Run("window excludes later records", func(t *testing.T) {
		// [begin, begin+2m) covers only the first two stock events.
		got := s.StockStatisticsOverPeriod(begin, begin.Add(2*time.Minute))
		require.Len(t, got, 2)
		assert.Equal(t, 5.0, got[widget].Count)
		assert.Equal(t, 2.0, got[gadget].Count)
	})

	t.Run("independent of the live cache", func(t *testing.T) {
		live, err := s.Statistic("widget")
		require.NoError(t, err)
		assert.Equal(t, 6.0, live.Count) // 5 - 3 + 4

		period := s.StockStatisticsOverPeriod(time.Time{}, time.Time{})
		assert.Equal(t, 9.0, period[widget].Count)
	})
}

func TestSummarize(t *testing.T) {
	widget := Item{Name: "widget", Price: 2.0}
	gadget := Item{Name: "gadget", Price: 5.0}
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Summarize(nil))
	})

	t.Run("sums per item", func(t *testing.T) {
		got := Summarize([]Record{
			{Item: widget, Count: 3, At: at},
			{Item: gadget, Count: 1, At: at.Add(time.Minute)},
			{Item: widget, Count: 2, At: at.Add(2 * time.Minute)},
		})
		require.Len(t, got, 2)
		assert.Equal(t, Statistic{Item: widget, Count: 5, Total: 10}, got[widget])
		assert.Equal(t, Statistic{Item: gadget, Count: 1, Total: 5}, got[gadget])
	})
}
