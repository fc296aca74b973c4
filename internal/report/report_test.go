package report

import (
	"strings"
	"testing"

	"github.com/amirphl/stock-ledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics(t *testing.T) {
	widget := ledger.Item{Name: "widget", Price: 10.0}
	gadget := ledger.Item{Name: "gadget", Price: 3.5}

	out := Statistics([]ledger.Statistic{
		{Item: widget, Count: 8, Total: 80.0},
		{Item: gadget, Count: 2, Total: 7.0},
	}, 87.0)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ITEM")
	assert.Contains(t, lines[1], "widget")
	assert.Contains(t, lines[1], "80.00")
	assert.Contains(t, lines[2], "gadget")
	assert.Contains(t, lines[3], "TOTAL")
	assert.Contains(t, lines[3], "87.00")
}

func TestPeriodSummary(t *testing.T) {
	widget := ledger.Item{Name: "widget", Price: 10.0}
	gadget := ledger.Item{Name: "gadget", Price: 3.5}

	t.Run("sorted by item name", func(t *testing.T) {
		out := PeriodSummary("Stock over 7d", map[ledger.Item]ledger.Statistic{
			widget: {Item: widget, Count: 9, Total: 90.0},
			gadget: {Item: gadget, Count: 2, Total: 7.0},
		})

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Stock over 7d", lines[0])
		assert.Contains(t, lines[2], "gadget")
		assert.Contains(t, lines[3], "widget")
	})

	t.Run("empty summary", func(t *testing.T) {
		out := PeriodSummary("Sales over 24h", nil)
		assert.Contains(t, out, "no records")
	})
}
