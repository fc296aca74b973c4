// Package ledger
package ledger

import "time"

// Item is a named good with a fixed unit price. Items are immutable and
// identified by name.
type Item struct {
	Name  string
	Price float64
}

// Record is a timestamped stock or sales event. Whether it is a stock or a
// sales record is determined by the log that holds it. Records are never
// mutated after they are appended.
type Record struct {
	Item  Item
	Count float64
	At    time.Time
}

// Statistic is the running aggregate for one item. Total always equals
// Count * Item.Price.
type Statistic struct {
	Item  Item
	Count float64
	Total float64
}

// EarliestInstant and LatestInstant are the default period bounds: passing a
// zero time.Time to the *OverPeriod queries selects them, turning the query
// into "all history".
var (
	EarliestInstant = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	LatestInstant   = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// Summarize sums a set of records into per-item statistics. The result is
// computed from just those records, independent of any live cache.
func Summarize(records []Record) map[Item]Statistic {
	res := make(map[Item]Statistic, len(records))
	for _, rec := range records {
		st := res[rec.Item]
		st.Item = rec.Item
		st.Count += rec.Count
		st.Total += rec.Count * rec.Item.Price
		res[rec.Item] = st
	}
	return res
}
