package ledger

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/amirphl/stock-ledger/internal/monotonic"
)

// Store tracks items, their stock and sales history, and running per-item
// statistics. Records are appended in timestamp order, so the period queries
// run on binary search; statistics are maintained incrementally on every
// event, so lookups are O(1).
//
// A single lock guards every public operation: the registry write, log
// append, and statistic update of a stock or sell call apply as one unit.
type Store struct {
	mu sync.RWMutex

	items map[string]Item
	names []string // registration order

	stats map[string]*Statistic
	total float64

	stockLog []Record
	salesLog []Record

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source for new records. The clock must
// be non-decreasing between calls; the record logs rely on it.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty store: no items, no records, zero total.
func NewStore(opts ...Option) *Store {
	s := &Store{
		items: make(map[string]Item),
		stats: make(map[string]*Statistic),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stock records count units of the named item entering stock at price per
// unit. The price is required on every call: the first call for a name
// registers the item, later calls must repeat the same price or fail with
// ErrPriceMismatch.
func (s *Store) Stock(name string, count, price float64) error {
	if err := validateName(name); err != nil {
		return err
	}
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %v", ErrInvalidArgument, count)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative, got %v", ErrInvalidArgument, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.addItem(name, price)
	if err != nil {
		return err
	}
	s.stockLog = append(s.stockLog, Record{Item: item, Count: count, At: s.now()})
	s.adjust(item, count)
	return nil
}

// Sell records count units of the named item leaving stock. The item must
// have been stocked before (ErrItemUnknown) and may not be oversold
// (ErrOutOfStock).
func (s *Store) Sell(name string, count float64) error {
	if err := validateName(name); err != nil {
		return err
	}
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %v", ErrInvalidArgument, count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.findItem(name)
	if err != nil {
		return err
	}
	if onHand := s.stats[name].Count; onHand < count {
		return fmt.Errorf("%w: %v of %q on hand, %v requested", ErrOutOfStock, onHand, name, count)
	}
	s.salesLog = append(s.salesLog, Record{Item: item, Count: count, At: s.now()})
	s.adjust(item, -count)
	return nil
}

// Total returns the current value of all items on hand. O(1); maintained
// incrementally and always equal to the sum of all statistic totals.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Statistics returns a snapshot of every item's statistic, in registration
// order.
func (s *Store) Statistics() []Statistic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Statistic, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, *s.stats[name])
	}
	return out
}

// Statistic returns the named item's statistic snapshot.
func (s *Store) Statistic(name string) (Statistic, error) {
	if err := validateName(name); err != nil {
		return Statistic{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.findItem(name); err != nil {
		return Statistic{}, err
	}
	return *s.stats[name], nil
}

// StatisticsFor returns statistic snapshots for the given names, in input
// order. Lookups are eager: an unknown name fails the whole call and nothing
// is returned.
func (s *Store) StatisticsFor(names []string) ([]Statistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Statistic, 0, len(names))
	for _, name := range names {
		if err := validateName(name); err != nil {
			return nil, err
		}
		if _, err := s.findItem(name); err != nil {
			return nil, err
		}
		out = append(out, *s.stats[name])
	}
	return out, nil
}

// StockHistoryOverPeriod returns the stock records with timestamps in
// [begin, end), oldest first. A zero begin or end stands for EarliestInstant
// or LatestInstant respectively.
func (s *Store) StockHistoryOverPeriod(begin, end time.Time) []Record {
	begin, end = clampPeriod(begin, end)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(recordsBetween(s.stockLog, begin, end))
}

// SalesHistoryOverPeriod returns the sales records with timestamps in
// [begin, end), oldest first. A zero begin or end stands for EarliestInstant
// or LatestInstant respectively.
func (s *Store) SalesHistoryOverPeriod(begin, end time.Time) []Record {
	begin, end = clampPeriod(begin, end)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(recordsBetween(s.salesLog, begin, end))
}

// StockStatisticsOverPeriod sums the stock records in [begin, end) into
// fresh per-item statistics, independent of the live cache.
func (s *Store) StockStatisticsOverPeriod(begin, end time.Time) map[Item]Statistic {
	return Summarize(s.StockHistoryOverPeriod(begin, end))
}

// SalesStatisticsOverPeriod sums the sales records in [begin, end) into
// fresh per-item statistics, independent of the live cache.
func (s *Store) SalesStatisticsOverPeriod(begin, end time.Time) map[Item]Statistic {
	return Summarize(s.SalesHistoryOverPeriod(begin, end))
}

// addItem registers a new item, or returns the existing one when the price
// matches. Callers must hold the write lock.
func (s *Store) addItem(name string, price float64) (Item, error) {
	if existing, ok := s.items[name]; ok {
		if existing.Price != price {
			return Item{}, fmt.Errorf("%w: %q is registered at %v, not %v",
				ErrPriceMismatch, name, existing.Price, price)
		}
		return existing, nil
	}

	item := Item{Name: name, Price: price}
	s.items[name] = item
	s.names = append(s.names, name)
	s.stats[name] = &Statistic{Item: item}
	return item, nil
}

// findItem resolves a name to its registered item. Callers must hold at
// least the read lock.
func (s *Store) findItem(name string) (Item, error) {
	item, ok := s.items[name]
	if !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrItemUnknown, name)
	}
	return item, nil
}

// adjust is the only place statistics and the grand total change. dcount is
// positive for stock events and negative for sales.
func (s *Store) adjust(item Item, dcount float64) {
	st := s.stats[item.Name]
	st.Count += dcount
	st.Total += dcount * item.Price
	s.total += dcount * item.Price
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: item name cannot be empty", ErrInvalidArgument)
	}
	return nil
}

func clampPeriod(begin, end time.Time) (time.Time, time.Time) {
	if begin.IsZero() {
		begin = EarliestInstant
	}
	if end.IsZero() {
		end = LatestInstant
	}
	return begin, end
}

func recordsBetween(log []Record, begin, end time.Time) []Record {
	return monotonic.Slice(log, begin, end,
		func(r Record) time.Time { return r.At },
		time.Time.Compare)
}
