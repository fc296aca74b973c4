package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/amirphl/stock-ledger/internal/journal"
	"github.com/amirphl/stock-ledger/internal/ledger"
	"github.com/amirphl/stock-ledger/internal/notifier"
	"github.com/amirphl/stock-ledger/internal/utils"
)

// Result summarizes one replay.
type Result struct {
	Applied  int
	Rejected int
}

// Runner replays scenario ops against a fresh ledger store, journaling every
// op (applied or rejected) and alerting when an item's on-hand count drops
// to the low-stock threshold or below.
type Runner struct {
	store     *ledger.Store
	journal   journal.Journaler
	notify    notifier.Notifier
	threshold float64
	cursor    time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithNotifier installs a low-stock notifier; threshold <= 0 disables alerts.
func WithNotifier(n notifier.Notifier, threshold float64) RunnerOption {
	return func(r *Runner) {
		r.notify = n
		r.threshold = threshold
	}
}

// NewRunner builds a runner with an empty store whose clock follows the
// scripted op timestamps.
func NewRunner(j journal.Journaler, opts ...RunnerOption) *Runner {
	r := &Runner{
		journal: j,
		notify:  notifier.Nop{},
	}
	r.store = ledger.NewStore(ledger.WithClock(r.clock))
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store exposes the replayed ledger for reports and period queries.
func (r *Runner) Store() *ledger.Store { return r.store }

// clock returns the current op's scripted timestamp, or the wall clock for
// ops without one.
func (r *Runner) clock() time.Time {
	if r.cursor.IsZero() {
		return time.Now().UTC()
	}
	return r.cursor
}

// Run applies every op in order. Rejected ops are journaled as error events
// and counted; journal failures abort the replay.
func (r *Runner) Run(ctx context.Context, s *Scenario) (Result, error) {
	var res Result
	for i, op := range s.Ops {
		applied, err := r.apply(ctx, op)
		if err != nil {
			return res, fmt.Errorf("op %d: %w", i, err)
		}
		if applied {
			res.Applied++
		} else {
			res.Rejected++
		}
	}
	return res, nil
}

func (r *Runner) apply(ctx context.Context, op Op) (bool, error) {
	r.cursor = op.At
	at := r.clock()

	var opErr error
	eventType := journal.EventStock
	switch op.Op {
	case "stock":
		opErr = r.store.Stock(op.Item, op.Count, op.Price)
	case "sell":
		eventType = journal.EventSale
		opErr = r.store.Sell(op.Item, op.Count)
	default:
		return false, fmt.Errorf("unsupported op %q", op.Op)
	}

	if opErr != nil {
		utils.GetLogger().Printf("Replay | Rejected %s of %v %q: %v", op.Op, op.Count, op.Item, opErr)
		event := journal.NewEvent(journal.EventError, at, op.Item, op.Count, op.Price, opErr.Error())
		if err := r.journal.LogEvent(ctx, event); err != nil {
			return false, fmt.Errorf("failed to journal rejection: %w", err)
		}
		return false, nil
	}

	// Sell ops carry no price of their own; journal the registered one so
	// the journal stands alone for value reporting.
	price := op.Price
	if op.Op == "sell" {
		if st, err := r.store.Statistic(op.Item); err == nil {
			price = st.Item.Price
		}
	}

	event := journal.NewEvent(eventType, at, op.Item, op.Count, price, "")
	if err := r.journal.LogEvent(ctx, event); err != nil {
		return false, fmt.Errorf("failed to journal %s event: %w", eventType, err)
	}

	if op.Op == "sell" && r.threshold > 0 {
		r.checkLowStock(op.Item)
	}
	return true, nil
}

func (r *Runner) checkLowStock(name string) {
	st, err := r.store.Statistic(name)
	if err != nil {
		return
	}
	if st.Count <= r.threshold {
		msg := fmt.Sprintf("Low stock: %v of %q left", st.Count, name)
		if err := r.notify.SendWithRetry(msg); err != nil {
			utils.GetLogger().Printf("Replay | Failed to send low-stock alert for %q: %v", name, err)
		}
	}
}
