package quota

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	_ "time/tzdata" // reference timezone must resolve on hosts without zoneinfo
)

const (
	// DefaultLimit is the default daily allowance of a Google Cloud project.
	DefaultLimit = 10000

	// DefaultTimezone is where the Data API quota day begins and ends.
	DefaultTimezone = "America/Los_Angeles"

	dateLayout   = "2006-01-02"
	storeTimeout = 2 * time.Second
)

// Observer is notified about quota decisions. Implementations must be safe
// for concurrent use; they are called while the tracker lock is held.
type Observer interface {
	QuotaConsumed(kind string, units int)
	QuotaRejected(kind string)
}

// Status is a point-in-time view of the counter.
type Status struct {
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Limit     int    `json:"limit"`
	Date      string `json:"date"`
}

// Tracker is a process-wide counter of consumed quota units.
type Tracker struct {
	mu       sync.Mutex
	limit    int
	loc      *time.Location
	now      func() time.Time
	used     int
	date     string
	store    Store
	observer Observer
	logger   *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLimit sets the daily unit allowance.
func WithLimit(limit int) Option {
	return func(t *Tracker) {
		if limit > 0 {
			t.limit = limit
		}
	}
}

// WithLocation sets the timezone whose midnight starts a new quota day.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithStore persists snapshots after every change.
func WithStore(store Store) Option {
	return func(t *Tracker) {
		t.store = store
	}
}

// WithObserver reports consumption and rejections, typically to metrics.
func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		t.observer = o
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// LoadLocation resolves a timezone name, falling back to the Pacific zone
// for an empty name.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load quota timezone %q: %w", name, err)
	}
	return loc, nil
}

// NewTracker creates a tracker starting at zero usage for the current day.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		limit:  DefaultLimit,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.loc == nil {
		loc, err := LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.FixedZone("PST", -8*60*60)
		}
		t.loc = loc
	}
	t.date = t.today()
	return t
}

func (t *Tracker) today() string {
	return t.now().In(t.loc).Format(dateLayout)
}

// rollover must be called with t.mu held.
func (t *Tracker) rollover() {
	today := t.today()
	if today == t.date {
		return
	}
	t.logger.Debug("quota day rolled over", "previous_date", t.date, "date", today, "previous_used", t.used)
	t.used = 0
	t.date = today
	t.persist()
}

// persist must be called with t.mu held.
func (t *Tracker) persist() {
	if t.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := t.store.Save(ctx, Snapshot{Date: t.date, Used: t.used}); err != nil {
		t.logger.Warn("failed to persist quota snapshot", "error", err)
	}
}

// Restore adopts the stored usage when the snapshot belongs to today.
// A snapshot from an earlier day is ignored.
func (t *Tracker) Restore(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	snap, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load quota snapshot: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	if snap.Date == t.date && snap.Used > t.used {
		// The limit may have been lowered since the snapshot was written.
		t.used = min(snap.Used, t.limit)
	}
	return nil
}

// Consume reserves the cost of count operations of the given kind. When the
// reservation does not fit in the remaining allowance a *QuotaExhaustedError
// is returned and nothing is debited.
func (t *Tracker) Consume(kind string, count int) error {
	if count < 0 {
		return fmt.Errorf("quota count must be non-negative, got %d", count)
	}
	unit := Cost(kind)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()

	// Compare by division so a huge count cannot overflow unit*count.
	if count > 0 && count > t.remainingLocked()/unit {
		if t.observer != nil {
			t.observer.QuotaRejected(kind)
		}
		return &QuotaExhaustedError{Used: t.used, Limit: t.limit}
	}

	cost := unit * count
	t.used += cost
	if t.observer != nil {
		t.observer.QuotaConsumed(kind, cost)
	}
	t.persist()
	return nil
}

// Used returns units consumed today.
func (t *Tracker) Used() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	return t.used
}

// Remaining returns units left today.
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	return t.remainingLocked()
}

// remainingLocked must be called with t.mu held.
func (t *Tracker) remainingLocked() int {
	return max(0, t.limit-t.used)
}

// Limit returns the daily allowance.
func (t *Tracker) Limit() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.limit
}

// Status returns used, remaining, limit and the current quota date.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	return Status{
		Used:      t.used,
		Remaining: t.remainingLocked(),
		Limit:     t.limit,
		Date:      t.date,
	}
}
