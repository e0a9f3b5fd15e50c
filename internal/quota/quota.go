package quota

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Action is a metered patient action.
type Action string

const (
	View   Action = "view"
	Submit Action = "submit"
)

const (
	DefaultViewLimit   = 10
	DefaultSubmitLimit = 2
)

const dayLayout = "2006-01-02"

var ErrLimitExceeded = errors.New("daily limit exceeded")

// LimitError reports which counter hit its cap.
type LimitError struct {
	Key   Key
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %s (limit %d)", e.Key, ErrLimitExceeded, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrLimitExceeded }

// Key addresses one counter. Day is the calendar date, so counters roll over
// without any expiry logic.
type Key struct {
	Subject string
	Day     string
	Action  Action
}

func (k Key) String() string {
	return k.Subject + ":" + k.Day + ":" + string(k.Action)
}

// Store is an atomic counter store.
type Store interface {
	// Get returns the current count, zero for an unknown key.
	Get(ctx context.Context, k Key) (int, error)
	// IncrementBelow atomically increments k if its count is below limit.
	// It returns the resulting count and whether the increment happened.
	IncrementBelow(ctx context.Context, k Key, limit int) (int, bool, error)
	// Purge removes counters for days strictly before the given day.
	Purge(ctx context.Context, before time.Time) (int, error)
}

// Limits holds the per-action daily caps.
type Limits map[Action]int

func DefaultLimits() Limits {
	return Limits{View: DefaultViewLimit, Submit: DefaultSubmitLimit}
}

// Guard enforces per-subject daily caps.
type Guard struct {
	store  Store
	limits Limits
	loc    *time.Location
	now    func() time.Time
}

type GuardOption func(*Guard)

// WithLocation sets the timezone whose calendar day partitions counters.
func WithLocation(loc *time.Location) GuardOption {
	return func(g *Guard) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// WithClock replaces time.Now; used by tests.
func WithClock(now func() time.Time) GuardOption {
	return func(g *Guard) { g.now = now }
}

func NewGuard(store Store, limits Limits, opts ...GuardOption) *Guard {
	if limits == nil {
		limits = DefaultLimits()
	}
	g := &Guard{store: store, limits: limits, loc: time.UTC, now: time.Now}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Guard) key(subject string, action Action) Key {
	return Key{Subject: subject, Day: g.now().In(g.loc).Format(dayLayout), Action: action}
}

// CheckAndIncrement consumes one slot of subject's daily budget for action.
// Once limit calls have been allowed today it returns a *LimitError and the
// counter stays where it is.
func (g *Guard) CheckAndIncrement(ctx context.Context, subject string, action Action, limit int) error {
	k := g.key(subject, action)
	if limit <= 0 {
		return &LimitError{Key: k, Limit: limit}
	}
	_, ok, err := g.store.IncrementBelow(ctx, k, limit)
	if err != nil {
		return fmt.Errorf("quota %s: %w", k, err)
	}
	if !ok {
		return &LimitError{Key: k, Limit: limit}
	}
	return nil
}

// Allow is CheckAndIncrement with the configured limit for action.
func (g *Guard) Allow(ctx context.Context, subject string, action Action) error {
	return g.CheckAndIncrement(ctx, subject, action, g.limits[action])
}

// Remaining reports how many calls subject has left today for action.
func (g *Guard) Remaining(ctx context.Context, subject string, action Action) (int, error) {
	n, err := g.store.Get(ctx, g.key(subject, action))
	if err != nil {
		return 0, err
	}
	left := g.limits[action] - n
	if left < 0 {
		left = 0
	}
	return left, nil
}

// DayStart returns midnight of t's calendar day in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// FormatDay renders t as a counter day in loc.
func FormatDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}
