package quota

import (
	"context"
	"fmt"
	"time"
)

// Record is the usage of a single caller.
type Record struct {
	Count    int       `json:"count"`
	LastUsed time.Time `json:"last_used"`
}

// Store persists quota records by caller identity.
type Store interface {
	Get(ctx context.Context, id string) (Record, bool, error)
	Put(ctx context.Context, id string, record Record) error
}

// Limiter applies the daily allowance on top of a Store. Get and Put are
// separate calls, so concurrent requests for the same id may both pass the
// check before either increment is stored.
type Limiter struct {
	store Store
	limit int
	now   Clock
	loc   *time.Location
}

func NewLimiter(store Store, limit int, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	o := newOptions(opts)

	return &Limiter{
		store: store,
		limit: limit,
		now:   o.now,
		loc:   o.loc,
	}
}

func (l *Limiter) Allow(ctx context.Context, id string) error {
	now := l.now()

	record, found, err := l.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("read quota record: %w", err)
	}

	switch {
	case !found || !sameDay(record.LastUsed, now, l.loc):
		record = Record{Count: 1, LastUsed: now}
	case record.Count >= l.limit:
		return ErrLimitReached
	default:
		record.Count++
		record.LastUsed = now
	}

	if err := l.store.Put(ctx, id, record); err != nil {
		return fmt.Errorf("write quota record: %w", err)
	}
	return nil
}

// Limit returns the configured daily allowance.
func (l *Limiter) Limit() int {
	return l.limit
}
