// Package quota enforces a per-caller daily request allowance.
package quota

import (
	"context"
	"errors"
	"time"
)

// DefaultDailyLimit is the number of requests a caller may make per calendar day.
const DefaultDailyLimit = 5

// LimitMessage is returned to callers that exhausted their allowance.
const LimitMessage = "Daily free limit reached. Upgrade to continue."

var ErrLimitReached = errors.New("daily limit reached")

// Checker decides whether the caller identified by id may proceed.
// A nil error means the request was counted against the caller's quota.
type Checker interface {
	Allow(ctx context.Context, id string) error
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

type Option func(*options)

type options struct {
	now Clock
	loc *time.Location
}

func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.now = clock
		}
	}
}

// WithLocation sets the time zone that defines a calendar day. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DayKey formats the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	return DayKey(a, loc) == DayKey(b, loc)
}
