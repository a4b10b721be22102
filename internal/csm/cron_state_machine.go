package csm

import (
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// MaxYear is the last year the search is allowed to reach.
	MaxYear = 2999

	// MaxIterations bounds the number of search steps of a single call.
	MaxIterations = 1 << 21
)

var (
	ErrYearLimit      = errors.Newf("search exceeded year %d", MaxYear)
	ErrIterationLimit = errors.Newf("search exceeded %d iterations", MaxIterations)
)

// CronStateMachine computes execution times for a decoded cron expression.
// It holds no mutable state and is safe for concurrent use.
type CronStateMachine struct {
	second csmNode
	minute csmNode
	hour   csmNode
	day    csmNode
	month  csmNode
	loc    *time.Location
}

// NewCronStateMachine returns a new CronStateMachine evaluating dates in loc.
func NewCronStateMachine(second, minute, hour, dayOfMonth, month, dayOfWeek Matcher,
	loc *time.Location) *CronStateMachine {
	if loc == nil {
		loc = time.Local
	}
	return &CronStateMachine{
		second: newCommonNode(seconds, second),
		minute: newCommonNode(minutes, minute),
		hour:   newCommonNode(hours, hour),
		day:    newDayNode(dayOfMonth, dayOfWeek),
		month:  newCommonNode(months, month),
		loc:    loc,
	}
}

// NextAfter returns the first instant strictly after prev, truncated to
// whole seconds, that fits all fields.
func (csm *CronStateMachine) NextAfter(prev time.Time) (time.Time, error) {
	c := newCursor(prev.Add(time.Second), csm.loc)
	for i := 0; i < MaxIterations; i++ {
		if c.year > MaxYear {
			return time.Time{}, ErrYearLimit
		}
		if !csm.findForward(c) {
			continue
		}

		next := c.time()
		if next.After(prev) {
			return next, nil
		}
		// an ambiguous wall clock time resolved to an earlier instant
		c.set(seconds, c.second+1)
		c.normalize()
	}
	return time.Time{}, ErrIterationLimit
}
