package schedule

import (
	"fmt"
	"time"

	"github.com/reugn/go-schedule/internal/csm"
)

// CronTrigger implements the [Trigger] interface for cron expressions of the
// form <second> <minute> <hour> <day-of-month> <month> <day-of-week>.
//
// Months are zero-based (0 is January) and days of the week start at
// Sunday (0). A day matches when both the day-of-month and the
// day-of-week fields match it.
//
// CronTrigger is stateful: each computed time becomes the basis of the next
// computation. It is not safe for concurrent use.
type CronTrigger struct {
	expression string
	fields     [fieldCount]MatchSet
	location   *time.Location
	machine    *csm.CronStateMachine
	nextTime   time.Time
	exhausted  bool
}

// Verify CronTrigger satisfies the Trigger interface.
var _ Trigger = (*CronTrigger)(nil)

// NewCronTrigger returns a new [CronTrigger] using the local time zone.
func NewCronTrigger(expression string) (*CronTrigger, error) {
	return NewCronTriggerWithLoc(expression, time.Local)
}

// NewCronTriggerWithLoc returns a new [CronTrigger] evaluated in the given
// location.
func NewCronTriggerWithLoc(expression string, location *time.Location) (*CronTrigger, error) {
	if location == nil {
		return nil, illegalArgumentError("location is nil")
	}
	fields, err := DecodeTrigger(expression)
	if err != nil {
		return nil, err
	}
	machine := csm.NewCronStateMachine(
		fields[FieldSecond],
		fields[FieldMinute],
		fields[FieldHour],
		fields[FieldDayOfMonth],
		fields[FieldMonth],
		fields[FieldDayOfWeek],
		location,
	)
	return &CronTrigger{
		expression: expression,
		fields:     fields,
		location:   location,
		machine:    machine,
	}, nil
}

// Fields returns the decoded fields of the expression.
func (ct *CronTrigger) Fields() [fieldCount]MatchSet {
	return ct.fields
}

// ExecuteTime returns the last computed execution time, or the zero time
// if none has been computed yet.
func (ct *CronTrigger) ExecuteTime() time.Time {
	return ct.nextTime
}

// NextExecuteTime returns the next execution time after the current one.
// The number of runs is not used by cron triggers.
func (ct *CronTrigger) NextExecuteTime(_ int) (time.Time, error) {
	prev := ct.nextTime
	if prev.IsZero() {
		prev = time.Now()
	}
	return ct.NextExecuteTimeAfter(prev)
}

// NextExecuteTimeAfter computes the first execution time strictly after
// prev and stores it as the current execution time. Once no time can be
// found the trigger is exhausted and returns an error matching both
// ErrUnsatisfiable and ErrTriggerExhausted.
func (ct *CronTrigger) NextExecuteTimeAfter(prev time.Time) (time.Time, error) {
	if ct.exhausted {
		return time.Time{}, ErrTriggerExhausted
	}
	next, err := ct.machine.NextAfter(prev)
	if err != nil {
		ct.exhausted = true
		ct.nextTime = time.Time{}
		return time.Time{}, unsatisfiableError(err)
	}
	ct.nextTime = next
	return next, nil
}

// Expression returns the cron expression of the trigger.
func (ct *CronTrigger) Expression() string {
	return ct.expression
}

// Description returns the description of the cron trigger.
func (ct *CronTrigger) Description() string {
	return fmt.Sprintf("CronTrigger%s%s", Sep, ct.expression)
}
