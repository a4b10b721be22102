package schedule

import (
	"fmt"
	"time"
)

// SimpleSpec describes an interval trigger.
type SimpleSpec struct {
	// Start is the first execution time. The zero value means now.
	Start time.Time

	// Period is the interval between executions. A non-positive period
	// means the job runs once.
	Period time.Duration

	// Count is the maximum number of runs. A non-positive count means
	// no limit.
	Count int

	// CatchUpMissedPeriods makes the trigger skip every period that has
	// already elapsed, so a late job fires once and then resumes on its
	// grid instead of firing once per missed period.
	// Default: false.
	CatchUpMissedPeriods bool
}

// SimpleTrigger implements the [Trigger] interface, firing at Start and then
// every Period until Count runs have completed.
type SimpleTrigger struct {
	spec      SimpleSpec
	nextTime  time.Time
	exhausted bool
	now       func() time.Time
}

// Verify SimpleTrigger satisfies the Trigger interface.
var _ Trigger = (*SimpleTrigger)(nil)

// NewSimpleTrigger returns a new [SimpleTrigger]. A zero Start is replaced
// with the current time.
func NewSimpleTrigger(spec SimpleSpec) *SimpleTrigger {
	if spec.Start.IsZero() {
		spec.Start = time.Now()
	}
	return &SimpleTrigger{
		spec:     spec,
		nextTime: spec.Start,
		now:      time.Now,
	}
}

// ExecuteTime returns the current execution time.
func (st *SimpleTrigger) ExecuteTime() time.Time {
	return st.nextTime
}

// NextExecuteTime advances the trigger by one period. It returns
// ErrTriggerExhausted when the run count limit is reached or the trigger
// does not recur. Exhaustion is permanent.
func (st *SimpleTrigger) NextExecuteTime(runs int) (time.Time, error) {
	period := st.spec.Period
	if st.exhausted || (st.spec.Count > 0 && runs >= st.spec.Count) || period <= 0 {
		st.exhausted = true
		return time.Time{}, ErrTriggerExhausted
	}

	st.nextTime = st.nextTime.Add(period)

	if st.spec.CatchUpMissedPeriods {
		if now := st.now(); st.nextTime.Before(now) {
			missed := now.Sub(st.nextTime) / period
			st.nextTime = st.nextTime.Add(missed * period)
		}
	}

	return st.nextTime, nil
}

// Description returns the description of the trigger.
func (st *SimpleTrigger) Description() string {
	return fmt.Sprintf("SimpleTrigger%s%s%s%d", Sep, st.spec.Period, Sep, st.spec.Count)
}
