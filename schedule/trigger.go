package schedule

import (
	"time"
)

// Trigger computes the execution times of a Job.
type Trigger interface {
	// ExecuteTime returns the current execution time.
	ExecuteTime() time.Time

	// NextExecuteTime advances the trigger and returns the new execution
	// time, given the number of completed runs of the owning job.
	// An error matching ErrTriggerExhausted is returned once the trigger
	// will not fire again.
	NextExecuteTime(runs int) (time.Time, error)

	// Description returns the description of the Trigger.
	Description() string
}

// TriggerKind identifies the variant of a TriggerSpec.
type TriggerKind int8

const (
	// KindCron is a cron expression trigger.
	KindCron TriggerKind = iota + 1

	// KindSimple is an interval trigger.
	KindSimple
)

// String returns the name of the kind.
func (k TriggerKind) String() string {
	switch k {
	case KindCron:
		return "cron"
	case KindSimple:
		return "simple"
	}
	return "unknown"
}

// TriggerSpec describes the trigger of a job to be scheduled.
// Use Cron or Simple to create one.
type TriggerSpec struct {
	kind   TriggerKind
	cron   string
	simple SimpleSpec
}

// Cron returns a TriggerSpec for the cron expression.
func Cron(expression string) TriggerSpec {
	return TriggerSpec{kind: KindCron, cron: expression}
}

// Simple returns a TriggerSpec for the interval description.
func Simple(spec SimpleSpec) TriggerSpec {
	return TriggerSpec{kind: KindSimple, simple: spec}
}

// Kind returns the variant of the spec.
func (s TriggerSpec) Kind() TriggerKind {
	return s.kind
}

// newTrigger constructs the trigger described by the spec with its first
// execution time computed relative to now.
func newTrigger(spec TriggerSpec, now time.Time, loc *time.Location) (Trigger, error) {
	switch spec.kind {
	case KindCron:
		trigger, err := NewCronTriggerWithLoc(spec.cron, loc)
		if err != nil {
			return nil, err
		}
		if _, err := trigger.NextExecuteTimeAfter(now); err != nil {
			return nil, err
		}
		return trigger, nil
	case KindSimple:
		simple := spec.simple
		if simple.Start.IsZero() {
			simple.Start = now
		}
		return NewSimpleTrigger(simple), nil
	}
	return nil, illegalArgumentError("empty trigger spec")
}
