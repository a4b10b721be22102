package schedule

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

// JobID identifies a scheduled job. IDs are unique per Scheduler and never
// reused.
type JobID uint64

// String returns the decimal representation of the id.
func (id JobID) String() string {
	return fmt.Sprintf("%d", uint64(id))
}

// Callback is the function invoked when a job fires. The data argument is
// the opaque payload supplied at scheduling time. Both a returned error and
// a panic are treated as a failed run; neither affects the schedule.
type Callback func(ctx context.Context, data any) error

// idGenerator produces monotonically increasing job ids starting at 1.
type idGenerator struct {
	last atomic.Uint64
}

func (g *idGenerator) next() JobID {
	return JobID(g.last.Add(1))
}

// Job is a scheduled unit of work: a trigger, a callback and its payload.
type Job struct {
	id       JobID
	kind     TriggerKind
	trigger  Trigger
	callback Callback
	data     any
	runs     atomic.Int64
}

// JobInfo is a point-in-time snapshot of a scheduled job.
type JobInfo struct {
	ID          JobID
	Kind        TriggerKind
	Description string
	NextRunTime time.Time
	Runs        int
}

// info returns a snapshot of the job. The caller must hold the scheduler
// lock, since the trigger state is owned by the dispatch loop.
func (j *Job) info() JobInfo {
	return JobInfo{
		ID:          j.id,
		Kind:        j.kind,
		Description: j.trigger.Description(),
		NextRunTime: j.trigger.ExecuteTime(),
		Runs:        int(j.runs.Load()),
	}
}

// run executes the callback once for the execution time due. Failures are
// logged and never returned.
func (j *Job) run(ctx context.Context, sched *Scheduler, due time.Time) {
	j.runs.Add(1)

	if late := time.Since(due); late > sched.opts.lateThreshold {
		lateRuns := sched.lateRuns.Add(1)
		sched.logger.Warn("Job started late",
			"job", j.id, "late", late, "late_runs", lateRuns)
	}

	if err := j.invoke(ctx); err != nil {
		sched.logger.Error("Job failed", "job", j.id, "error", fmt.Sprintf("%+v", err))
		return
	}
	sched.logger.Trace("Job completed", "job", j.id)
}

// invoke calls the callback, converting a panic into an error.
func (j *Job) invoke(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = errors.Wrap(rerr, "callback panic")
			} else {
				err = errors.Newf("callback panic: %v", r)
			}
		}
	}()
	if err = j.callback(ctx, j.data); err != nil {
		return errors.Wrapf(err, "job %d", j.id)
	}
	return nil
}
