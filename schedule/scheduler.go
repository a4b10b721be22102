package schedule

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/reugn/go-schedule/internal/pqueue"
	"github.com/reugn/go-schedule/logger"
)

// Scheduler runs callbacks at the execution times computed by their
// triggers.
//
// A single loop goroutine owns the wake-up timer and runs all due callbacks
// sequentially. Each job has at most one pending execution time in the
// queue; cancelled jobs are removed from the registry and their queue
// entries are discarded lazily. Callbacks are invoked without internal locks
// held, so they may schedule and cancel jobs.
type Scheduler struct {
	mtx       sync.Mutex
	wg        sync.WaitGroup
	jobs      map[JobID]*Job
	queue     *pqueue.Queue[entry]
	ids       idGenerator
	interrupt chan struct{}
	cancel    context.CancelFunc
	started   bool
	runs      uint64
	done      chan struct{}
	lateRuns  atomic.Int64
	opts      options
	logger    logger.Logger
}

// NewScheduler returns a new Scheduler configured by the given options.
func NewScheduler(opts ...Option) (*Scheduler, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return &Scheduler{
		jobs:      make(map[JobID]*Job),
		queue:     newEntryQueue(),
		interrupt: make(chan struct{}, 1),
		opts:      o,
		logger:    o.logger,
	}, nil
}

// Name returns the name of the scheduler.
func (sched *Scheduler) Name() string {
	return sched.opts.name
}

// ScheduleJob registers the callback to be invoked with data at every
// execution time of the trigger described by spec. It fails without
// registering anything if the spec is malformed, the callback is nil or a
// cron expression has no execution time at all.
func (sched *Scheduler) ScheduleJob(spec TriggerSpec, cb Callback, data any) (JobID, error) {
	if cb == nil {
		return 0, illegalArgumentError("callback is nil")
	}
	trigger, err := newTrigger(spec, time.Now(), sched.opts.location)
	if err != nil {
		return 0, err
	}

	job := &Job{
		id:       sched.ids.next(),
		kind:     spec.Kind(),
		trigger:  trigger,
		callback: cb,
		data:     data,
	}
	due := trigger.ExecuteTime()

	sched.mtx.Lock()
	head, ok := sched.queue.Peek()
	earliest := !ok || due.Before(head.time)
	sched.jobs[job.id] = job
	sched.queue.Push(entry{id: job.id, time: due})
	sched.mtx.Unlock()

	sched.logger.Debug("Job scheduled", "scheduler", sched.opts.name, "job", job.id,
		"trigger", trigger.Description(), "next", due)
	if earliest {
		sched.reset()
	}
	return job.id, nil
}

// CancelJob removes the job from the scheduler. A run in progress is not
// interrupted but the job is not rescheduled. Cancelling an unknown id is a
// no-op; CancelJob always returns true.
func (sched *Scheduler) CancelJob(id JobID) bool {
	sched.mtx.Lock()
	delete(sched.jobs, id)
	head, ok := sched.queue.Peek()
	rearm := ok && head.id == id
	if rearm {
		sched.queue.Pop()
	}
	sched.mtx.Unlock()

	if rearm {
		sched.reset()
	}
	return true
}

// GetJob returns a snapshot of the job with the given id.
func (sched *Scheduler) GetJob(id JobID) (JobInfo, error) {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	job, ok := sched.jobs[id]
	if !ok {
		return JobInfo{}, jobNotFoundError(fmt.Sprintf("for id %d", id))
	}
	return job.info(), nil
}

// JobIDs returns the ids of all scheduled jobs in ascending order.
func (sched *Scheduler) JobIDs() []JobID {
	sched.mtx.Lock()
	ids := make([]JobID, 0, len(sched.jobs))
	for id := range sched.jobs {
		ids = append(ids, id)
	}
	sched.mtx.Unlock()

	slices.Sort(ids)
	return ids
}

// Len returns the number of scheduled jobs.
func (sched *Scheduler) Len() int {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	return len(sched.jobs)
}

// Clear removes all of the scheduled jobs.
func (sched *Scheduler) Clear() {
	sched.mtx.Lock()
	sched.jobs = make(map[JobID]*Job)
	sched.queue = newEntryQueue()
	sched.mtx.Unlock()

	sched.reset()
}

// LateRuns returns the number of runs that started later than the late
// threshold.
func (sched *Scheduler) LateRuns() int64 {
	return sched.lateRuns.Load()
}

// Start starts the scheduler execution loop. The scheduler runs until Stop
// is called or the context is canceled. Use Wait to block until the loop
// has exited. When restarted while the previous loop is still finishing a
// callback, the new loop does not dispatch until the previous one exits.
func (sched *Scheduler) Start(ctx context.Context) {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	if sched.started {
		sched.logger.Info("Scheduler is already running", "scheduler", sched.opts.name)
		return
	}

	ctx, sched.cancel = context.WithCancel(ctx)
	sched.runs++
	prev, done := sched.done, make(chan struct{})
	sched.done = done

	sched.wg.Add(1)
	go sched.startExecutionLoop(ctx, sched.runs, prev, done)

	sched.started = true
	sched.logger.Info("Scheduler started", "scheduler", sched.opts.name)
}

// IsStarted determines whether the scheduler has been started.
func (sched *Scheduler) IsStarted() bool {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	return sched.started
}

// Wait blocks until the execution loop exits, including any callback it is
// running, or the context expires.
func (sched *Scheduler) Wait(ctx context.Context) {
	sig := make(chan struct{})
	go func() { defer close(sig); sched.wg.Wait() }()
	select {
	case <-ctx.Done():
	case <-sig:
	}
}

// Stop exits the execution loop. Scheduled jobs are kept and resume when
// the scheduler is started again.
func (sched *Scheduler) Stop() {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	if !sched.started {
		return
	}

	sched.logger.Info("Stopping the scheduler", "scheduler", sched.opts.name)
	sched.cancel()
	sched.started = false
}

func (sched *Scheduler) startExecutionLoop(ctx context.Context, run uint64,
	prev <-chan struct{}, done chan<- struct{}) {
	defer sched.wg.Done()
	defer close(done)
	defer sched.exited(run)

	// one loop dispatches at a time
	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			return
		}
	}
	for {
		delay, armed := sched.nextDelay()
		if !armed {
			select {
			case <-sched.interrupt:
			case <-ctx.Done():
				sched.logger.Debug("Exit the empty execution loop", "scheduler", sched.opts.name)
				return
			}
			continue
		}

		t := time.NewTimer(delay)
		select {
		case <-t.C:
			sched.drainDue(ctx)

		case <-sched.interrupt:
			t.Stop()

		case <-ctx.Done():
			sched.logger.Debug("Exit the execution loop", "scheduler", sched.opts.name)
			t.Stop()
			return
		}
	}
}

// exited marks the scheduler as stopped when the loop of the current run
// exits because its parent context was canceled.
func (sched *Scheduler) exited(run uint64) {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	if sched.started && sched.runs == run {
		sched.cancel()
		sched.started = false
	}
}

// nextDelay discards stale entries at the head of the queue and returns the
// time until the earliest live execution. It reports false if there is
// nothing to wait for.
func (sched *Scheduler) nextDelay() (time.Duration, bool) {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	for {
		head, ok := sched.queue.Peek()
		if !ok {
			return 0, false
		}
		if _, live := sched.jobs[head.id]; !live {
			sched.queue.Pop()
			continue
		}
		return max(time.Until(head.time), 0), true
	}
}

// drainDue runs every job whose execution time is within the tolerance of
// the current time, in execution time order, and reschedules each one
// after its run. The current time is read again on each iteration so that
// long running callbacks do not hide jobs that became due meanwhile.
func (sched *Scheduler) drainDue(ctx context.Context) {
	for ctx.Err() == nil {
		sched.mtx.Lock()
		head, ok := sched.queue.Peek()
		if !ok {
			sched.mtx.Unlock()
			return
		}
		job, live := sched.jobs[head.id]
		if !live {
			sched.queue.Pop()
			sched.mtx.Unlock()
			continue
		}
		if time.Until(head.time) >= sched.opts.tolerance {
			sched.mtx.Unlock()
			return
		}
		sched.queue.Pop()
		sched.mtx.Unlock()

		job.run(ctx, sched, head.time)
		sched.reschedule(job)
	}
}

// reschedule queues the next execution time of the job, or retires the job
// once its trigger is exhausted. Jobs cancelled during their run are left
// retired.
func (sched *Scheduler) reschedule(job *Job) {
	sched.mtx.Lock()
	defer sched.mtx.Unlock()

	if _, live := sched.jobs[job.id]; !live {
		return
	}

	next, err := job.trigger.NextExecuteTime(int(job.runs.Load()))
	if err != nil {
		delete(sched.jobs, job.id)
		if errors.Is(err, ErrUnsatisfiable) {
			sched.logger.Error("Job retired", "scheduler", sched.opts.name, "job", job.id,
				"error", err.Error())
		} else {
			sched.logger.Debug("Job retired", "scheduler", sched.opts.name, "job", job.id,
				"runs", job.runs.Load())
		}
		return
	}
	sched.queue.Push(entry{id: job.id, time: next})
}

// reset interrupts the execution loop to recompute its wake-up time.
func (sched *Scheduler) reset() {
	select {
	case sched.interrupt <- struct{}{}:
	default:
	}
}
