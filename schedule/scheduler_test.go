package schedule

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/reugn/go-schedule/internal/assert"
	"github.com/reugn/go-schedule/logger"
)

func newTestScheduler(t *testing.T, opts ...Option) (*Scheduler, *strings.Builder) {
	t.Helper()
	var b strings.Builder
	l := logger.NewSimpleLogger(log.New(&b, "", 0), logger.LevelTrace)
	sched, err := NewScheduler(append([]Option{WithLogger(l)}, opts...)...)
	assert.IsNil(t, err)
	return sched, &b
}

func counter(count *atomic.Int64) Callback {
	return func(_ context.Context, _ any) error {
		count.Add(1)
		return nil
	}
}

func TestNewSchedulerOptions(t *testing.T) {
	t.Parallel()
	sched, err := NewScheduler()
	assert.IsNil(t, err)
	assert.True(t, strings.HasPrefix(sched.Name(), "scheduler-"), sched.Name())
	assert.Equal(t, sched.opts.tolerance, DefaultTolerance)
	assert.Equal(t, sched.opts.lateThreshold, DefaultLateThreshold)
	assert.Equal(t, sched.opts.location, time.Local)

	sched, err = NewScheduler(WithName("test"), WithTolerance(time.Second),
		WithLateThreshold(time.Minute), WithLocation(time.UTC))
	assert.IsNil(t, err)
	assert.Equal(t, sched.Name(), "test")
	assert.Equal(t, sched.opts.tolerance, time.Second)
	assert.Equal(t, sched.opts.lateThreshold, time.Minute)
	assert.Equal(t, sched.opts.location, time.UTC)

	invalid := []Option{
		WithTolerance(-time.Millisecond),
		WithLateThreshold(-time.Millisecond),
		WithLocation(nil),
		WithLogger(nil),
		WithName(""),
	}
	for _, opt := range invalid {
		_, err := NewScheduler(opt)
		assert.ErrorIs(t, err, ErrIllegalArgument)
	}
}

func TestScheduleJobErrors(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t, WithLocation(time.UTC))
	noop := func(context.Context, any) error { return nil }

	_, err := sched.ScheduleJob(Cron("* * * * * *"), nil, nil)
	assert.ErrorIs(t, err, ErrIllegalArgument)

	_, err = sched.ScheduleJob(TriggerSpec{}, noop, nil)
	assert.ErrorIs(t, err, ErrIllegalArgument)

	_, err = sched.ScheduleJob(Cron("0 0 0 1 12 *"), noop, nil)
	assert.ErrorIs(t, err, ErrCronParse)

	_, err = sched.ScheduleJob(Cron("0 0 0 30 1 *"), noop, nil)
	assert.ErrorIs(t, err, ErrUnsatisfiable)

	assert.Equal(t, sched.Len(), 0)
	assert.Equal(t, sched.queue.Len(), 0)
}

func TestScheduleJobIDs(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t)
	var count atomic.Int64
	start := time.Now().Add(time.Hour)

	for i := 1; i <= 3; i++ {
		id, err := sched.ScheduleJob(Simple(SimpleSpec{Start: start}), counter(&count), i)
		assert.IsNil(t, err)
		assert.Equal(t, id, JobID(i))
	}
	assert.Equal(t, sched.JobIDs(), []JobID{1, 2, 3})
	assert.True(t, sched.CancelJob(2))
	assert.Equal(t, sched.JobIDs(), []JobID{1, 3})

	// unknown ids are a no-op
	assert.True(t, sched.CancelJob(42))
	assert.Equal(t, sched.Len(), 2)

	id, err := sched.ScheduleJob(Simple(SimpleSpec{Start: start}), counter(&count), nil)
	assert.IsNil(t, err)
	assert.Equal(t, id, JobID(4))
}

func TestGetJob(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t, WithLocation(time.UTC))
	noop := func(context.Context, any) error { return nil }

	id, err := sched.ScheduleJob(Cron("0 0 0 1 0 *"), noop, nil)
	assert.IsNil(t, err)

	info, err := sched.GetJob(id)
	assert.IsNil(t, err)
	assert.Equal(t, info.ID, id)
	assert.Equal(t, info.Kind, KindCron)
	assert.Equal(t, info.Description, "CronTrigger::0 0 0 1 0 *")
	assert.Equal(t, info.Runs, 0)
	assert.Equal(t, info.NextRunTime.Month(), time.January)
	assert.Equal(t, info.NextRunTime.Day(), 1)

	_, err = sched.GetJob(id + 1)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestClear(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t)
	var count atomic.Int64

	for i := 0; i < 5; i++ {
		_, err := sched.ScheduleJob(Simple(SimpleSpec{Period: time.Hour}), counter(&count), nil)
		assert.IsNil(t, err)
	}
	assert.Equal(t, sched.Len(), 5)

	sched.Clear()
	assert.Equal(t, sched.Len(), 0)
	assert.Equal(t, len(sched.JobIDs()), 0)

	sched.drainDue(context.Background())
	assert.Equal(t, count.Load(), int64(0))
}

func TestDrainRunsSimpleJobCountTimes(t *testing.T) {
	t.Parallel()
	sched, out := newTestScheduler(t)
	var count atomic.Int64

	// every period has already elapsed, so all runs are due at once
	start := time.Now().Add(-time.Second)
	id, err := sched.ScheduleJob(Simple(SimpleSpec{
		Start:  start,
		Period: time.Millisecond,
		Count:  3,
	}), counter(&count), nil)
	assert.IsNil(t, err)

	sched.drainDue(context.Background())
	assert.Equal(t, count.Load(), int64(3))
	assert.Equal(t, sched.Len(), 0)
	assert.Equal(t, sched.queue.Len(), 0)

	_, err = sched.GetJob(id)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Contains(t, out.String(), "Job retired")
}

func TestDrainWithinToleranceInOrder(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t, WithTolerance(time.Second))

	var mtx sync.Mutex
	var fired []time.Time
	record := func(_ context.Context, data any) error {
		mtx.Lock()
		defer mtx.Unlock()
		fired = append(fired, data.(time.Time))
		return nil
	}

	base := time.Now()
	for _, offset := range []int{40, 0, 30, 10, 20, 10} {
		start := base.Add(time.Duration(offset) * time.Millisecond)
		_, err := sched.ScheduleJob(Simple(SimpleSpec{Start: start}), record, start)
		assert.IsNil(t, err)
	}
	// outside of the tolerance window
	later := base.Add(time.Hour)
	_, err := sched.ScheduleJob(Simple(SimpleSpec{Start: later}), record, later)
	assert.IsNil(t, err)

	sched.drainDue(context.Background())

	mtx.Lock()
	defer mtx.Unlock()
	assert.Equal(t, len(fired), 6)
	for i := 1; i < len(fired); i++ {
		assert.True(t, !fired[i].Before(fired[i-1]), fired)
	}
	assert.Equal(t, sched.Len(), 1)
}

func TestDrainStopsAtFutureHead(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t)
	var count atomic.Int64

	_, err := sched.ScheduleJob(Simple(SimpleSpec{Start: time.Now().Add(time.Hour)}),
		counter(&count), nil)
	assert.IsNil(t, err)

	sched.drainDue(context.Background())
	assert.Equal(t, count.Load(), int64(0))
	assert.Equal(t, sched.queue.Len(), 1)

	delay, armed := sched.nextDelay()
	assert.True(t, armed)
	assert.True(t, delay > 59*time.Minute, delay)
}

func TestFailingCallbackKeepsSchedule(t *testing.T) {
	t.Parallel()
	callbacks := map[string]Callback{
		"error": func(context.Context, any) error {
			return errors.New("callback error")
		},
		"panic error": func(context.Context, any) error {
			panic(errors.New("callback panic error"))
		},
		"panic value": func(context.Context, any) error {
			panic("callback panic value")
		},
	}

	for name, cb := range callbacks {
		cb := cb
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			sched, out := newTestScheduler(t)
			var count atomic.Int64
			failing := func(ctx context.Context, data any) error {
				count.Add(1)
				return cb(ctx, data)
			}

			_, err := sched.ScheduleJob(Simple(SimpleSpec{
				Start:  time.Now().Add(-time.Second),
				Period: time.Millisecond,
				Count:  3,
			}), failing, nil)
			assert.IsNil(t, err)

			sched.drainDue(context.Background())
			assert.Equal(t, count.Load(), int64(3))
			assert.Equal(t, strings.Count(out.String(), "Job failed"), 3)
		})
	}
}

func TestLateRuns(t *testing.T) {
	t.Parallel()
	sched, out := newTestScheduler(t, WithLateThreshold(100*time.Millisecond))
	var count atomic.Int64

	_, err := sched.ScheduleJob(Simple(SimpleSpec{Start: time.Now().Add(-time.Second)}),
		counter(&count), nil)
	assert.IsNil(t, err)
	_, err = sched.ScheduleJob(Simple(SimpleSpec{}), counter(&count), nil)
	assert.IsNil(t, err)

	sched.drainDue(context.Background())
	assert.Equal(t, count.Load(), int64(2))
	assert.Equal(t, sched.LateRuns(), int64(1))
	assert.Contains(t, out.String(), "Job started late")
	assert.Contains(t, out.String(), "late_runs=1")
}

func TestCallbackMutatesScheduler(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t)
	var count atomic.Int64
	later := time.Now().Add(time.Hour)

	var victim JobID
	_, err := sched.ScheduleJob(Simple(SimpleSpec{}), func(context.Context, any) error {
		if _, err := sched.ScheduleJob(Simple(SimpleSpec{Start: later}), counter(&count), nil); err != nil {
			return err
		}
		sched.CancelJob(victim)
		return nil
	}, nil)
	assert.IsNil(t, err)

	victim, err = sched.ScheduleJob(Simple(SimpleSpec{Period: time.Hour}), counter(&count), nil)
	assert.IsNil(t, err)

	sched.drainDue(context.Background())
	_, err = sched.GetJob(victim)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Equal(t, sched.JobIDs(), []JobID{3})
}

func TestCancelDuringRunRetires(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t)

	var id JobID
	var err error
	id, err = sched.ScheduleJob(Simple(SimpleSpec{Period: time.Millisecond}),
		func(context.Context, any) error {
			sched.CancelJob(id)
			return nil
		}, nil)
	assert.IsNil(t, err)

	sched.drainDue(context.Background())
	assert.Equal(t, sched.Len(), 0)
	assert.Equal(t, sched.queue.Len(), 0)
}

func TestCancelEarliestRearms(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t)
	var count atomic.Int64
	now := time.Now()

	first, err := sched.ScheduleJob(Simple(SimpleSpec{Start: now.Add(time.Hour)}),
		counter(&count), nil)
	assert.IsNil(t, err)
	_, err = sched.ScheduleJob(Simple(SimpleSpec{Start: now.Add(2 * time.Hour)}),
		counter(&count), nil)
	assert.IsNil(t, err)

	// drop the pending interrupts of the scheduling calls
	select {
	case <-sched.interrupt:
	default:
	}

	sched.CancelJob(first)
	select {
	case <-sched.interrupt:
	default:
		t.Fatal("expected an interrupt")
	}

	assert.Equal(t, sched.queue.Len(), 1)
	delay, armed := sched.nextDelay()
	assert.True(t, armed)
	assert.True(t, delay > 119*time.Minute, delay)
}

func TestStaleEntriesDiscarded(t *testing.T) {
	t.Parallel()
	sched, _ := newTestScheduler(t)
	var count atomic.Int64
	now := time.Now()

	first, err := sched.ScheduleJob(Simple(SimpleSpec{Start: now.Add(time.Hour)}),
		counter(&count), nil)
	assert.IsNil(t, err)
	second, err := sched.ScheduleJob(Simple(SimpleSpec{Start: now.Add(2 * time.Hour)}),
		counter(&count), nil)
	assert.IsNil(t, err)

	// not the head, the entry stays queued until it surfaces
	sched.CancelJob(second)
	assert.Equal(t, sched.queue.Len(), 2)
	assert.Equal(t, sched.Len(), 1)

	delay, armed := sched.nextDelay()
	assert.True(t, armed)
	assert.True(t, delay < time.Hour+time.Second, delay)

	sched.CancelJob(first)
	assert.Equal(t, sched.queue.Len(), 1)

	_, armed = sched.nextDelay()
	assert.True(t, !armed)
	assert.Equal(t, sched.queue.Len(), 0)
}

type unsatisfiableTrigger struct {
	due time.Time
}

func (tr *unsatisfiableTrigger) ExecuteTime() time.Time { return tr.due }

func (tr *unsatisfiableTrigger) NextExecuteTime(_ int) (time.Time, error) {
	return time.Time{}, unsatisfiableError(errors.New("no time left"))
}

func (tr *unsatisfiableTrigger) Description() string { return "unsatisfiable" }

func TestUnsatisfiableRetirement(t *testing.T) {
	t.Parallel()
	sched, out := newTestScheduler(t)
	var count atomic.Int64

	due := time.Now()
	job := &Job{
		id:       sched.ids.next(),
		kind:     KindCron,
		trigger:  &unsatisfiableTrigger{due: due},
		callback: counter(&count),
	}
	sched.jobs[job.id] = job
	sched.queue.Push(entry{id: job.id, time: due})

	sched.drainDue(context.Background())
	assert.Equal(t, count.Load(), int64(1))
	assert.Equal(t, sched.Len(), 0)
	assert.Contains(t, out.String(), "ERROR msg=Job retired")
	assert.Contains(t, out.String(), "unsatisfiable schedule")
}

func TestSchedulerLifecycle(t *testing.T) {
	t.Parallel()
	sched, err := NewScheduler()
	assert.IsNil(t, err)
	assert.True(t, !sched.IsStarted())

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)
	sched.Start(ctx)
	assert.True(t, sched.IsStarted())

	sched.Stop()
	assert.True(t, !sched.IsStarted())
	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	sched.Wait(waitCtx)
	assert.IsNil(t, waitCtx.Err())
	waitCancel()

	// restart and stop through the parent context
	sched.Start(ctx)
	assert.True(t, sched.IsStarted())
	cancel()
	waitCtx, waitCancel = context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	sched.Wait(waitCtx)
	assert.IsNil(t, waitCtx.Err())
	assert.True(t, !sched.IsStarted())
}

func TestSchedulerRunsJobs(t *testing.T) {
	t.Parallel()
	sched, err := NewScheduler()
	assert.IsNil(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		sched.Wait(context.Background())
	}()
	sched.Start(ctx)

	var cancelled atomic.Int64
	done := make(chan JobID, 8)
	notify := func(_ context.Context, data any) error {
		done <- data.(JobID)
		return nil
	}

	now := time.Now()
	first, err := sched.ScheduleJob(Simple(SimpleSpec{Start: now.Add(100 * time.Millisecond)}),
		counter(&cancelled), nil)
	assert.IsNil(t, err)
	_, err = sched.ScheduleJob(Simple(SimpleSpec{Start: now.Add(150 * time.Millisecond)}),
		notify, JobID(2))
	assert.IsNil(t, err)
	sched.CancelJob(first)

	_, err = sched.ScheduleJob(Simple(SimpleSpec{
		Start:  now.Add(20 * time.Millisecond),
		Period: 20 * time.Millisecond,
		Count:  3,
	}), notify, JobID(3))
	assert.IsNil(t, err)

	var got []JobID
	timeout := time.After(5 * time.Second)
	for len(got) < 4 {
		select {
		case id := <-done:
			got = append(got, id)
		case <-timeout:
			t.Fatalf("timed out, fired %v", got)
		}
	}

	counts := make(map[JobID]int)
	for _, id := range got {
		counts[id]++
	}
	assert.Equal(t, counts[2], 1)
	assert.Equal(t, counts[3], 3)
	assert.Equal(t, cancelled.Load(), int64(0))
}

func TestSchedulerCron(t *testing.T) {
	t.Parallel()
	sched, err := NewScheduler(WithLocation(time.UTC))
	assert.IsNil(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		sched.Wait(context.Background())
	}()
	sched.Start(ctx)

	fired := make(chan time.Time, 4)
	_, err = sched.ScheduleJob(Cron("* * * * * *"), func(context.Context, any) error {
		fired <- time.Now()
		return nil
	}, nil)
	assert.IsNil(t, err)

	timeout := time.After(5 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-timeout:
			t.Fatal("cron job did not fire")
		}
	}
}

func TestRestartWaitsForRunningCallback(t *testing.T) {
	t.Parallel()
	sched, err := NewScheduler()
	assert.IsNil(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		sched.Wait(context.Background())
	}()

	var active, peak atomic.Int64
	started := make(chan struct{}, 2)
	finished := make(chan struct{}, 2)
	slow := func(context.Context, any) error {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		started <- struct{}{}
		time.Sleep(300 * time.Millisecond)
		active.Add(-1)
		finished <- struct{}{}
		return nil
	}

	_, err = sched.ScheduleJob(Simple(SimpleSpec{}), slow, nil)
	assert.IsNil(t, err)
	sched.Start(ctx)

	timeout := time.After(5 * time.Second)
	select {
	case <-started:
	case <-timeout:
		t.Fatal("first callback did not start")
	}

	sched.Stop()
	sched.Start(ctx)
	_, err = sched.ScheduleJob(Simple(SimpleSpec{}), slow, nil)
	assert.IsNil(t, err)

	for i := 0; i < 2; i++ {
		select {
		case <-finished:
		case <-timeout:
			t.Fatalf("%d callbacks finished", i)
		}
	}
	assert.Equal(t, peak.Load(), int64(1))
}
