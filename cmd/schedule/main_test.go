package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/reugn/go-schedule/internal/assert"
	"github.com/reugn/go-schedule/internal/config"
	"github.com/reugn/go-schedule/logger"
	"github.com/reugn/go-schedule/schedule"
)

func TestRunNext(t *testing.T) {
	var b bytes.Buffer
	err := runNext(&b, "0 0 12 * * 1-5", nextOptions{
		count: 3,
		from:  "2024-01-05T12:00:00Z",
		utc:   true,
	})
	assert.IsNil(t, err)
	assert.Equal(t, strings.Split(strings.TrimSpace(b.String()), "\n"), []string{
		"2024-01-08T12:00:00Z",
		"2024-01-09T12:00:00Z",
		"2024-01-10T12:00:00Z",
	})
}

func TestRunNextErrors(t *testing.T) {
	var b bytes.Buffer
	assert.NotEqual(t, runNext(&b, "* * * * * *", nextOptions{count: 0}), nil)
	assert.NotEqual(t, runNext(&b, "* * * * * *", nextOptions{count: 1, from: "now"}), nil)

	err := runNext(&b, "* * *", nextOptions{count: 1})
	assert.ErrorIs(t, err, schedule.ErrCronParse)

	err = runNext(&b, "0 0 0 30 1 *", nextOptions{count: 1, utc: true})
	assert.ErrorIs(t, err, schedule.ErrUnsatisfiable)
	assert.Equal(t, b.Len(), 0)
}

func TestNewLogger(t *testing.T) {
	formats := []string{config.FormatText, config.FormatJSON, config.FormatZerolog, config.FormatZap}
	for _, format := range formats {
		t.Run(format, func(t *testing.T) {
			var b bytes.Buffer
			l, err := newLogger(config.LogConfig{Level: "info", Format: format}, &b)
			assert.IsNil(t, err)
			l.Debug("hidden")
			l.Info("visible", "job", 1)
			assert.True(t, !strings.Contains(b.String(), "hidden"), b.String())
			assert.Contains(t, b.String(), "visible")
		})
	}

	_, err := newLogger(config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.NotEqual(t, err, nil)
	_, err = newLogger(config.LogConfig{Level: "loud", Format: config.FormatText}, &bytes.Buffer{})
	assert.NotEqual(t, err, nil)
}

func TestScheduleJobs(t *testing.T) {
	sched, err := newScheduler(config.SchedulerConfig{
		Name:      "cli",
		Tolerance: schedule.DefaultTolerance,
		Location:  "UTC",
	}, logger.NoOpLogger{})
	assert.IsNil(t, err)
	assert.Equal(t, sched.Name(), "cli")

	jobs := []config.JobConfig{
		{Name: "cron", Cron: "0 0 0 * * *", Handler: config.HandlerLog},
		{Name: "shell", Period: time.Hour, Handler: config.HandlerShell, Command: "true"},
		{Name: "http", Start: "2030-01-01T00:00:00Z", Handler: config.HandlerHTTP,
			URL: "http://localhost/health", Method: "POST", Body: "{}"},
	}
	assert.IsNil(t, scheduleJobs(sched, jobs, logger.NoOpLogger{}))
	assert.Equal(t, sched.JobIDs(), []schedule.JobID{1, 2, 3})

	info, err := sched.GetJob(3)
	assert.IsNil(t, err)
	assert.Equal(t, info.NextRunTime.Year(), 2030)

	err = scheduleJobs(sched, []config.JobConfig{{Cron: "0 0 0 30 1 *", Handler: config.HandlerLog}},
		logger.NoOpLogger{})
	assert.ErrorIs(t, err, schedule.ErrUnsatisfiable)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		Scheduler: config.SchedulerConfig{Location: "UTC"},
		Log:       config.LogConfig{Level: "off", Format: config.FormatText},
		Jobs: []config.JobConfig{
			{Name: "tick", Period: 10 * time.Millisecond, Handler: config.HandlerLog},
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()
	select {
	case err := <-done:
		assert.IsNil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
}
