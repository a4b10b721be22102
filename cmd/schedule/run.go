package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reugn/go-schedule/internal/config"
	"github.com/reugn/go-schedule/job"
	"github.com/reugn/go-schedule/logger"
	"github.com/reugn/go-schedule/schedule"
)

var configPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the jobs of a configuration file",
	Long: `Run the jobs of a configuration file until interrupted.

Configuration keys can be overridden with SCHEDULE_* environment variables,
e.g. SCHEDULE_LOG_LEVEL=debug.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	},
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "jobs.yaml", "Path to the configuration file")
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	sched, err := newScheduler(cfg.Scheduler, log)
	if err != nil {
		return err
	}
	if err := scheduleJobs(sched, cfg.Jobs, log); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Start(ctx)
		sched.Wait(context.Background())
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down", "scheduler", sched.Name())
		sched.Stop()
		return nil
	})
	return g.Wait()
}

func newScheduler(cfg config.SchedulerConfig, log logger.Logger) (*schedule.Scheduler, error) {
	loc, err := cfg.LoadLocation()
	if err != nil {
		return nil, err
	}
	opts := []schedule.Option{
		schedule.WithLogger(log),
		schedule.WithLocation(loc),
		schedule.WithTolerance(cfg.Tolerance),
		schedule.WithLateThreshold(cfg.LateThreshold),
	}
	if cfg.Name != "" {
		opts = append(opts, schedule.WithName(cfg.Name))
	}
	return schedule.NewScheduler(opts...)
}

func scheduleJobs(sched *schedule.Scheduler, jobs []config.JobConfig, log logger.Logger) error {
	for i, jobConfig := range jobs {
		spec, err := jobConfig.TriggerSpec()
		if err != nil {
			return errors.Wrapf(err, "jobs[%d]", i)
		}
		cb, err := newCallback(jobConfig, log)
		if err != nil {
			return errors.Wrapf(err, "jobs[%d]", i)
		}
		id, err := sched.ScheduleJob(spec, cb, jobConfig.Name)
		if err != nil {
			return errors.Wrapf(err, "jobs[%d]", i)
		}
		log.Info("Job registered", "job", id, "name", jobConfig.Name, "handler", jobConfig.Handler)
	}
	return nil
}

func newCallback(cfg config.JobConfig, log logger.Logger) (schedule.Callback, error) {
	switch cfg.Handler {
	case config.HandlerLog:
		message := cfg.Message
		if message == "" {
			message = "Job fired"
		}
		return job.Func(func(_ context.Context, name string) error {
			log.Info(message, "name", name)
			return nil
		}), nil

	case config.HandlerShell:
		shellJob := job.NewShellJobWithCallback(cfg.Command, func(_ context.Context, sh *job.ShellJob) {
			log.Debug("Shell job finished", "name", cfg.Name, "exit_code", sh.ExitCode(),
				"stdout", strings.TrimSpace(sh.Stdout()))
		})
		return job.Isolated(shellJob.Execute), nil

	case config.HandlerHTTP:
		method := cfg.Method
		if method == "" {
			method = http.MethodGet
		}
		var body io.Reader
		if cfg.Body != "" {
			body = strings.NewReader(cfg.Body)
		}
		request, err := http.NewRequest(method, cfg.URL, body)
		if err != nil {
			return nil, errors.Wrap(err, "build request")
		}
		return job.Isolated(job.NewHTTPJob(request).Execute), nil
	}
	return nil, errors.Newf("unknown handler %q", cfg.Handler)
}
