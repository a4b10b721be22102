package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/reugn/go-schedule/logger"
)

// Default scheduler settings.
const (
	DefaultTolerance     = 10 * time.Millisecond
	DefaultLateThreshold = 500 * time.Millisecond
)

type options struct {
	name          string
	tolerance     time.Duration
	lateThreshold time.Duration
	location      *time.Location
	logger        logger.Logger
}

func defaultOptions() options {
	return options{
		name:          "scheduler-" + uuid.NewString()[:8],
		tolerance:     DefaultTolerance,
		lateThreshold: DefaultLateThreshold,
		location:      time.Local,
		logger:        logger.NoOpLogger{},
	}
}

// Option configures a Scheduler.
type Option func(*options) error

// WithTolerance sets the window within which a job is considered due. Jobs
// whose execution time is less than the tolerance away are run in the same
// pass as the job that woke the scheduler.
// Default: 10ms.
func WithTolerance(tolerance time.Duration) Option {
	return func(o *options) error {
		if tolerance < 0 {
			return illegalArgumentError("negative tolerance")
		}
		o.tolerance = tolerance
		return nil
	}
}

// WithLateThreshold sets the lateness above which a run is reported with a
// warning.
// Default: 500ms.
func WithLateThreshold(threshold time.Duration) Option {
	return func(o *options) error {
		if threshold < 0 {
			return illegalArgumentError("negative late threshold")
		}
		o.lateThreshold = threshold
		return nil
	}
}

// WithLocation sets the time zone cron expressions are evaluated in.
// Default: time.Local.
func WithLocation(location *time.Location) Option {
	return func(o *options) error {
		if location == nil {
			return illegalArgumentError("location is nil")
		}
		o.location = location
		return nil
	}
}

// WithLogger sets the logger of the scheduler.
// Default: logger.NoOpLogger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) error {
		if l == nil {
			return illegalArgumentError("logger is nil")
		}
		o.logger = l
		return nil
	}
}

// WithName sets the name the scheduler reports in its log records.
func WithName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return illegalArgumentError("empty name")
		}
		o.name = name
		return nil
	}
}
