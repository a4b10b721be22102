// Package config loads the configuration of the schedule command.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/reugn/go-schedule/schedule"
)

// EnvPrefix is the prefix of the environment variables overriding
// configuration keys, e.g. SCHEDULE_LOG_LEVEL for log.level.
const EnvPrefix = "SCHEDULE"

// Job handlers.
const (
	HandlerLog   = "log"
	HandlerShell = "shell"
	HandlerHTTP  = "http"
)

// Log formats.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatZerolog = "zerolog"
	FormatZap     = "zap"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root configuration.
type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
	Jobs      []JobConfig     `mapstructure:"jobs"`
}

// SchedulerConfig configures the scheduler.
type SchedulerConfig struct {
	Name          string        `mapstructure:"name"`
	Tolerance     time.Duration `mapstructure:"tolerance"`
	LateThreshold time.Duration `mapstructure:"late_threshold"`
	// Location is an IANA time zone name, "Local" or "UTC".
	Location string `mapstructure:"location"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// JobConfig describes a scheduled job. Exactly one of Cron and
// Start/Period must be set.
type JobConfig struct {
	Name string `mapstructure:"name"`

	Cron    string        `mapstructure:"cron"`
	Start   string        `mapstructure:"start"`
	Period  time.Duration `mapstructure:"period"`
	Count   int           `mapstructure:"count"`
	CatchUp bool          `mapstructure:"catch_up"`

	Handler string `mapstructure:"handler"`
	Message string `mapstructure:"message"`
	Command string `mapstructure:"command"`
	URL     string `mapstructure:"url"`
	Method  string `mapstructure:"method"`
	Body    string `mapstructure:"body"`
}

// SetDefaults registers the default values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("scheduler.name", "")
	v.SetDefault("scheduler.tolerance", schedule.DefaultTolerance)
	v.SetDefault("scheduler.late_threshold", schedule.DefaultLateThreshold)
	v.SetDefault("scheduler.location", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", FormatText)
}

// New returns a viper instance with defaults and environment variable
// binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads and validates the configuration file at path. The format is
// derived from the file extension.
func Load(path string) (*Config, error) {
	v := New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	return LoadWithViper(v)
}

// LoadWithViper decodes and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Scheduler.Tolerance < 0 {
		return invalid("scheduler.tolerance must not be negative")
	}
	if c.Scheduler.LateThreshold < 0 {
		return invalid("scheduler.late_threshold must not be negative")
	}
	if _, err := c.Scheduler.LoadLocation(); err != nil {
		return err
	}
	switch c.Log.Format {
	case FormatText, FormatJSON, FormatZerolog, FormatZap:
	default:
		return invalid("unknown log.format %q", c.Log.Format)
	}

	for i, job := range c.Jobs {
		if err := job.validate(); err != nil {
			return errors.Wrapf(err, "jobs[%d]", i)
		}
	}
	return nil
}

// LoadLocation returns the configured time zone.
func (s SchedulerConfig) LoadLocation() (*time.Location, error) {
	if s.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Location)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "scheduler.location %q", s.Location),
			ErrInvalidConfig)
	}
	return loc, nil
}

func (j JobConfig) validate() error {
	simple := j.Start != "" || j.Period != 0 || j.Count != 0
	switch {
	case j.Cron != "" && simple:
		return invalid("cron and start/period/count are mutually exclusive")
	case j.Cron == "" && !simple:
		return invalid("one of cron or start/period is required")
	}
	if j.Cron != "" {
		if _, err := schedule.DecodeTrigger(j.Cron); err != nil {
			return errors.Mark(err, ErrInvalidConfig)
		}
	}
	if _, err := j.startTime(); err != nil {
		return err
	}

	switch j.Handler {
	case HandlerLog:
	case HandlerShell:
		if j.Command == "" {
			return invalid("shell handler requires a command")
		}
	case HandlerHTTP:
		if j.URL == "" {
			return invalid("http handler requires a url")
		}
	default:
		return invalid("unknown handler %q", j.Handler)
	}
	return nil
}

// TriggerSpec returns the trigger described by the job.
func (j JobConfig) TriggerSpec() (schedule.TriggerSpec, error) {
	if j.Cron != "" {
		return schedule.Cron(j.Cron), nil
	}
	start, err := j.startTime()
	if err != nil {
		return schedule.TriggerSpec{}, err
	}
	return schedule.Simple(schedule.SimpleSpec{
		Start:                start,
		Period:               j.Period,
		Count:                j.Count,
		CatchUpMissedPeriods: j.CatchUp,
	}), nil
}

// startTime parses the RFC 3339 start time; an empty value means now.
func (j JobConfig) startTime() (time.Time, error) {
	if j.Start == "" {
		return time.Time{}, nil
	}
	start, err := time.Parse(time.RFC3339, j.Start)
	if err != nil {
		return time.Time{}, errors.Mark(errors.Wrapf(err, "start %q", j.Start), ErrInvalidConfig)
	}
	return start, nil
}

func invalid(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}
