package schedule

import (
	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrIllegalArgument  = errors.New("illegal argument")
	ErrCronParse        = errors.New("parse cron expression")
	ErrTriggerExhausted = errors.New("trigger exhausted")
	ErrUnsatisfiable    = errors.New("unsatisfiable schedule")
	ErrJobNotFound      = errors.New("job not found")
)

// illegalArgumentError returns an illegal argument error with a custom
// error message, which unwraps to ErrIllegalArgument.
func illegalArgumentError(message string) error {
	return errors.Wrap(ErrIllegalArgument, message)
}

// cronParseError returns a cron parse error with a custom error message,
// which unwraps to ErrCronParse.
func cronParseError(message string) error {
	return errors.Wrap(ErrCronParse, message)
}

// jobNotFoundError returns a job not found error with a custom error message,
// which unwraps to ErrJobNotFound.
func jobNotFoundError(message string) error {
	return errors.Wrap(ErrJobNotFound, message)
}

// unsatisfiableError wraps the search failure cause. The result matches both
// ErrUnsatisfiable and ErrTriggerExhausted.
func unsatisfiableError(cause error) error {
	err := errors.Mark(errors.Wrap(cause, ErrUnsatisfiable.Error()), ErrUnsatisfiable)
	return errors.Mark(err, ErrTriggerExhausted)
}
