package job

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/reugn/go-schedule/schedule"
)

// Func adapts a function with a typed payload to a [schedule.Callback].
// The job data is asserted to D on every run; a nil payload is passed as
// the zero value of D. Any other mismatch fails the run with ErrDataType.
func Func[D any](fn func(context.Context, D) error) schedule.Callback {
	return func(ctx context.Context, data any) error {
		typed, ok := data.(D)
		if !ok && data != nil {
			return errors.Wrapf(ErrDataType, "got %T, want %T", data, typed)
		}
		return fn(ctx, typed)
	}
}

// Result captures the outcome of the most recent run of a function that
// produces a value.
type Result[R any] struct {
	fn     func(context.Context) (R, error)
	result syncValue[R]
}

// NewResult returns a new [Result] wrapping the given function.
func NewResult[R any](fn func(context.Context) (R, error)) *Result[R] {
	return &Result[R]{fn: fn}
}

// Execute runs the function and records its result, status and error.
// The job data is ignored.
func (r *Result[R]) Execute(ctx context.Context, _ any) error {
	value, err := r.fn(ctx)
	r.result.store(value, err)
	return err
}

// Value returns the value of the last successful run and its error.
// The value is nil if the last run failed or no run has completed.
func (r *Result[R]) Value() (*R, error) {
	return r.result.load()
}

// JobStatus returns the status of the last run.
func (r *Result[R]) JobStatus() Status {
	return r.result.status()
}
