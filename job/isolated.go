package job

import (
	"context"
	"sync/atomic"

	"github.com/reugn/go-schedule/schedule"
)

// Isolated wraps a callback and ensures that only one invocation runs at a
// time. An invocation that overlaps a running one fails with ErrJobRunning
// without calling the underlying callback.
func Isolated(cb schedule.Callback) schedule.Callback {
	var isRunning atomic.Bool
	return func(ctx context.Context, data any) error {
		if wasRunning := isRunning.Swap(true); wasRunning {
			return ErrJobRunning
		}
		defer isRunning.Store(false)

		return cb(ctx, data)
	}
}
