package schedule

import (
	"time"

	"github.com/reugn/go-schedule/internal/pqueue"
)

// entry is a queued execution time of a job. An entry whose id is no longer
// in the job registry is stale and is discarded when it reaches the head.
type entry struct {
	id   JobID
	time time.Time
}

// newEntryQueue returns a min-priority queue of entries ordered by time.
func newEntryQueue() *pqueue.Queue[entry] {
	return pqueue.New(func(a, b entry) bool {
		return a.time.Before(b.time)
	})
}
