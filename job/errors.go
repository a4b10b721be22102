package job

import (
	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrDataType   = errors.New("unexpected job data type")
	ErrJobRunning = errors.New("job is running")
)
