package job

// Status is the outcome of the last run of a stateful callback.
type Status int8

const (
	// StatusNA means the callback has not run yet.
	StatusNA Status = iota
	StatusOK
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusNA:
		return "n/a"
	case StatusOK:
		return "ok"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}
