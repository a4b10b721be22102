package csm

// Matcher represents a decoded cron field.
type Matcher interface {
	// Match reports whether the value satisfies the field.
	Match(value int) bool

	// NextAfter returns the smallest valid value greater than value.
	// If there is none, it returns the smallest valid value and true,
	// signaling a carry into the next more significant field.
	NextAfter(value int) (next int, carry bool)
}

// NodeID identifies a date field, ordered from the least significant.
type NodeID int

const (
	seconds NodeID = iota
	minutes
	hours
	days
	months
	years
)

type csmNode interface {
	// findForward checks if the cursor value of the node is valid.
	// If it is not valid, it moves the cursor to the next candidate.
	findForward(c *cursor) result
}

type result int

const (
	unchanged result = iota
	advanced
	overflowed
)
