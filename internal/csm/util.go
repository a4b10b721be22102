package csm

import "time"

// cursor holds the broken-down candidate date in its location.
// The month is zero-based.
type cursor struct {
	loc    *time.Location
	year   int
	month  int
	day    int
	hour   int
	minute int
	second int
}

func newCursor(t time.Time, loc *time.Location) *cursor {
	c := &cursor{loc: loc}
	c.load(t.In(loc))
	return c
}

func (c *cursor) load(t time.Time) {
	c.year = t.Year()
	c.month = int(t.Month()) - 1
	c.day = t.Day()
	c.hour = t.Hour()
	c.minute = t.Minute()
	c.second = t.Second()
}

// time returns the cursor as a time.Time truncated to whole seconds.
func (c *cursor) time() time.Time {
	return time.Date(c.year, time.Month(c.month+1), c.day,
		c.hour, c.minute, c.second, 0, c.loc)
}

// normalize folds out-of-range values (hour 24, day 32, month 12, ...) into
// the more significant fields.
func (c *cursor) normalize() {
	c.load(c.time())
}

func (c *cursor) weekday() int {
	return weekday(c.year, c.month, c.day)
}

func (c *cursor) value(node NodeID) int {
	switch node {
	case seconds:
		return c.second
	case minutes:
		return c.minute
	case hours:
		return c.hour
	case days:
		return c.day
	case months:
		return c.month
	case years:
		return c.year
	}
	return 0
}

func (c *cursor) set(node NodeID, value int) {
	switch node {
	case seconds:
		c.second = value
	case minutes:
		c.minute = value
	case hours:
		c.hour = value
	case days:
		c.day = value
	case months:
		c.month = value
	case years:
		c.year = value
	}
}

// resetBelow resets all nodes less significant than node to their minimum.
func (c *cursor) resetBelow(node NodeID) {
	for n := node - 1; n >= seconds; n-- {
		c.set(n, minValue(n))
	}
}

// advance moves node to value and resets the less significant nodes.
func (c *cursor) advance(node NodeID, value int) {
	c.set(node, value)
	c.resetBelow(node)
	c.normalize()
}

// overflow increments the node above the given one and resets the given
// node together with everything below it.
func (c *cursor) overflow(node NodeID) {
	above := node + 1
	c.set(above, c.value(above)+1)
	c.resetBelow(above)
	c.normalize()
}

func minValue(node NodeID) int {
	if node == days {
		return 1
	}
	return 0
}

// DaysInMonth returns the number of days in the zero-based month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// weekday returns the day of the week (0 is Sunday) of the civil date.
func weekday(year, month, day int) int {
	return int(time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC).Weekday())
}
