package csm

var _ csmNode = (*dayNode)(nil)

// dayNode matches both the day-of-month and the day-of-week fields.
// A day is valid only if it satisfies both of them.
type dayNode struct {
	dayOfMonth Matcher
	dayOfWeek  Matcher
}

func newDayNode(dayOfMonth, dayOfWeek Matcher) *dayNode {
	return &dayNode{dayOfMonth, dayOfWeek}
}

func (n *dayNode) findForward(c *cursor) result {
	if n.isValid(c) {
		return unchanged
	}

	limit := DaysInMonth(c.year, c.month)
	day := c.day
	for {
		next, carry := n.dayOfMonth.NextAfter(day)
		// the candidate does not exist in this month, move to the
		// first day of the next one
		if carry || next > limit {
			c.overflow(days)
			return overflowed
		}

		day = next
		if n.dayOfWeek.Match(weekday(c.year, c.month, day)) {
			break
		}
	}

	c.advance(days, day)
	return advanced
}

func (n *dayNode) isValid(c *cursor) bool {
	return n.dayOfMonth.Match(c.day) && n.dayOfWeek.Match(c.weekday())
}
