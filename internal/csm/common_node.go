package csm

var _ csmNode = (*commonNode)(nil)

// commonNode is a node whose radix is constant: month, hour, minute
// and second.
type commonNode struct {
	id      NodeID
	matcher Matcher
}

func newCommonNode(id NodeID, matcher Matcher) *commonNode {
	return &commonNode{id, matcher}
}

func (n *commonNode) findForward(c *cursor) result {
	value := c.value(n.id)
	if n.matcher.Match(value) {
		return unchanged
	}

	next, carry := n.matcher.NextAfter(value)
	if carry {
		c.overflow(n.id)
		return overflowed
	}

	c.advance(n.id, next)
	return advanced
}
