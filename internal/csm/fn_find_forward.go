package csm

var searchOrder = [...]NodeID{months, days, hours, minutes, seconds}

// findForward checks the nodes from the most to the least significant.
// The first invalid node moves the cursor and the pass is abandoned, so the
// caller restarts from the month. It returns true if every node is valid.
func (csm *CronStateMachine) findForward(c *cursor) bool {
	for _, nodeID := range searchOrder {
		node := csm.selectNode(nodeID)
		if node.findForward(c) != unchanged {
			return false
		}
	}
	return true
}

// Select node from enum
func (csm *CronStateMachine) selectNode(node NodeID) csmNode {
	switch node {
	case months:
		return csm.month
	case days:
		return csm.day
	case hours:
		return csm.hour
	case minutes:
		return csm.minute
	case seconds:
		return csm.second
	}
	return nil
}
