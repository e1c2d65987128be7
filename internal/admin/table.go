package admin

import (
	"sort"
)

// callTable holds every live call, organized the way the dispatch loop works
// them: calls still waiting for a broker assignment, per-broker send queues,
// and in-flight calls keyed by correlation id. A call lives in exactly one
// of the three structures at any moment.
//
// The table is owned exclusively by the dispatcher goroutine: no locks, and
// references never escape except into the engine's own failure paths.
type callTable struct {
	unassigned []*call
	byNode     map[string][]*call
	inFlight   map[uint64]*call
}

func newCallTable() *callTable {
	return &callTable{
		byNode:   make(map[string][]*call),
		inFlight: make(map[uint64]*call),
	}
}

// size returns the number of live calls across all structures.
func (t *callTable) size() int {
	n := len(t.unassigned) + len(t.inFlight)
	for _, bucket := range t.byNode {
		n += len(bucket)
	}
	return n
}

// addUnassigned appends a call to the unassigned queue. Queue order is
// submission order, which keeps resolution and sweep order deterministic.
func (t *callTable) addUnassigned(c *call) {
	t.unassigned = append(t.unassigned, c)
}

// takeUnassigned removes and returns the whole unassigned queue for a
// resolution pass. The caller re-adds calls that stay unresolved.
func (t *callTable) takeUnassigned() []*call {
	calls := t.unassigned
	t.unassigned = nil
	return calls
}

// addToNode appends a call to a broker's send queue.
func (t *callTable) addToNode(nodeID string, c *call) {
	t.byNode[nodeID] = append(t.byNode[nodeID], c)
}

// takeNode removes and returns a broker's send queue.
func (t *callTable) takeNode(nodeID string) []*call {
	calls := t.byNode[nodeID]
	delete(t.byNode, nodeID)
	return calls
}

// nodeIDs returns the brokers that currently have queued calls, sorted so
// every dispatch iteration services buckets in the same order.
func (t *callTable) nodeIDs() []string {
	ids := make([]string, 0, len(t.byNode))
	for id := range t.byNode {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// addInFlight indexes a sent call by its correlation id.
func (t *callTable) addInFlight(c *call) {
	t.inFlight[c.id] = c
}

// takeInFlight removes and returns the call awaiting the given correlation
// id. ok is false when nothing is waiting on that id: a late response for a
// call that already timed out, or a broker echoing garbage.
func (t *callTable) takeInFlight(correlationID uint64) (*call, bool) {
	c, ok := t.inFlight[correlationID]
	if ok {
		delete(t.inFlight, correlationID)
	}
	return c, ok
}

// unassignedCalls returns a copy of the unassigned queue, safe to iterate
// while individual calls are failed and removed underneath.
func (t *callTable) unassignedCalls() []*call {
	return append([]*call(nil), t.unassigned...)
}

// nodeCalls returns a copy of one broker's send queue.
func (t *callTable) nodeCalls(nodeID string) []*call {
	return append([]*call(nil), t.byNode[nodeID]...)
}

// inFlightCalls returns the in-flight calls ordered by correlation id,
// which is submission order.
func (t *callTable) inFlightCalls() []*call {
	ids := make([]uint64, 0, len(t.inFlight))
	for id := range t.inFlight {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	calls := make([]*call, 0, len(ids))
	for _, id := range ids {
		calls = append(calls, t.inFlight[id])
	}
	return calls
}

// all returns every live call in no particular order, for scans that do not
// care about ordering (deadline lookahead).
func (t *callTable) all() []*call {
	calls := make([]*call, 0, t.size())
	calls = append(calls, t.unassigned...)
	for _, bucket := range t.byNode {
		calls = append(calls, bucket...)
	}
	for _, c := range t.inFlight {
		calls = append(calls, c)
	}
	return calls
}

// remove deletes a call from whichever structure holds it, located via the
// call's state. Removing a call that is not in the table is a no-op, so
// failure paths can call it unconditionally.
func (t *callTable) remove(c *call) {
	switch c.state {
	case stateAwaitingNode:
		t.unassigned = removeCall(t.unassigned, c)
	case stateReady:
		bucket := removeCall(t.byNode[c.nodeID], c)
		if len(bucket) == 0 {
			delete(t.byNode, c.nodeID)
		} else {
			t.byNode[c.nodeID] = bucket
		}
	case stateInFlight:
		delete(t.inFlight, c.id)
	}
}

// drainAll empties the table and returns every live call in submission
// order. Used by the close flush.
func (t *callTable) drainAll() []*call {
	calls := t.all()
	sort.Slice(calls, func(i, j int) bool { return calls[i].id < calls[j].id })

	t.unassigned = nil
	t.byNode = make(map[string][]*call)
	t.inFlight = make(map[uint64]*call)
	return calls
}

func removeCall(calls []*call, target *call) []*call {
	for i, c := range calls {
		if c == target {
			return append(calls[:i], calls[i+1:]...)
		}
	}
	return calls
}
