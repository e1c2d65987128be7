package metadata

import "sync"

// Static is a manually maintained metadata view for tests, tooling against a
// fixed fleet, and callers that run their own refresh loop. It satisfies the
// same Snapshot-producing shape as the gossip manager.
//
// Thread-safe: mutations take the write lock, Snapshot copies under the read
// lock, so snapshots handed out earlier are never modified in place.
type Static struct {
	mu           sync.RWMutex
	nodes        map[string]Node
	controllerID string
}

// NewStatic creates a static view seeded with the given nodes and no known
// controller. Use SetController once the controller identity is known.
func NewStatic(nodes ...Node) *Static {
	s := &Static{nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		s.nodes[n.ID] = n
	}
	return s
}

// Snapshot returns an immutable copy of the current membership.
func (s *Static) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		nodes = append(nodes, n)
	}
	return NewSnapshot(nodes, s.controllerID)
}

// AddNode adds or replaces a broker in the view.
func (s *Static) AddNode(n Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[n.ID] = n
}

// RemoveNode removes a broker from the view. Removing the current controller
// also clears the controller identity.
func (s *Static) RemoveNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
	if s.controllerID == id {
		s.controllerID = ""
	}
}

// SetController records which broker acts as controller. An empty ID marks
// the controller as unknown.
func (s *Static) SetController(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controllerID = id
}
