// Package metadata defines the cluster picture the admin client routes
// calls against: which brokers exist, where their admin endpoints listen,
// and which broker currently acts as the controller.
//
// The package deliberately knows nothing about how the picture is produced.
// The gossip manager maintains a live view from serf membership; tests and
// fixed-fleet deployments use the Static view. Consumers only ever see
// immutable Snapshot values, so a snapshot taken at the top of a dispatch
// iteration stays coherent for the whole iteration even while the underlying
// view keeps moving.
package metadata

import (
	"fmt"
	"sort"
)

// Node identifies a single broker admin endpoint. ID is the broker's stable
// cluster identity (the gossip node name); Name is the human-readable name
// shown by CLI output; Host and Port locate the HTTP admin listener.
type Node struct {
	ID   string
	Name string
	Host string
	Port int
}

// Addr returns the node's admin endpoint in "host:port" form, ready for
// dialing or URL construction.
func (n Node) Addr() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// String renders the node for logs: "id (host:port)".
func (n Node) String() string {
	return fmt.Sprintf("%s (%s)", n.ID, n.Addr())
}

// Snapshot is an immutable point-in-time view of broker membership and
// controller identity. Snapshots are safe to share across goroutines and
// never change after construction; callers wanting fresher data take a new
// snapshot from their view.
type Snapshot struct {
	nodes        map[string]Node
	controllerID string
}

// NewSnapshot builds a snapshot from the given nodes and controller ID. The
// node slice is copied; later mutation of the caller's slice does not affect
// the snapshot. A controllerID that matches no node is treated as unknown.
func NewSnapshot(nodes []Node, controllerID string) Snapshot {
	m := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	if _, ok := m[controllerID]; !ok {
		controllerID = ""
	}
	return Snapshot{nodes: m, controllerID: controllerID}
}

// Node looks up a broker by ID. The second return value reports whether the
// broker is present in this snapshot.
func (s Snapshot) Node(id string) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Controller returns the broker currently acting as controller, when known.
// A cluster mid-election (or a view that has not learned the controller tag
// yet) reports ok=false; callers decide whether to wait or fail.
func (s Snapshot) Controller() (Node, bool) {
	if s.controllerID == "" {
		return Node{}, false
	}
	return s.Node(s.controllerID)
}

// IDs returns all broker IDs in this snapshot, sorted. Sorted order gives
// deterministic iteration for round-robin node selection and table output.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of brokers in this snapshot.
func (s Snapshot) Len() int {
	return len(s.nodes)
}
