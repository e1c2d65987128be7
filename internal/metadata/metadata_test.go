package metadata

import (
	"reflect"
	"testing"
)

func testNodes() []Node {
	return []Node{
		{ID: "broker-2", Name: "tidal-anchor", Host: "10.0.0.2", Port: 9600},
		{ID: "broker-1", Name: "amber-beacon", Host: "10.0.0.1", Port: 9600},
		{ID: "broker-3", Name: "brisk-sextant", Host: "10.0.0.3", Port: 9600},
	}
}

// TestNodeAddr tests address formatting for dialing
func TestNodeAddr(t *testing.T) {
	n := Node{ID: "broker-1", Host: "10.0.0.1", Port: 9600}

	if got := n.Addr(); got != "10.0.0.1:9600" {
		t.Errorf("Addr() = %q, want %q", got, "10.0.0.1:9600")
	}

	if got := n.String(); got != "broker-1 (10.0.0.1:9600)" {
		t.Errorf("String() = %q, want %q", got, "broker-1 (10.0.0.1:9600)")
	}
}

// TestSnapshotLookup tests node lookup and controller resolution
func TestSnapshotLookup(t *testing.T) {
	snap := NewSnapshot(testNodes(), "broker-2")

	if snap.Len() != 3 {
		t.Errorf("Len() = %d, want 3", snap.Len())
	}

	n, ok := snap.Node("broker-1")
	if !ok {
		t.Fatal("Expected broker-1 to be present")
	}
	if n.Host != "10.0.0.1" {
		t.Errorf("Node host = %q, want %q", n.Host, "10.0.0.1")
	}

	if _, ok := snap.Node("broker-9"); ok {
		t.Error("Expected lookup of unknown broker to report absence")
	}

	ctrl, ok := snap.Controller()
	if !ok {
		t.Fatal("Expected controller to be known")
	}
	if ctrl.ID != "broker-2" {
		t.Errorf("Controller ID = %q, want %q", ctrl.ID, "broker-2")
	}
}

// TestSnapshotUnknownController tests controller handling when the ID is
// empty or references a broker outside the snapshot
func TestSnapshotUnknownController(t *testing.T) {
	tests := []struct {
		name         string
		controllerID string
	}{
		{
			name:         "empty controller ID",
			controllerID: "",
		},
		{
			name:         "controller not in membership",
			controllerID: "broker-9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := NewSnapshot(testNodes(), tt.controllerID)

			if _, ok := snap.Controller(); ok {
				t.Errorf("Expected unknown controller for ID %q", tt.controllerID)
			}
		})
	}
}

// TestSnapshotIDsSorted tests deterministic ID ordering
func TestSnapshotIDsSorted(t *testing.T) {
	snap := NewSnapshot(testNodes(), "")

	want := []string{"broker-1", "broker-2", "broker-3"}
	if got := snap.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

// TestSnapshotImmutability tests that snapshots do not observe later changes
// to the source slice
func TestSnapshotImmutability(t *testing.T) {
	nodes := testNodes()
	snap := NewSnapshot(nodes, "broker-1")

	nodes[0].Host = "changed"

	n, ok := snap.Node("broker-2")
	if !ok {
		t.Fatal("Expected broker-2 to be present")
	}
	if n.Host != "10.0.0.2" {
		t.Errorf("Snapshot observed mutation of source slice: host = %q", n.Host)
	}
}

// TestStaticView tests the mutable static view used by tests and fixed fleets
func TestStaticView(t *testing.T) {
	view := NewStatic(testNodes()...)

	snap := view.Snapshot()
	if snap.Len() != 3 {
		t.Fatalf("Snapshot Len() = %d, want 3", snap.Len())
	}
	if _, ok := snap.Controller(); ok {
		t.Error("Expected no controller before SetController")
	}

	view.SetController("broker-3")
	ctrl, ok := view.Snapshot().Controller()
	if !ok || ctrl.ID != "broker-3" {
		t.Errorf("Controller after SetController = %v (ok=%v), want broker-3", ctrl.ID, ok)
	}

	// Earlier snapshots must not observe the change
	if _, ok := snap.Controller(); ok {
		t.Error("Earlier snapshot observed later SetController")
	}

	view.RemoveNode("broker-3")
	snap = view.Snapshot()
	if snap.Len() != 2 {
		t.Errorf("Len() after RemoveNode = %d, want 2", snap.Len())
	}
	if _, ok := snap.Controller(); ok {
		t.Error("Expected controller to be cleared when its node is removed")
	}

	view.AddNode(Node{ID: "broker-4", Host: "10.0.0.4", Port: 9600})
	if got := view.Snapshot().Len(); got != 3 {
		t.Errorf("Len() after AddNode = %d, want 3", got)
	}
}
