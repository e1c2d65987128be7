package admin

import (
	"fmt"
	"time"

	"github.com/meridian-dev/meridian/internal/wire"
)

// callState tracks one call through its lifecycle. Transitions only move
// forward, with a single backward edge: a retriable failure sends an
// in-flight call back to awaiting-node for reassignment.
type callState int

const (
	stateCreated      callState = iota // built, sitting in the submission queue
	stateAwaitingNode                  // waiting for a target broker to resolve
	stateReady                         // broker assigned, waiting for transport readiness
	stateInFlight                      // request sent, awaiting the response
	stateCompleted                     // terminal: response delivered to the future
	stateFailed                        // terminal: failed with a non-timeout error
	stateTimedOut                      // terminal: deadline expired
)

// terminal reports whether the state is final. A terminal call has resolved
// its future and left every pending structure; it is never revisited.
func (s callState) terminal() bool {
	return s == stateCompleted || s == stateFailed || s == stateTimedOut
}

func (s callState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateAwaitingNode:
		return "awaiting-node"
	case stateReady:
		return "ready"
	case stateInFlight:
		return "in-flight"
	case stateCompleted:
		return "completed"
	case stateFailed:
		return "failed"
	case stateTimedOut:
		return "timed-out"
	default:
		return fmt.Sprintf("callState(%d)", int(s))
	}
}

type targetKind int

const (
	targetFixed targetKind = iota
	targetAnyNode
	targetController
)

// TargetPolicy selects which broker a call must be sent to. Policies are
// re-evaluated against a fresh metadata snapshot on every dispatch iteration
// until the call gets a node, so a call submitted before the cluster view
// settles still routes correctly once it does.
type TargetPolicy struct {
	kind   targetKind
	nodeID string
}

// FixedNode pins a call to one specific broker. If that broker is missing
// from metadata at resolution time the call fails immediately with
// NodeNotFoundError rather than waiting for it to reappear.
func FixedNode(id string) TargetPolicy {
	return TargetPolicy{kind: targetFixed, nodeID: id}
}

// AnyBootstrapNode routes a call to whichever broker is currently reachable,
// preferring transport-ready nodes and spreading load round-robin.
func AnyBootstrapNode() TargetPolicy {
	return TargetPolicy{kind: targetAnyNode}
}

// ClusterController routes a call to the cluster controller. While the
// controller is unknown the call waits, re-checking each iteration, bounded
// only by its own deadline.
func ClusterController() TargetPolicy {
	return TargetPolicy{kind: targetController}
}

func (p TargetPolicy) String() string {
	switch p.kind {
	case targetFixed:
		return "broker " + p.nodeID
	case targetAnyNode:
		return "any broker"
	case targetController:
		return "controller"
	default:
		return fmt.Sprintf("targetKind(%d)", int(p.kind))
	}
}

// call is one orchestrated admin request. The struct is deliberately
// non-generic: the engine moves calls around without knowing their result
// types, while the typed layer supplies closures that encode the request,
// interpret the response, and resolve the typed future.
//
// All fields are owned by the dispatcher goroutine after submission; the
// submitting goroutine only initializes them.
type call struct {
	id        uint64  // correlation id, unique per client instance
	op        wire.Op // wire operation, doubles as the metrics label
	name      string  // human-readable label for logs, e.g. createTopic(orders)
	target    TargetPolicy
	createdAt time.Time
	deadline  time.Time // createdAt + timeout; retries never extend it
	timeout   time.Duration
	state     callState
	attempt   int       // send attempts performed so far
	retryAt   time.Time // earliest time the next attempt may be scheduled
	nodeID    string    // current broker assignment, "" while awaiting
	lastErr   error     // most recent retriable failure

	// build encodes the wire request. remaining is the saturated millisecond
	// budget left on the deadline at send time.
	build func(id uint64, remaining int32) ([]byte, error)

	// handle interprets a response body. On success it resolves the typed
	// future and returns nil; any returned error goes through the engine's
	// central retry/fail classification.
	handle func(id uint64, body []byte) error

	// failFn resolves the typed future exceptionally. The engine owns every
	// failure path: timeouts, close, retries exhausted, remote errors.
	failFn func(err error)
}
