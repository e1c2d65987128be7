package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/meridian-dev/meridian/internal/logging"
	"github.com/meridian-dev/meridian/internal/metadata"
)

// maxPollWait caps how long one dispatch iteration may block in the
// transport poll. The cap bounds pickup latency for fresh submissions and
// metadata changes that land mid-poll.
const maxPollWait = 200 * time.Millisecond

// run is the dispatcher: the single goroutine that owns every pending call.
// Each iteration drains new submissions, resolves targets against a fresh
// metadata snapshot, sends what the transport will take, routes responses,
// and finally sweeps deadlines. Responses are always applied before the
// sweep, so a response and an expiry racing in the same iteration resolve
// as a response.
func (c *Client) run() {
	defer close(c.doneCh)

	for {
		select {
		case <-c.closeCh:
			c.flushOnClose()
			return
		default:
		}

		c.drainQueue()

		if c.table.size() == 0 {
			// Nothing pending: park until new work or close. No busy spin.
			select {
			case <-c.wakeCh:
				continue
			case <-c.closeCh:
				c.flushOnClose()
				return
			}
		}

		now := time.Now()
		snap := c.view.Snapshot()

		c.resolveTargets(snap, now)
		c.sendReady(snap, now)
		c.routeResponses(c.pollWait(time.Now()))
		c.sweepTimeouts(time.Now())
	}
}

// drainQueue moves newly submitted calls into the table in submission order.
func (c *Client) drainQueue() {
	c.qmu.Lock()
	calls := c.queue
	c.queue = nil
	c.qmu.Unlock()

	for _, cl := range calls {
		cl.state = stateAwaitingNode
		c.table.addUnassigned(cl)
	}
}

// resolveTargets assigns brokers to unassigned calls. Calls that cannot
// resolve yet (controller unknown, empty cluster, retry backoff pending)
// stay unassigned and are re-evaluated next iteration against a fresh
// snapshot, bounded only by their deadlines.
func (c *Client) resolveTargets(snap metadata.Snapshot, now time.Time) {
	for _, cl := range c.table.takeUnassigned() {
		if now.Before(cl.retryAt) {
			c.table.addUnassigned(cl)
			continue
		}

		node, ok, err := c.resolveTarget(cl.target, snap)
		if err != nil {
			c.finalizeFailure(cl, err)
			continue
		}
		if !ok {
			c.table.addUnassigned(cl)
			continue
		}

		cl.state = stateReady
		cl.nodeID = node.ID
		c.table.addToNode(node.ID, cl)
		logging.Debug("Admin: %s assigned to %s", cl.name, node)
	}
}

// resolveTarget applies a target policy to one snapshot. ok=false means "no
// node yet, keep waiting"; a non-nil error is terminal for the call.
func (c *Client) resolveTarget(p TargetPolicy, snap metadata.Snapshot) (metadata.Node, bool, error) {
	switch p.kind {
	case targetFixed:
		node, ok := snap.Node(p.nodeID)
		if !ok {
			return metadata.Node{}, false, &NodeNotFoundError{NodeID: p.nodeID}
		}
		return node, true, nil

	case targetController:
		node, ok := snap.Controller()
		return node, ok, nil

	default: // any broker
		ids := snap.IDs()
		if len(ids) == 0 {
			return metadata.Node{}, false, nil
		}
		start := int(c.rrCursor % uint64(len(ids)))
		c.rrCursor++

		// First choice: a broker the transport can use immediately.
		for i := range ids {
			node, _ := snap.Node(ids[(start+i)%len(ids)])
			if c.transport.Ready(node) && !c.transport.Disconnected(node) {
				return node, true, nil
			}
		}
		// Otherwise anything not known-disconnected.
		for i := range ids {
			node, _ := snap.Node(ids[(start+i)%len(ids)])
			if !c.transport.Disconnected(node) {
				return node, true, nil
			}
		}
		// Whole cluster looks down; pick round-robin and let the retry
		// machinery deal with the fallout.
		node, _ := snap.Node(ids[start])
		return node, true, nil
	}
}

// sendReady pushes queued calls to every broker the transport reports
// ready. Buckets are serviced in sorted broker order, calls within a bucket
// in submission order, all in the same iteration.
func (c *Client) sendReady(snap metadata.Snapshot, now time.Time) {
	for _, nodeID := range c.table.nodeIDs() {
		node, ok := snap.Node(nodeID)
		if !ok {
			// Broker left between assignment and send. Push its queue back
			// through resolution: pinned calls fail there, the rest get a
			// new broker.
			for _, cl := range c.table.takeNode(nodeID) {
				cl.state = stateAwaitingNode
				cl.nodeID = ""
				c.table.addUnassigned(cl)
			}
			continue
		}

		bucket := c.table.takeNode(nodeID)
		for i, cl := range bucket {
			if !c.transport.Ready(node) {
				// Out of capacity mid-bucket: requeue the rest for the next
				// iteration. Readiness is a gate, not an error.
				for _, rest := range bucket[i:] {
					c.table.addToNode(nodeID, rest)
				}
				break
			}
			c.sendOne(cl, node, now)
		}
	}
}

// sendOne encodes and dispatches a single call.
func (c *Client) sendOne(cl *call, node metadata.Node, now time.Time) {
	remaining := remainingMs(now.UnixMilli(), cl.deadline.UnixMilli())
	if remaining <= 0 {
		// Deadline already spent. Requeue so this iteration's sweep fails
		// it with a proper timeout error instead of a half-sent request.
		c.table.addToNode(node.ID, cl)
		return
	}

	body, err := cl.build(cl.id, remaining)
	if err != nil {
		c.finalizeFailure(cl, fmt.Errorf("failed to encode %s request: %w", cl.op, err))
		return
	}

	cl.attempt++
	if err := c.transport.Send(node, cl.id, body); err != nil {
		c.failOrRetry(cl, &DisconnectedError{NodeID: node.ID, Cause: err})
		return
	}

	cl.state = stateInFlight
	c.table.addInFlight(cl)
	c.metrics.inFlight.Inc()
	logging.Debug("Admin: %s sent to %s (attempt %d, %dms remaining)", cl.name, node, cl.attempt, remaining)
}

// routeResponses polls the transport and applies every inbound to its call.
func (c *Client) routeResponses(maxWait time.Duration) {
	for _, in := range c.transport.Poll(maxWait) {
		cl, ok := c.table.takeInFlight(in.CorrelationID)
		if !ok {
			// The call already finished, usually by timing out. Late
			// responses are dropped on the floor.
			logging.Debug("Admin: discarding response %d from %s, no call waiting on it", in.CorrelationID, in.NodeID)
			continue
		}
		c.metrics.inFlight.Dec()

		if in.Err != nil {
			c.failOrRetry(cl, &DisconnectedError{NodeID: in.NodeID, Cause: in.Err})
			continue
		}

		logging.Debug("Admin: %s received response from %s", cl.name, in.NodeID)
		if err := cl.handle(cl.id, in.Body); err != nil {
			c.failOrRetry(cl, err)
			continue
		}
		c.finalizeSuccess(cl)
	}
}

// failOrRetry applies the retry policy to a failed attempt. The call is
// already out of every table structure when this runs.
func (c *Client) failOrRetry(cl *call, cause error) {
	if !retriable(cause) {
		c.finalizeFailure(cl, cause)
		return
	}
	if cl.attempt > c.cfg.MaxRetries {
		c.finalizeFailure(cl, &RetriesExhaustedError{
			Name:     cl.name,
			Attempts: cl.attempt,
			Last:     cause,
		})
		return
	}

	cl.lastErr = cause
	cl.state = stateAwaitingNode
	cl.nodeID = ""
	cl.retryAt = time.Now().Add(c.cfg.RetryBackoff)
	c.table.addUnassigned(cl)
	c.metrics.retried.WithLabelValues(string(cl.op)).Inc()
	logging.Debug("Admin: %s attempt %d failed, retrying in %v: %v", cl.name, cl.attempt, c.cfg.RetryBackoff, cause)
}

// finalizeSuccess retires a completed call. The handler already resolved
// the typed future with the decoded value.
func (c *Client) finalizeSuccess(cl *call) {
	cl.state = stateCompleted
	c.metrics.completed.WithLabelValues(string(cl.op)).Inc()
	logging.Debug("Admin: %s completed after %d attempt(s)", cl.name, cl.attempt)
}

// finalizeFailure resolves a call's future exceptionally and retires the
// call. Safe whether or not the call still sits in a table structure.
func (c *Client) finalizeFailure(cl *call, err error) {
	c.table.remove(cl)

	var te *TimeoutError
	if errors.As(err, &te) {
		cl.state = stateTimedOut
		c.metrics.timedOut.WithLabelValues(string(cl.op)).Inc()
		logging.Warn("Admin: %v", err)
	} else {
		cl.state = stateFailed
		c.metrics.failed.WithLabelValues(string(cl.op)).Inc()
		logging.Warn("Admin: %s failed after %d attempt(s): %v", cl.name, cl.attempt, err)
	}

	cl.failFn(err)
}

// sweepTimeouts expires every call whose deadline passed, with a stage
// message naming what it was stuck waiting for. Runs against a single
// clock for the whole sweep.
func (c *Client) sweepTimeouts(now time.Time) {
	tp := c.tpFactory(now)

	fail := func(cl *call, err error) { c.finalizeFailure(cl, err) }

	tp.expire(c.table.unassignedCalls(), "waiting for a broker assignment", fail)

	for _, nodeID := range c.table.nodeIDs() {
		msg := fmt.Sprintf("waiting to send to broker %s", nodeID)
		tp.expire(c.table.nodeCalls(nodeID), msg, fail)
	}

	tp.expire(c.table.inFlightCalls(), "waiting for a response", func(cl *call, err error) {
		c.metrics.inFlight.Dec()
		c.finalizeFailure(cl, err)
	})
}

// pollWait bounds how long routeResponses may block: the nearest deadline,
// the nearest retry gate, and the global cap, whichever comes first.
func (c *Client) pollWait(now time.Time) time.Duration {
	wait := maxPollWait
	for _, cl := range c.table.all() {
		if d := cl.deadline.Sub(now); d < wait {
			wait = d
		}
		if cl.retryAt.After(now) {
			if d := cl.retryAt.Sub(now); d < wait {
				wait = d
			}
		}
	}
	if wait < 0 {
		return 0
	}
	return wait
}

// flushOnClose fails every queued and pending call with ErrClientClosed in
// submission order. The loop exits only after this flush, so no future is
// ever left unresolved.
func (c *Client) flushOnClose() {
	c.drainQueue()

	calls := c.table.drainAll()
	if len(calls) > 0 {
		logging.Warn("Admin: failing %d pending call(s) on close", len(calls))
	}
	for _, cl := range calls {
		if cl.state == stateInFlight {
			c.metrics.inFlight.Dec()
		}
		cl.state = stateFailed
		c.metrics.failed.WithLabelValues(string(cl.op)).Inc()
		cl.failFn(ErrClientClosed)
	}
}
