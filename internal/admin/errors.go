package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/meridian-dev/meridian/internal/wire"
)

// ErrClientClosed resolves every future that was still pending when Close
// began, and every operation submitted afterwards.
var ErrClientClosed = errors.New("admin client is closed")

// NodeNotFoundError reports a call pinned to a broker that is absent from
// cluster metadata. Not retriable: a pinned call has nowhere else to go, and
// waiting for the broker to reappear would just burn the caller's deadline.
type NodeNotFoundError struct {
	NodeID string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("broker %q is not present in cluster metadata", e.NodeID)
}

// DisconnectedError reports a connection-level transport failure: the
// request may or may not have reached the broker, but no response will
// arrive. Retriable.
type DisconnectedError struct {
	NodeID string
	Cause  error
}

func (e *DisconnectedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection to broker %s failed: %v", e.NodeID, e.Cause)
	}
	return fmt.Sprintf("connection to broker %s failed", e.NodeID)
}

func (e *DisconnectedError) Unwrap() error { return e.Cause }

// TimeoutError reports a call that exhausted its deadline. Msg names the
// stage the call was stuck in so the caller can tell "no controller elected"
// from "broker never answered".
type TimeoutError struct {
	Name    string
	Msg     string
	Elapsed time.Duration
	Limit   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out %s (elapsed %v, limit %v)",
		e.Name, e.Msg, e.Elapsed.Round(time.Millisecond), e.Limit)
}

// RetriesExhaustedError reports a call that kept failing retriably until the
// attempt budget ran out. Unwrap exposes the final underlying failure.
type RetriesExhaustedError struct {
	Name     string
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Name, e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Last }

// retriable reports whether the engine may schedule another attempt after
// this failure. Connection-level failures and retriable remote codes
// qualify; everything else is terminal. An exhausted attempt budget is
// terminal even though the failures behind it were retriable.
func retriable(err error) bool {
	var ex *RetriesExhaustedError
	if errors.As(err, &ex) {
		return false
	}
	var de *DisconnectedError
	if errors.As(err, &de) {
		return true
	}
	var we *wire.Error
	if errors.As(err, &we) {
		return we.Retriable()
	}
	return false
}
