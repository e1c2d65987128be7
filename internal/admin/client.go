// Package admin implements the Meridian admin client: an asynchronous
// call-orchestration engine plus the typed operations built on top of it
// (topics, ACLs, dynamic configuration).
//
// Every operation returns immediately with futures. A single dispatcher
// goroutine owns all pending calls and drives each through the same
// lifecycle: resolve a target broker against live cluster metadata, wait for
// transport readiness, send, then interpret the response into completion,
// a retry, or a failure. Per-call deadlines cover the whole lifecycle, so a
// call stuck waiting for a controller election fails just as reliably as one
// waiting on a slow broker.
//
// The engine is deliberately split from the typed layer: the engine moves
// opaque calls and owns every failure path, while thin operation wrappers
// encode payloads, classify remote errors through the wire package, and
// resolve typed futures on success.
package admin

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meridian-dev/meridian/internal/logging"
	"github.com/meridian-dev/meridian/internal/metadata"
	"github.com/meridian-dev/meridian/internal/transport"
	"github.com/meridian-dev/meridian/internal/version"
	"github.com/meridian-dev/meridian/internal/wire"
)

// MetadataView supplies cluster metadata snapshots to the engine. Snapshots
// are immutable; the view refreshes behind them. The gossip manager
// implements this in production, metadata.Static everywhere else.
type MetadataView interface {
	Snapshot() metadata.Snapshot
}

// Transport moves encoded requests to brokers and brings their responses
// back. Implementations pair every accepted Send with exactly one Inbound:
// the response body, or a connection-level error. The default implementation
// is the resty pool in internal/transport; tests inject scripted mocks.
type Transport interface {
	// Ready reports whether node can accept another request right now.
	// Readiness is a gate the dispatcher re-checks every iteration, not a
	// promise.
	Ready(node metadata.Node) bool

	// Send dispatches one encoded request. A returned error means the
	// request never reached the network and no Inbound will follow.
	Send(node metadata.Node, correlationID uint64, body []byte) error

	// Poll blocks up to maxWait for the first inbound, then drains whatever
	// else is immediately available without blocking further.
	Poll(maxWait time.Duration) []transport.Inbound

	// Disconnected reports whether the last exchange with node failed at
	// the connection level.
	Disconnected(node metadata.Node) bool

	// Close releases connections. Outstanding sends resolve with errors.
	Close() error
}

// Client is the Meridian admin client. Construct with NewClient, use the
// typed operations (CreateTopics, DescribeACLs, ...), and Close when done;
// Close fails every call still pending.
type Client struct {
	cfg      *Config
	clientID string

	transport Transport
	view      MetadataView

	// Submission side, shared with caller goroutines.
	qmu    sync.Mutex
	queue  []*call
	closed bool

	wakeCh  chan struct{}
	closeCh chan struct{}
	doneCh  chan struct{}

	closeOnce sync.Once
	closeErr  error

	nextID atomic.Uint64

	// Dispatcher-owned state: only the run goroutine touches these after
	// construction.
	table     *callTable
	tpFactory timeoutProcessorFactory
	rrCursor  uint64
	metrics   *callMetrics
}

// NewClient validates the config, fills defaults, builds the default HTTP
// transport when none is injected, and starts the dispatcher goroutine.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	full, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := full.validate(); err != nil {
		return nil, fmt.Errorf("invalid admin client config: %w", err)
	}

	c := &Client{
		cfg:       full,
		clientID:  full.ClientID,
		transport: full.Transport,
		view:      full.View,
		wakeCh:    make(chan struct{}, 1),
		closeCh:   make(chan struct{}),
		doneCh:    make(chan struct{}),
		table:     newCallTable(),
		tpFactory: full.timeoutFactory,
		metrics:   newCallMetrics(full.Registerer),
	}
	if c.tpFactory == nil {
		c.tpFactory = newTimeoutProcessor
	}

	if c.transport == nil {
		c.transport = transport.New(transport.Config{
			RequestTimeout:     full.RequestTimeout,
			MaxInFlightPerNode: full.MaxInFlightPerNode,
			UserAgent:          "meridian-admin/" + version.AdminClientVersion,
		})
	}

	go c.run()

	logging.Info("Admin: client %s started", c.clientID)
	return c, nil
}

// ClientID returns the identity this client stamps on every request.
func (c *Client) ClientID() string {
	return c.clientID
}

// Close shuts the client down. Every queued and pending call fails with
// ErrClientClosed, the dispatcher exits only after that flush, and the
// transport is released. Idempotent: later calls return the first result.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		logging.Info("Admin: client %s closing", c.clientID)

		c.qmu.Lock()
		c.closed = true
		c.qmu.Unlock()

		close(c.closeCh)
		<-c.doneCh

		c.closeErr = c.transport.Close()
		logging.Info("Admin: client %s closed", c.clientID)
	})
	return c.closeErr
}

// newCall assembles a call for submission. The id, createdAt, and deadline
// fields are stamped by submit.
func newCall(op wire.Op, name string, target TargetPolicy, timeout time.Duration,
	build func(id uint64, remaining int32) ([]byte, error),
	handle func(id uint64, body []byte) error,
	failFn func(err error)) *call {
	return &call{
		op:      op,
		name:    name,
		target:  target,
		timeout: timeout,
		build:   build,
		handle:  handle,
		failFn:  failFn,
	}
}

// submit hands fully-built calls to the dispatcher. It never blocks: the
// queue is unbounded and the wake signal is buffered. Calls submitted after
// Close fail immediately with ErrClientClosed on the caller's goroutine.
func (c *Client) submit(calls ...*call) {
	if len(calls) == 0 {
		return
	}

	now := time.Now()
	for _, cl := range calls {
		cl.id = c.nextID.Add(1)
		cl.createdAt = now
		cl.deadline = now.Add(cl.timeout)
	}

	c.qmu.Lock()
	if c.closed {
		c.qmu.Unlock()
		for _, cl := range calls {
			cl.state = stateFailed
			cl.failFn(ErrClientClosed)
		}
		return
	}
	c.queue = append(c.queue, calls...)
	c.qmu.Unlock()

	for _, cl := range calls {
		c.metrics.submitted.WithLabelValues(string(cl.op)).Inc()
		logging.Debug("Admin: accepted %s targeting %s (timeout %v)", cl.name, cl.target, cl.timeout)
	}

	// Wake the dispatcher if it is parked. The buffered token makes this
	// race-free against the loop's own queue drain.
	select {
	case c.wakeCh <- struct{}{}:
	default:
	}
}
