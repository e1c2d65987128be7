// Package transport implements the admin client's HTTP transport: a pool of
// per-broker resty clients created lazily, asynchronous request dispatch,
// and a poll-based inbound queue that pairs every accepted send with exactly
// one result.
//
// The transport knows nothing about the admin protocol. It moves opaque
// envelope bytes and reports connection-level outcomes; interpreting the
// bytes is the engine's job.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/meridian-dev/meridian/internal/logging"
	"github.com/meridian-dev/meridian/internal/metadata"
)

// adminPath is the broker endpoint every admin envelope is POSTed to.
const adminPath = "/v1/admin"

// Default tuning applied when Config fields are zero.
const (
	DefaultRequestTimeout     = 30 * time.Second
	DefaultMaxInFlightPerNode = 8
	defaultInboundBuffer      = 256
)

// Inbound is one completed exchange. Exactly one of Body and Err is set:
// Body holds the raw response envelope, Err a connection-level failure that
// means no response will ever arrive for the correlation id.
type Inbound struct {
	NodeID        string
	CorrelationID uint64
	Body          []byte
	Err           error
}

// Config tunes the HTTP transport.
type Config struct {
	// RequestTimeout bounds a single HTTP exchange. The engine's per-call
	// deadline governs the call as a whole and is typically what fires
	// first.
	RequestTimeout time.Duration

	// MaxInFlightPerNode caps concurrent exchanges per broker; Ready
	// reports false at the cap.
	MaxInFlightPerNode int

	// UserAgent is stamped on every request so broker logs can tell admin
	// clients apart.
	UserAgent string
}

// HTTP is the production transport. One resty client per broker, cached on
// first use; exchanges run on their own goroutines and deliver into an
// internal queue drained by Poll.
type HTTP struct {
	cfg Config

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	clients  map[string]*resty.Client
	inFlight map[string]int
	down     map[string]bool

	inboundCh chan Inbound
}

// New builds an HTTP transport. Construction cannot fail: clients are
// created lazily on first send to each broker.
func New(cfg Config) *HTTP {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxInFlightPerNode == 0 {
		cfg.MaxInFlightPerNode = DefaultMaxInFlightPerNode
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "meridian-admin"
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &HTTP{
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		clients:   make(map[string]*resty.Client),
		inFlight:  make(map[string]int),
		down:      make(map[string]bool),
		inboundCh: make(chan Inbound, defaultInboundBuffer),
	}
}

// Ready reports whether node has spare exchange capacity.
func (t *HTTP) Ready(node metadata.Node) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight[node.ID] < t.cfg.MaxInFlightPerNode
}

// Disconnected reports whether the most recent exchange with node failed at
// the connection level. The flag clears on the next successful exchange.
func (t *HTTP) Disconnected(node metadata.Node) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.down[node.ID]
}

// client returns the cached resty client for node, creating it on first
// use.
func (t *HTTP) client(node metadata.Node) *resty.Client {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.clients[node.ID]; ok {
		return c
	}

	c := resty.New().
		SetBaseURL(fmt.Sprintf("http://%s", node.Addr())).
		SetTimeout(t.cfg.RequestTimeout).
		SetHeader("User-Agent", t.cfg.UserAgent).
		SetHeader("Content-Type", "application/json")
	t.clients[node.ID] = c

	logging.Debug("Transport: opened client for %s", node)
	return c
}

// Send dispatches one encoded request to node's admin endpoint. A nil
// return means the exchange is running and will surface through Poll; an
// error means it never started.
func (t *HTTP) Send(node metadata.Node, correlationID uint64, body []byte) error {
	select {
	case <-t.ctx.Done():
		return fmt.Errorf("transport is closed")
	default:
	}

	client := t.client(node)

	t.mu.Lock()
	t.inFlight[node.ID]++
	t.mu.Unlock()

	go t.exchange(client, node, correlationID, body)
	return nil
}

// exchange performs one HTTP round trip and delivers the outcome. Runs on
// its own goroutine; delivery gives up if the transport closes first.
func (t *HTTP) exchange(client *resty.Client, node metadata.Node, correlationID uint64, body []byte) {
	resp, err := client.R().
		SetContext(t.ctx).
		SetBody(body).
		Post(adminPath)

	t.mu.Lock()
	t.inFlight[node.ID]--
	if err != nil {
		t.down[node.ID] = true
	} else {
		delete(t.down, node.ID)
	}
	t.mu.Unlock()

	in := Inbound{NodeID: node.ID, CorrelationID: correlationID}
	switch {
	case err != nil:
		in.Err = fmt.Errorf("failed to reach broker %s: %w", node.ID, err)
	case resp.StatusCode() != http.StatusOK:
		// Admin errors ride inside 200 envelopes; anything else is
		// infrastructure in the way, which the engine treats like a
		// connection failure.
		in.Err = fmt.Errorf("broker %s answered HTTP %d", node.ID, resp.StatusCode())
	default:
		in.Body = resp.Body()
	}

	select {
	case t.inboundCh <- in:
	case <-t.ctx.Done():
	}
}

// Poll blocks up to maxWait for the first inbound, then drains whatever
// else is immediately available. maxWait <= 0 drains without blocking.
func (t *HTTP) Poll(maxWait time.Duration) []Inbound {
	var out []Inbound

	if maxWait > 0 {
		timer := time.NewTimer(maxWait)
		defer timer.Stop()

		select {
		case in := <-t.inboundCh:
			out = append(out, in)
		case <-timer.C:
			return nil
		case <-t.ctx.Done():
			return nil
		}
	}

	for {
		select {
		case in := <-t.inboundCh:
			out = append(out, in)
		default:
			return out
		}
	}
}

// Close cancels outstanding exchanges and drops the client pool. Exchanges
// that were mid-flight resolve internally and are discarded.
func (t *HTTP) Close() error {
	t.cancel()

	t.mu.Lock()
	t.clients = make(map[string]*resty.Client)
	t.mu.Unlock()

	logging.Debug("Transport: closed")
	return nil
}
