package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/meridian-dev/meridian/internal/metadata"
	"github.com/meridian-dev/meridian/internal/transport"
	"github.com/meridian-dev/meridian/internal/wire"
)

// reply scripts one exchange outcome for the mock transport.
type reply struct {
	werr              *wire.Error
	payload           any
	connErr           error
	drop              bool
	mangleCorrelation bool
}

type sentRequest struct {
	nodeID string
	req    *wire.Request
}

// mockTransport satisfies Transport with scripted, synchronous exchanges:
// every Send immediately queues its outcome for the next Poll. Scripted
// replies pop once per send; persistent handlers answer whatever is left.
// The default outcome is a bare success envelope.
type mockTransport struct {
	mu       sync.Mutex
	sends    []sentRequest
	scripted map[wire.Op][]reply
	handlers map[wire.Op]func(*wire.Request) reply
	notReady map[string]bool
	down     map[string]bool
	inbox    []transport.Inbound
	closed   bool
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		scripted: make(map[wire.Op][]reply),
		handlers: make(map[wire.Op]func(*wire.Request) reply),
		notReady: make(map[string]bool),
		down:     make(map[string]bool),
	}
}

func (m *mockTransport) script(op wire.Op, r reply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripted[op] = append(m.scripted[op], r)
}

func (m *mockTransport) handle(op wire.Op, fn func(*wire.Request) reply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[op] = fn
}

func (m *mockTransport) sentTo(op wire.Op) []sentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentRequest
	for _, s := range m.sends {
		if s.req.Op == op {
			out = append(out, s)
		}
	}
	return out
}

func (m *mockTransport) Ready(node metadata.Node) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.notReady[node.ID]
}

func (m *mockTransport) Disconnected(node metadata.Node) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.down[node.ID]
}

func (m *mockTransport) Send(node metadata.Node, correlationID uint64, body []byte) error {
	req, err := wire.DecodeRequest(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("transport is closed")
	}
	m.sends = append(m.sends, sentRequest{nodeID: node.ID, req: req})

	r := reply{}
	if queue := m.scripted[req.Op]; len(queue) > 0 {
		r = queue[0]
		m.scripted[req.Op] = queue[1:]
	} else if fn := m.handlers[req.Op]; fn != nil {
		r = fn(req)
	}

	switch {
	case r.drop:
		return nil
	case r.connErr != nil:
		m.down[node.ID] = true
		m.inbox = append(m.inbox, transport.Inbound{
			NodeID: node.ID, CorrelationID: correlationID, Err: r.connErr,
		})
		return nil
	default:
		corr := req.CorrelationID
		if r.mangleCorrelation {
			corr++
		}
		respBody, err := wire.EncodeResponse(corr, r.werr, r.payload)
		if err != nil {
			return err
		}
		m.inbox = append(m.inbox, transport.Inbound{
			NodeID: node.ID, CorrelationID: correlationID, Body: respBody,
		})
		return nil
	}
}

func (m *mockTransport) Poll(maxWait time.Duration) []transport.Inbound {
	deadline := time.Now().Add(maxWait)
	for {
		m.mu.Lock()
		if len(m.inbox) > 0 {
			out := m.inbox
			m.inbox = nil
			m.mu.Unlock()
			return out
		}
		m.mu.Unlock()

		if maxWait <= 0 || !time.Now().Before(deadline) {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// testView is a three-broker fleet with broker-1 as controller.
func testView() *metadata.Static {
	view := metadata.NewStatic(
		metadata.Node{ID: "broker-1", Name: "broker-1", Host: "10.0.0.1", Port: 9600},
		metadata.Node{ID: "broker-2", Name: "broker-2", Host: "10.0.0.2", Port: 9600},
		metadata.Node{ID: "broker-3", Name: "broker-3", Host: "10.0.0.3", Port: 9600},
	)
	view.SetController("broker-1")
	return view
}

func newTestClient(t *testing.T, mt *mockTransport, view MetadataView, tweak func(*Config)) *Client {
	t.Helper()

	cfg := &Config{
		ClientID:       "admin-test-client",
		View:           view,
		Transport:      mt,
		RequestTimeout: 2 * time.Second,
		RetryBackoff:   10 * time.Millisecond,
	}
	if tweak != nil {
		tweak(cfg)
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to build admin client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCreateTopicsRoutesToController(t *testing.T) {
	mt := newMockTransport()
	client := newTestClient(t, mt, testView(), nil)

	res := client.CreateTopics([]NewTopic{{
		Name:              "orders",
		Partitions:        3,
		ReplicationFactor: 2,
		Configs:           map[string]string{"retention.ms": "86400000"},
	}})

	if _, err := res.All().Get(testCtx(t)); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	sends := mt.sentTo(wire.OpCreateTopic)
	if len(sends) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sends))
	}
	if sends[0].nodeID != "broker-1" {
		t.Errorf("create-topic went to %s, want controller broker-1", sends[0].nodeID)
	}

	req := sends[0].req
	if req.ClientID != "admin-test-client" {
		t.Errorf("request client id = %q, want admin-test-client", req.ClientID)
	}
	if req.TimeoutMs <= 0 || req.TimeoutMs > 2000 {
		t.Errorf("request timeout_ms = %d, want within (0, 2000]", req.TimeoutMs)
	}

	var payload wire.CreateTopicRequest
	if err := wire.DecodePayload(req.Payload, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.Name != "orders" || payload.Partitions != 3 || payload.ReplicationFactor != 2 {
		t.Errorf("payload = %+v, want orders/3/2", payload)
	}
	if payload.Configs["retention.ms"] != "86400000" {
		t.Errorf("payload configs = %v, missing retention override", payload.Configs)
	}
}

func TestNotControllerRetriesUntilSuccess(t *testing.T) {
	mt := newMockTransport()
	mt.script(wire.OpCreateTopic, reply{werr: wire.NewError(wire.ErrNotController, "")})
	client := newTestClient(t, mt, testView(), nil)

	res := client.CreateTopics([]NewTopic{{Name: "orders", Partitions: 1, ReplicationFactor: 1}})
	if _, err := res.Topic("orders").Get(testCtx(t)); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}

	if sends := mt.sentTo(wire.OpCreateTopic); len(sends) != 2 {
		t.Errorf("expected 2 attempts (initial + retry), got %d", len(sends))
	}
}

func TestTerminalErrorFailsWithoutRetry(t *testing.T) {
	mt := newMockTransport()
	mt.script(wire.OpCreateTopic, reply{werr: wire.NewError(wire.ErrTopicAlreadyExists, "topic %q already exists", "orders")})
	client := newTestClient(t, mt, testView(), nil)

	res := client.CreateTopics([]NewTopic{{Name: "orders", Partitions: 1, ReplicationFactor: 1}})

	_, err := res.Topic("orders").Get(testCtx(t))
	var werr *wire.Error
	if !errors.As(err, &werr) || werr.Code != wire.ErrTopicAlreadyExists {
		t.Fatalf("expected TOPIC_ALREADY_EXISTS, got %v", err)
	}
	if sends := mt.sentTo(wire.OpCreateTopic); len(sends) != 1 {
		t.Errorf("terminal failure should not retry, got %d sends", len(sends))
	}

	// The batch future carries the same failure.
	if _, err := res.All().Get(testCtx(t)); !errors.As(err, &werr) {
		t.Errorf("combined future error = %v, want the per-topic failure", err)
	}
}

func TestRetriesExhaustedAfterRepeatedDisconnects(t *testing.T) {
	mt := newMockTransport()
	for i := 0; i < 3; i++ {
		mt.script(wire.OpDeleteTopic, reply{connErr: errors.New("connection refused")})
	}
	client := newTestClient(t, mt, testView(), func(cfg *Config) {
		cfg.MaxRetries = 2
	})

	res := client.DeleteTopics([]string{"orders"})

	_, err := res.Topic("orders").Get(testCtx(t))
	var exhausted *RetriesExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected RetriesExhaustedError, got %v", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3 (initial + 2 retries)", exhausted.Attempts)
	}
	var disc *DisconnectedError
	if !errors.As(err, &disc) {
		t.Errorf("expected the last disconnect as cause, got %v", exhausted.Last)
	}
	if sends := mt.sentTo(wire.OpDeleteTopic); len(sends) != 3 {
		t.Errorf("expected 3 sends, got %d", len(sends))
	}
}

func TestTimesOutWaitingForController(t *testing.T) {
	// A fleet with no controller: controller-targeted calls can never be
	// assigned and must die by deadline.
	view := metadata.NewStatic(
		metadata.Node{ID: "broker-1", Name: "broker-1", Host: "10.0.0.1", Port: 9600},
	)
	mt := newMockTransport()
	client := newTestClient(t, mt, view, nil)

	start := time.Now()
	res := client.CreateTopics(
		[]NewTopic{{Name: "orders", Partitions: 1, ReplicationFactor: 1}},
		WithTimeout(150*time.Millisecond),
	)

	_, err := res.Topic("orders").Get(testCtx(t))
	elapsed := time.Since(start)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if te.Limit != 150*time.Millisecond {
		t.Errorf("Limit = %v, want 150ms", te.Limit)
	}
	if !strings.Contains(err.Error(), "waiting for a broker assignment") {
		t.Errorf("error %q should name the assignment stage", err.Error())
	}
	if elapsed < 140*time.Millisecond {
		t.Errorf("call failed after %v, before its deadline", elapsed)
	}
	if sends := mt.sentTo(wire.OpCreateTopic); len(sends) != 0 {
		t.Errorf("expected no sends without a controller, got %d", len(sends))
	}
}

func TestControllerElectionUnblocksWaitingCall(t *testing.T) {
	view := metadata.NewStatic(
		metadata.Node{ID: "broker-1", Name: "broker-1", Host: "10.0.0.1", Port: 9600},
		metadata.Node{ID: "broker-2", Name: "broker-2", Host: "10.0.0.2", Port: 9600},
	)
	mt := newMockTransport()
	client := newTestClient(t, mt, view, nil)

	res := client.CreateTopics([]NewTopic{{Name: "orders", Partitions: 1, ReplicationFactor: 1}})

	go func() {
		time.Sleep(50 * time.Millisecond)
		view.SetController("broker-2")
	}()

	if _, err := res.Topic("orders").Get(testCtx(t)); err != nil {
		t.Fatalf("expected call to succeed after election, got %v", err)
	}
	sends := mt.sentTo(wire.OpCreateTopic)
	if len(sends) != 1 || sends[0].nodeID != "broker-2" {
		t.Fatalf("expected a single send to the new controller, got %+v", sends)
	}
}

func TestFixedNodeMissingFailsFast(t *testing.T) {
	mt := newMockTransport()
	client := newTestClient(t, mt, testView(), nil)

	start := time.Now()
	res := client.DescribeConfigs([]ConfigResource{{Type: ResourceTypeBroker, Name: "broker-9"}})

	_, err := res.Resource(ConfigResource{Type: ResourceTypeBroker, Name: "broker-9"}).Get(testCtx(t))
	var nf *NodeNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NodeNotFoundError, got %v", err)
	}
	if nf.NodeID != "broker-9" {
		t.Errorf("NodeID = %q, want broker-9", nf.NodeID)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("pinned call to unknown broker took %v, should fail without waiting", elapsed)
	}
	if sends := mt.sentTo(wire.OpDescribeConfigs); len(sends) != 0 {
		t.Errorf("expected no sends for unknown pinned broker, got %d", len(sends))
	}
}

func TestInjectedExpiryFailsInFlightCall(t *testing.T) {
	mt := newMockTransport()
	// Never answer, so the call parks in flight until the sweep kills it.
	mt.script(wire.OpListTopics, reply{drop: true})

	client := newTestClient(t, mt, testView(), func(cfg *Config) {
		cfg.timeoutFactory = func(now time.Time) *timeoutProcessor {
			p := newTimeoutProcessor(now)
			p.expired = func(*call) bool { return true }
			return p
		}
	})

	start := time.Now()
	res := client.ListTopics()

	_, err := res.Listings().Get(testCtx(t))
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected injected TimeoutError, got %v", err)
	}
	if !strings.Contains(err.Error(), "waiting for a response") {
		t.Errorf("error %q should name the in-flight stage", err.Error())
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("forced expiry took %v, deadline should not matter", elapsed)
	}
}

func TestCloseFailsPendingAndRejectsNew(t *testing.T) {
	// No controller, so the call can only wait.
	view := metadata.NewStatic(
		metadata.Node{ID: "broker-1", Name: "broker-1", Host: "10.0.0.1", Port: 9600},
	)
	mt := newMockTransport()
	client := newTestClient(t, mt, view, nil)

	pending := client.CreateTopics([]NewTopic{{Name: "orders", Partitions: 1, ReplicationFactor: 1}})

	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := pending.Topic("orders").Get(testCtx(t)); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("pending call error = %v, want ErrClientClosed", err)
	}

	late := client.CreateTopics([]NewTopic{{Name: "audit", Partitions: 1, ReplicationFactor: 1}})
	if _, err := late.Topic("audit").Get(testCtx(t)); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("post-close call error = %v, want ErrClientClosed", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("repeated close returned %v, want the original nil", err)
	}
}

func TestCorrelationMismatchIsTerminal(t *testing.T) {
	mt := newMockTransport()
	mt.script(wire.OpCreateTopic, reply{mangleCorrelation: true})
	client := newTestClient(t, mt, testView(), nil)

	res := client.CreateTopics([]NewTopic{{Name: "orders", Partitions: 1, ReplicationFactor: 1}})

	_, err := res.Topic("orders").Get(testCtx(t))
	if err == nil || !strings.Contains(err.Error(), "correlation id mismatch") {
		t.Fatalf("expected correlation mismatch failure, got %v", err)
	}
	if sends := mt.sentTo(wire.OpCreateTopic); len(sends) != 1 {
		t.Errorf("mismatch must not retry, got %d sends", len(sends))
	}
}

func TestAnyNodeCallsRotateAcrossBrokers(t *testing.T) {
	mt := newMockTransport()
	mt.handle(wire.OpListTopics, func(*wire.Request) reply {
		return reply{payload: wire.ListTopicsResponse{Topics: []wire.TopicListing{}}}
	})
	client := newTestClient(t, mt, testView(), nil)

	for i := 0; i < 3; i++ {
		if _, err := client.ListTopics().Listings().Get(testCtx(t)); err != nil {
			t.Fatalf("list %d failed: %v", i, err)
		}
	}

	seen := make(map[string]bool)
	for _, s := range mt.sentTo(wire.OpListTopics) {
		seen[s.nodeID] = true
	}
	if len(seen) != 3 {
		t.Errorf("3 sequential any-broker calls hit %d brokers, want rotation across all 3", len(seen))
	}
}

func TestCallMetricsLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	mt := newMockTransport()
	mt.script(wire.OpCreateTopic, reply{})
	mt.script(wire.OpCreateTopic, reply{werr: wire.NewError(wire.ErrTopicAlreadyExists, "")})
	client := newTestClient(t, mt, testView(), func(cfg *Config) {
		cfg.Registerer = reg
	})

	first := client.CreateTopics([]NewTopic{{Name: "orders", Partitions: 1, ReplicationFactor: 1}})
	if _, err := first.Topic("orders").Get(testCtx(t)); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second := client.CreateTopics([]NewTopic{{Name: "orders", Partitions: 1, ReplicationFactor: 1}})
	if _, err := second.Topic("orders").Get(testCtx(t)); err == nil {
		t.Fatal("second create should fail")
	}

	waitForCount := func(name string, c prometheus.Collector, want float64) {
		deadline := time.Now().Add(2 * time.Second)
		for testutil.ToFloat64(c) != want && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if got := testutil.ToFloat64(c); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	op := string(wire.OpCreateTopic)
	waitForCount("calls_submitted_total", client.metrics.submitted.WithLabelValues(op), 2)
	waitForCount("calls_completed_total", client.metrics.completed.WithLabelValues(op), 1)
	waitForCount("calls_failed_total", client.metrics.failed.WithLabelValues(op), 1)
	waitForCount("calls_in_flight", client.metrics.inFlight, 0)
}
