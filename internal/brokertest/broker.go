// Package brokertest provides an in-process fake broker cluster for
// exercising the admin client end to end. Each Broker serves the real wire
// protocol over HTTP on an ephemeral port; all brokers of one Cluster share
// a single admin state machine, so controller-routed mutations become
// visible through every broker immediately.
//
// The fakes support fault injection: scripted error responses per
// operation, per-binding ACL deletion failures, and controller flags that
// can be flipped mid-test to simulate elections.
package brokertest

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/meridian-dev/meridian/internal/logging"
	"github.com/meridian-dev/meridian/internal/metadata"
	"github.com/meridian-dev/meridian/internal/wire"
)

// Broker is one fake broker: a gin server on an ephemeral port answering
// the admin wire protocol from its cluster's shared State.
type Broker struct {
	id    string
	state *State
	srv   *httptest.Server

	mu         sync.Mutex
	controller bool
	scripted   map[wire.Op][]*wire.Error
	requests   map[wire.Op]int
}

// newBroker starts a broker bound to the shared state. The server listens
// immediately; Close must be called to release the port.
func newBroker(id string, state *State) *Broker {
	b := &Broker{
		id:       id,
		state:    state,
		scripted: make(map[wire.Op][]*wire.Error),
		requests: make(map[wire.Op]int),
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/v1/admin", b.handleAdmin)
	b.srv = httptest.NewServer(router)

	logging.Debug("Brokertest: %s listening on %s", id, b.srv.Listener.Addr())
	return b
}

// ID returns the broker's cluster-wide identifier.
func (b *Broker) ID() string { return b.id }

// Node describes this broker the way cluster metadata would.
func (b *Broker) Node() metadata.Node {
	hostPort := strings.TrimPrefix(b.srv.URL, "http://")
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		panic(fmt.Sprintf("brokertest: malformed server address %q: %v", b.srv.URL, err))
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		panic(fmt.Sprintf("brokertest: malformed server port %q: %v", portStr, err))
	}
	return metadata.Node{ID: b.id, Name: b.id, Host: host, Port: port}
}

// SetController flips whether this broker accepts controller-only
// operations.
func (b *Broker) SetController(controller bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.controller = controller
}

// InjectError scripts the next request carrying op to fail with the given
// code before touching state. Repeated calls queue up.
func (b *Broker) InjectError(op wire.Op, code wire.ErrorCode, format string, v ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scripted[op] = append(b.scripted[op], wire.NewError(code, format, v...))
}

// InjectDeletionError makes delete-acls report werr for the given binding
// instead of removing it. Shared across the cluster.
func (b *Broker) InjectDeletionError(binding wire.ACLBinding, code wire.ErrorCode, format string, v ...any) {
	b.state.injectDeletionError(binding, wire.NewError(code, format, v...))
}

// RequestCount reports how many requests carrying op this broker served.
func (b *Broker) RequestCount(op wire.Op) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[op]
}

// Close shuts the HTTP server down. In-flight requests are allowed to
// finish.
func (b *Broker) Close() { b.srv.Close() }

func (b *Broker) handleAdmin(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "unreadable body: %v", err)
		return
	}
	req, err := wire.DecodeRequest(body)
	if err != nil {
		c.String(http.StatusBadRequest, "malformed envelope: %v", err)
		return
	}

	b.mu.Lock()
	b.requests[req.Op]++
	werr := b.takeScriptedLocked(req.Op)
	controller := b.controller
	b.mu.Unlock()

	var payload any
	if werr == nil {
		payload, werr = b.serve(req, controller)
	}

	data, err := wire.EncodeResponse(req.CorrelationID, werr, payload)
	if err != nil {
		c.String(http.StatusInternalServerError, "unencodable response: %v", err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (b *Broker) takeScriptedLocked(op wire.Op) *wire.Error {
	queue := b.scripted[op]
	if len(queue) == 0 {
		return nil
	}
	werr := queue[0]
	b.scripted[op] = queue[1:]
	return werr
}

// serve runs one decoded request against shared state, enforcing the
// controller rules the client's target routing relies on.
func (b *Broker) serve(req *wire.Request, controller bool) (any, *wire.Error) {
	switch req.Op {
	case wire.OpCreateTopic:
		if !controller {
			return nil, notController(b.id)
		}
		var create wire.CreateTopicRequest
		if err := wire.DecodePayload(req.Payload, &create); err != nil {
			return nil, wire.NewError(wire.ErrInvalidRequest, "bad create-topic payload: %v", err)
		}
		return nil, b.state.createTopic(create)

	case wire.OpDeleteTopic:
		if !controller {
			return nil, notController(b.id)
		}
		var del wire.DeleteTopicRequest
		if err := wire.DecodePayload(req.Payload, &del); err != nil {
			return nil, wire.NewError(wire.ErrInvalidRequest, "bad delete-topic payload: %v", err)
		}
		return nil, b.state.deleteTopic(del.Name)

	case wire.OpListTopics:
		return b.state.listTopics(), nil

	case wire.OpDescribeTopic:
		var desc wire.DescribeTopicRequest
		if err := wire.DecodePayload(req.Payload, &desc); err != nil {
			return nil, wire.NewError(wire.ErrInvalidRequest, "bad describe-topic payload: %v", err)
		}
		resp, werr := b.state.describeTopic(desc.Name)
		if werr != nil {
			return nil, werr
		}
		return resp, nil

	case wire.OpCreateACL:
		var create wire.CreateACLRequest
		if err := wire.DecodePayload(req.Payload, &create); err != nil {
			return nil, wire.NewError(wire.ErrInvalidRequest, "bad create-acl payload: %v", err)
		}
		return nil, b.state.createACL(create.Binding)

	case wire.OpDescribeACLs:
		var desc wire.DescribeACLsRequest
		if err := wire.DecodePayload(req.Payload, &desc); err != nil {
			return nil, wire.NewError(wire.ErrInvalidRequest, "bad describe-acls payload: %v", err)
		}
		return b.state.describeACLs(desc.Filter), nil

	case wire.OpDeleteACLs:
		var del wire.DeleteACLsRequest
		if err := wire.DecodePayload(req.Payload, &del); err != nil {
			return nil, wire.NewError(wire.ErrInvalidRequest, "bad delete-acls payload: %v", err)
		}
		return b.state.deleteACLs(del.Filter), nil

	case wire.OpDescribeConfigs:
		var desc wire.DescribeConfigsRequest
		if err := wire.DecodePayload(req.Payload, &desc); err != nil {
			return nil, wire.NewError(wire.ErrInvalidRequest, "bad describe-configs payload: %v", err)
		}
		resp, werr := b.state.describeConfigs(b.id, desc.ResourceType, desc.ResourceName)
		if werr != nil {
			return nil, werr
		}
		return resp, nil

	case wire.OpAlterConfigs:
		var alter wire.AlterConfigsRequest
		if err := wire.DecodePayload(req.Payload, &alter); err != nil {
			return nil, wire.NewError(wire.ErrInvalidRequest, "bad alter-configs payload: %v", err)
		}
		// Topic configs live on the controller; broker configs belong to
		// the addressed broker alone.
		if alter.ResourceType == wire.ResourceTopic && !controller {
			return nil, notController(b.id)
		}
		return nil, b.state.alterConfigs(b.id, alter)

	default:
		return nil, unsupportedOp(req.Op)
	}
}

// Cluster is a set of fake brokers over one shared State. Broker IDs are
// broker-1 through broker-n; broker-1 starts as controller.
type Cluster struct {
	state   *State
	brokers []*Broker
}

// NewCluster starts n brokers on ephemeral ports.
func NewCluster(n int) *Cluster {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("broker-%d", i))
	}

	state := newState(ids)
	cluster := &Cluster{state: state}
	for _, id := range ids {
		cluster.brokers = append(cluster.brokers, newBroker(id, state))
	}
	if len(cluster.brokers) > 0 {
		cluster.brokers[0].SetController(true)
	}
	return cluster
}

// Broker returns the i-th broker (zero-based).
func (c *Cluster) Broker(i int) *Broker { return c.brokers[i] }

// Brokers returns all brokers in id order.
func (c *Cluster) Brokers() []*Broker { return c.brokers }

// Controller returns the broker currently flagged as controller, or nil.
func (c *Cluster) Controller() *Broker {
	for _, b := range c.brokers {
		b.mu.Lock()
		isController := b.controller
		b.mu.Unlock()
		if isController {
			return b
		}
	}
	return nil
}

// PromoteController makes the i-th broker the sole controller.
func (c *Cluster) PromoteController(i int) {
	for j, b := range c.brokers {
		b.SetController(j == i)
	}
}

// View builds a static metadata view of the cluster with the current
// controller marked. Callers can mutate the view independently to simulate
// stale or shifting metadata.
func (c *Cluster) View() *metadata.Static {
	nodes := make([]metadata.Node, 0, len(c.brokers))
	for _, b := range c.brokers {
		nodes = append(nodes, b.Node())
	}
	view := metadata.NewStatic(nodes...)
	if controller := c.Controller(); controller != nil {
		view.SetController(controller.ID())
	}
	return view
}

// Close stops every broker.
func (c *Cluster) Close() {
	for _, b := range c.brokers {
		b.Close()
	}
}
