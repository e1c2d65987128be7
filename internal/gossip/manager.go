// Package gossip provides Serf-based broker discovery for the Meridian
// admin client. Brokers advertise themselves through SWIM gossip with role
// and admin-port tags; this package joins that cluster as a non-broker
// member, tracks which brokers are alive, and serves the point-in-time
// metadata snapshots the call engine routes against.
//
// Membership is weakly consistent by nature: a snapshot may briefly include
// a broker that just died or miss one that just joined. The admin client is
// built for that — stale routing surfaces as retriable failures, and the
// next snapshot heals it.
package gossip

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/serf/serf"

	"github.com/meridian-dev/meridian/internal/logging"
	"github.com/meridian-dev/meridian/internal/metadata"
	"github.com/meridian-dev/meridian/internal/utils"
)

// Tags every Meridian node advertises through gossip. Brokers carry role,
// admin_port, and (on exactly one of them) controller=true; admin clients
// carry role=admin so brokers can tell them apart from peers.
const (
	TagNodeID     = "node_id"
	TagRole       = "role"
	TagAdminPort  = "admin_port"
	TagController = "controller"

	RoleBroker = "broker"
	RoleAdmin  = "admin"
)

// Manager joins the cluster's gossip layer and maintains the broker view.
type Manager struct {
	NodeID   string // Unique identifier for this client in the cluster
	NodeName string // Gossip name for this client

	config *Config
	serf   *serf.Serf

	// Direct from Serf, drained by the event processor. Sized generously so
	// membership bursts never block Serf's internals.
	ingestQueue chan serf.Event

	mu           sync.RWMutex
	brokers      map[string]metadata.Node
	seen         map[string]time.Time
	controllerID string

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startTime time.Time
}

// NewManager creates a gossip manager. Nil config gets DefaultConfig, which
// fails validation until NodeName is set.
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	nodeID, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate node ID: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		NodeID:      nodeID,
		NodeName:    config.NodeName,
		config:      config,
		ingestQueue: make(chan serf.Event, config.EventBufferSize*2),
		brokers:     make(map[string]metadata.Node),
		seen:        make(map[string]time.Time),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Start brings up the Serf instance and the event processor. The manager
// only watches membership after Start; call Join next to reach the cluster.
func (m *Manager) Start() error {
	m.startTime = time.Now()
	logging.Info("Gossip: starting manager for node %s", m.NodeID)

	serfConfig := serf.DefaultConfig()

	if !logging.IsConfiguredByCLI() {
		logging.SetLevel(m.config.LogLevel)
	}

	// Route Serf and memberlist internals through our logger, or silence
	// them entirely at ERROR level.
	if m.config.LogLevel == "ERROR" {
		serfConfig.LogOutput = io.Discard
		serfConfig.MemberlistConfig.LogOutput = io.Discard
	} else {
		gossipWriter := logging.NewGossipWriter()
		serfConfig.LogOutput = gossipWriter
		serfConfig.MemberlistConfig.LogOutput = gossipWriter
	}

	serfConfig.Init()
	serfConfig.NodeName = m.NodeName
	serfConfig.MemberlistConfig.BindAddr = m.config.BindAddr
	serfConfig.MemberlistConfig.BindPort = m.config.BindPort
	serfConfig.EventCh = m.ingestQueue
	serfConfig.Tags = m.buildTags()

	s, err := serf.Create(serfConfig)
	if err != nil {
		return fmt.Errorf("failed to create serf instance: %w", err)
	}
	m.serf = s

	m.wg.Add(1)
	go m.processEvents()

	logging.Success("Gossip: manager listening on %s:%d", m.config.BindAddr, m.config.BindPort)
	return nil
}

// Join reaches an existing cluster through one or more seed addresses. Serf
// tries each address, so a single dead seed does not fail the join; whole
// failed rounds are retried with a growing pause.
func (m *Manager) Join(addresses []string) error {
	if len(addresses) == 0 {
		return fmt.Errorf("no join addresses provided")
	}

	logging.Info("Gossip: joining cluster via %v", addresses)

	var lastErr error
	for attempt := 1; attempt <= m.config.JoinRetries; attempt++ {
		ctx, cancel := context.WithTimeout(m.ctx, m.config.JoinTimeout)

		joinDone := make(chan struct {
			n   int
			err error
		}, 1)
		go func() {
			n, err := m.serf.Join(addresses, false)
			joinDone <- struct {
				n   int
				err error
			}{n, err}
		}()

		select {
		case result := <-joinDone:
			cancel()
			if result.err != nil {
				lastErr = result.err
				logging.Warn("Gossip: join attempt %d/%d failed: %v",
					attempt, m.config.JoinRetries, result.err)

				if attempt < m.config.JoinRetries {
					time.Sleep(time.Duration(attempt) * time.Second)
				}
				continue
			}

			logging.Success("Gossip: joined cluster, contacted %d nodes", result.n)
			return nil

		case <-ctx.Done():
			cancel()
			lastErr = fmt.Errorf("join attempt timed out after %v", m.config.JoinTimeout)
			logging.Warn("Gossip: join attempt %d/%d timed out after %v",
				attempt, m.config.JoinRetries, m.config.JoinTimeout)

			if attempt < m.config.JoinRetries {
				time.Sleep(time.Duration(attempt) * time.Second)
			}
			continue
		}
	}

	return fmt.Errorf("failed to join cluster after %d attempts: %w",
		m.config.JoinRetries, lastErr)
}

// WaitReady blocks until at least one broker is visible or the timeout
// passes. Useful right after Join, before handing the view to the admin
// client.
func (m *Manager) WaitReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if m.Snapshot().Len() > 0 {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("no brokers discovered within %v", timeout)
		}

		select {
		case <-ticker.C:
		case <-m.ctx.Done():
			return fmt.Errorf("gossip manager is shutting down")
		}
	}
}

// Leave gracefully leaves the cluster.
func (m *Manager) Leave() error {
	logging.Info("Gossip: leaving cluster gracefully")

	if m.serf != nil {
		if err := m.serf.Leave(); err != nil {
			return fmt.Errorf("failed to leave cluster: %w", err)
		}
	}

	return nil
}

// Shutdown stops the manager and cleans up resources.
func (m *Manager) Shutdown() error {
	logging.Info("Gossip: shutting down manager")

	m.cancel()

	if err := m.Leave(); err != nil {
		logging.Warn("Gossip: error during graceful leave: %v", err)
	}

	if m.serf != nil {
		if err := m.serf.Shutdown(); err != nil {
			logging.Error("Gossip: error shutting down serf: %v", err)
		}
	}

	m.wg.Wait()

	logging.Success("Gossip: manager shutdown completed")
	return nil
}

// Snapshot returns the current broker view. Satisfies the admin client's
// metadata view contract.
func (m *Manager) Snapshot() metadata.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make([]metadata.Node, 0, len(m.brokers))
	for _, node := range m.brokers {
		nodes = append(nodes, node)
	}
	return metadata.NewSnapshot(nodes, m.controllerID)
}

// Brokers returns all known brokers sorted by ID.
func (m *Manager) Brokers() []metadata.Node {
	snap := m.Snapshot()

	nodes := make([]metadata.Node, 0, snap.Len())
	for _, id := range snap.IDs() {
		node, _ := snap.Node(id)
		nodes = append(nodes, node)
	}
	return nodes
}

// Controller returns the broker currently advertising the controller tag.
func (m *Manager) Controller() (metadata.Node, bool) {
	return m.Snapshot().Controller()
}

// DiscoveredAt reports when a broker first entered the view. The timestamp
// resets if the broker drops out and rejoins.
func (m *Manager) DiscoveredAt(id string) (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	at, ok := m.seen[id]
	return at, ok
}

// buildTags constructs the tag set this client advertises.
func (m *Manager) buildTags() map[string]string {
	tags := make(map[string]string, len(m.config.Tags)+2)

	for k, v := range m.config.Tags {
		tags[k] = v
	}

	tags[TagNodeID] = m.NodeID
	tags[TagRole] = RoleAdmin

	return tags
}

// memberNodeID extracts the cluster-wide node ID for a member, falling back
// to the gossip name for nodes that never advertised one.
func memberNodeID(member serf.Member) string {
	if id := member.Tags[TagNodeID]; id != "" {
		return id
	}
	return member.Name
}

// brokerFromMember translates a gossiping member into broker metadata.
// Non-broker members and brokers with unusable admin ports report ok=false.
func brokerFromMember(member serf.Member) (metadata.Node, bool) {
	if member.Tags[TagRole] != RoleBroker {
		return metadata.Node{}, false
	}

	portStr, exists := member.Tags[TagAdminPort]
	if !exists {
		logging.Warn("Gossip: broker %s advertises no admin port, ignoring", member.Name)
		return metadata.Node{}, false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		logging.Warn("Gossip: broker %s advertises invalid admin port %q, ignoring",
			member.Name, portStr)
		return metadata.Node{}, false
	}

	return metadata.Node{
		ID:   memberNodeID(member),
		Name: member.Name,
		Host: member.Addr.String(),
		Port: port,
	}, true
}
