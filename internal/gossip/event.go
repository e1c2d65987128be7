package gossip

import (
	"time"

	"github.com/hashicorp/serf/serf"

	"github.com/meridian-dev/meridian/internal/logging"
)

// processEvents drains membership events from Serf. Runs on its own
// goroutine; the buffer on ingestQueue keeps Serf from ever blocking on us.
func (m *Manager) processEvents() {
	defer m.wg.Done()

	logging.Info("Gossip: event processor started")

	for {
		select {
		case event := <-m.ingestQueue:
			m.handleEvent(event)

		case <-m.ctx.Done():
			logging.Info("Gossip: event processor shutting down")
			return
		}
	}
}

func (m *Manager) handleEvent(event serf.Event) {
	switch e := event.(type) {
	case serf.MemberEvent:
		m.handleMemberEvent(e)
	default:
		logging.Debug("Gossip: unhandled event type: %T", event)
	}
}

// handleMemberEvent folds node join/leave/fail/update/reap into the broker
// view. A failed broker leaves the view immediately rather than lingering
// with a status flag: the engine should stop routing to it now, and the
// broker's next join puts it back.
func (m *Manager) handleMemberEvent(event serf.MemberEvent) {
	for _, member := range event.Members {
		switch event.EventType() {
		case serf.EventMemberJoin:
			logging.Info("Gossip: node joined: %s (%s)", member.Name, member.Addr)
			m.observeMember(member)

		case serf.EventMemberUpdate:
			logging.Info("Gossip: node updated: %s (%s)", member.Name, member.Addr)
			m.observeMember(member)

		case serf.EventMemberLeave:
			logging.Info("Gossip: node left: %s (%s)", member.Name, member.Addr)
			m.dropMember(member)

		case serf.EventMemberFailed:
			logging.Warn("Gossip: node failed: %s (%s)", member.Name, member.Addr)
			m.dropMember(member)

		case serf.EventMemberReap:
			logging.Info("Gossip: node reaped: %s (%s)", member.Name, member.Addr)
			m.dropMember(member)
		}
	}
}

// observeMember records or refreshes one member. Only brokers enter the
// view; the controller tag is tracked here too, including the flip back to
// false when leadership moves.
func (m *Manager) observeMember(member serf.Member) {
	node, ok := brokerFromMember(member)
	if !ok {
		logging.Debug("Gossip: ignoring non-broker member %s", member.Name)
		return
	}

	claimsController := member.Tags[TagController] == "true"

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, tracked := m.brokers[node.ID]; !tracked {
		m.seen[node.ID] = time.Now()
	}
	m.brokers[node.ID] = node
	if claimsController {
		if m.controllerID != node.ID {
			logging.Info("Gossip: controller is now %s", node)
		}
		m.controllerID = node.ID
	} else if m.controllerID == node.ID {
		logging.Info("Gossip: broker %s no longer controller", node)
		m.controllerID = ""
	}
}

// dropMember removes one member from the broker view.
func (m *Manager) dropMember(member serf.Member) {
	id := memberNodeID(member)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, tracked := m.brokers[id]; !tracked {
		return
	}
	delete(m.brokers, id)
	delete(m.seen, id)
	if m.controllerID == id {
		logging.Warn("Gossip: controller %s is gone, cluster has no controller", member.Name)
		m.controllerID = ""
	}
}
