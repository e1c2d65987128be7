package brokertest

import (
	"sort"
	"sync"

	"github.com/meridian-dev/meridian/internal/validate"
	"github.com/meridian-dev/meridian/internal/wire"
)

// Seeded configuration every fake broker and topic starts with. Entries not
// overridden by an alter keep their default flag, the way a real broker
// reports inherited cluster defaults.
var (
	brokerConfigDefaults = map[string]string{
		"log.dirs":          "/var/lib/meridian/data",
		"message.max.bytes": "1048576",
	}
	brokerConfigReadOnly = map[string]bool{
		"log.dirs": true,
	}
	topicConfigDefaults = map[string]string{
		"retention.ms":   "604800000",
		"cleanup.policy": "delete",
	}
)

// metadataTopicName is the internal topic every fresh cluster carries.
const metadataTopicName = "__cluster_metadata"

// topicMeta is the stored shape of one topic.
type topicMeta struct {
	partitions  int32
	replication int16
	internal    bool
	overrides   map[string]string
}

// State is the shared admin state machine behind a fake cluster. All
// brokers of one cluster answer from the same State, so a topic created
// through the controller is immediately visible to list and describe
// requests served by any other broker.
type State struct {
	mu           sync.Mutex
	brokerIDs    []string
	topics       map[string]*topicMeta
	acls         []wire.ACLBinding
	brokerOver   map[string]map[string]string
	deletionErrs map[wire.ACLBinding]*wire.Error
}

func newState(brokerIDs []string) *State {
	ids := make([]string, len(brokerIDs))
	copy(ids, brokerIDs)
	sort.Strings(ids)

	s := &State{
		brokerIDs:    ids,
		topics:       make(map[string]*topicMeta),
		brokerOver:   make(map[string]map[string]string),
		deletionErrs: make(map[wire.ACLBinding]*wire.Error),
	}
	s.topics[metadataTopicName] = &topicMeta{
		partitions:  1,
		replication: 1,
		internal:    true,
		overrides:   make(map[string]string),
	}
	return s
}

func (s *State) createTopic(req wire.CreateTopicRequest) *wire.Error {
	if err := validate.TopicNameFormat(req.Name); err != nil {
		return wire.NewError(wire.ErrInvalidRequest, "invalid topic name: %v", err)
	}
	if req.Partitions <= 0 {
		return wire.NewError(wire.ErrInvalidRequest,
			"partition count must be positive, got %d", req.Partitions)
	}
	if req.ReplicationFactor <= 0 {
		return wire.NewError(wire.ErrInvalidRequest,
			"replication factor must be positive, got %d", req.ReplicationFactor)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if int(req.ReplicationFactor) > len(s.brokerIDs) {
		return wire.NewError(wire.ErrInvalidRequest,
			"replication factor %d exceeds broker count %d",
			req.ReplicationFactor, len(s.brokerIDs))
	}
	if _, exists := s.topics[req.Name]; exists {
		return wire.NewError(wire.ErrTopicAlreadyExists, "topic %q already exists", req.Name)
	}

	overrides := make(map[string]string, len(req.Configs))
	for k, v := range req.Configs {
		overrides[k] = v
	}
	s.topics[req.Name] = &topicMeta{
		partitions:  req.Partitions,
		replication: req.ReplicationFactor,
		overrides:   overrides,
	}
	return nil
}

func (s *State) deleteTopic(name string) *wire.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.topics[name]
	if !ok {
		return wire.NewError(wire.ErrUnknownTopic, "topic %q does not exist", name)
	}
	if meta.internal {
		return wire.NewError(wire.ErrInvalidRequest, "topic %q is internal and cannot be deleted", name)
	}
	delete(s.topics, name)
	return nil
}

func (s *State) listTopics() wire.ListTopicsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.topics))
	for name := range s.topics {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := wire.ListTopicsResponse{Topics: make([]wire.TopicListing, 0, len(names))}
	for _, name := range names {
		resp.Topics = append(resp.Topics, wire.TopicListing{
			Name:     name,
			Internal: s.topics[name].internal,
		})
	}
	return resp
}

func (s *State) describeTopic(name string) (wire.DescribeTopicResponse, *wire.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.topics[name]
	if !ok {
		return wire.DescribeTopicResponse{},
			wire.NewError(wire.ErrUnknownTopic, "topic %q does not exist", name)
	}

	resp := wire.DescribeTopicResponse{
		Name:       name,
		Internal:   meta.internal,
		Partitions: make([]wire.PartitionInfo, 0, meta.partitions),
	}
	for p := int32(0); p < meta.partitions; p++ {
		leader := int(p) % len(s.brokerIDs)
		replicas := make([]string, 0, meta.replication)
		for r := 0; r < int(meta.replication) && r < len(s.brokerIDs); r++ {
			replicas = append(replicas, s.brokerIDs[(leader+r)%len(s.brokerIDs)])
		}
		resp.Partitions = append(resp.Partitions, wire.PartitionInfo{
			ID:       p,
			LeaderID: s.brokerIDs[leader],
			Replicas: replicas,
		})
	}
	return resp, nil
}

func (s *State) createACL(binding wire.ACLBinding) *wire.Error {
	if binding.ResourceType == "" || binding.ResourceName == "" ||
		binding.Principal == "" || binding.Operation == "" || binding.Permission == "" {
		return wire.NewError(wire.ErrInvalidRequest, "acl binding has empty required fields")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-creating an identical binding is a no-op, not a conflict.
	for _, existing := range s.acls {
		if existing == binding {
			return nil
		}
	}
	s.acls = append(s.acls, binding)
	return nil
}

func (s *State) describeACLs(filter wire.ACLFilter) wire.DescribeACLsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := wire.DescribeACLsResponse{Bindings: []wire.ACLBinding{}}
	for _, binding := range s.acls {
		if filterMatches(filter, binding) {
			resp.Bindings = append(resp.Bindings, binding)
		}
	}
	return resp
}

func (s *State) deleteACLs(filter wire.ACLFilter) wire.DeleteACLsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := wire.DeleteACLsResponse{Deletions: []wire.ACLDeletion{}}
	kept := s.acls[:0]
	for _, binding := range s.acls {
		if !filterMatches(filter, binding) {
			kept = append(kept, binding)
			continue
		}
		if werr, scripted := s.deletionErrs[binding]; scripted {
			resp.Deletions = append(resp.Deletions, wire.ACLDeletion{Binding: binding, Error: werr})
			kept = append(kept, binding)
			continue
		}
		resp.Deletions = append(resp.Deletions, wire.ACLDeletion{Binding: binding})
	}
	s.acls = kept
	return resp
}

func (s *State) injectDeletionError(binding wire.ACLBinding, werr *wire.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletionErrs[binding] = werr
}

// describeConfigs answers for one resource. Broker resources are only
// served by the broker they name, which is how selfID comes in.
func (s *State) describeConfigs(selfID, resourceType, resourceName string) (wire.DescribeConfigsResponse, *wire.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resourceType {
	case wire.ResourceBroker:
		if resourceName != selfID {
			return wire.DescribeConfigsResponse{},
				wire.NewError(wire.ErrUnknownResource, "broker %q is not served here", resourceName)
		}
		return mergeConfigs(brokerConfigDefaults, s.brokerOver[selfID], brokerConfigReadOnly), nil

	case wire.ResourceTopic:
		meta, ok := s.topics[resourceName]
		if !ok {
			return wire.DescribeConfigsResponse{},
				wire.NewError(wire.ErrUnknownTopic, "topic %q does not exist", resourceName)
		}
		return mergeConfigs(topicConfigDefaults, meta.overrides, nil), nil

	default:
		return wire.DescribeConfigsResponse{},
			wire.NewError(wire.ErrInvalidRequest, "unknown resource type %q", resourceType)
	}
}

func (s *State) alterConfigs(selfID string, req wire.AlterConfigsRequest) *wire.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.ResourceType {
	case wire.ResourceBroker:
		if req.ResourceName != selfID {
			return wire.NewError(wire.ErrUnknownResource, "broker %q is not served here", req.ResourceName)
		}
		for name := range req.Entries {
			if brokerConfigReadOnly[name] {
				return wire.NewError(wire.ErrInvalidRequest, "config %q is read-only", name)
			}
		}
		if s.brokerOver[selfID] == nil {
			s.brokerOver[selfID] = make(map[string]string)
		}
		for name, value := range req.Entries {
			s.brokerOver[selfID][name] = value
		}
		return nil

	case wire.ResourceTopic:
		meta, ok := s.topics[req.ResourceName]
		if !ok {
			return wire.NewError(wire.ErrUnknownTopic, "topic %q does not exist", req.ResourceName)
		}
		for name, value := range req.Entries {
			meta.overrides[name] = value
		}
		return nil

	default:
		return wire.NewError(wire.ErrInvalidRequest, "unknown resource type %q", req.ResourceType)
	}
}

// mergeConfigs flattens defaults plus overrides into sorted wire entries.
func mergeConfigs(defaults, overrides map[string]string, readOnly map[string]bool) wire.DescribeConfigsResponse {
	names := make(map[string]bool, len(defaults)+len(overrides))
	for name := range defaults {
		names[name] = true
	}
	for name := range overrides {
		names[name] = true
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	resp := wire.DescribeConfigsResponse{Entries: make([]wire.ConfigEntry, 0, len(sorted))}
	for _, name := range sorted {
		value, overridden := overrides[name]
		if !overridden {
			value = defaults[name]
		}
		resp.Entries = append(resp.Entries, wire.ConfigEntry{
			Name:     name,
			Value:    value,
			ReadOnly: readOnly[name],
			Default:  !overridden,
		})
	}
	return resp
}

// filterMatches applies the wire-level ACL filter semantics: empty filter
// fields match any binding value.
func filterMatches(f wire.ACLFilter, b wire.ACLBinding) bool {
	match := func(want, got string) bool { return want == "" || want == got }
	return match(f.ResourceType, b.ResourceType) &&
		match(f.ResourceName, b.ResourceName) &&
		match(f.Principal, b.Principal) &&
		match(f.Host, b.Host) &&
		match(f.Operation, b.Operation) &&
		match(f.Permission, b.Permission)
}

// notController is the canonical refusal for controller-only work.
func notController(id string) *wire.Error {
	return wire.NewError(wire.ErrNotController, "broker %s is not the current controller", id)
}

// unsupportedOp rejects operations the broker does not implement.
func unsupportedOp(op wire.Op) *wire.Error {
	return wire.NewError(wire.ErrInvalidRequest, "unsupported operation %q", op)
}
