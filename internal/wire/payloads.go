package wire

// Payload shapes for each admin operation. Requests that operate on a batch
// client-side still carry a single item each: the orchestration engine fans a
// batch out into one call per item so failures stay independent.

// CreateTopicRequest asks the controller to create one topic.
type CreateTopicRequest struct {
	Name              string            `json:"name"`
	Partitions        int32             `json:"partitions"`
	ReplicationFactor int16             `json:"replication_factor"`
	Configs           map[string]string `json:"configs,omitempty"`
}

// DeleteTopicRequest asks the controller to delete one topic.
type DeleteTopicRequest struct {
	Name string `json:"name"`
}

// ListTopicsResponse carries the names of all topics visible to the broker.
type ListTopicsResponse struct {
	Topics []TopicListing `json:"topics"`
}

// TopicListing is one row of a list-topics response.
type TopicListing struct {
	Name     string `json:"name"`
	Internal bool   `json:"internal"`
}

// DescribeTopicRequest asks any broker for one topic's layout.
type DescribeTopicRequest struct {
	Name string `json:"name"`
}

// DescribeTopicResponse describes one topic's partitions and placement.
type DescribeTopicResponse struct {
	Name       string          `json:"name"`
	Internal   bool            `json:"internal"`
	Partitions []PartitionInfo `json:"partitions"`
}

// PartitionInfo locates one partition: its leader and replica brokers.
type PartitionInfo struct {
	ID       int32    `json:"id"`
	LeaderID string   `json:"leader_id"`
	Replicas []string `json:"replicas"`
}

// ACLBinding is one access rule: a principal's permission to perform an
// operation on a resource from a host.
type ACLBinding struct {
	ResourceType string `json:"resource_type"`
	ResourceName string `json:"resource_name"`
	Principal    string `json:"principal"`
	Host         string `json:"host"`
	Operation    string `json:"operation"`
	Permission   string `json:"permission"`
}

// ACLFilter selects bindings by field; empty fields match anything.
type ACLFilter struct {
	ResourceType string `json:"resource_type,omitempty"`
	ResourceName string `json:"resource_name,omitempty"`
	Principal    string `json:"principal,omitempty"`
	Host         string `json:"host,omitempty"`
	Operation    string `json:"operation,omitempty"`
	Permission   string `json:"permission,omitempty"`
}

// CreateACLRequest installs one binding.
type CreateACLRequest struct {
	Binding ACLBinding `json:"binding"`
}

// DescribeACLsRequest lists bindings matching one filter.
type DescribeACLsRequest struct {
	Filter ACLFilter `json:"filter"`
}

// DescribeACLsResponse carries the matched bindings.
type DescribeACLsResponse struct {
	Bindings []ACLBinding `json:"bindings"`
}

// DeleteACLsRequest deletes every binding matching one filter.
type DeleteACLsRequest struct {
	Filter ACLFilter `json:"filter"`
}

// DeleteACLsResponse reports each binding the filter matched and whether its
// deletion succeeded. A response-level success can still contain per-binding
// failures.
type DeleteACLsResponse struct {
	Deletions []ACLDeletion `json:"deletions"`
}

// ACLDeletion is the per-binding outcome inside a delete-acls response.
type ACLDeletion struct {
	Binding ACLBinding `json:"binding"`
	Error   *Error     `json:"error,omitempty"`
}

// Resource type names used by config and ACL payloads.
const (
	ResourceBroker = "broker"
	ResourceTopic  = "topic"
)

// DescribeConfigsRequest reads the dynamic configuration of one resource.
type DescribeConfigsRequest struct {
	ResourceType string `json:"resource_type"`
	ResourceName string `json:"resource_name"`
}

// DescribeConfigsResponse carries the resource's config entries.
type DescribeConfigsResponse struct {
	Entries []ConfigEntry `json:"entries"`
}

// ConfigEntry is one configuration key with its current value and metadata.
type ConfigEntry struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	ReadOnly bool   `json:"read_only"`
	Default  bool   `json:"default"`
}

// AlterConfigsRequest overwrites configuration entries on one resource.
type AlterConfigsRequest struct {
	ResourceType string            `json:"resource_type"`
	ResourceName string            `json:"resource_name"`
	Entries      map[string]string `json:"entries"`
}
