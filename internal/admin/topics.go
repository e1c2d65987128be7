package admin

import (
	"encoding/json"
	"fmt"

	"github.com/meridian-dev/meridian/internal/wire"
)

// NewTopic describes a topic to create.
type NewTopic struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
	Configs           map[string]string
}

// TopicListing is one row of a topic listing.
type TopicListing struct {
	Name     string
	Internal bool
}

// PartitionInfo locates one partition: its leader and replica brokers.
type PartitionInfo struct {
	ID       int32
	LeaderID string
	Replicas []string
}

// TopicDescription describes one topic's partition layout.
type TopicDescription struct {
	Name       string
	Internal   bool
	Partitions []PartitionInfo
}

// CreateTopicsResult carries the outcome of CreateTopics: one future per
// requested topic plus a combined one.
type CreateTopicsResult struct {
	futures  map[string]*Future[struct{}]
	combined *Future[struct{}]
}

// Topic returns the future for one requested topic, nil when the name was
// not part of the request.
func (r *CreateTopicsResult) Topic(name string) *Future[struct{}] {
	return r.futures[name]
}

// Futures returns the per-topic futures keyed by topic name.
func (r *CreateTopicsResult) Futures() map[string]*Future[struct{}] {
	return r.futures
}

// All resolves once every topic is created, or fails with the first
// per-topic failure while the remaining creates continue independently.
func (r *CreateTopicsResult) All() *Future[struct{}] {
	return r.combined
}

// CreateTopics asks the controller to create the given topics. Each topic
// rides its own call so creations succeed and fail independently; duplicate
// names alias to a single call.
func (c *Client) CreateTopics(topics []NewTopic, opts ...CallOption) *CreateTopicsResult {
	o := c.callOptions(opts)

	order := make([]string, 0, len(topics))
	futures := make(map[string]*Future[struct{}], len(topics))
	calls := make([]*call, 0, len(topics))

	for _, t := range topics {
		if _, dup := futures[t.Name]; dup {
			continue
		}
		fut := newFuture[struct{}]()
		futures[t.Name] = fut
		order = append(order, t.Name)

		payload := wire.CreateTopicRequest{
			Name:              t.Name,
			Partitions:        t.Partitions,
			ReplicationFactor: t.ReplicationFactor,
			Configs:           t.Configs,
		}
		calls = append(calls, newCall(
			wire.OpCreateTopic,
			fmt.Sprintf("createTopic(%s)", t.Name),
			ClusterController(),
			o.timeout,
			c.buildRequest(wire.OpCreateTopic, payload),
			handleResponse(fut, voidDecode),
			fut.fail,
		))
	}

	combined := joinVoid(order, futures)
	c.submit(calls...)
	return &CreateTopicsResult{futures: futures, combined: combined}
}

// DeleteTopicsResult carries the outcome of DeleteTopics.
type DeleteTopicsResult struct {
	futures  map[string]*Future[struct{}]
	combined *Future[struct{}]
}

// Topic returns the future for one requested deletion.
func (r *DeleteTopicsResult) Topic(name string) *Future[struct{}] {
	return r.futures[name]
}

// Futures returns the per-topic futures keyed by topic name.
func (r *DeleteTopicsResult) Futures() map[string]*Future[struct{}] {
	return r.futures
}

// All resolves once every topic is deleted, or fails with the first
// per-topic failure.
func (r *DeleteTopicsResult) All() *Future[struct{}] {
	return r.combined
}

// DeleteTopics asks the controller to delete the given topics, one call per
// topic.
func (c *Client) DeleteTopics(names []string, opts ...CallOption) *DeleteTopicsResult {
	o := c.callOptions(opts)

	order := make([]string, 0, len(names))
	futures := make(map[string]*Future[struct{}], len(names))
	calls := make([]*call, 0, len(names))

	for _, name := range names {
		if _, dup := futures[name]; dup {
			continue
		}
		fut := newFuture[struct{}]()
		futures[name] = fut
		order = append(order, name)

		calls = append(calls, newCall(
			wire.OpDeleteTopic,
			fmt.Sprintf("deleteTopic(%s)", name),
			ClusterController(),
			o.timeout,
			c.buildRequest(wire.OpDeleteTopic, wire.DeleteTopicRequest{Name: name}),
			handleResponse(fut, voidDecode),
			fut.fail,
		))
	}

	combined := joinVoid(order, futures)
	c.submit(calls...)
	return &DeleteTopicsResult{futures: futures, combined: combined}
}

// ListTopicsResult carries the outcome of ListTopics.
type ListTopicsResult struct {
	listings *Future[[]TopicListing]
}

// Listings resolves with every topic visible to the answering broker.
func (r *ListTopicsResult) Listings() *Future[[]TopicListing] {
	return r.listings
}

// Names derives just the topic names from the listings.
func (r *ListTopicsResult) Names() *Future[[]string] {
	return then(r.listings, func(listings []TopicListing) ([]string, error) {
		names := make([]string, 0, len(listings))
		for _, l := range listings {
			names = append(names, l.Name)
		}
		return names, nil
	})
}

// ListTopics fetches the topic catalog from any available broker.
func (c *Client) ListTopics(opts ...CallOption) *ListTopicsResult {
	o := c.callOptions(opts)
	fut := newFuture[[]TopicListing]()

	decode := func(raw json.RawMessage) ([]TopicListing, error) {
		var resp wire.ListTopicsResponse
		if err := wire.DecodePayload(raw, &resp); err != nil {
			return nil, err
		}
		listings := make([]TopicListing, 0, len(resp.Topics))
		for _, t := range resp.Topics {
			listings = append(listings, TopicListing{Name: t.Name, Internal: t.Internal})
		}
		return listings, nil
	}

	c.submit(newCall(
		wire.OpListTopics,
		"listTopics",
		AnyBootstrapNode(),
		o.timeout,
		c.buildRequest(wire.OpListTopics, nil),
		handleResponse(fut, decode),
		fut.fail,
	))
	return &ListTopicsResult{listings: fut}
}

// DescribeTopicsResult carries the outcome of DescribeTopics.
type DescribeTopicsResult struct {
	futures  map[string]*Future[TopicDescription]
	combined *Future[map[string]TopicDescription]
}

// Topic returns the future for one requested description.
func (r *DescribeTopicsResult) Topic(name string) *Future[TopicDescription] {
	return r.futures[name]
}

// Futures returns the per-topic futures keyed by topic name.
func (r *DescribeTopicsResult) Futures() map[string]*Future[TopicDescription] {
	return r.futures
}

// All resolves with every description keyed by name once all succeed, or
// fails with the first per-topic failure.
func (r *DescribeTopicsResult) All() *Future[map[string]TopicDescription] {
	return r.combined
}

// DescribeTopics fetches partition layouts from any available broker, one
// call per topic.
func (c *Client) DescribeTopics(names []string, opts ...CallOption) *DescribeTopicsResult {
	o := c.callOptions(opts)

	order := make([]string, 0, len(names))
	futures := make(map[string]*Future[TopicDescription], len(names))
	calls := make([]*call, 0, len(names))

	for _, name := range names {
		if _, dup := futures[name]; dup {
			continue
		}
		fut := newFuture[TopicDescription]()
		futures[name] = fut
		order = append(order, name)

		decode := func(raw json.RawMessage) (TopicDescription, error) {
			var resp wire.DescribeTopicResponse
			if err := wire.DecodePayload(raw, &resp); err != nil {
				return TopicDescription{}, err
			}
			parts := make([]PartitionInfo, 0, len(resp.Partitions))
			for _, p := range resp.Partitions {
				parts = append(parts, PartitionInfo{ID: p.ID, LeaderID: p.LeaderID, Replicas: p.Replicas})
			}
			return TopicDescription{Name: resp.Name, Internal: resp.Internal, Partitions: parts}, nil
		}

		calls = append(calls, newCall(
			wire.OpDescribeTopic,
			fmt.Sprintf("describeTopic(%s)", name),
			AnyBootstrapNode(),
			o.timeout,
			c.buildRequest(wire.OpDescribeTopic, wire.DescribeTopicRequest{Name: name}),
			handleResponse(fut, decode),
			fut.fail,
		))
	}

	combined := then(joinValues(order, futures), func(descs []TopicDescription) (map[string]TopicDescription, error) {
		m := make(map[string]TopicDescription, len(descs))
		for _, d := range descs {
			m[d.Name] = d
		}
		return m, nil
	})

	c.submit(calls...)
	return &DescribeTopicsResult{futures: futures, combined: combined}
}
