package admin

import (
	"encoding/json"
	"fmt"

	"github.com/meridian-dev/meridian/internal/wire"
)

// ConfigResource identifies a configurable object: a broker by its cluster
// ID, or a topic by name.
type ConfigResource struct {
	Type ResourceType
	Name string
}

func (r ConfigResource) String() string {
	return fmt.Sprintf("%s %q", r.Type, r.Name)
}

// ConfigEntry is one configuration key on a resource.
type ConfigEntry struct {
	Name     string
	Value    string
	ReadOnly bool
	Default  bool
}

// ResourceConfig is the dynamic configuration of one resource.
type ResourceConfig struct {
	Entries []ConfigEntry
}

// ConfigAlteration overwrites configuration entries on one resource.
type ConfigAlteration struct {
	Resource ConfigResource
	Entries  map[string]string
}

// describeTarget routes a config read: broker configs live only on the
// broker itself, topic configs are replicated and any broker can answer.
func describeTarget(r ConfigResource) TargetPolicy {
	if r.Type == ResourceTypeBroker {
		return FixedNode(r.Name)
	}
	return AnyBootstrapNode()
}

// alterTarget routes a config write: broker configs go to the broker, topic
// configs go through the controller.
func alterTarget(r ConfigResource) TargetPolicy {
	if r.Type == ResourceTypeBroker {
		return FixedNode(r.Name)
	}
	return ClusterController()
}

// DescribeConfigsResult carries the outcome of DescribeConfigs.
type DescribeConfigsResult struct {
	futures  map[ConfigResource]*Future[ResourceConfig]
	combined *Future[map[ConfigResource]ResourceConfig]
}

// Resource returns the future for one requested resource.
func (r *DescribeConfigsResult) Resource(res ConfigResource) *Future[ResourceConfig] {
	return r.futures[res]
}

// Futures returns the per-resource futures.
func (r *DescribeConfigsResult) Futures() map[ConfigResource]*Future[ResourceConfig] {
	return r.futures
}

// All resolves with every config keyed by resource once all succeed, or
// fails with the first per-resource failure.
func (r *DescribeConfigsResult) All() *Future[map[ConfigResource]ResourceConfig] {
	return r.combined
}

// DescribeConfigs reads the dynamic configuration of each resource, one call
// per resource. Broker resources are pinned to their broker and fail with
// NodeNotFoundError when it is not in the cluster.
func (c *Client) DescribeConfigs(resources []ConfigResource, opts ...CallOption) *DescribeConfigsResult {
	o := c.callOptions(opts)

	order := make([]ConfigResource, 0, len(resources))
	futures := make(map[ConfigResource]*Future[ResourceConfig], len(resources))
	calls := make([]*call, 0, len(resources))

	for _, res := range resources {
		if _, dup := futures[res]; dup {
			continue
		}
		fut := newFuture[ResourceConfig]()
		futures[res] = fut
		order = append(order, res)

		decode := func(raw json.RawMessage) (ResourceConfig, error) {
			var resp wire.DescribeConfigsResponse
			if err := wire.DecodePayload(raw, &resp); err != nil {
				return ResourceConfig{}, err
			}
			cfg := ResourceConfig{Entries: make([]ConfigEntry, 0, len(resp.Entries))}
			for _, e := range resp.Entries {
				cfg.Entries = append(cfg.Entries, ConfigEntry{
					Name:     e.Name,
					Value:    e.Value,
					ReadOnly: e.ReadOnly,
					Default:  e.Default,
				})
			}
			return cfg, nil
		}

		payload := wire.DescribeConfigsRequest{
			ResourceType: string(res.Type),
			ResourceName: res.Name,
		}
		calls = append(calls, newCall(
			wire.OpDescribeConfigs,
			fmt.Sprintf("describeConfigs(%s)", res),
			describeTarget(res),
			o.timeout,
			c.buildRequest(wire.OpDescribeConfigs, payload),
			handleResponse(fut, decode),
			fut.fail,
		))
	}

	combined := then(joinValues(order, futures), func(configs []ResourceConfig) (map[ConfigResource]ResourceConfig, error) {
		m := make(map[ConfigResource]ResourceConfig, len(configs))
		for i, cfg := range configs {
			m[order[i]] = cfg
		}
		return m, nil
	})

	c.submit(calls...)
	return &DescribeConfigsResult{futures: futures, combined: combined}
}

// AlterConfigsResult carries the outcome of AlterConfigs.
type AlterConfigsResult struct {
	futures  map[ConfigResource]*Future[struct{}]
	combined *Future[struct{}]
}

// Resource returns the future for one requested alteration.
func (r *AlterConfigsResult) Resource(res ConfigResource) *Future[struct{}] {
	return r.futures[res]
}

// Futures returns the per-resource futures.
func (r *AlterConfigsResult) Futures() map[ConfigResource]*Future[struct{}] {
	return r.futures
}

// All resolves once every alteration lands, or fails with the first
// per-resource failure.
func (r *AlterConfigsResult) All() *Future[struct{}] {
	return r.combined
}

// AlterConfigs overwrites configuration entries, one call per resource.
// Broker alterations are pinned to their broker; topic alterations go
// through the controller.
func (c *Client) AlterConfigs(alterations []ConfigAlteration, opts ...CallOption) *AlterConfigsResult {
	o := c.callOptions(opts)

	order := make([]ConfigResource, 0, len(alterations))
	futures := make(map[ConfigResource]*Future[struct{}], len(alterations))
	calls := make([]*call, 0, len(alterations))

	for _, alt := range alterations {
		if _, dup := futures[alt.Resource]; dup {
			continue
		}
		fut := newFuture[struct{}]()
		futures[alt.Resource] = fut
		order = append(order, alt.Resource)

		payload := wire.AlterConfigsRequest{
			ResourceType: string(alt.Resource.Type),
			ResourceName: alt.Resource.Name,
			Entries:      alt.Entries,
		}
		calls = append(calls, newCall(
			wire.OpAlterConfigs,
			fmt.Sprintf("alterConfigs(%s)", alt.Resource),
			alterTarget(alt.Resource),
			o.timeout,
			c.buildRequest(wire.OpAlterConfigs, payload),
			handleResponse(fut, voidDecode),
			fut.fail,
		))
	}

	combined := joinVoid(order, futures)
	c.submit(calls...)
	return &AlterConfigsResult{futures: futures, combined: combined}
}
