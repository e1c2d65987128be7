package admin

import (
	"encoding/json"
	"fmt"

	"github.com/meridian-dev/meridian/internal/wire"
)

// ResourceType classifies the object an ACL binding or config resource
// refers to.
type ResourceType string

const (
	ResourceTypeTopic   ResourceType = "topic"
	ResourceTypeCluster ResourceType = "cluster"
	ResourceTypeBroker  ResourceType = "broker"
)

// ClusterResourceName is the only valid name for the cluster resource;
// there is exactly one cluster to bind against.
const ClusterResourceName = "meridian-cluster"

// ACLOperation is the action a binding allows or denies.
type ACLOperation string

const (
	ACLOpAll      ACLOperation = "all"
	ACLOpRead     ACLOperation = "read"
	ACLOpWrite    ACLOperation = "write"
	ACLOpCreate   ACLOperation = "create"
	ACLOpDelete   ACLOperation = "delete"
	ACLOpDescribe ACLOperation = "describe"
	ACLOpAlter    ACLOperation = "alter"
)

// ACLPermission is the effect of a binding.
type ACLPermission string

const (
	PermissionAllow ACLPermission = "allow"
	PermissionDeny  ACLPermission = "deny"
)

// Resource identifies the object a binding protects.
type Resource struct {
	Type ResourceType
	Name string
}

// ACLBinding grants or denies one principal an operation on a resource from
// a host. The zero value is not a valid binding; brokers reject bindings
// with empty fields as INVALID_REQUEST.
type ACLBinding struct {
	Resource   Resource
	Principal  string
	Host       string
	Operation  ACLOperation
	Permission ACLPermission
}

func (b ACLBinding) String() string {
	return fmt.Sprintf("%s %s %s on %s %q from %s",
		b.Permission, b.Principal, b.Operation, b.Resource.Type, b.Resource.Name, b.Host)
}

// ACLBindingFilter selects bindings field-by-field. Empty fields match
// anything, so the zero filter matches every binding.
type ACLBindingFilter struct {
	ResourceType ResourceType
	ResourceName string
	Principal    string
	Host         string
	Operation    ACLOperation
	Permission   ACLPermission
}

// Matches reports whether the filter selects the binding.
func (f ACLBindingFilter) Matches(b ACLBinding) bool {
	if f.ResourceType != "" && f.ResourceType != b.Resource.Type {
		return false
	}
	if f.ResourceName != "" && f.ResourceName != b.Resource.Name {
		return false
	}
	if f.Principal != "" && f.Principal != b.Principal {
		return false
	}
	if f.Host != "" && f.Host != b.Host {
		return false
	}
	if f.Operation != "" && f.Operation != b.Operation {
		return false
	}
	if f.Permission != "" && f.Permission != b.Permission {
		return false
	}
	return true
}

func (b ACLBinding) toWire() wire.ACLBinding {
	return wire.ACLBinding{
		ResourceType: string(b.Resource.Type),
		ResourceName: b.Resource.Name,
		Principal:    b.Principal,
		Host:         b.Host,
		Operation:    string(b.Operation),
		Permission:   string(b.Permission),
	}
}

func bindingFromWire(w wire.ACLBinding) ACLBinding {
	return ACLBinding{
		Resource:   Resource{Type: ResourceType(w.ResourceType), Name: w.ResourceName},
		Principal:  w.Principal,
		Host:       w.Host,
		Operation:  ACLOperation(w.Operation),
		Permission: ACLPermission(w.Permission),
	}
}

func (f ACLBindingFilter) toWire() wire.ACLFilter {
	return wire.ACLFilter{
		ResourceType: string(f.ResourceType),
		ResourceName: f.ResourceName,
		Principal:    f.Principal,
		Host:         f.Host,
		Operation:    string(f.Operation),
		Permission:   string(f.Permission),
	}
}

// CreateACLsResult carries the outcome of CreateACLs.
type CreateACLsResult struct {
	futures  map[ACLBinding]*Future[struct{}]
	combined *Future[struct{}]
}

// Binding returns the future for one requested binding.
func (r *CreateACLsResult) Binding(b ACLBinding) *Future[struct{}] {
	return r.futures[b]
}

// Futures returns the per-binding futures.
func (r *CreateACLsResult) Futures() map[ACLBinding]*Future[struct{}] {
	return r.futures
}

// All resolves once every binding is installed, or fails with the first
// per-binding failure.
func (r *CreateACLsResult) All() *Future[struct{}] {
	return r.combined
}

// CreateACLs installs the given bindings, one call per binding. Duplicate
// bindings alias to a single call.
func (c *Client) CreateACLs(bindings []ACLBinding, opts ...CallOption) *CreateACLsResult {
	o := c.callOptions(opts)

	order := make([]ACLBinding, 0, len(bindings))
	futures := make(map[ACLBinding]*Future[struct{}], len(bindings))
	calls := make([]*call, 0, len(bindings))

	for _, b := range bindings {
		if _, dup := futures[b]; dup {
			continue
		}
		fut := newFuture[struct{}]()
		futures[b] = fut
		order = append(order, b)

		calls = append(calls, newCall(
			wire.OpCreateACL,
			fmt.Sprintf("createAcl(%s)", b.Principal),
			AnyBootstrapNode(),
			o.timeout,
			c.buildRequest(wire.OpCreateACL, wire.CreateACLRequest{Binding: b.toWire()}),
			handleResponse(fut, voidDecode),
			fut.fail,
		))
	}

	combined := joinVoid(order, futures)
	c.submit(calls...)
	return &CreateACLsResult{futures: futures, combined: combined}
}

// DescribeACLsResult carries the outcome of DescribeACLs.
type DescribeACLsResult struct {
	bindings *Future[[]ACLBinding]
}

// Bindings resolves with every binding the filter matched.
func (r *DescribeACLsResult) Bindings() *Future[[]ACLBinding] {
	return r.bindings
}

// DescribeACLs lists the bindings matching the filter. One call regardless
// of how broad the filter is; the broker does the matching.
func (c *Client) DescribeACLs(filter ACLBindingFilter, opts ...CallOption) *DescribeACLsResult {
	o := c.callOptions(opts)
	fut := newFuture[[]ACLBinding]()

	decode := func(raw json.RawMessage) ([]ACLBinding, error) {
		var resp wire.DescribeACLsResponse
		if err := wire.DecodePayload(raw, &resp); err != nil {
			return nil, err
		}
		bindings := make([]ACLBinding, 0, len(resp.Bindings))
		for _, w := range resp.Bindings {
			bindings = append(bindings, bindingFromWire(w))
		}
		return bindings, nil
	}

	c.submit(newCall(
		wire.OpDescribeACLs,
		"describeAcls",
		AnyBootstrapNode(),
		o.timeout,
		c.buildRequest(wire.OpDescribeACLs, wire.DescribeACLsRequest{Filter: filter.toWire()}),
		handleResponse(fut, decode),
		fut.fail,
	))
	return &DescribeACLsResult{bindings: fut}
}

// FilterDeletion is the per-binding outcome inside one filter's deletions.
type FilterDeletion struct {
	Binding ACLBinding
	Err     error
}

// FilterResults carries everything one delete filter matched, successful or
// not.
type FilterResults struct {
	Deletions []FilterDeletion
}

// DeleteACLsResult carries the outcome of DeleteACLs.
type DeleteACLsResult struct {
	futures  map[ACLBindingFilter]*Future[FilterResults]
	combined *Future[[]ACLBinding]
}

// Filter returns the future for one requested filter.
func (r *DeleteACLsResult) Filter(f ACLBindingFilter) *Future[FilterResults] {
	return r.futures[f]
}

// Futures returns the per-filter futures.
func (r *DeleteACLsResult) Futures() map[ACLBindingFilter]*Future[FilterResults] {
	return r.futures
}

// All flattens the successfully deleted bindings across every filter. It
// fails if any filter failed outright or any matched binding failed to
// delete; per-filter results stay independently available either way.
func (r *DeleteACLsResult) All() *Future[[]ACLBinding] {
	return r.combined
}

// DeleteACLs deletes every binding matched by each filter, one call per
// filter. A failed filter fails only its own future; the combined view of
// All additionally fails on per-binding errors inside successful filters.
func (c *Client) DeleteACLs(filters []ACLBindingFilter, opts ...CallOption) *DeleteACLsResult {
	o := c.callOptions(opts)

	order := make([]ACLBindingFilter, 0, len(filters))
	futures := make(map[ACLBindingFilter]*Future[FilterResults], len(filters))
	calls := make([]*call, 0, len(filters))

	for _, f := range filters {
		if _, dup := futures[f]; dup {
			continue
		}
		fut := newFuture[FilterResults]()
		futures[f] = fut
		order = append(order, f)

		decode := func(raw json.RawMessage) (FilterResults, error) {
			var resp wire.DeleteACLsResponse
			if err := wire.DecodePayload(raw, &resp); err != nil {
				return FilterResults{}, err
			}
			results := FilterResults{Deletions: make([]FilterDeletion, 0, len(resp.Deletions))}
			for _, d := range resp.Deletions {
				fd := FilterDeletion{Binding: bindingFromWire(d.Binding)}
				if d.Error != nil {
					fd.Err = d.Error
				}
				results.Deletions = append(results.Deletions, fd)
			}
			return results, nil
		}

		calls = append(calls, newCall(
			wire.OpDeleteACLs,
			"deleteAcls",
			AnyBootstrapNode(),
			o.timeout,
			c.buildRequest(wire.OpDeleteACLs, wire.DeleteACLsRequest{Filter: f.toWire()}),
			handleResponse(fut, decode),
			fut.fail,
		))
	}

	combined := then(joinValues(order, futures), func(results []FilterResults) ([]ACLBinding, error) {
		var deleted []ACLBinding
		for _, fr := range results {
			for _, d := range fr.Deletions {
				if d.Err != nil {
					return nil, d.Err
				}
				deleted = append(deleted, d.Binding)
			}
		}
		return deleted, nil
	})

	c.submit(calls...)
	return &DeleteACLsResult{futures: futures, combined: combined}
}
