// Package handlers provides command handler functions for meridianctl ACL operations.
//
// ACL handlers translate flag sets into bindings and filters. Creation
// validates the binding client-side before any broker sees it; deletion is
// filter-driven and refuses an unconstrained filter unless the operator
// passes --all, since an empty filter matches every binding in the cluster.
package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-dev/meridian/cmd/meridianctl/config"
	"github.com/meridian-dev/meridian/cmd/meridianctl/display"
	"github.com/meridian-dev/meridian/cmd/meridianctl/utils"
	"github.com/meridian-dev/meridian/internal/admin"
	"github.com/meridian-dev/meridian/internal/logging"
)

var aclOperations = map[string]admin.ACLOperation{
	"all":      admin.ACLOpAll,
	"read":     admin.ACLOpRead,
	"write":    admin.ACLOpWrite,
	"create":   admin.ACLOpCreate,
	"delete":   admin.ACLOpDelete,
	"describe": admin.ACLOpDescribe,
	"alter":    admin.ACLOpAlter,
}

var aclPermissions = map[string]admin.ACLPermission{
	"allow": admin.PermissionAllow,
	"deny":  admin.PermissionDeny,
}

// HandleACLCreate handles the acl create subcommand.
func HandleACLCreate(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	binding, err := bindingFromFlags()
	if err != nil {
		return err
	}

	return withAdmin(func(ctx context.Context, client *admin.Client) error {
		logging.Info("Creating ACL binding: %s", binding)

		if _, err := client.CreateACLs([]admin.ACLBinding{binding}).All().Get(ctx); err != nil {
			return err
		}

		logging.Success("Successfully created ACL binding: %s", binding)
		return nil
	})
}

// HandleACLList handles the acl ls subcommand.
func HandleACLList(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	filter, err := filterFromFlags()
	if err != nil {
		return err
	}

	return withAdmin(func(ctx context.Context, client *admin.Client) error {
		logging.Info("Fetching ACL bindings")

		bindings, err := client.DescribeACLs(filter).Bindings().Get(ctx)
		if err != nil {
			return err
		}

		display.DisplayACLBindings(bindings)
		logging.Success("Successfully retrieved %d ACL bindings", len(bindings))
		return nil
	})
}

// HandleACLDelete handles the acl delete subcommand.
func HandleACLDelete(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	filter, err := filterFromFlags()
	if err != nil {
		return err
	}

	if filter == (admin.ACLBindingFilter{}) && !config.ACLFilter.All {
		return fmt.Errorf("an empty filter deletes every binding in the cluster - pass --all to confirm")
	}

	return withAdmin(func(ctx context.Context, client *admin.Client) error {
		logging.Info("Deleting ACL bindings")

		deleted, err := client.DeleteACLs([]admin.ACLBindingFilter{filter}).All().Get(ctx)
		if err != nil {
			return err
		}

		display.DisplayACLBindings(deleted)
		logging.Success("Successfully deleted %d ACL bindings", len(deleted))
		return nil
	})
}

// bindingFromFlags builds the binding for acl create, validating enum flags
// client-side so typos fail with a flag-level message instead of a broker
// round trip.
func bindingFromFlags() (admin.ACLBinding, error) {
	resource, err := aclResource(config.ACL.Topic, config.ACL.Cluster, true)
	if err != nil {
		return admin.ACLBinding{}, err
	}

	operation, ok := aclOperations[config.ACL.Operation]
	if !ok {
		return admin.ACLBinding{}, fmt.Errorf(
			"invalid --operation %q - valid: all, read, write, create, delete, describe, alter",
			config.ACL.Operation)
	}

	permission, ok := aclPermissions[config.ACL.Permission]
	if !ok {
		return admin.ACLBinding{}, fmt.Errorf(
			"invalid --permission %q - valid: allow, deny", config.ACL.Permission)
	}

	return admin.ACLBinding{
		Resource:   resource,
		Principal:  config.ACL.Principal,
		Host:       config.ACL.Host,
		Operation:  operation,
		Permission: permission,
	}, nil
}

// filterFromFlags builds the filter for acl ls and acl delete. Every field
// is optional; empty fields match anything.
func filterFromFlags() (admin.ACLBindingFilter, error) {
	resource, err := aclResource(config.ACLFilter.Topic, config.ACLFilter.Cluster, false)
	if err != nil {
		return admin.ACLBindingFilter{}, err
	}

	filter := admin.ACLBindingFilter{
		ResourceType: resource.Type,
		ResourceName: resource.Name,
		Principal:    config.ACLFilter.Principal,
		Host:         config.ACLFilter.Host,
	}

	if config.ACLFilter.Operation != "" {
		operation, ok := aclOperations[config.ACLFilter.Operation]
		if !ok {
			return admin.ACLBindingFilter{}, fmt.Errorf(
				"invalid --operation %q - valid: all, read, write, create, delete, describe, alter",
				config.ACLFilter.Operation)
		}
		filter.Operation = operation
	}

	if config.ACLFilter.Permission != "" {
		permission, ok := aclPermissions[config.ACLFilter.Permission]
		if !ok {
			return admin.ACLBindingFilter{}, fmt.Errorf(
				"invalid --permission %q - valid: allow, deny", config.ACLFilter.Permission)
		}
		filter.Permission = permission
	}

	return filter, nil
}

// aclResource resolves --topic/--cluster into a resource. Creation requires
// exactly one; filters accept none (match any resource).
func aclResource(topic string, cluster, required bool) (admin.Resource, error) {
	switch {
	case topic != "" && cluster:
		return admin.Resource{}, fmt.Errorf("--topic and --cluster are mutually exclusive")
	case topic != "":
		return admin.Resource{Type: admin.ResourceTypeTopic, Name: topic}, nil
	case cluster:
		return admin.Resource{Type: admin.ResourceTypeCluster, Name: admin.ClusterResourceName}, nil
	case required:
		return admin.Resource{}, fmt.Errorf("a resource is required - pass --topic=NAME or --cluster")
	default:
		return admin.Resource{}, nil
	}
}
