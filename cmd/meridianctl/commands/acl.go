// Package commands provides ACL command definitions for meridianctl.
//
// This file implements the acl command tree for access control management:
// creating bindings, listing them through filters, and deleting matching
// bindings. Deletion is destructive and refuses an empty filter unless the
// operator confirms with --all.
package commands

import (
	"github.com/spf13/cobra"
)

// ACL command (parent command for ACL operations)
var aclCmd = &cobra.Command{
	Use:   "acl",
	Short: "Manage access control bindings",
	Long: `Commands for managing access control bindings in the Meridian cluster.

A binding grants or denies one principal an operation on a resource from a
host. Listing and deletion work through filters: empty filter fields match
every binding.`,
}

// ACL create command
var aclCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an access control binding",
	Long: `Create one access control binding.

The binding needs a principal, an operation, and a resource (--topic or
--cluster). Host defaults to every host and permission defaults to allow.`,
	Example: `  # Allow a principal to write to a topic
  meridianctl acl create --principal=user:argus --topic=orders --operation=write

  # Deny a principal topic deletion from one host
  meridianctl acl create --principal=user:hermes --topic=orders \
    --operation=delete --permission=deny --host=10.0.0.5

  # Allow cluster-wide describe
  meridianctl acl create --principal=user:argus --cluster --operation=describe`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// ACL list command
var aclLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List access control bindings",
	Long: `List access control bindings matching a filter.

Every flag is optional; omitted fields match any value. With no flags at all
the listing returns every binding in the cluster.`,
	Example: `  # List every binding
  meridianctl acl ls

  # List bindings for one principal
  meridianctl acl ls --principal=user:argus

  # List write bindings on a topic
  meridianctl acl ls --topic=orders --operation=write`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// ACL delete command
var aclDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete access control bindings matching a filter",
	Long: `Delete every access control binding matching the filter and print
what was removed.

An empty filter matches every binding in the cluster; deleting everything
requires explicit confirmation with --all.`,
	Example: `  # Delete one principal's bindings on a topic
  meridianctl acl delete --principal=user:argus --topic=orders

  # Delete all deny bindings
  meridianctl acl delete --permission=deny

  # Delete every binding in the cluster (requires confirmation)
  meridianctl acl delete --all`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// SetupACLCommands initializes ACL command relationships
func SetupACLCommands() {
	aclCmd.AddCommand(aclCreateCmd)
	aclCmd.AddCommand(aclLsCmd)
	aclCmd.AddCommand(aclDeleteCmd)
}

// SetupACLCreateFlags configures flags for acl create, which takes a full
// binding
func SetupACLCreateFlags(createCmd *cobra.Command,
	principalPtr, hostPtr, operationPtr, permissionPtr, topicPtr *string,
	clusterPtr *bool) {
	createCmd.Flags().StringVar(principalPtr, "principal", "",
		"Principal the binding applies to (e.g., user:argus)")
	createCmd.Flags().StringVar(hostPtr, "host", "*",
		"Host the binding applies to (* for every host)")
	createCmd.Flags().StringVar(operationPtr, "operation", "",
		"Operation: all, read, write, create, delete, describe, alter")
	createCmd.Flags().StringVar(permissionPtr, "permission", "allow",
		"Permission: allow, deny")
	createCmd.Flags().StringVar(topicPtr, "topic", "",
		"Topic resource the binding protects")
	createCmd.Flags().BoolVar(clusterPtr, "cluster", false,
		"Target the cluster resource")
	createCmd.MarkFlagRequired("principal")
	createCmd.MarkFlagRequired("operation")
}

// SetupACLFilterFlags configures the shared filter flags for acl ls and
// acl delete; empty fields match everything
func SetupACLFilterFlags(lsCmd, deleteCmd *cobra.Command,
	principalPtr, hostPtr, operationPtr, permissionPtr, topicPtr *string,
	clusterPtr, allPtr *bool) {
	for _, cmd := range []*cobra.Command{lsCmd, deleteCmd} {
		cmd.Flags().StringVar(principalPtr, "principal", "",
			"Filter by principal")
		cmd.Flags().StringVar(hostPtr, "host", "",
			"Filter by host")
		cmd.Flags().StringVar(operationPtr, "operation", "",
			"Filter by operation")
		cmd.Flags().StringVar(permissionPtr, "permission", "",
			"Filter by permission")
		cmd.Flags().StringVar(topicPtr, "topic", "",
			"Filter by topic resource")
		cmd.Flags().BoolVar(clusterPtr, "cluster", false,
			"Filter by the cluster resource")
	}

	deleteCmd.Flags().BoolVar(allPtr, "all", false,
		"Confirm deleting every binding when no filter is given")
}

// GetACLCommands returns ACL command references for flag and handler setup
func GetACLCommands() (createCmd, lsCmd, deleteCmd *cobra.Command) {
	return aclCreateCmd, aclLsCmd, aclDeleteCmd
}
