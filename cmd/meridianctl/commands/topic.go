// Package commands provides topic command definitions for meridianctl.
//
// This file implements the topic command tree for topic lifecycle management:
// creation with partition and replication settings, listing, partition layout
// inspection, and deletion. Create and delete are controller-routed on the
// broker side; the CLI only needs any reachable broker.
package commands

import (
	"github.com/spf13/cobra"
)

// Topic command (parent command for topic operations)
var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Manage and inspect topics",
	Long: `Commands for managing topics in the Meridian cluster.

This command group provides operations for creating topics, listing them,
inspecting partition layouts, and deleting topics.`,
}

// Topic create command
var topicCreateCmd = &cobra.Command{
	Use:   "create NAME [NAME...]",
	Short: "Create one or more topics",
	Long: `Create topics with the given partition count and replication factor.

All topics named in one invocation share the same settings. The operation is
routed to the cluster controller and retried transparently across controller
elections until the timeout expires.`,
	Example: `  # Create a topic with defaults (1 partition, replication factor 1)
  meridianctl topic create orders

  # Create a topic with three partitions, replicated twice
  meridianctl topic create orders --partitions=3 --replication-factor=2

  # Create a topic with config overrides
  meridianctl topic create audit --config=retention.ms=604800000 --config=cleanup.policy=delete

  # Create several topics at once
  meridianctl topic create orders payments refunds --partitions=3`,
	Args: cobra.MinimumNArgs(1),
	// RunE will be set by the main package that imports this
}

// Topic list command
var topicLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all topics",
	Long: `List topics in the Meridian cluster.

Internal topics are hidden by default; pass --internal to include them.`,
	Example: `  # List topics
  meridianctl topic ls

  # Include internal topics
  meridianctl topic ls --internal

  # Output in JSON format
  meridianctl -o json topic ls`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// Topic info command
var topicInfoCmd = &cobra.Command{
	Use:   "info NAME [NAME...]",
	Short: "Show partition layout for topics",
	Long: `Display detailed information for one or more topics, including each
partition's leader and replica brokers.`,
	Example: `  # Show a topic's partition layout
  meridianctl topic info orders

  # Inspect several topics at once
  meridianctl topic info orders payments`,
	Args: cobra.MinimumNArgs(1),
	// RunE will be set by the main package that imports this
}

// Topic delete command
var topicDeleteCmd = &cobra.Command{
	Use:   "delete NAME [NAME...]",
	Short: "Delete one or more topics",
	Long: `Delete topics from the Meridian cluster.

Deletion is permanent and routed to the cluster controller. Internal topics
cannot be deleted.`,
	Example: `  # Delete a topic
  meridianctl topic delete orders

  # Delete several topics at once
  meridianctl topic delete orders payments`,
	Args: cobra.MinimumNArgs(1),
	// RunE will be set by the main package that imports this
}

// SetupTopicCommands initializes topic command relationships
func SetupTopicCommands() {
	topicCmd.AddCommand(topicCreateCmd)
	topicCmd.AddCommand(topicLsCmd)
	topicCmd.AddCommand(topicInfoCmd)
	topicCmd.AddCommand(topicDeleteCmd)
}

// SetupTopicFlags configures flags for topic commands
func SetupTopicFlags(createCmd, lsCmd *cobra.Command,
	partitionsPtr *int32, replicationPtr *int16, configsPtr *[]string, internalPtr *bool) {
	createCmd.Flags().Int32Var(partitionsPtr, "partitions", 1,
		"Number of partitions")
	createCmd.Flags().Int16Var(replicationPtr, "replication-factor", 1,
		"Replication factor (cannot exceed broker count)")
	createCmd.Flags().StringSliceVar(configsPtr, "config", nil,
		"Topic config override (key=value format, repeatable)")

	lsCmd.Flags().BoolVar(internalPtr, "internal", false,
		"Include internal topics")
}

// GetTopicCommands returns topic command references for flag and handler setup
func GetTopicCommands() (createCmd, lsCmd, infoCmd, deleteCmd *cobra.Command) {
	return topicCreateCmd, topicLsCmd, topicInfoCmd, topicDeleteCmd
}
