// Package commands provides the complete command tree implementation for meridianctl.
//
// This package defines the hierarchical command structure for the Meridian CLI
// tool, implementing a resource-based command architecture similar to kubectl.
// Commands are organized into logical groups that match the cluster's admin
// surface.
//
// COMMAND STRUCTURE:
//   - broker: Broker discovery through the gossip layer (ls)
//   - topic: Topic lifecycle management (create, ls, info, delete)
//   - acl: Access control binding management (create, ls, delete)
//   - config: Dynamic configuration management (get, set)
//
// All commands follow consistent patterns with standardized flag handling,
// error messages, and output formatting for reliable cluster administration.
package commands

import (
	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "meridianctl",
	Short: "CLI tool for administering Meridian clusters",
	Long: `Meridian CLI (meridianctl) is a command-line tool for administering
Meridian clusters: topics, access control bindings, and dynamic configuration.

Similar to kubectl for Kubernetes, meridianctl discovers brokers through the
cluster's gossip layer and talks to them over the HTTP admin protocol, routing
each operation to the broker that can answer it.`,
	SilenceUsage: true,
	Example: `  # List brokers discovered through gossip
  meridianctl broker ls

  # Create a topic with three partitions
  meridianctl topic create orders --partitions=3 --replication-factor=2

  # List topics, including internal ones
  meridianctl topic ls --internal

  # Inspect a topic's partition layout
  meridianctl topic info orders

  # Grant a principal write access to a topic
  meridianctl acl create --principal=user:argus --topic=orders --operation=write

  # Read a broker's configuration
  meridianctl config get --broker=broker-1

  # Override a topic config entry
  meridianctl config set --topic=orders --set=retention.ms=86400000

  # Join through a different gossip seed
  meridianctl --join=192.168.1.100:4700 broker ls

  # Output in JSON format
  meridianctl -o json topic ls`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(brokerCmd)
	RootCmd.AddCommand(topicCmd)
	RootCmd.AddCommand(aclCmd)
	RootCmd.AddCommand(configCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, joinPtr *string, bindPtr *string,
	logLevelPtr *string, timeoutPtr *int, verbosePtr *bool, outputPtr *string,
	defaultJoinAddr, defaultBindAddr string) {
	rootCmd.PersistentFlags().StringVar(joinPtr, "join", defaultJoinAddr,
		"Gossip seed addresses (comma-separated, any cluster node works)")
	rootCmd.PersistentFlags().StringVar(bindPtr, "bind", defaultBindAddr,
		"Local gossip bind address (port 0 picks an ephemeral port)")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", 8,
		"Operation timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
}
