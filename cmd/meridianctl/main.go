// Package main provides the entry point for the Meridian CLI tool (meridianctl).
//
// This package implements the main executable for the cluster administration
// CLI that enables operators to manage Meridian clusters: topics, access
// control bindings, and dynamic configuration, plus broker discovery through
// the cluster's gossip layer.
//
// CLI ARCHITECTURE:
// The main package orchestrates the complete CLI system including:
//   - Command Structure: Hierarchical resource-based commands (broker, topic, acl, config)
//   - Handler Integration: Command execution over the admin client and gossip view
//   - Flag Management: Global and command-specific configuration options
//   - Configuration Binding: CLI state management and validation pipeline
//
// COMMAND CATEGORIES:
//   - Broker Commands: Gossip-discovered broker listing with controller markers
//   - Topic Commands: Topic lifecycle (create, ls, info, delete)
//   - ACL Commands: Access control binding management (create, ls, delete)
//   - Config Commands: Dynamic configuration reads and writes (get, set)
//
// INITIALIZATION FLOW:
// 1. Command structure setup with hierarchical organization
// 2. Flag configuration for global and command-specific options
// 3. Handler assignment linking commands to admin operations
// 4. Configuration validation and CLI state management
// 5. Command execution with proper error handling and exit codes
//
// The CLI follows kubectl-style patterns for intuitive cluster management with
// consistent interfaces, comprehensive help text, and production-ready reliability.
package main

import (
	"os"

	"github.com/meridian-dev/meridian/cmd/meridianctl/commands"
	"github.com/meridian-dev/meridian/cmd/meridianctl/config"
	"github.com/meridian-dev/meridian/cmd/meridianctl/handlers"
)

func init() {
	// Get root command from commands package
	rootCmd := commands.RootCmd

	// Set version and validation
	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	// Setup all command structures
	commands.SetupCommands()
	commands.SetupBrokerCommands()
	commands.SetupTopicCommands()
	commands.SetupACLCommands()
	commands.SetupConfigCommands()

	// Setup global flags
	commands.SetupGlobalFlags(rootCmd, &config.Global.Join, &config.Global.Bind,
		&config.Global.LogLevel, &config.Global.Timeout, &config.Global.Verbose,
		&config.Global.Output, config.DefaultJoinAddr, config.DefaultBindAddr)

	// Setup topic command flags
	topicCreateCmd, topicLsCmd, _, _ := commands.GetTopicCommands()
	commands.SetupTopicFlags(topicCreateCmd, topicLsCmd,
		&config.Topic.Partitions, &config.Topic.Replication,
		&config.Topic.Configs, &config.Topic.Internal)

	// Setup ACL command flags
	aclCreateCmd, aclLsCmd, aclDeleteCmd := commands.GetACLCommands()
	commands.SetupACLCreateFlags(aclCreateCmd,
		&config.ACL.Principal, &config.ACL.Host, &config.ACL.Operation,
		&config.ACL.Permission, &config.ACL.Topic, &config.ACL.Cluster)
	commands.SetupACLFilterFlags(aclLsCmd, aclDeleteCmd,
		&config.ACLFilter.Principal, &config.ACLFilter.Host,
		&config.ACLFilter.Operation, &config.ACLFilter.Permission,
		&config.ACLFilter.Topic, &config.ACLFilter.Cluster,
		&config.ACLFilter.All)

	// Setup config command flags
	configGetCmd, configSetCmd := commands.GetConfigCommands()
	commands.SetupConfigFlags(configGetCmd, configSetCmd,
		&config.Configs.Broker, &config.Configs.Topic, &config.Configs.Set)

	// Setup command handlers
	setupCommandHandlers()
}

// setupCommandHandlers assigns RunE functions to commands
func setupCommandHandlers() {
	brokerLsCmd := commands.GetBrokerCommands()
	brokerLsCmd.RunE = handlers.HandleBrokerList

	topicCreateCmd, topicLsCmd, topicInfoCmd, topicDeleteCmd := commands.GetTopicCommands()
	topicCreateCmd.RunE = handlers.HandleTopicCreate
	topicLsCmd.RunE = handlers.HandleTopicList
	topicInfoCmd.RunE = handlers.HandleTopicInfo
	topicDeleteCmd.RunE = handlers.HandleTopicDelete

	aclCreateCmd, aclLsCmd, aclDeleteCmd := commands.GetACLCommands()
	aclCreateCmd.RunE = handlers.HandleACLCreate
	aclLsCmd.RunE = handlers.HandleACLList
	aclDeleteCmd.RunE = handlers.HandleACLDelete

	configGetCmd, configSetCmd := commands.GetConfigCommands()
	configGetCmd.RunE = handlers.HandleConfigGet
	configSetCmd.RunE = handlers.HandleConfigSet
}

// main is the main entry point
func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
