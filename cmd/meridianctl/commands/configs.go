// Package commands provides config command definitions for meridianctl.
//
// This file implements the config command tree for dynamic configuration:
// reading a resource's effective configuration and overwriting entries.
// Broker configs live on the named broker; topic config writes route to the
// controller.
package commands

import (
	"github.com/spf13/cobra"
)

// Config command (parent command for configuration operations)
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dynamic configuration",
	Long: `Commands for reading and changing dynamic configuration of brokers
and topics in the Meridian cluster.

Exactly one resource must be named per invocation: --broker=ID or
--topic=NAME.`,
}

// Config get command
var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a resource's effective configuration",
	Long: `Display the effective configuration of one broker or topic,
including defaulted entries and read-only markers.`,
	Example: `  # Read a broker's configuration
  meridianctl config get --broker=broker-1

  # Read a topic's configuration
  meridianctl config get --topic=orders

  # Output in JSON format
  meridianctl -o json config get --topic=orders`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// Config set command
var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Overwrite configuration entries on a resource",
	Long: `Overwrite configuration entries on one broker or topic.

Read-only entries cannot be changed and fail the whole request. Each --set
flag carries one key=value pair.`,
	Example: `  # Shorten a topic's retention
  meridianctl config set --topic=orders --set=retention.ms=86400000

  # Change several entries at once
  meridianctl config set --topic=orders --set=retention.ms=86400000 --set=cleanup.policy=delete

  # Change a broker entry
  meridianctl config set --broker=broker-1 --set=message.max.bytes=2097152`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// SetupConfigCommands initializes config command relationships
func SetupConfigCommands() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// SetupConfigFlags configures flags for config commands
func SetupConfigFlags(getCmd, setCmd *cobra.Command,
	brokerPtr, topicPtr *string, setPtr *[]string) {
	for _, cmd := range []*cobra.Command{getCmd, setCmd} {
		cmd.Flags().StringVar(brokerPtr, "broker", "",
			"Broker ID to target")
		cmd.Flags().StringVar(topicPtr, "topic", "",
			"Topic name to target")
	}

	setCmd.Flags().StringSliceVar(setPtr, "set", nil,
		"Entry to overwrite (key=value format, repeatable)")
	setCmd.MarkFlagRequired("set")
}

// GetConfigCommands returns config command references for flag and handler setup
func GetConfigCommands() (getCmd, setCmd *cobra.Command) {
	return configGetCmd, configSetCmd
}
