// Package commands provides broker command definitions for meridianctl.
//
// Broker commands surface the gossip layer's view of the cluster: which
// brokers are alive, where their admin endpoints live, and which one is
// currently the controller. They answer from local membership state and
// never issue admin protocol requests.
package commands

import (
	"github.com/spf13/cobra"
)

// Broker command (parent command for broker operations)
var brokerCmd = &cobra.Command{
	Use:   "broker",
	Short: "Inspect cluster brokers",
	Long: `Commands for inspecting brokers in the Meridian cluster.

Broker information comes from the gossip layer this CLI joins on startup,
so listings reflect live membership rather than static configuration.`,
}

// Broker list command
var brokerLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all cluster brokers",
	Long: `List all brokers currently visible through gossip.

The controller broker is marked; a missing marker during an election is
normal and resolves once the new controller advertises itself.`,
	Example: `  # List all brokers
  meridianctl broker ls

  # List brokers via a specific gossip seed
  meridianctl --join=192.168.1.100:4700 broker ls

  # Output in JSON format
  meridianctl -o json broker ls`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// SetupBrokerCommands initializes broker command relationships
func SetupBrokerCommands() {
	brokerCmd.AddCommand(brokerLsCmd)
}

// GetBrokerCommands returns broker command references for flag and handler setup
func GetBrokerCommands() *cobra.Command {
	return brokerLsCmd
}
