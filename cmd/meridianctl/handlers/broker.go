// Package handlers provides command handler functions for meridianctl broker operations.
//
// Broker handlers answer entirely from the gossip view joined for the
// invocation: listing brokers requires no admin protocol traffic, which
// keeps it usable even when every broker's admin endpoint is saturated.
package handlers

import (
	"github.com/spf13/cobra"

	"github.com/meridian-dev/meridian/cmd/meridianctl/display"
	"github.com/meridian-dev/meridian/cmd/meridianctl/utils"
	"github.com/meridian-dev/meridian/internal/logging"
)

// HandleBrokerList handles the broker ls subcommand for displaying all
// brokers currently visible through gossip, with their admin endpoints and
// the controller marker.
func HandleBrokerList(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	identity := cliIdentity()
	manager, err := connectGossip(identity)
	if err != nil {
		return err
	}
	defer manager.Shutdown()

	brokers := manager.Brokers()
	controllerID := ""
	if controller, ok := manager.Controller(); ok {
		controllerID = controller.ID
	}

	rows := make([]display.BrokerRow, 0, len(brokers))
	for _, node := range brokers {
		row := display.BrokerRow{
			ID:         node.ID,
			Name:       node.Name,
			Address:    node.Addr(),
			Controller: node.ID == controllerID,
		}
		if at, ok := manager.DiscoveredAt(node.ID); ok {
			row.Discovered = at
		}
		rows = append(rows, row)
	}

	display.DisplayBrokers(rows)
	logging.Success("Successfully retrieved %d cluster brokers", len(rows))
	return nil
}
