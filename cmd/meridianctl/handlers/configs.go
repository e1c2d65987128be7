// Package handlers provides command handler functions for meridianctl config operations.
//
// Config handlers read and overwrite dynamic configuration. Exactly one
// resource is targeted per invocation: broker reads pin to the named broker
// (its config lives nowhere else), topic writes route to the controller.
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

// HandleConfigGet handles the config get subcommand.
func HandleConfigGet(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	resource, err := configResourceFromFlags()
	if err != nil {
		return err
	}

	return withAdmin(func(ctx context.Context, client *admin.Client) error {
		logging.Info("Fetching configuration for %s", resource)

		result, err := client.DescribeConfigs([]admin.ConfigResource{resource}).
			Resource(resource).Get(ctx)
		if err != nil {
			return err
		}

		display.DisplayResourceConfig(resource, result)
		logging.Success("Successfully retrieved %d config entries for %s",
			len(result.Entries), resource)
		return nil
	})
}

// HandleConfigSet handles the config set subcommand.
func HandleConfigSet(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	resource, err := configResourceFromFlags()
	if err != nil {
		return err
	}

	entries, err := parseKeyValues(config.Configs.Set, "set")
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("at least one --set key=value is required")
	}

	return withAdmin(func(ctx context.Context, client *admin.Client) error {
		logging.Info("Overwriting %d config entries on %s", len(entries), resource)

		alteration := admin.ConfigAlteration{Resource: resource, Entries: entries}
		if _, err := client.AlterConfigs([]admin.ConfigAlteration{alteration}).All().Get(ctx); err != nil {
			return err
		}

		logging.Success("Successfully updated %d config entries on %s", len(entries), resource)
		return nil
	})
}

// configResourceFromFlags resolves --broker/--topic into a config resource.
// Exactly one must be given.
func configResourceFromFlags() (admin.ConfigResource, error) {
	switch {
	case config.Configs.Broker != "" && config.Configs.Topic != "":
		return admin.ConfigResource{}, fmt.Errorf("--broker and --topic are mutually exclusive")
	case config.Configs.Broker != "":
		return admin.ConfigResource{Type: admin.ResourceTypeBroker, Name: config.Configs.Broker}, nil
	case config.Configs.Topic != "":
		return admin.ConfigResource{Type: admin.ResourceTypeTopic, Name: config.Configs.Topic}, nil
	default:
		return admin.ConfigResource{}, fmt.Errorf("a resource is required - pass --broker=ID or --topic=NAME")
	}
}
