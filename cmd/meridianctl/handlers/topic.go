// Package handlers provides command handler functions for meridianctl topic operations.
//
// Topic handlers cover the full topic lifecycle: creation with partition and
// replication settings, listing with internal-topic filtering, partition
// layout inspection, and deletion. Multi-topic invocations ride a single
// admin client so the engine can batch and route the calls itself.
package handlers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/meridian-dev/meridian/cmd/meridianctl/config"
	"github.com/meridian-dev/meridian/cmd/meridianctl/display"
	"github.com/meridian-dev/meridian/cmd/meridianctl/utils"
	"github.com/meridian-dev/meridian/internal/admin"
	"github.com/meridian-dev/meridian/internal/logging"
)

// HandleTopicCreate handles the topic create subcommand. Every topic named
// in the invocation shares the same partition and replication settings.
func HandleTopicCreate(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	overrides, err := parseKeyValues(config.Topic.Configs, "config")
	if err != nil {
		return err
	}

	topics := make([]admin.NewTopic, 0, len(args))
	for _, name := range args {
		topics = append(topics, admin.NewTopic{
			Name:              name,
			Partitions:        config.Topic.Partitions,
			ReplicationFactor: config.Topic.Replication,
			Configs:           overrides,
		})
	}

	return withAdmin(func(ctx context.Context, client *admin.Client) error {
		logging.Info("Creating %d topic(s) with %d partition(s), replication factor %d",
			len(topics), config.Topic.Partitions, config.Topic.Replication)

		if _, err := client.CreateTopics(topics).All().Get(ctx); err != nil {
			return err
		}

		logging.Success("Successfully created %d topic(s)", len(topics))
		return nil
	})
}

// HandleTopicList handles the topic ls subcommand. Internal topics are
// hidden unless --internal is set.
func HandleTopicList(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	return withAdmin(func(ctx context.Context, client *admin.Client) error {
		logging.Info("Fetching topic listings")

		listings, err := client.ListTopics().Listings().Get(ctx)
		if err != nil {
			return err
		}

		filtered := listings
		if !config.Topic.Internal {
			filtered = make([]admin.TopicListing, 0, len(listings))
			for _, l := range listings {
				if !l.Internal {
					filtered = append(filtered, l)
				}
			}
		}

		display.DisplayTopicListings(filtered)
		logging.Success("Successfully retrieved %d topics (%d after filtering)",
			len(listings), len(filtered))
		return nil
	})
}

// HandleTopicInfo handles the topic info subcommand for one or more topics.
func HandleTopicInfo(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	return withAdmin(func(ctx context.Context, client *admin.Client) error {
		logging.Info("Describing %d topic(s)", len(args))

		descriptions, err := client.DescribeTopics(args).All().Get(ctx)
		if err != nil {
			return err
		}

		display.DisplayTopicDescriptions(args, descriptions)
		logging.Success("Successfully described %d topic(s)", len(descriptions))
		return nil
	})
}

// HandleTopicDelete handles the topic delete subcommand for one or more topics.
func HandleTopicDelete(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	return withAdmin(func(ctx context.Context, client *admin.Client) error {
		logging.Info("Deleting %d topic(s)", len(args))

		if _, err := client.DeleteTopics(args).All().Get(ctx); err != nil {
			return err
		}

		logging.Success("Successfully deleted %d topic(s)", len(args))
		return nil
	})
}
