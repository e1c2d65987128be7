// Package handlers provides command handler functions for meridianctl.
//
// This package contains all the command execution logic for meridianctl
// commands, organized by resource type for maintainability and clean
// separation of concerns. Each handler file corresponds to a specific
// resource type and contains all related command handlers and helper
// functions.
//
// The package is organized as follows:
// - broker.go: Broker discovery through the gossip view (ls)
// - topic.go: Topic lifecycle management (create, ls, info, delete)
// - acl.go: Access control binding management (create, ls, delete)
// - configs.go: Dynamic configuration management (get, set)
//
// All handlers follow consistent patterns:
// - cobra.Command RunE function signature for CLI integration
// - Standardized error handling and logging using the logging package
// - Consistent output formatting through the display package
// - One gossip membership plus one admin client per invocation, both torn
//   down when the command finishes
// - Safety-first approach requiring confirmation for destructive filters
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meridian-dev/meridian/cmd/meridianctl/config"
	"github.com/meridian-dev/meridian/internal/admin"
	"github.com/meridian-dev/meridian/internal/gossip"
	"github.com/meridian-dev/meridian/internal/logging"
	internalutils "github.com/meridian-dev/meridian/internal/utils"
	"github.com/meridian-dev/meridian/internal/validate"
)

// opTimeout returns the per-operation deadline from the global --timeout flag.
func opTimeout() time.Duration {
	return time.Duration(config.Global.Timeout) * time.Second
}

// cliIdentity builds a unique identity for this invocation, shared between
// the gossip member name and the admin client ID so brokers can correlate
// the two in their logs.
func cliIdentity() string {
	suffix, err := internalutils.GenerateShortID()
	if err != nil {
		return "meridianctl"
	}
	return fmt.Sprintf("meridianctl-%s", suffix)
}

// connectGossip joins the cluster's gossip layer and blocks until at least
// one broker is visible. Callers own the returned manager and must call
// Shutdown.
func connectGossip(identity string) (*gossip.Manager, error) {
	host, port, err := validate.ParseHostPort(config.Global.Bind)
	if err != nil {
		return nil, fmt.Errorf("invalid bind address: %w", err)
	}

	cfg := gossip.DefaultConfig()
	cfg.NodeName = identity
	cfg.BindAddr = host
	cfg.BindPort = port
	cfg.LogLevel = config.Global.LogLevel
	// One bounded attempt: a CLI should fail fast, not camp on a dead seed.
	cfg.JoinRetries = 1
	cfg.JoinTimeout = opTimeout()

	manager, err := gossip.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	if err := manager.Start(); err != nil {
		return nil, err
	}

	seeds := config.JoinAddresses()
	logging.Info("Joining cluster gossip via %v", seeds)
	if err := manager.Join(seeds); err != nil {
		manager.Shutdown()
		return nil, err
	}
	if err := manager.WaitReady(opTimeout()); err != nil {
		manager.Shutdown()
		return nil, err
	}

	return manager, nil
}

// withAdmin runs fn against an admin client wired to a live gossip view,
// tearing both down when fn returns. The context backstops the engine's own
// per-call deadlines, which fire first with richer errors.
func withAdmin(fn func(ctx context.Context, client *admin.Client) error) error {
	identity := cliIdentity()

	manager, err := connectGossip(identity)
	if err != nil {
		return err
	}
	defer manager.Shutdown()

	client, err := admin.NewClient(&admin.Config{
		ClientID:       identity,
		View:           manager,
		RequestTimeout: opTimeout(),
	})
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout()+5*time.Second)
	defer cancel()

	return fn(ctx, client)
}

// parseKeyValues parses repeated key=value flags into a map, rejecting
// malformed pairs and duplicate keys.
func parseKeyValues(pairs []string, flagName string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	entries := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --%s %q - expected key=value", flagName, pair)
		}
		if _, dup := entries[key]; dup {
			return nil, fmt.Errorf("duplicate --%s key %q", flagName, key)
		}
		entries[key] = value
	}
	return entries, nil
}
