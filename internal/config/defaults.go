// Package config provides common default configuration values shared across
// Meridian client components (gossip, CLI). This centralizes configuration
// management and ensures the tooling and the library agree on defaults.
package config

const (
	// DefaultBindAddr is the default bind address for the gossip member
	// Using 0.0.0.0 allows binding to all available network interfaces
	DefaultBindAddr = "0.0.0.0"

	// DefaultLogLevel is the default log level for all components
	// INFO provides good balance of visibility without verbose debug output
	DefaultLogLevel = "INFO"

	// DefaultGossipPort is the memberlist port Meridian nodes gossip on.
	// Brokers and admin clients share one gossip cluster, so a CLI joining
	// through a seed address defaults to this port too.
	DefaultGossipPort = 4700
)
