// Package config provides configuration management for the meridianctl CLI.
package config

import (
	"strconv"

	configDefaults "github.com/meridian-dev/meridian/internal/config"
	"github.com/meridian-dev/meridian/internal/version"
)

var (
	// DefaultJoinAddr is the gossip seed a bare meridianctl invocation tries:
	// a broker on this machine listening on the standard gossip port.
	DefaultJoinAddr = "127.0.0.1:" + strconv.Itoa(configDefaults.DefaultGossipPort)

	// DefaultBindAddr is the local gossip bind for the CLI's own member.
	// Port 0 lets the OS pick an ephemeral port so concurrent invocations
	// never collide.
	DefaultBindAddr = configDefaults.DefaultBindAddr + ":0"
)

// Version returns the current meridianctl CLI version from the centralized version package
var Version = version.MeridianctlVersion

// Global holds the global CLI configuration
var Global struct {
	Join     string // Comma-separated gossip seed addresses
	Bind     string // Local bind address for this CLI's gossip member
	LogLevel string // Log level for CLI operations
	Timeout  int    // Operation timeout in seconds
	Verbose  bool   // Show verbose output
	Output   string // Output format: table, json
}

// Topic holds the topic command configuration
var Topic struct {
	Partitions  int32    // Partition count for topic create
	Replication int16    // Replication factor for topic create
	Configs     []string // Topic config overrides (key=value format)
	Internal    bool     // Include internal topics in listings
}

// ACL holds the acl create command configuration
var ACL struct {
	Principal  string // Principal the binding applies to
	Host       string // Host the binding applies to
	Operation  string // Operation: all, read, write, create, delete, describe, alter
	Permission string // Permission: allow, deny
	Topic      string // Topic resource name
	Cluster    bool   // Target the cluster resource
}

// ACLFilter holds the acl ls and acl delete filter configuration. Kept
// separate from ACL because create and the filter commands register the
// same flag names with different defaults.
var ACLFilter struct {
	Principal  string // Filter by principal
	Host       string // Filter by host
	Operation  string // Filter by operation
	Permission string // Filter by permission
	Topic      string // Filter by topic resource
	Cluster    bool   // Filter by the cluster resource
	All        bool   // Confirm deletion with an empty filter
}

// Configs holds the config command configuration
var Configs struct {
	Broker string   // Broker ID to target
	Topic  string   // Topic name to target
	Set    []string // Entries to overwrite (key=value format)
}
