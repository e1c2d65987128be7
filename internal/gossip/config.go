package gossip

import (
	"fmt"
	"time"

	configDefaults "github.com/meridian-dev/meridian/internal/config"
	"github.com/meridian-dev/meridian/internal/validate"
)

// Config holds configuration for the gossip Manager.
type Config struct {
	NodeName string            // Name this client gossips under
	BindAddr string            // Bind address for the memberlist
	BindPort int               // Bind port for the memberlist
	Tags     map[string]string // Extra tags advertised to the cluster

	EventBufferSize int           // Membership event buffer size
	JoinRetries     int           // Join attempts before giving up
	JoinTimeout     time.Duration // Timeout per join attempt
	LogLevel        string        // Log level for gossip internals
}

// DefaultConfig returns a default configuration for the gossip Manager.
// NodeName is left empty and must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:        configDefaults.DefaultBindAddr,
		BindPort:        configDefaults.DefaultGossipPort,
		EventBufferSize: 1024,
		JoinRetries:     3,
		JoinTimeout:     30 * time.Second,
		LogLevel:        configDefaults.DefaultLogLevel,
		Tags:            make(map[string]string),
	}
}

// validateConfig validates manager configuration.
func validateConfig(config *Config) error {
	if config.NodeName == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	if err := validate.ValidateField(config.BindAddr, "required,ip"); err != nil {
		return fmt.Errorf("invalid bind address: %w", err)
	}

	if err := validate.ValidateField(config.BindPort, "min=0,max=65535"); err != nil {
		return fmt.Errorf("invalid bind port: %w", err)
	}

	if config.EventBufferSize < 1 {
		return fmt.Errorf("event buffer size must be positive, got: %d", config.EventBufferSize)
	}

	if err := validateTags(config.Tags); err != nil {
		return fmt.Errorf("invalid tags: %w", err)
	}

	return nil
}

// validateTags rejects user tags that collide with the system tags every
// Meridian node advertises.
func validateTags(tags map[string]string) error {
	reservedTags := map[string]bool{
		TagNodeID:     true,
		TagRole:       true,
		TagAdminPort:  true,
		TagController: true,
	}

	for tagName := range tags {
		if reservedTags[tagName] {
			return fmt.Errorf("tag name '%s' is reserved and cannot be used", tagName)
		}
	}

	return nil
}
