// Package config provides configuration management for the meridianctl CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meridian-dev/meridian/internal/logging"
	"github.com/meridian-dev/meridian/internal/validate"
)

// ValidateGlobalFlags validates all global flags before running any command
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := ValidateJoinAddresses(); err != nil {
		return err
	}

	if err := ValidateBindAddress(); err != nil {
		return err
	}

	if err := ValidateOutputFormat(); err != nil {
		return err
	}

	if err := ValidateTimeout(); err != nil {
		return err
	}

	return logging.ValidateLogLevel(Global.LogLevel)
}

// JoinAddresses returns the --join flag as a cleaned address list.
func JoinAddresses() []string {
	var addresses []string
	for _, addr := range strings.Split(Global.Join, ",") {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}
	return addresses
}

// ValidateJoinAddresses validates the --join flag. Seeds may be IPs or
// hostnames but must carry a concrete port to be dialable.
func ValidateJoinAddresses() error {
	addresses := JoinAddresses()
	if len(addresses) == 0 {
		logging.Error("No gossip seed addresses provided via --join")
		return fmt.Errorf("at least one join address is required - expected format: host:port")
	}

	for _, addr := range addresses {
		_, port, err := validate.ParseHostPort(addr)
		if err != nil {
			logging.Error("Invalid join address '%s': %v", addr, err)
			return fmt.Errorf("invalid join address - expected format: host:port (e.g., 127.0.0.1:4700)")
		}
		if port == 0 {
			logging.Error("Join address '%s' has no port - cannot dial port 0", addr)
			return fmt.Errorf("join address must include a concrete port (1-65535)")
		}
	}

	return nil
}

// ValidateBindAddress validates the --bind flag. The bind host must be a
// literal IP; port 0 is allowed and means an OS-assigned ephemeral port.
func ValidateBindAddress() error {
	host, _, err := validate.ParseHostPort(Global.Bind)
	if err != nil {
		logging.Error("Invalid bind address '%s': %v", Global.Bind, err)
		return fmt.Errorf("invalid bind address - expected format: ip:port (e.g., 0.0.0.0:0)")
	}

	if err := validate.ValidateField(host, "required,ip"); err != nil {
		logging.Error("Bind host '%s' is not an IP address: %v", host, err)
		return fmt.Errorf("bind address must use a literal IP - the gossip layer binds sockets directly")
	}

	return nil
}

// ValidateOutputFormat validates the --output flag
func ValidateOutputFormat() error {
	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
	}
	if !validOutputs[Global.Output] {
		logging.Error("Invalid output format '%s' - valid formats are: table, json", Global.Output)
		return fmt.Errorf("invalid output format - valid: table, json")
	}
	return nil
}

// ValidateTimeout validates the --timeout flag
func ValidateTimeout() error {
	if Global.Timeout < 1 {
		logging.Error("Invalid timeout %d - must be at least 1 second", Global.Timeout)
		return fmt.Errorf("timeout must be at least 1 second")
	}
	return nil
}
