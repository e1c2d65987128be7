// Package validate provides network validation utilities for Meridian client
// configuration, ensuring proper network settings before any cluster traffic.
//
// Implements IP address, port range, and address format validation using the
// go-playground/validator library. Prevents network configuration errors that
// could cause discovery failures or misdirected admin requests.
//
// VALIDATION FEATURES:
//   - IP Address: IPv4 and IPv6 format validation for bind addresses
//   - Host addresses: hostname-or-IP validation for join and broker addresses
//   - Port Range: Valid port numbers (0-65535)
//   - Address Lists: Multiple addresses for gossip joining
//
// Used for validating gossip bind addresses, join addresses, and broker
// endpoints throughout client startup and CLI flag processing.
package validate

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance using built-in validations
	validate *validator.Validate
)

func init() {
	validate = validator.New()
	// Using built-in validators: ip, hostname_rfc1123, min, max - no custom registration needed
}

// NetworkAddress represents a validated network address with host and port
// components for cluster communication endpoints. Uses struct tags for
// automatic validation via the go-playground/validator library.
type NetworkAddress struct {
	Host string `validate:"required,ip"`              // Built-in IP validator
	Port int    `validate:"required,min=0,max=65535"` // Built-in range validator
}

// String returns the network address in standard "host:port" format suitable
// for network connections, configuration display, and logging.
func (na NetworkAddress) String() string {
	return fmt.Sprintf("%s:%d", na.Host, na.Port)
}

// ParseBindAddress parses and validates a "host:port" address string for
// gossip binding. Provides comprehensive validation including format checking,
// IP address validation, and port range verification.
//
// Bind addresses must be literal IPs: the gossip layer binds sockets directly
// and cannot resolve names at bind time. Returns a validated NetworkAddress
// structure or detailed error information for debugging configuration issues.
func ParseBindAddress(addr string) (*NetworkAddress, error) {
	if addr == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address format '%s': %w", addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port '%s': %w", portStr, err)
	}

	netAddr := &NetworkAddress{
		Host: host,
		Port: port,
	}

	// Validate using struct tags
	if err := validate.Struct(netAddr); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return netAddr, nil
}

// ParseHostPort parses and validates a "host:port" address where the host may
// be either an IP address or a DNS hostname. Used for join addresses and
// broker endpoints, which are frequently given as service names in container
// and cloud deployments.
func ParseHostPort(addr string) (host string, port int, err error) {
	if addr == "" {
		return "", 0, fmt.Errorf("address cannot be empty")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address format '%s': %w", addr, err)
	}

	port, err = strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port '%s': %w", portStr, err)
	}

	if err := ValidateField(port, "min=0,max=65535"); err != nil {
		return "", 0, fmt.Errorf("invalid port %d: %w", port, err)
	}

	// Accept either a literal IP or an RFC 1123 hostname
	if ipErr := ValidateField(host, "required,ip"); ipErr != nil {
		if nameErr := ValidateField(host, "required,hostname_rfc1123"); nameErr != nil {
			return "", 0, fmt.Errorf("invalid host '%s': not an IP address or hostname", host)
		}
	}

	return host, port, nil
}

// ValidateField validates individual values against specified validation rules
// using the go-playground/validator library. Provides flexible validation for
// single fields without requiring struct definitions.
//
// Supports all built-in validation tags including IP addresses, numeric
// ranges, string patterns, and required field validation.
//
// Example: ValidateField("192.168.1.1", "required,ip")
func ValidateField(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

// ValidateStruct validates a struct using its field validation tags. Used by
// configuration types that declare their constraints declaratively.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateAddressList validates multiple "host:port" addresses for gossip
// joining. Ensures all provided addresses are properly formatted before
// attempting cluster discovery, supporting fault-tolerant joining.
//
// The validation ensures that if the first address is unreachable, subsequent
// addresses are properly formatted and can be attempted for connection.
// Hostnames are allowed since join targets commonly sit behind DNS.
func ValidateAddressList(addresses []string) error {
	if len(addresses) == 0 {
		return fmt.Errorf("address list cannot be empty")
	}

	for i, addr := range addresses {
		if _, _, err := ParseHostPort(addr); err != nil {
			return fmt.Errorf("invalid address at index %d: %w", i, err)
		}
	}

	return nil
}
