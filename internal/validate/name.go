// Package validate provides input validation utilities for Meridian admin
// operations, ensuring data integrity across client-broker communications and
// configuration management.
//
// Implements validation rules for client identifiers, topic names, network
// addresses, and configuration parameters. Prevents malformed data from
// causing request rejections or operational issues.
//
// VALIDATION COVERAGE:
//   - Client IDs: Format validation for client identifiers in broker logs
//   - Topic Names: Format validation for topic identifiers
//   - Network Addresses: IP and port validation for cluster communication
//   - Configuration: Parameter validation for client settings
//
// Used throughout CLI tools, configuration processing, and admin operations
// to ensure consistent input validation across all entry points.

package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierRegex matches lowercase alphanumerics with inner hyphens,
// underscores, and dots — the character set brokers accept for client IDs
// and topic names alike.
var identifierRegex = regexp.MustCompile(`^[a-z0-9._-]+$`)

// ClientIDFormat validates client identifiers against broker naming
// requirements. Ensures IDs contain only [a-z0-9._-], don't start/end with
// special characters, and stay within the 64-character limit brokers enforce.
//
// Necessary for reliable quota attribution, audit trails, and log correlation
// across brokers and administrative tools.
func ClientIDFormat(id string) error {
	if id == "" {
		return fmt.Errorf("client ID cannot be empty")
	}

	if len(id) > 64 {
		return fmt.Errorf("client ID '%s' exceeds 64 characters", id)
	}

	if !identifierRegex.MatchString(id) {
		return fmt.Errorf("client ID '%s' must contain only lowercase letters [a-z], numbers [0-9], dots (.), hyphens (-), and underscores (_)", id)
	}

	if startsOrEndsWithSpecial(id) {
		return fmt.Errorf("client ID '%s' cannot start or end with dot (.), hyphen (-), or underscore (_)", id)
	}

	return nil
}

// TopicNameFormat validates topic names against cluster naming requirements.
// Ensures names contain only [a-z0-9._-] and don't start/end with special
// characters.
//
// Applied client-side before submission so obviously malformed names fail
// fast instead of consuming a round trip to the controller.
func TopicNameFormat(name string) error {
	if name == "" {
		return fmt.Errorf("topic name cannot be empty")
	}

	if len(name) > 249 {
		return fmt.Errorf("topic name '%s' exceeds 249 characters", name)
	}

	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("topic name '%s' must contain only lowercase letters [a-z], numbers [0-9], dots (.), hyphens (-), and underscores (_)", name)
	}

	if startsOrEndsWithSpecial(name) {
		return fmt.Errorf("topic name '%s' cannot start or end with dot (.), hyphen (-), or underscore (_)", name)
	}

	return nil
}

// startsOrEndsWithSpecial reports whether s begins or ends with one of the
// permitted-but-not-terminal special characters.
func startsOrEndsWithSpecial(s string) bool {
	for _, c := range []string{"-", "_", "."} {
		if strings.HasPrefix(s, c) || strings.HasSuffix(s, c) {
			return true
		}
	}
	return false
}
