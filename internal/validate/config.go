// Package validate provides configuration validation utilities for Meridian
// client components.
//
// This file implements common validation patterns used across multiple config
// types to ensure consistency and reduce duplication. All functions leverage
// the go-playground/validator library for standardized validation behavior.
//
// VALIDATION UTILITIES:
//   - Port validation: Standard port range checking (1-65535)
//   - String validation: Required field and non-empty string checking
//   - Timeout validation: Positive duration validation for timeouts
//
// These utilities replace manual validation code scattered across config types
// with centralized, consistent validation using the validator library's
// built-in tags and error handling.
package validate

import (
	"fmt"
	"time"
)

// ValidatePortRange validates that a port number is within the valid range (1-65535).
// Uses the validator library for consistent error handling and messaging.
//
// Rejects port 0 (OS-assigned) since clients need predictable broker addresses
// for discovery and communication.
func ValidatePortRange(port int) error {
	return ValidateField(port, "required,min=1,max=65535")
}

// ValidateRequiredString validates that a string field is not empty.
// Uses the validator library for consistent error handling across config validation.
//
// Critical for ensuring required configuration fields like client IDs and
// join addresses are properly specified before client initialization.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout duration is positive (> 0).
// Essential for ensuring timeout configurations don't cause infinite waits or
// immediate failures in admin operations.
//
// Used across request timeouts, retry backoffs, and gossip join timeouts to
// ensure proper timing behavior.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}
