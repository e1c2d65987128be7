// Package utils provides common utility functions for the Meridian admin client.
//
// This file implements unified ID generation functionality used across the
// client for creating unique identifiers. Provides consistent ID formats for
// client instances and other resources while eliminating code duplication.
//
// ID GENERATION STRATEGY:
// Uses crypto/rand for high-quality random data generation to ensure uniqueness
// across concurrently started clients and prevent collisions. All IDs follow
// the same hexadecimal format for consistency and readability in broker logs.
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateID creates a unique 12-character hex identifier.
// Uses crypto/rand to ensure uniqueness across processes and prevent
// collisions.
//
// Essential for client identification, logging correlation, and audit trails
// where a client instance needs to be uniquely referenced. The 12-character
// format balances uniqueness with human readability in logs.
//
// Returns format: "a1b2c3d4e5f6" (12 hex characters, similar to Docker short IDs)
func GenerateID() (string, error) {
	// Generate 6 bytes of random data (12 hex characters)
	bytes := make([]byte, 6)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateShortID creates a unique 6-character hex identifier used as the
// suffix of generated client IDs. Short suffixes keep default client IDs
// readable while still separating clients that drew the same name.
func GenerateShortID() (string, error) {
	bytes := make([]byte, 3)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
