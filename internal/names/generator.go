// Package names provides thematic name generation for Meridian admin clients,
// delivering human-readable identifiers that make client connections easy to
// spot in broker logs and audit trails.
//
// Implements a compact naming system that generates memorable client
// identifiers in Docker-style "adjective-noun" format. Generated names are
// combined with a random hex suffix by the caller to form default client IDs
// (e.g. "steady-beacon-3f9c2d"), so operators can correlate a misbehaving
// client across brokers without resorting to opaque UUIDs.
//
// NAME GENERATION STRATEGY:
// Uses crypto/rand for unpredictable selection so concurrently started
// clients are unlikely to collide even before the hex suffix is applied.
// Vocabulary draws from navigation and streaming themes to match the
// platform's domain.
package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Adjectives used for client name generation
var adjectives = []string{
	"amber", "bold", "brisk", "calm", "charted",
	"clear", "coastal", "crisp", "eager", "even",
	"fleet", "focused", "gentle", "hardy", "keen",
	"level", "lucid", "magnetic", "mellow", "nimble",
	"northern", "patient", "polar", "prime", "quiet",
	"rapid", "steady", "stellar", "swift", "tidal",
	"true", "vivid", "wandering", "western", "zonal",
}

// Nouns used for client name generation
var nouns = []string{
	"anchor", "atlas", "beacon", "buoy", "channel",
	"chart", "compass", "current", "delta", "drift",
	"eddy", "gale", "harbor", "haven", "helm",
	"horizon", "inlet", "isobar", "keel", "lagoon",
	"latitude", "mast", "parallel", "pilot", "quay",
	"reef", "relay", "rudder", "sextant", "signal",
	"sounding", "strait", "stream", "tide", "voyage",
}

// Generate creates a random Docker-style name in "adjective-noun" format from
// the thematic word collections. Provides the primary interface for default
// client ID generation.
//
// Returns names in the format: "adjective-noun" (e.g., "steady-beacon",
// "magnetic-strait")
func Generate() string {
	adjective := adjectives[randomIndex(len(adjectives))]
	noun := nouns[randomIndex(len(nouns))]
	return fmt.Sprintf("%s-%s", adjective, noun)
}

// randomIndex generates a random index within the specified range using
// crypto/rand for unpredictable selection. Provides the core randomization
// primitive for name generation with a fallback for reliable operation.
func randomIndex(max int) int {
	if max <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		// Fallback to a simple index if crypto/rand fails
		return 0
	}

	return int(n.Int64())
}
