package names

import (
	"strings"
	"testing"
)

// TestGenerate tests the core name generation logic
func TestGenerate(t *testing.T) {
	name := Generate()

	// Check that the name is not empty
	if name == "" {
		t.Fatal("Generate() returned empty string")
	}

	// Check that the name contains a hyphen (format: adjective-noun)
	if !strings.Contains(name, "-") {
		t.Fatalf("Generate() returned name without hyphen: %s", name)
	}

	// Split and verify format
	parts := strings.Split(name, "-")
	if len(parts) != 2 {
		t.Fatalf("Generate() returned name with wrong format (expected adjective-noun): %s", name)
	}

	adjective, noun := parts[0], parts[1]

	// Check that both parts are non-empty
	if adjective == "" || noun == "" {
		t.Fatalf("Generate() returned name with empty parts: %s", name)
	}

	// Verify adjective exists in our list
	found := false
	for _, a := range adjectives {
		if a == adjective {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("Generate() returned unknown adjective: %s", adjective)
	}

	// Verify noun exists in our list
	found = false
	for _, n := range nouns {
		if n == noun {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("Generate() returned unknown noun: %s", noun)
	}
}

// TestGenerateSpread checks that repeated generation produces more than one
// distinct name. With 35x35 combinations, 50 draws yielding a single unique
// name would indicate a broken random source.
func TestGenerateSpread(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[Generate()] = true
	}

	if len(seen) < 2 {
		t.Errorf("Generate() produced %d unique names out of 50 draws", len(seen))
	}
}

// TestRandomIndexBounds tests index generation edge cases
func TestRandomIndexBounds(t *testing.T) {
	tests := []struct {
		name string
		max  int
	}{
		{name: "zero max", max: 0},
		{name: "negative max", max: -3},
		{name: "single element", max: 1},
		{name: "typical vocabulary", max: 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := randomIndex(tt.max)
			if tt.max <= 0 {
				if got != 0 {
					t.Errorf("randomIndex(%d) = %d, want 0", tt.max, got)
				}
				return
			}
			if got < 0 || got >= tt.max {
				t.Errorf("randomIndex(%d) = %d, out of range [0,%d)", tt.max, got, tt.max)
			}
		})
	}
}
