// Package config provides configuration validation tests for the meridianctl CLI.
//
// This test suite validates the global flag checks that run before every
// command. Tests cover all flag scenarios:
// - Join seed lists: single seed, multiple seeds, hostnames, whitespace
// - Join seeds missing a dialable port (port 0 or no port at all)
// - Bind addresses with literal IPs vs hostnames
// - Ephemeral bind ports (port 0 is valid for --bind, invalid for --join)
// - Output format and timeout range checks
//
// These tests ensure a bad flag fails fast with a usable message instead of
// surfacing later as a confusing gossip or dial error.
package config

import (
	"testing"

	"github.com/meridian-dev/meridian/internal/logging"
)

func init() {
	// Validation failures log before returning; keep test output clean
	logging.SuppressOutput()
}

func TestValidateJoinAddresses(t *testing.T) {
	tests := []struct {
		name          string
		join          string
		expectError   bool
		errorContains string
	}{
		{
			name:        "single_seed_ok",
			join:        "127.0.0.1:4700",
			expectError: false,
		},
		{
			name:        "multiple_seeds_ok",
			join:        "10.0.0.1:4700,10.0.0.2:4700,10.0.0.3:4700",
			expectError: false,
		},
		{
			name:        "hostname_seed_ok",
			join:        "broker-1.internal:4700",
			expectError: false,
		},
		{
			name:        "whitespace_around_seeds_ok",
			join:        " 10.0.0.1:4700 , 10.0.0.2:4700 ",
			expectError: false,
		},
		{
			name:        "trailing_comma_ok",
			join:        "10.0.0.1:4700,",
			expectError: false,
		},
		{
			name:          "empty_join_error",
			join:          "",
			expectError:   true,
			errorContains: "at least one join address is required",
		},
		{
			name:          "only_commas_error",
			join:          ",,,",
			expectError:   true,
			errorContains: "at least one join address is required",
		},
		{
			name:          "missing_port_error",
			join:          "127.0.0.1",
			expectError:   true,
			errorContains: "expected format: host:port",
		},
		{
			name:          "port_zero_error",
			join:          "127.0.0.1:0",
			expectError:   true,
			errorContains: "concrete port",
		},
		{
			name:          "port_out_of_range_error",
			join:          "127.0.0.1:99999",
			expectError:   true,
			errorContains: "expected format: host:port",
		},
		{
			name:          "one_bad_seed_fails_the_list",
			join:          "10.0.0.1:4700,10.0.0.2",
			expectError:   true,
			errorContains: "expected format: host:port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalJoin := Global.Join
			Global.Join = tt.join

			err := ValidateJoinAddresses()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if tt.errorContains != "" && !containsString(err.Error(), tt.errorContains) {
					t.Errorf("expected error containing %q, got %q", tt.errorContains, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("expected no error but got: %v", err)
				}
			}

			Global.Join = originalJoin
		})
	}
}

func TestJoinAddresses(t *testing.T) {
	tests := []struct {
		name     string
		join     string
		expected []string
	}{
		{
			name:     "single_address",
			join:     "127.0.0.1:4700",
			expected: []string{"127.0.0.1:4700"},
		},
		{
			name:     "multiple_addresses",
			join:     "a:4700,b:4701",
			expected: []string{"a:4700", "b:4701"},
		},
		{
			name:     "trims_and_drops_empties",
			join:     " a:4700 ,, b:4701 ,",
			expected: []string{"a:4700", "b:4701"},
		},
		{
			name:     "empty_string_yields_nothing",
			join:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalJoin := Global.Join
			Global.Join = tt.join

			got := JoinAddresses()

			if len(got) != len(tt.expected) {
				t.Fatalf("JoinAddresses() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("JoinAddresses()[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}

			Global.Join = originalJoin
		})
	}
}

func TestValidateBindAddress(t *testing.T) {
	tests := []struct {
		name          string
		bind          string
		expectError   bool
		errorContains string
	}{
		{
			name:        "ephemeral_port_ok",
			bind:        "0.0.0.0:0",
			expectError: false,
		},
		{
			name:        "loopback_with_port_ok",
			bind:        "127.0.0.1:4700",
			expectError: false,
		},
		{
			name:        "specific_interface_ok",
			bind:        "192.168.1.10:0",
			expectError: false,
		},
		{
			name:          "hostname_error",
			bind:          "localhost:0",
			expectError:   true,
			errorContains: "literal IP",
		},
		{
			name:          "missing_port_error",
			bind:          "0.0.0.0",
			expectError:   true,
			errorContains: "expected format: ip:port",
		},
		{
			name:          "empty_error",
			bind:          "",
			expectError:   true,
			errorContains: "expected format: ip:port",
		},
		{
			name:          "port_out_of_range_error",
			bind:          "0.0.0.0:70000",
			expectError:   true,
			errorContains: "expected format: ip:port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalBind := Global.Bind
			Global.Bind = tt.bind

			err := ValidateBindAddress()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if tt.errorContains != "" && !containsString(err.Error(), tt.errorContains) {
					t.Errorf("expected error containing %q, got %q", tt.errorContains, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("expected no error but got: %v", err)
				}
			}

			Global.Bind = originalBind
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		expectError bool
	}{
		{name: "table_ok", output: "table", expectError: false},
		{name: "json_ok", output: "json", expectError: false},
		{name: "yaml_error", output: "yaml", expectError: true},
		{name: "empty_error", output: "", expectError: true},
		{name: "uppercase_error", output: "JSON", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalOutput := Global.Output
			Global.Output = tt.output

			err := ValidateOutputFormat()

			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error but got: %v", err)
			}

			Global.Output = originalOutput
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	tests := []struct {
		name        string
		timeout     int
		expectError bool
	}{
		{name: "one_second_ok", timeout: 1, expectError: false},
		{name: "default_ok", timeout: 8, expectError: false},
		{name: "long_ok", timeout: 300, expectError: false},
		{name: "zero_error", timeout: 0, expectError: true},
		{name: "negative_error", timeout: -5, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalTimeout := Global.Timeout
			Global.Timeout = tt.timeout

			err := ValidateTimeout()

			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error but got: %v", err)
			}

			Global.Timeout = originalTimeout
		})
	}
}

func TestValidateGlobalFlags(t *testing.T) {
	originalGlobal := Global
	defer func() { Global = originalGlobal }()

	Global.Join = DefaultJoinAddr
	Global.Bind = DefaultBindAddr
	Global.LogLevel = "ERROR"
	Global.Timeout = 8
	Global.Output = "table"

	if err := ValidateGlobalFlags(nil, nil); err != nil {
		t.Errorf("expected defaults to validate, got: %v", err)
	}

	Global.LogLevel = "LOUD"
	if err := ValidateGlobalFlags(nil, nil); err == nil {
		t.Errorf("expected invalid log level to fail validation")
	}
}

// containsString checks if a string contains a substring (case-sensitive)
func containsString(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || containsSubstring(s, substr))
}

// containsSubstring is a helper for substring checking
func containsSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
