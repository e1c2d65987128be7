package validate

import (
	"strings"
	"testing"
)

// TestClientIDFormat tests ClientIDFormat function
func TestClientIDFormat(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		description string
	}{
		// Valid IDs
		{
			name:        "simple lowercase",
			input:       "admin",
			expectError: false,
			description: "simple lowercase letters should be valid",
		},
		{
			name:        "lowercase with numbers",
			input:       "admin123",
			expectError: false,
			description: "lowercase letters with numbers should be valid",
		},
		{
			name:        "generated style",
			input:       "steady-beacon-3f9c2d",
			expectError: false,
			description: "generated adjective-noun-hex IDs should be valid",
		},
		{
			name:        "dotted service name",
			input:       "billing.admin",
			expectError: false,
			description: "dots inside an ID should be valid",
		},
		{
			name:        "underscores",
			input:       "my_admin_client",
			expectError: false,
			description: "underscores inside an ID should be valid",
		},
		{
			name:        "single character",
			input:       "a",
			expectError: false,
			description: "single lowercase letter should be valid",
		},

		// Invalid IDs
		{
			name:        "empty string",
			input:       "",
			expectError: true,
			description: "empty string should be invalid",
		},
		{
			name:        "uppercase letters",
			input:       "ADMIN",
			expectError: true,
			description: "uppercase letters should be invalid",
		},
		{
			name:        "mixed case",
			input:       "MyClient",
			expectError: true,
			description: "mixed case should be invalid",
		},
		{
			name:        "special character @",
			input:       "admin@host",
			expectError: true,
			description: "IDs with @ should be invalid",
		},
		{
			name:        "space",
			input:       "admin client",
			expectError: true,
			description: "IDs with spaces should be invalid",
		},
		{
			name:        "starts with hyphen",
			input:       "-admin",
			expectError: true,
			description: "IDs starting with hyphen should be invalid",
		},
		{
			name:        "ends with underscore",
			input:       "admin_",
			expectError: true,
			description: "IDs ending with underscore should be invalid",
		},
		{
			name:        "ends with dot",
			input:       "admin.",
			expectError: true,
			description: "IDs ending with dot should be invalid",
		},
		{
			name:        "too long",
			input:       strings.Repeat("a", 65),
			expectError: true,
			description: "IDs over 64 characters should be invalid",
		},
		{
			name:        "exactly 64 characters",
			input:       strings.Repeat("a", 64),
			expectError: false,
			description: "IDs of exactly 64 characters should be valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClientIDFormat(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for input '%s' (%s), but got none", tt.input, tt.description)
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error for input '%s' (%s), but got: %v", tt.input, tt.description, err)
				}
			}
		})
	}
}

// TestTopicNameFormat tests TopicNameFormat function
func TestTopicNameFormat(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		description string
	}{
		{
			name:        "simple name",
			input:       "orders",
			expectError: false,
			description: "simple lowercase name should be valid",
		},
		{
			name:        "dotted namespace",
			input:       "billing.invoices.v2",
			expectError: false,
			description: "dotted namespaces should be valid",
		},
		{
			name:        "hyphens and underscores",
			input:       "orders-eu_west",
			expectError: false,
			description: "hyphens and underscores should be valid",
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
			description: "empty string should be invalid",
		},
		{
			name:        "uppercase rejected",
			input:       "Orders",
			expectError: true,
			description: "uppercase should be invalid",
		},
		{
			name:        "slash rejected",
			input:       "orders/2024",
			expectError: true,
			description: "slashes should be invalid",
		},
		{
			name:        "leading dot rejected",
			input:       ".orders",
			expectError: true,
			description: "leading dot should be invalid",
		},
		{
			name:        "over length limit",
			input:       strings.Repeat("t", 250),
			expectError: true,
			description: "names over 249 characters should be invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TopicNameFormat(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for input '%s' (%s), but got none", tt.input, tt.description)
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error for input '%s' (%s), but got: %v", tt.input, tt.description, err)
				}
			}
		})
	}
}
