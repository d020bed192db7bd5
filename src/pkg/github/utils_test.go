package github

import (
	"testing"
)

// TestParseOwnerRepo tests repository string parsing
func TestParseOwnerRepo(t *testing.T) {
	tests := []struct {
		name          string
		repo          string
		expectedOwner string
		expectedName  string
		expectError   bool
	}{
		{
			name:          "simple owner/repo",
			repo:          "acme/widgets",
			expectedOwner: "acme",
			expectedName:  "widgets",
		},
		{
			name:          "extra path segments ignored",
			repo:          "acme/widgets/subdir",
			expectedOwner: "acme",
			expectedName:  "widgets",
		},
		{
			name:        "missing slash",
			repo:        "acme",
			expectError: true,
		},
		{
			name:        "empty string",
			repo:        "",
			expectError: true,
		},
		{
			name:        "empty owner",
			repo:        "/widgets",
			expectError: true,
		},
		{
			name:        "empty name",
			repo:        "acme/",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := ParseOwnerRepo(tt.repo)

			if tt.expectError {
				if err == nil {
					t.Errorf("ParseOwnerRepo(%q) error = nil, want error", tt.repo)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseOwnerRepo(%q) error = %v", tt.repo, err)
			}
			if owner != tt.expectedOwner {
				t.Errorf("ParseOwnerRepo(%q) owner = %v, want %v", tt.repo, owner, tt.expectedOwner)
			}
			if name != tt.expectedName {
				t.Errorf("ParseOwnerRepo(%q) name = %v, want %v", tt.repo, name, tt.expectedName)
			}
		})
	}
}

// TestShortSHA tests commit SHA shortening
func TestShortSHA(t *testing.T) {
	tests := []struct {
		name     string
		sha      string
		expected string
	}{
		{
			name:     "full sha",
			sha:      "0123456789abcdef0123456789abcdef01234567",
			expected: "0123456",
		},
		{
			name:     "already short",
			sha:      "0123456",
			expected: "0123456",
		},
		{
			name:     "shorter than seven",
			sha:      "abc",
			expected: "abc",
		},
		{
			name:     "empty",
			sha:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortSHA(tt.sha); got != tt.expected {
				t.Errorf("ShortSHA(%q) = %v, want %v", tt.sha, got, tt.expected)
			}
		})
	}
}
