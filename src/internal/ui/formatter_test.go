package ui

import (
	"testing"
)

func TestPadRight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "pad short string",
			input:    "hello",
			width:    10,
			expected: "hello     ",
		},
		{
			name:     "no padding needed",
			input:    "hello",
			width:    5,
			expected: "hello",
		},
		{
			name:     "string longer than width",
			input:    "hello world",
			width:    5,
			expected: "hello world",
		},
		{
			name:     "empty string",
			input:    "",
			width:    5,
			expected: "     ",
		},
		{
			name:     "wide runes counted by display width",
			input:    "こんにちは",
			width:    15,
			expected: "こんにちは     ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PadRight(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("PadRight(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "short string untouched",
			input:    "hello",
			width:    10,
			expected: "hello",
		},
		{
			name:     "long string gets ellipsis",
			input:    "hello wonderful world",
			width:    10,
			expected: "hello w...",
		},
		{
			name:     "wide runes are not split",
			input:    "こんにちは世界",
			width:    8,
			expected: "こん...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestOneline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "one line",
			expected: "one line",
		},
		{
			name:     "newlines collapsed",
			input:    "first\nsecond\n\nthird",
			expected: "first second third",
		},
		{
			name:     "mixed whitespace collapsed",
			input:    "  spaced\t\tout  ",
			expected: "spaced out",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Oneline(tt.input)
			if got != tt.expected {
				t.Errorf("Oneline(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
