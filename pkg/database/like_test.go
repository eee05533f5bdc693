package database

import "testing"

// TestEscapeLike tests LIKE special character escaping.
func TestEscapeLike(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ahmet", "ahmet"},
		{"ab%", `ab\%`},
		{"a_b", `a\_b`},
		{`a\b`, `a\\b`},
		{`100%_\`, `100\%\_\\`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := EscapeLike(tt.input); got != tt.expected {
			t.Errorf("EscapeLike(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
