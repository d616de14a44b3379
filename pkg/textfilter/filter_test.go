package textfilter

import (
	"testing"
)

func TestApplyReplacesWholeWords(t *testing.T) {
	f := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple replacement",
			input:    "well, damn.",
			expected: "well, dang.",
		},
		{
			name:     "preserves uppercase",
			input:    "DAMN the torpedoes",
			expected: "DANG the torpedoes",
		},
		{
			name:     "preserves title case",
			input:    "Damn, that was close",
			expected: "Dang, that was close",
		},
		{
			name:     "word boundaries respected",
			input:    "the classics assessment",
			expected: "the classics assessment",
		},
		{
			name:     "hell in shell untouched",
			input:    "a seashell on the shore",
			expected: "a seashell on the shore",
		},
		{
			name:     "multiple words",
			input:    "damn it to hell",
			expected: "dang it to heck",
		},
		{
			name:     "clean text unchanged",
			input:    "The lantern gutters in the wind.",
			expected: "The lantern gutters in the wind.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Apply(tc.input); got != tc.expected {
				t.Errorf("Apply(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	f := New()

	if !f.Contains("what the hell") {
		t.Error("expected a match")
	}
	if f.Contains("a perfectly polite sentence") {
		t.Error("expected no match")
	}
	if f.Contains("shellfish") {
		t.Error("substrings inside words must not match")
	}
}

func TestAppliesTo(t *testing.T) {
	tests := []struct {
		rating   string
		expected bool
	}{
		{"G", true},
		{"g", true},
		{"PG", true},
		{"PG-13", true},
		{"pg13", true},
		{" PG ", true},
		{"R", false},
		{"", false},
		{"unrated", false},
	}

	for _, tc := range tests {
		t.Run(tc.rating, func(t *testing.T) {
			if got := AppliesTo(tc.rating); got != tc.expected {
				t.Errorf("AppliesTo(%q) = %v, want %v", tc.rating, got, tc.expected)
			}
		})
	}
}
