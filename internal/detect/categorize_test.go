// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import "testing"

func TestCategorizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  InputCategory
	}{
		{"https", "https://example.com/paper.pdf", CategoryURL},
		{"http upper", "HTTP://EXAMPLE.COM", CategoryURL},
		{"doi", "10.1038/s41586-020-2649-2", CategoryIdentifier},
		{"isbn-13 hyphenated", "978-0-13-604259-4", CategoryIdentifier},
		{"isbn-10", "0306406152", CategoryIdentifier},
		{"isbn-10 x", "080442957X", CategoryIdentifier},
		{"video id", "dQw4w9WgXcQ", CategoryIdentifier},
		{"title", "Pathways of the Pulp", CategoryText},
		{"bare domain", "example.com/some-article", CategoryText},
		{"empty", "", CategoryText},
		{"whitespace trimmed", "  10.1000/xyz123  ", CategoryIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategorizeInput(tt.input); got != tt.want {
				t.Errorf("CategorizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
