package sanitizer

import "testing"

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"trims ends", "  Deluxe King  ", "Deluxe King"},
		{"folds runs", "Deluxe    King\t\tRoom", "Deluxe King Room"},
		{"newlines", "Sea view.\n\nBalcony.", "Sea view. Balcony."},
		{"already clean", "Standard Twin", "Standard Twin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollapseWhitespace(tt.input); got != tt.expected {
				t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{"  a  b ", "Deluxe\tKing", "", "plain"}
	for _, in := range inputs {
		once := SanitizeTitle(in)
		twice := SanitizeTitle(once)
		if once != twice {
			t.Errorf("SanitizeTitle not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestPipeline(t *testing.T) {
	p := Pipeline{CollapseWhitespace}
	if got := p.Apply("  x   y "); got != "x y" {
		t.Errorf("Pipeline.Apply = %q, want %q", got, "x y")
	}
}
