// Package sanitizer normalizes free-text input before validation and storage.
// All functions are idempotent and never error; invalid input degrades to the
// empty string.
package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// CollapseWhitespace trims and folds any run of whitespace into one space.
func CollapseWhitespace(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var out strings.Builder
	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				out.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		out.WriteRune(r)
		lastWasSpace = false
	}
	return out.String()
}

// SanitizeTitle normalizes a display title such as "Deluxe  King  Room".
func SanitizeTitle(s string) string {
	return CollapseWhitespace(s)
}

// SanitizeDescription normalizes longer free text, keeping case.
func SanitizeDescription(s string) string {
	return CollapseWhitespace(s)
}

// SanitizeName normalizes a guest name.
func SanitizeName(s string) string {
	return CollapseWhitespace(s)
}
