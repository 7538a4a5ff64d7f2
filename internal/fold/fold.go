// Package fold compares strings under Unicode case folding.
package fold

import (
	"strings"

	"golang.org/x/text/cases"
)

// String returns the case-folded form of s.
func String(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Fold().String(s)
}

// Contains reports whether substr is within s, ignoring case.
func Contains(s, substr string) bool {
	return strings.Contains(String(s), String(substr))
}

// Equal reports whether a and b are equal, ignoring case.
func Equal(a, b string) bool {
	return String(a) == String(b)
}
