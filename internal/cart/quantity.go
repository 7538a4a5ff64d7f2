package cart

import (
	"strconv"
	"strings"
)

// parseLeadingInt reads an optionally signed integer from the start of s,
// ignoring anything after the digits: "3abc" is 3, "2.7" is 2.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}

	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}

	return n, true
}
