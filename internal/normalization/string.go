package normalization

import (
	"strings"
)

// ParseInputString canonicalizes free-form identity input (emails,
// lookup keys) to lowercase with surrounding whitespace removed.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
