// Package utils holds small helpers shared across layers, independent of any
// domain logic.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or malformed.
// Used for optional numeric query parameters.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageOffset converts 1-based page numbering to a row offset. Pages below 1
// are treated as the first page.
func PageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
