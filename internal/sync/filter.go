package sync

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Excluded reports whether a manifest key matches any of the configured
// exclude glob patterns. An empty pattern list excludes nothing.
func Excluded(key string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	// Normalize to forward slashes so patterns behave the same on
	// every platform even for path-shaped keys.
	normalized := filepath.ToSlash(key)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
	}
	return false
}
