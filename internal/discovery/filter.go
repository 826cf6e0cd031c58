package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters test files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters test files by name pattern using wildcard matching.
// Supports patterns like "*UserTest.php" or "*Payment*"
func (f *Filter) FilterByName(tests []string, pattern string) []string {
	if pattern == "" {
		return tests
	}

	var filtered []string
	for _, test := range tests {
		if f.Match(filepath.Base(test), pattern) {
			filtered = append(filtered, test)
		}
	}
	return filtered
}

// Match reports whether name matches pattern.
// Without wildcards the pattern matches as a substring; with "*" every
// non-empty fragment between wildcards must appear in name.
func (f *Filter) Match(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	if !strings.Contains(pattern, "*") {
		return false
	}

	hasFragment := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		hasFragment = true
		if !strings.Contains(name, part) {
			return false
		}
	}
	return hasFragment
}
