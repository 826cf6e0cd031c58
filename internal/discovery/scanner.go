package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultTestFileSuffix marks files that hold PHPUnit test classes.
const DefaultTestFileSuffix = "Test.php"

// Scanner scans for test files in a directory
type Scanner struct {
	skipDirs map[string]bool
	suffix   string
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap, suffix: DefaultTestFileSuffix}
}

// WithSuffix changes the file name suffix that marks a test file.
func (s *Scanner) WithSuffix(suffix string) *Scanner {
	if suffix != "" {
		s.suffix = suffix
	}
	return s
}

// Scan finds all test files in the given root directory, in lexical order
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(d.Name(), s.suffix) {
			testfiles = append(testfiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(testfiles)
	return testfiles, nil
}
