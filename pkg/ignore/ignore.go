// Package ignore provides gitignore-based path filtering for scan roots using go-git
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreFileName is the tool-specific ignore file read from the scan root.
const IgnoreFileName = ".goreqsignore"

// defaultPatterns are always applied once a matcher is in use.
var defaultPatterns = []string{".git", "__pycache__"}

// Matcher answers whether a path under a scan root is ignored.
type Matcher struct {
	matcher gitignore.Matcher
}

// NewMatcher creates a matcher rooted at root with layered patterns:
// 1. built-in defaults (.git, __pycache__)
// 2. every .gitignore found under root
// 3. root/.goreqsignore
func NewMatcher(root string) (*Matcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ignore root: %w", err)
	}

	var patterns []gitignore.Pattern
	for _, p := range defaultPatterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	gitPatterns, err := gitignore.ReadPatterns(osfs.New(abs), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore patterns: %w", err)
	}
	patterns = append(patterns, gitPatterns...)

	local, err := readIgnoreFile(filepath.Join(abs, IgnoreFileName))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}
	for _, p := range local {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	return &Matcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

func readIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path)) // #nosec G304 -- fixed file name under the scan root
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, sc.Err()
}

// Match reports whether rel, a path relative to the matcher root, is ignored.
// Either separator style is accepted.
func (m *Matcher) Match(rel string, isDir bool) bool {
	parts := splitPath(filepath.ToSlash(rel))
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	if path == "" || path == "." {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
