// Package manifest reads and writes requirements-style manifests, one
// "name == version" pair per line.
package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/goreqs/pkg/logger"
	"github.com/fulmenhq/goreqs/pkg/registry"
	"github.com/fulmenhq/goreqs/pkg/safeio"
)

// DefaultFileName is written at the scan root unless a path is given
const DefaultFileName = "requirements.txt"

const pinSeparator = " == "

// Entry is one pinned requirement
type Entry struct {
	Name    string
	Version string
}

// FromPackages converts resolved packages into manifest entries, keeping order
func FromPackages(pkgs []registry.Package) []Entry {
	entries := make([]Entry, 0, len(pkgs))
	for _, p := range pkgs {
		entries = append(entries, Entry{Name: p.Name, Version: p.Version})
	}
	return entries
}

// Format renders entries as "name == version" lines joined by newlines and
// terminated by a trailing newline. No entries renders as a single newline.
func Format(entries []Entry) []byte {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Name+pinSeparator+e.Version)
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Write renders entries to w
func Write(w io.Writer, entries []Entry) error {
	if _, err := w.Write(Format(entries)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// WriteFile atomically replaces path with the rendered manifest
func WriteFile(path string, entries []Entry) error {
	logger.Debug("Writing requirements file", logger.Int("count", len(entries)), logger.String("path", path))
	if err := safeio.WriteFileAtomic(path, Format(entries)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Parse reads a manifest back. Blank lines and '#' comments are skipped; any
// other line must have the "name == version" shape.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, version, ok := strings.Cut(line, "==")
		name, version = strings.TrimSpace(name), strings.TrimSpace(version)
		if !ok || name == "" || version == "" {
			return nil, fmt.Errorf("line %d: expected \"name == version\", got %q", lineNo, line)
		}
		entries = append(entries, Entry{Name: name, Version: version})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return entries, nil
}

// ParseBytes is Parse over an in-memory manifest
func ParseBytes(data []byte) ([]Entry, error) {
	return Parse(bytes.NewReader(data))
}
