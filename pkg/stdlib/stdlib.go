// Package stdlib supplies the set of module names treated as built in to the
// Python standard library.
package stdlib

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/goreqs/pkg/names"
)

//go:embed stdlib.txt
var embedded string

// Load reads one module name per line. Blank lines and lines starting with
// '#' are ignored.
func Load(r io.Reader) (names.Set, error) {
	set := make(names.Set)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set.Add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdlib list: %w", err)
	}
	return set, nil
}

// LoadFile loads a stdlib list from disk, replacing the embedded one.
func LoadFile(path string) (names.Set, error) {
	f, err := os.Open(filepath.Clean(path)) // #nosec G304 -- user-selected stdlib list
	if err != nil {
		return nil, fmt.Errorf("failed to open stdlib file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Default returns the embedded CPython 3 module list. Each call returns a
// fresh set.
func Default() names.Set {
	set, err := Load(strings.NewReader(embedded))
	if err != nil {
		// strings.Reader never fails
		panic(err)
	}
	return set
}
