// Package pyimports recognizes Python import statements with a line-oriented
// heuristic and reduces them to top-level module names.
//
// It is not a parser. Conditional, dynamic and string-embedded imports are
// out of reach, and scanning a file stops at the first line that contains an
// open parenthesis on the assumption that imports precede executable code.
package pyimports

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
)

const (
	commentMarker = "#"
	stopMarker    = "("

	initialBufSize = 64 * 1024
)

// Patterns are tried in order against each trimmed line; the first match wins.
var patterns = []*regexp.Regexp{
	// import <rest>
	regexp.MustCompile(`^import (.+)$`),
	// from <module> import <anything>; only <module> is captured
	regexp.MustCompile(`^from (.*?) import (?:.*)`),
}

// Extract returns the raw import expressions found in r, in encounter order.
// A read failure is returned wrapped; lines that match neither pattern are
// skipped silently.
func Extract(r io.Reader) ([]string, error) {
	var exprs []string

	// Line length is unbounded; only a failing reader ends the scan early.
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialBufSize), math.MaxInt)
	sc.Split(scanUniversalLines)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		if strings.Contains(line, stopMarker) {
			break
		}
		if expr, ok := MatchLine(line); ok {
			exprs = append(exprs, expr)
		}
	}
	if err := sc.Err(); err != nil {
		return exprs, fmt.Errorf("failed to read source: %w", err)
	}
	return exprs, nil
}

// MatchLine matches a single trimmed line against the import patterns and
// returns the captured expression.
func MatchLine(line string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// scanUniversalLines splits on "\n", "\r\n" or a lone "\r", the same line
// endings Python's universal newline mode accepts.
func scanUniversalLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i], nil
		}
		// A trailing "\r" may be the first half of "\r\n"
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
