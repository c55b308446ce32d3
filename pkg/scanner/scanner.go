// Package scanner walks a source tree once, recording the names the project
// defines itself and the raw import expressions found in its source files.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/goreqs/pkg/ignore"
	"github.com/fulmenhq/goreqs/pkg/logger"
	"github.com/fulmenhq/goreqs/pkg/names"
	"github.com/fulmenhq/goreqs/pkg/pyimports"
)

// DefaultExtension is the source-file extension recognized when none is set.
const DefaultExtension = ".py"

// ErrFilesystem is matched by every error that aborts a scan because the root
// or a source file could not be read.
var ErrFilesystem = errors.New("filesystem error")

// FilesystemError describes a fatal read failure during a scan.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFilesystem) hold for any FilesystemError.
func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}

// Options tunes a scan. The zero value walks everything and recognizes .py
// files.
type Options struct {
	// Extension selects source files, including the leading dot.
	Extension string
	// Exclude holds doublestar patterns matched against slash-separated paths
	// relative to the root. Matching directories are not descended into.
	Exclude []string
	// RespectGitignore skips paths ignored by .gitignore or .goreqsignore.
	RespectGitignore bool
}

// Result is what a single pass over the tree produces.
type Result struct {
	Root       string
	LocalNames names.Set
	RawImports []string
	Files      []string
	Dirs       int
}

// Scan walks root and extracts imports from every source file beneath it.
// Symlinked directories are not followed. A subdirectory that cannot be
// listed is skipped; an unreadable root or source file fails the scan.
func Scan(root string, opts Options) (*Result, error) {
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &FilesystemError{Op: "stat", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &FilesystemError{Op: "stat", Path: root, Err: errors.New("not a directory")}
	}

	var matcher *ignore.Matcher
	if opts.RespectGitignore {
		if matcher, err = ignore.NewMatcher(root); err != nil {
			return nil, &FilesystemError{Op: "read ignore files", Path: root, Err: err}
		}
	}

	rootName, err := rootBaseName(root)
	if err != nil {
		return nil, &FilesystemError{Op: "resolve", Path: root, Err: err}
	}

	res := &Result{Root: root, LocalNames: make(names.Set)}
	logger.Debug("Traversing tree", logger.String("start", root))

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root || d == nil || !d.IsDir() {
				return &FilesystemError{Op: "walk", Path: path, Err: err}
			}
			// Unreadable subdirectories are skipped; their name is already recorded
			logger.Warn("Skipping unreadable directory", logger.String("path", path), logger.Err(err))
			return filepath.SkipDir
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return &FilesystemError{Op: "walk", Path: path, Err: relErr}
		}
		rel = filepath.ToSlash(rel)

		if rel != "." && skipped(rel, d.IsDir(), opts.Exclude, matcher) {
			logger.Trace("Skipping excluded path", logger.String("path", rel))
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			res.Dirs++
			if rel == "." {
				res.LocalNames.Add(rootName)
			} else {
				res.LocalNames.Add(d.Name())
			}
			return nil
		}

		stem, ok := sourceStem(d.Name(), ext)
		if !ok || !isFileEntry(path, d) {
			return nil
		}
		res.LocalNames.Add(stem)

		exprs, err := scanFile(path)
		if err != nil {
			return err
		}
		res.Files = append(res.Files, path)
		res.RawImports = append(res.RawImports, exprs...)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	logger.Debug("Tree traversal complete",
		logger.Int("dirs", res.Dirs),
		logger.Int("files", len(res.Files)),
		logger.Int("raw_imports", len(res.RawImports)))
	return res, nil
}

func scanFile(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- path produced by WalkDir under the scan root
	if err != nil {
		return nil, &FilesystemError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	exprs, err := pyimports.Extract(f)
	if err != nil {
		return nil, &FilesystemError{Op: "read", Path: path, Err: err}
	}
	logger.Trace("Scanned source file", logger.String("path", path), logger.Int("imports", len(exprs)))
	return exprs, nil
}

// sourceStem strips ext from name. A bare ".py" has no stem and is not a
// source file.
func sourceStem(name, ext string) (string, bool) {
	if !strings.HasSuffix(name, ext) || len(name) == len(ext) {
		return "", false
	}
	return strings.TrimSuffix(name, ext), true
}

// isFileEntry accepts regular files and symlinks that resolve to one.
func isFileEntry(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func skipped(rel string, isDir bool, exclude []string, matcher *ignore.Matcher) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return matcher != nil && matcher.Match(rel, isDir)
}

func rootBaseName(root string) (string, error) {
	clean := filepath.Clean(root)
	if base := filepath.Base(clean); base != "." && base != ".." && base != string(filepath.Separator) {
		return base, nil
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return "", err
	}
	return filepath.Base(abs), nil
}
