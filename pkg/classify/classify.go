// Package classify separates third-party package names from local modules and
// standard-library modules.
package classify

import (
	"github.com/fulmenhq/goreqs/pkg/logger"
	"github.com/fulmenhq/goreqs/pkg/names"
	"github.com/fulmenhq/goreqs/pkg/pyimports"
	"github.com/fulmenhq/goreqs/pkg/scanner"
)

// Classifier holds the standard-library names it excludes. It is safe for
// concurrent use because it never mutates after construction.
type Classifier struct {
	stdlib names.Set
}

// New returns a classifier excluding the given standard-library names. The
// set is copied, so later changes by the caller have no effect.
func New(stdlib names.Set) *Classifier {
	return &Classifier{stdlib: stdlib.Union(nil)}
}

// IsStdlib reports whether name is a standard-library module.
func (c *Classifier) IsStdlib(name string) bool {
	return c.stdlib.Has(name)
}

// ThirdParty returns the candidates that are neither local names nor
// standard-library names, regardless of how often each was imported.
func (c *Classifier) ThirdParty(candidates []string, locals names.Set) names.Set {
	set := names.FromSlice(candidates)
	return set.Difference(locals.Intersect(set)).Difference(c.stdlib)
}

// Report keeps every intermediate product of a classification run.
type Report struct {
	Root       string
	Files      []string
	Dirs       int
	LocalNames names.Set
	RawImports []string
	Candidates []string
	ThirdParty names.Set
}

// Run scans root, normalizes the imports it finds and classifies them.
func Run(root string, opts scanner.Options, c *Classifier) (*Report, error) {
	res, err := scanner.Scan(root, opts)
	if err != nil {
		return nil, err
	}

	candidates := pyimports.NormalizeAll(res.RawImports)
	thirdParty := c.ThirdParty(candidates, res.LocalNames)

	var stdlibHits []string
	for _, name := range names.FromSlice(candidates).Sorted() {
		if c.IsStdlib(name) {
			stdlibHits = append(stdlibHits, name)
		}
	}
	logger.Debug("Found third-party packages",
		logger.Strings("packages", thirdParty.Sorted()),
		logger.Strings("stdlib", stdlibHits),
		logger.Int("candidates", len(candidates)))

	return &Report{
		Root:       res.Root,
		Files:      res.Files,
		Dirs:       res.Dirs,
		LocalNames: res.LocalNames,
		RawImports: res.RawImports,
		Candidates: candidates,
		ThirdParty: thirdParty,
	}, nil
}
