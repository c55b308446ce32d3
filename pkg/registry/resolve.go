package registry

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/goreqs/pkg/logger"
)

// DefaultConcurrency bounds parallel registry lookups when none is given
const DefaultConcurrency = 4

// Package pairs a package name with its resolved version
type Package struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// ResolveAll looks up every name and returns the ones that resolved, sorted
// by name. Lookup failures are logged and dropped; they never fail the call.
// Cancelling ctx stops further lookups and returns what was resolved so far.
func ResolveAll(ctx context.Context, r Resolver, pkgs []string, concurrency int) []Package {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	sorted := append([]string(nil), pkgs...)
	sort.Strings(sorted)
	results := make([]*Package, len(sorted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for idx, name := range sorted {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			version, err := r.Latest(gctx, name)
			if err != nil {
				if IsNotFound(err) {
					logger.Debug("Package does not exist on the registry", logger.String("package", name))
				} else {
					logger.Warn("Failed to resolve package version", logger.String("package", name), logger.Err(err))
				}
				return nil
			}
			results[idx] = &Package{Name: name, Version: version}
			return nil
		})
	}
	_ = g.Wait()

	resolved := make([]Package, 0, len(results))
	for _, p := range results {
		if p != nil {
			resolved = append(resolved, *p)
		}
	}
	return resolved
}
