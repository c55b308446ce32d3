// Package names provides the string set shared by the scanner, the classifier
// and the standard-library loader.
package names

import "sort"

// Set is an unordered collection of distinct names.
type Set map[string]struct{}

// New returns a set holding the given names.
func New(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// FromSlice builds a set from a slice, collapsing duplicates.
func FromSlice(items []string) Set {
	return New(items...)
}

// Add inserts a name.
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is a member. A nil set has no members.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Union returns a new set with the members of both sets.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for name := range s {
		out.Add(name)
	}
	for name := range other {
		out.Add(name)
	}
	return out
}

// Intersect returns a new set with the members present in both sets.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for name := range s {
		if other.Has(name) {
			out.Add(name)
		}
	}
	return out
}

// Difference returns a new set with the members of s that are not in other.
func (s Set) Difference(other Set) Set {
	out := make(Set, len(s))
	for name := range s {
		if !other.Has(name) {
			out.Add(name)
		}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
