package pyimports

import "strings"

const aliasSeparator = " as "

// Normalize reduces a raw import expression to its top-level module names.
// Comma lists are split and each fragment is normalized on its own; aliases
// ("x as y") keep the left side and dotted paths keep the first component.
//
// Fragments that end up empty are dropped. Relative imports ("from . import
// x", "from .pkg import y") therefore yield nothing.
func Normalize(expr string) []string {
	var fragments []string
	if strings.Contains(expr, ",") {
		fragments = strings.Split(expr, ",")
	} else {
		fragments = []string{expr}
	}

	var out []string
	for _, fragment := range fragments {
		if name := topLevel(fragment); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// NormalizeAll normalizes every expression and concatenates the results.
func NormalizeAll(exprs []string) []string {
	var out []string
	for _, expr := range exprs {
		out = append(out, Normalize(expr)...)
	}
	return out
}

func topLevel(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if i := strings.Index(fragment, aliasSeparator); i >= 0 {
		fragment = fragment[:i]
	}
	if i := strings.IndexByte(fragment, '.'); i >= 0 {
		fragment = fragment[:i]
	}
	return strings.TrimSpace(fragment)
}
