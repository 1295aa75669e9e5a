// Package interpolation merges scripted variables across packages and
// substitutes $name$ references inside strings.
package interpolation

import (
	"regexp"
	"strings"
)

// referencePattern matches one $name$ reference.
var referencePattern = regexp.MustCompile(`\$(\w+)\$`)

// Lookup resolves a variable name.
type Lookup func(name string) (string, bool)

// MapLookup resolves names from m.
func MapLookup(m map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

// Chain tries each lookup in order and returns the first hit.
func Chain(lookups ...Lookup) Lookup {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Merge folds maps in argument order. A key defined by several maps takes
// the value of the last one.
func Merge(maps ...map[string]string) map[string]string {
	size := 0
	for _, m := range maps {
		size += len(m)
	}
	merged := make(map[string]string, size)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

// Substitute replaces every non-overlapping $name$ in s with its value.
// Replacement text is not scanned again, and unresolved references are
// left as they are.
func Substitute(s string, lookup Lookup) string {
	if lookup == nil || !strings.Contains(s, "$") {
		return s
	}
	return referencePattern.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := lookup(ref[1 : len(ref)-1]); ok {
			return v
		}
		return ref
	})
}

// ResolveScalar resolves a script field value. A value that is itself a
// variable name (such as @tier1cost1) is replaced by the variable's value;
// otherwise $name$ references inside it are substituted.
func ResolveScalar(raw string, vars map[string]string) string {
	if v, ok := vars[raw]; ok {
		return v
	}
	return Substitute(raw, MapLookup(vars))
}

// ReferenceNames returns the names referenced in s, in order of appearance.
func ReferenceNames(s string) []string {
	matches := referencePattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}
