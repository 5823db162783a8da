// Package skills builds the skill vocabulary from the reference dataset and
// implements matching, importance scoring, and priority tiers on top of it.
//
// Everything here is pure: a Catalog is immutable once built and can be
// shared by concurrent requests without locking.
package skills

import (
	"sort"
	"strings"
)

// Normalize lower-cases and trims s so that texts, roles, and skills compare
// on a canonical form.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// splitSkills splits a raw comma-separated skill list into normalized,
// non-empty tokens. Duplicates are kept; callers dedupe with a set.
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := Normalize(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// sortedKeys returns the keys of set in ascending order.
func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
