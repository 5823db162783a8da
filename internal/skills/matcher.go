package skills

import "strings"

// Match returns the sorted, deduplicated subset of candidates that occur in
// text as literal substrings. Both sides are lower-cased; there is no
// word-boundary check, so "go" matches inside "ego".
func Match(text string, candidates []string) []string {
	text = strings.ToLower(text)
	found := make(map[string]struct{})
	for _, s := range candidates {
		if strings.Contains(text, strings.ToLower(s)) {
			found[s] = struct{}{}
		}
	}
	return sortedKeys(found)
}

// Missing returns the role skills absent from found, sorted.
func Missing(role, found []string) []string {
	have := make(map[string]struct{}, len(found))
	for _, s := range found {
		have[s] = struct{}{}
	}
	miss := make(map[string]struct{})
	for _, s := range role {
		if _, ok := have[s]; !ok {
			miss[s] = struct{}{}
		}
	}
	return sortedKeys(miss)
}
