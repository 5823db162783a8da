// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// CollapseSpace joins the whitespace-separated fields of s with single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanDocument prepares extracted document text for matching: NFKC
// folding (ligatures such as "ﬁ" become "fi"), control characters removed
// and whitespace collapsed.
func CleanDocument(s string) string {
	return CollapseSpace(SanitizeText(norm.NFKC.String(s)))
}
