package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var queryFolder = cases.Fold()

// NormalizeQuery canonicalizes a user query for scoring and cache keying:
// Unicode NFC normalization, case folding, and whitespace collapse. The same
// normalization must be applied everywhere a query becomes a key, or the
// at-most-one-entry-per-(query,source) invariant breaks.
func NormalizeQuery(query string) string {
	folded := queryFolder.String(norm.NFC.String(query))
	return strings.Join(strings.Fields(folded), " ")
}

// queryTokens splits a normalized query into whitespace-delimited tokens.
func queryTokens(normalized string) []string {
	return strings.Fields(normalized)
}

// uniqueTokens drops duplicate tokens, keeping first-seen order. Scoring
// treats token lists as sets so a repeated word counts once.
func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// nameTokens splits a package name on hyphens and underscores, lowered.
// "visual-studio-code" -> ["visual", "studio", "code"].
func nameTokens(name string) []string {
	lower := strings.ToLower(name)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return r == '-' || r == '_'
	})
}
