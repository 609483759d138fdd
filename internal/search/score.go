package search

import (
	"sort"
	"strings"

	"pkgscout/internal/domain"
)

// Scoring bonuses. The keyword lists and source priorities live in
// ScoringConfig so callers can tune them; these structural bonuses are part
// of the algorithm itself.
const (
	exactMatchBonus      = 150
	substringMatchBonus  = 80
	nameTokenPrefixBonus = 4
	descTokenPrefixBonus = 1
	boostKeywordBonus    = 3
	lowPriorityPenalty   = 10
	prebuiltSuffixBonus  = 5
)

// prebuiltSuffix marks packages that ship a prebuilt binary rather than
// building from source; those are usually what the user wants.
const prebuiltSuffix = "-bin"

// ScoringConfig holds the hand-tuned keyword tables and source priorities
// used by Rank. The values are heuristic tie-break bias, not policy; they
// are data so deployments can adjust them without touching the algorithm.
type ScoringConfig struct {
	// JunkKeywords hard-exclude a candidate when found in its description.
	JunkKeywords []string
	// LowPriorityKeywords penalize but do not exclude.
	LowPriorityKeywords []string
	// BoostKeywords reward common application-category terms.
	BoostKeywords []string
	// SourcePriority biases toward better-integrated sources.
	SourcePriority map[domain.Source]int
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		JunkKeywords: []string{
			"icon", "dummy", "meta", "symlink", "wrap", "material", "launcher", "unionfs",
		},
		LowPriorityKeywords: []string{
			"extension", "plugin", "helper", "daemon", "patch", "theme",
		},
		BoostKeywords: []string{
			"editor", "browser", "ide", "official", "gui", "android", "studio", "stable", "canary", "beta",
		},
		SourcePriority: map[domain.Source]int{
			domain.SourcePacman:  40,
			domain.SourceAPT:     40,
			domain.SourceDNF:     40,
			domain.SourceAUR:     20,
			domain.SourceFlatpak: 10,
			domain.SourceSnap:    5,
		},
	}
}

// IsJunk reports whether a record should be dropped before scoring.
// Meta/placeholder/wrapper packages clutter results without ever being what
// the user asked for.
func (c ScoringConfig) IsJunk(record domain.PackageRecord) bool {
	desc := strings.ToLower(record.Description)
	for _, junk := range c.JunkKeywords {
		if strings.Contains(desc, junk) {
			return true
		}
	}
	return false
}

// Score computes the relevance score of a single record against a
// normalized query. Junk records and the scoring of other records are
// independent; callers filter junk first via IsJunk.
func (c ScoringConfig) Score(normalizedQuery string, record domain.PackageRecord) int {
	name := strings.ToLower(record.Name)
	desc := strings.ToLower(record.Description)
	score := 0

	if normalizedQuery == name {
		score += exactMatchBonus
	} else if strings.Contains(name, normalizedQuery) {
		score += substringMatchBonus
	}

	descTokens := uniqueTokens(strings.Fields(desc))
	pkgTokens := uniqueTokens(nameTokens(record.Name))
	for _, q := range uniqueTokens(queryTokens(normalizedQuery)) {
		for _, token := range pkgTokens {
			if strings.HasPrefix(token, q) {
				score += nameTokenPrefixBonus
			}
		}
		for _, token := range descTokens {
			if strings.HasPrefix(token, q) {
				score += descTokenPrefixBonus
			}
		}
	}

	for _, word := range c.BoostKeywords {
		if strings.Contains(name, word) || strings.Contains(desc, word) {
			score += boostKeywordBonus
		}
	}
	for _, word := range c.LowPriorityKeywords {
		if strings.Contains(name, word) || strings.Contains(desc, word) {
			score -= lowPriorityPenalty
		}
	}

	if strings.HasSuffix(name, prebuiltSuffix) {
		score += prebuiltSuffixBonus
	}

	score += c.SourcePriority[record.Source]
	return score
}

// Rank scores records against the query and returns the top candidates in
// descending score order, truncated to limit. Junk records and records with
// a non-positive score are excluded. Ties keep the input's relative order,
// so deduplicated first-encounter ordering survives ranking.
func Rank(cfg ScoringConfig, query string, records []domain.PackageRecord, limit int) []domain.ScoredCandidate {
	if len(records) == 0 {
		return nil
	}
	normalized := NormalizeQuery(query)

	candidates := make([]domain.ScoredCandidate, 0, len(records))
	for _, record := range records {
		if cfg.IsJunk(record) {
			continue
		}
		score := cfg.Score(normalized, record)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, domain.ScoredCandidate{Record: record, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
