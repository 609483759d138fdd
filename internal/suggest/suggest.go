// Package suggest maps free-form purpose queries ("apps to edit videos")
// onto curated application lists.
package suggest

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed purposes.yaml
var defaultPurposeData []byte

// Match is one purpose with its suggested applications, ordered by how well
// the purpose matched the query.
type Match struct {
	Purpose string   `json:"purpose"`
	Apps    []string `json:"apps"`
	Score   int      `json:"score"`
}

// Suggester answers purpose queries against a purpose-to-apps mapping.
type Suggester struct {
	purposes map[string][]string
	order    []string
}

// New builds a Suggester from the embedded default mapping.
func New() (*Suggester, error) {
	return parse(defaultPurposeData)
}

// NewFromFile builds a Suggester from a user-provided YAML mapping.
func NewFromFile(path string) (*Suggester, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read purpose mapping: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Suggester, error) {
	var purposes map[string][]string
	if err := yaml.Unmarshal(data, &purposes); err != nil {
		return nil, fmt.Errorf("parse purpose mapping: %w", err)
	}

	order := make([]string, 0, len(purposes))
	for purpose := range purposes {
		order = append(order, purpose)
	}
	sort.Strings(order)
	return &Suggester{purposes: purposes, order: order}, nil
}

// Purposes lists the known purposes in stable order.
func (s *Suggester) Purposes() []string {
	return append([]string(nil), s.order...)
}

// Find returns the purposes matching the query, best first. Matching tries
// the exact purpose, then substring, then word overlap, then synonyms.
func (s *Suggester) Find(query string) []Match {
	normalized := normalizeQuery(query)
	if normalized == "" {
		return nil
	}

	queryWords := fieldsSet(normalized)
	synonyms := expandSynonyms(normalized)

	var matches []Match
	for _, purpose := range s.order {
		score := matchScore(normalized, queryWords, synonyms, purpose)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{
			Purpose: purpose,
			Apps:    append([]string(nil), s.purposes[purpose]...),
			Score:   score,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func matchScore(query string, queryWords map[string]struct{}, synonyms []string, purpose string) int {
	purposeLower := strings.ToLower(purpose)
	switch {
	case query == purposeLower:
		return 100
	case strings.Contains(purposeLower, query):
		return 80
	}

	overlap := 0
	for word := range fieldsSet(purposeLower) {
		if _, ok := queryWords[word]; ok {
			overlap++
		}
	}
	if overlap > 0 {
		return overlap * 20
	}

	for _, synonym := range synonyms {
		if strings.Contains(purposeLower, synonym) {
			return 10
		}
	}
	return 0
}

var stopWords = map[string]struct{}{
	"apps": {}, "for": {}, "to": {}, "the": {}, "a": {}, "an": {},
	"and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"of": {}, "with": {}, "by": {}, "i": {}, "want": {}, "need": {},
	"looking": {}, "find": {}, "search": {}, "get": {}, "install": {},
	"download": {},
}

// phraseAliases collapse common phrasings onto canonical purposes before
// stop-word stripping.
var phraseAliases = map[string]string{
	"edit videos":            "video editing",
	"video editor":           "video editing",
	"video editing software": "video editing",
	"apps to edit videos":    "video editing",
	"video editing apps":     "video editing",
	"video editing tools":    "video editing",

	"office work":       "office",
	"office apps":       "office",
	"office software":   "office",
	"office suite":      "office",
	"productivity apps": "office",
	"work apps":         "office",

	"music apps":   "music",
	"audio editor": "music",

	"web browser":  "browsing",
	"browse web":   "browsing",
	"surf the web": "browsing",

	"chat apps":      "communication",
	"messaging apps": "communication",

	"code editor":       "coding",
	"programming tools": "coding",
	"dev tools":         "coding",
}

var synonymGroups = map[string][]string{
	"edit":        {"editing", "editor"},
	"video":       {"videos", "movie", "movies", "film", "clip"},
	"music":       {"audio", "sound", "songs"},
	"code":        {"coding", "programming", "development", "dev"},
	"office":      {"productivity", "work", "documents"},
	"graphics":    {"image", "photo", "picture", "design", "drawing"},
	"game":        {"gaming", "games", "play"},
	"browse":      {"browsing", "web", "internet"},
	"communicate": {"communication", "chat", "message", "call"},
	"text":        {"writing", "write", "notes", "editor"},
	"media":       {"multimedia", "playback", "player", "streaming"},
	"system":      {"admin", "monitor", "monitoring"},
}

func normalizeQuery(query string) string {
	lower := strings.ToLower(strings.TrimSpace(query))
	lower = strings.Join(strings.Fields(lower), " ")
	if canonical, ok := phraseAliases[lower]; ok {
		return canonical
	}

	var kept []string
	for _, word := range strings.Fields(lower) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func expandSynonyms(query string) []string {
	var synonyms []string
	for _, word := range strings.Fields(query) {
		if group, ok := synonymGroups[word]; ok {
			synonyms = append(synonyms, group...)
		}
	}
	return synonyms
}

func fieldsSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range strings.Fields(s) {
		set[f] = struct{}{}
	}
	return set
}
