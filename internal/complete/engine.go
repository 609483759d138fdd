// Package complete suggests package names for shell completion from a
// static catalog, an alias table, and per-user usage history. Lookups are
// purely local so they answer fast enough for interactive tab completion.
package complete

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"pkgscout/internal/domain"
	"pkgscout/internal/metrics"
)

// Completion score components.
const (
	completeExactBonus     = 100.0
	completePrefixBonus    = 80.0
	completeSubstringBonus = 60.0
	completeAbbrevBonus    = 70.0
	completeDescBonus      = 20.0
	completeNameWordBonus  = 10.0
	completeDescWordBonus  = 5.0
	completeFrequencyCap   = 20.0
	completeRecencyBase    = 10.0
	completeRemoveCtxBonus = 15.0
	defaultCompletionLimit = 10
	defaultMaxRecent       = 50
	usageFlushEvery        = 10
)

// Context hints for Complete.
const (
	ContextInstall = "install"
	ContextRemove  = "remove"
)

// Suggestion is one completion candidate.
type Suggestion struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Source      domain.Source `json:"source"`
	Score       float64       `json:"score"`
	Alias       string        `json:"alias,omitempty"`
}

// Engine answers completion queries over a fixed catalog. Usage history
// feeds the ranking: frequently and recently installed packages float up.
type Engine struct {
	trie    *trie
	entries map[string]Entry
	abbrevs map[string]string
	aliases map[string]string

	mu            sync.Mutex
	frequency     map[string]int
	recent        []string
	maxRecent     int
	unflushed     int
	store         *UsageStore
	sourceWeights map[domain.Source]float64

	logger *slog.Logger
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithUsageStore attaches persistent usage history. The engine loads
// existing counters on construction and flushes periodically on RecordUsage.
func WithUsageStore(store *UsageStore) EngineOption {
	return func(e *Engine) { e.store = store }
}

func WithAliases(aliases map[string]string) EngineOption {
	return func(e *Engine) {
		if aliases != nil {
			e.aliases = aliases
		}
	}
}

func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine indexes the catalog and loads usage history when a store is
// attached.
func NewEngine(catalog []Entry, opts ...EngineOption) *Engine {
	e := &Engine{
		trie:      newTrie(),
		entries:   make(map[string]Entry, len(catalog)),
		abbrevs:   make(map[string]string, len(catalog)),
		aliases:   DefaultAliases(),
		frequency: make(map[string]int),
		maxRecent: defaultMaxRecent,
		sourceWeights: map[domain.Source]float64{
			domain.SourcePacman:  10,
			domain.SourceAUR:     8,
			domain.SourceFlatpak: 6,
			domain.SourceAPT:     5,
			domain.SourceDNF:     5,
			domain.SourceSnap:    4,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, entry := range catalog {
		e.entries[entry.Name] = entry
		e.abbrevs[entry.Name] = abbreviate(entry.Name)
		e.trie.Insert(entry.Name)
	}

	if e.store != nil {
		ctx := context.Background()
		if counts, err := e.store.LoadCounts(ctx); err != nil {
			e.logger.Warn("loading usage counters failed", "error", err)
		} else {
			e.frequency = counts
		}
		if recent, err := e.store.LoadRecent(ctx, e.maxRecent); err != nil {
			e.logger.Warn("loading recent usage failed", "error", err)
		} else {
			e.recent = recent
		}
	}
	return e
}

// Complete returns ranked suggestions for a partial package name. An alias
// hit resolves directly to its canonical package; otherwise candidates come
// from trie prefix search unioned with abbreviation matches.
func (e *Engine) Complete(query, contextHint string, limit int) []Suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = defaultCompletionLimit
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if canonical, ok := e.aliases[query]; ok {
		if entry, known := e.entries[canonical]; known {
			metrics.CompletionLookupsTotal.WithLabelValues("alias").Inc()
			return []Suggestion{{
				Name:        entry.Name,
				Description: entry.Description,
				Source:      entry.Source,
				Score:       completeExactBonus,
				Alias:       query,
			}}
		}
	}

	matches := e.trie.Prefix(query)
	if matches == nil {
		matches = make(map[string]struct{})
	}
	for name, abbrev := range e.abbrevs {
		if strings.Contains(abbrev, query) {
			matches[name] = struct{}{}
		}
	}
	if len(matches) == 0 {
		metrics.CompletionLookupsTotal.WithLabelValues("none").Inc()
		return nil
	}
	metrics.CompletionLookupsTotal.WithLabelValues("trie").Inc()

	suggestions := make([]Suggestion, 0, len(matches))
	for name := range matches {
		entry := e.entries[name]
		suggestions = append(suggestions, Suggestion{
			Name:        entry.Name,
			Description: entry.Description,
			Source:      entry.Source,
			Score:       e.scoreLocked(query, entry, contextHint),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Name < suggestions[j].Name
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// Index adds packages discovered by a search to the completion catalog so
// later completions know about them. Already-known names keep their
// original entry.
func (e *Engine) Index(records []domain.PackageRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, rec := range records {
		name := strings.ToLower(strings.TrimSpace(rec.Name))
		if name == "" {
			continue
		}
		if _, known := e.entries[name]; known {
			continue
		}
		entry := Entry{Name: name, Description: rec.Description, Source: rec.Source}
		e.entries[name] = entry
		e.abbrevs[name] = abbreviate(name)
		e.trie.Insert(name)
	}
}

func (e *Engine) scoreLocked(query string, entry Entry, contextHint string) float64 {
	name := strings.ToLower(entry.Name)
	desc := strings.ToLower(entry.Description)
	score := 0.0

	switch {
	case query == name:
		score += completeExactBonus
	case strings.HasPrefix(name, query):
		score += completePrefixBonus
	case strings.Contains(name, query):
		score += completeSubstringBonus
	}

	if strings.Contains(e.abbrevs[entry.Name], query) {
		score += completeAbbrevBonus
	}
	if strings.Contains(desc, query) {
		score += completeDescBonus
	}

	nameWords := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	descWords := strings.Fields(desc)
	for _, q := range strings.Fields(query) {
		for _, w := range nameWords {
			if strings.HasPrefix(w, q) {
				score += completeNameWordBonus
			}
		}
		for _, w := range descWords {
			if strings.HasPrefix(w, q) {
				score += completeDescWordBonus
			}
		}
	}

	if freq := e.frequency[entry.Name]; freq > 0 {
		score += min(float64(freq)*2, completeFrequencyCap)
	}
	recentIdx := -1
	for i, name := range e.recent {
		if name == entry.Name {
			recentIdx = i
			break
		}
	}
	if recentIdx >= 0 {
		if bonus := completeRecencyBase - float64(recentIdx); bonus > 0 {
			score += bonus
		}
		if contextHint == ContextRemove {
			score += completeRemoveCtxBonus
		}
	}

	score += e.sourceWeights[entry.Source]
	return score
}

// RecordUsage bumps a package's frequency counter and moves it to the front
// of the recency list. Counters are flushed to the store every few updates
// and on Flush.
func (e *Engine) RecordUsage(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	e.mu.Lock()
	e.frequency[name]++
	for i, existing := range e.recent {
		if existing == name {
			e.recent = append(e.recent[:i], e.recent[i+1:]...)
			break
		}
	}
	e.recent = append([]string{name}, e.recent...)
	if len(e.recent) > e.maxRecent {
		e.recent = e.recent[:e.maxRecent]
	}
	e.unflushed++
	flush := e.unflushed >= usageFlushEvery
	if flush {
		e.unflushed = 0
	}
	e.mu.Unlock()

	if flush {
		e.flush(ctx)
	}
}

// Flush writes pending usage counters to the store.
func (e *Engine) Flush(ctx context.Context) {
	e.mu.Lock()
	e.unflushed = 0
	e.mu.Unlock()
	e.flush(ctx)
}

// Close flushes pending usage counters and closes the store.
func (e *Engine) Close(ctx context.Context) error {
	e.Flush(ctx)
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

func (e *Engine) flush(ctx context.Context) {
	if e.store == nil {
		return
	}
	e.mu.Lock()
	counts := make(map[string]int, len(e.frequency))
	for name, count := range e.frequency {
		counts[name] = count
	}
	recent := make([]string, len(e.recent))
	copy(recent, e.recent)
	e.mu.Unlock()

	if err := e.store.SaveCounts(ctx, counts, recent); err != nil {
		e.logger.Warn("saving usage counters failed", "error", err)
	}
}
