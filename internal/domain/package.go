package domain

import (
	"strings"
	"time"
)

// Source identifies one backend catalog of installable packages.
type Source string

const (
	SourcePacman  Source = "pacman"
	SourceAUR     Source = "aur"
	SourceAPT     Source = "apt"
	SourceDNF     Source = "dnf"
	SourceFlatpak Source = "flatpak"
	SourceSnap    Source = "snap"
)

// AllSources lists every known source in display order.
func AllSources() []Source {
	return []Source{SourcePacman, SourceAUR, SourceAPT, SourceDNF, SourceFlatpak, SourceSnap}
}

// ParseSource resolves a user-supplied source name, accepting common aliases.
func ParseSource(raw string) (Source, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pacman", "arch":
		return SourcePacman, true
	case "aur":
		return SourceAUR, true
	case "apt", "apt-cache", "deb":
		return SourceAPT, true
	case "dnf", "yum":
		return SourceDNF, true
	case "flatpak", "flathub":
		return SourceFlatpak, true
	case "snap", "snapd":
		return SourceSnap, true
	default:
		return "", false
	}
}

// PackageRecord is a single package as reported by one source adapter.
// Records are immutable once produced; names are unique only within a
// single adapter response, not globally.
type PackageRecord struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      Source `json:"source"`
}

// ScoredCandidate pairs a record with its relevance score. Score ordering
// is the sole ranking signal; ties keep encounter order.
type ScoredCandidate struct {
	Record PackageRecord `json:"record"`
	Score  int           `json:"score"`
}

type SearchRequest struct {
	Query        string
	Limit        int
	PreferSource Source
	NoCache      bool
}

// SourceStatus reports the outcome of one adapter query, successful or not.
type SourceStatus struct {
	Source Source      `json:"source"`
	OK     bool        `json:"ok"`
	Count  int         `json:"count"`
	Cached bool        `json:"cached,omitempty"`
	Kind   FailureKind `json:"kind,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type SearchResponse struct {
	Query         string            `json:"query"`
	Items         []ScoredCandidate `json:"items"`
	Sources       []SourceStatus    `json:"sources"`
	FailedSources []Source          `json:"failedSources,omitempty"`
	TotalScanned  int               `json:"totalScanned"`
	ElapsedMS     int64             `json:"elapsedMs"`
}

// SourceInfo describes an adapter for diagnostics output.
type SourceInfo struct {
	Source  Source `json:"source"`
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
}

// CacheStats summarizes the result cache for the cache stats subcommand.
type CacheStats struct {
	TotalEntries   int64            `json:"totalEntries"`
	ExpiredEntries int64            `json:"expiredEntries"`
	TotalAccesses  int64            `json:"totalAccesses"`
	BySource       map[Source]int64 `json:"bySource,omitempty"`
	OldestEntry    time.Time        `json:"oldestEntry,omitzero"`
	NewestEntry    time.Time        `json:"newestEntry,omitzero"`
}
