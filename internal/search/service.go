package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"pkgscout/internal/domain"
)

var (
	// ErrInvalidQuery means the request query was empty after trimming.
	ErrInvalidQuery = errors.New("search: query must not be empty")
	// ErrNoSources means the service was built without any source adapter.
	ErrNoSources = errors.New("search: no sources configured")
	// ErrUnknownSource means PreferSource named a source the service does not have.
	ErrUnknownSource = errors.New("search: unknown source")
)

// Source is a package backend that can be searched. Implementations live in
// internal/sources; the service treats them uniformly and isolates their
// failures from each other.
type Source interface {
	Name() domain.Source
	Info() domain.SourceInfo
	Search(ctx context.Context, query string) ([]domain.PackageRecord, error)
}

// ResultCache stores per-(query, source) result lists. Implementations must
// never fail a search: Get misses on any internal error, Set reports whether
// the entry was stored.
type ResultCache interface {
	Get(ctx context.Context, query string, source domain.Source) ([]domain.PackageRecord, bool)
	Set(ctx context.Context, query string, source domain.Source, records []domain.PackageRecord) bool
}

// Timeouts is the per-source query deadline table. Slow backends like dnf
// get a longer leash than the AUR RPC endpoint.
type Timeouts map[domain.Source]time.Duration

// DefaultTimeouts returns the per-source deadlines used when no override
// is configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		domain.SourceAUR:     15 * time.Second,
		domain.SourcePacman:  30 * time.Second,
		domain.SourceAPT:     30 * time.Second,
		domain.SourceDNF:     45 * time.Second,
		domain.SourceFlatpak: 30 * time.Second,
		domain.SourceSnap:    30 * time.Second,
	}
}

func (t Timeouts) forSource(src domain.Source) time.Duration {
	if d, ok := t[src]; ok && d > 0 {
		return d
	}
	return 30 * time.Second
}

const maxConcurrentSources = 6

// Service fans a query out across all configured sources, merges and ranks
// the results, and reports per-source status.
type Service struct {
	sources  []Source
	bySource map[domain.Source]Source
	cache    ResultCache
	timeouts Timeouts
	scoring  ScoringConfig
	retry    RetryConfig
	health   *healthTracker
	limiters map[domain.Source]*rate.Limiter
	limMu    sync.Mutex
	logger   *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithCache attaches a result cache. Without one every search hits the
// backends directly.
func WithCache(c ResultCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithTimeouts overrides the per-source deadline table.
func WithTimeouts(t Timeouts) Option {
	return func(s *Service) {
		if len(t) > 0 {
			s.timeouts = t
		}
	}
}

// WithScoringConfig overrides the ranking keyword tables and source
// priorities.
func WithScoringConfig(cfg ScoringConfig) Option {
	return func(s *Service) { s.scoring = cfg }
}

// WithRetryConfig overrides the backoff policy for transient source errors.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(s *Service) { s.retry = cfg }
}

// WithLogger overrides the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService builds a Service over the given sources.
func NewService(sources []Source, opts ...Option) *Service {
	s := &Service{
		sources:  sources,
		bySource: make(map[domain.Source]Source, len(sources)),
		timeouts: DefaultTimeouts(),
		scoring:  DefaultScoringConfig(),
		retry:    DefaultRetryConfig(),
		health:   newHealthTracker(),
		limiters: make(map[domain.Source]*rate.Limiter, len(sources)),
		logger:   slog.Default(),
	}
	for _, src := range sources {
		s.bySource[src.Name()] = src
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sources describes the configured backends, for the sources subcommand.
func (s *Service) Sources() []domain.SourceInfo {
	infos := make([]domain.SourceInfo, 0, len(s.sources))
	for _, src := range s.sources {
		infos = append(infos, src.Info())
	}
	return infos
}

// limiter returns the per-source rate limiter, creating it on first use.
// One request per second with a small burst keeps repeated CLI invocations
// from hammering remote endpoints.
func (s *Service) limiter(src domain.Source) *rate.Limiter {
	s.limMu.Lock()
	defer s.limMu.Unlock()

	lim, ok := s.limiters[src]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(1), 3)
		s.limiters[src] = lim
	}
	return lim
}
