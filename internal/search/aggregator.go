package search

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"pkgscout/internal/domain"
	"pkgscout/internal/metrics"
)

// Search queries every configured source concurrently, merges the results,
// deduplicates by package name, and returns the top candidates ranked by
// relevance. Individual source failures never fail the search; they are
// reported in SearchResponse.Sources with a classified failure kind. An
// error is returned only for invalid requests.
func (s *Service) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	started := time.Now()

	query := NormalizeQuery(req.Query)
	if query == "" {
		return domain.SearchResponse{}, ErrInvalidQuery
	}
	if len(s.sources) == 0 {
		return domain.SearchResponse{}, ErrNoSources
	}
	if req.PreferSource != "" {
		if _, ok := s.bySource[req.PreferSource]; !ok {
			return domain.SearchResponse{}, fmt.Errorf("%w: %q", ErrUnknownSource, req.PreferSource)
		}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}

	sem := semaphore.NewWeighted(maxConcurrentSources)

	// Each source writes into its own slot so the merged record order
	// follows the configured source order, not goroutine completion order.
	// Dedupe ties fall to the first-encountered record, which must not
	// change between runs.
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		bySlot   = make([][]domain.PackageRecord, len(s.sources))
		statuses []domain.SourceStatus
	)

	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				s.appendStatus(&mu, &statuses, domain.SourceStatus{
					Source: src.Name(),
					Kind:   domain.FailureTimeout,
					Error:  err.Error(),
				})
				return
			}
			defer sem.Release(1)

			st, found := s.querySource(ctx, src, query, req.NoCache)

			mu.Lock()
			statuses = append(statuses, st)
			bySlot[i] = found
			mu.Unlock()
		}(i, src)
	}
	wg.Wait()

	sortStatuses(statuses)

	var records []domain.PackageRecord
	for _, found := range bySlot {
		records = append(records, found...)
	}

	totalScanned := len(records)
	unique := Deduplicate(records, req.PreferSource)
	ranked := Rank(s.scoring, query, unique, limit)

	resp := domain.SearchResponse{
		Query:        query,
		Items:        ranked,
		Sources:      statuses,
		TotalScanned: totalScanned,
		ElapsedMS:    time.Since(started).Milliseconds(),
	}
	for _, st := range statuses {
		if !st.OK {
			resp.FailedSources = append(resp.FailedSources, st.Source)
		}
	}
	return resp, nil
}

// querySource runs a single source with its own deadline, consulting the
// cache first and recording health and metrics.
func (s *Service) querySource(ctx context.Context, src Source, query string, noCache bool) (domain.SourceStatus, []domain.PackageRecord) {
	name := src.Name()

	if !noCache && s.cache != nil {
		if cached, ok := s.cache.Get(ctx, query, name); ok {
			metrics.CacheHitsTotal.Inc()
			return domain.SourceStatus{
				Source: name,
				OK:     true,
				Count:  len(cached),
				Cached: true,
			}, cached
		}
		metrics.CacheMissesTotal.Inc()
	}

	if s.health.Blocked(name) {
		s.logger.Debug("skipping blocked source", "source", name)
		return domain.SourceStatus{
			Source: name,
			Kind:   domain.FailureGeneric,
			Error:  "temporarily disabled after repeated failures",
		}, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.timeouts.forSource(name))
	defer cancel()

	if err := s.limiter(name).Wait(queryCtx); err != nil {
		return domain.SourceStatus{
			Source: name,
			Kind:   domain.ClassifyFailure(err),
			Error:  err.Error(),
		}, nil
	}

	var found []domain.PackageRecord
	timer := time.Now()
	err := retryWithBackoff(queryCtx, s.retry, func() error {
		var searchErr error
		found, searchErr = src.Search(queryCtx, query)
		return searchErr
	})
	elapsed := time.Since(timer)

	metrics.SourceRequestDuration.WithLabelValues(string(name)).Observe(elapsed.Seconds())

	if err != nil {
		kind := domain.ClassifyFailure(err)
		metrics.SourceRequestsTotal.WithLabelValues(string(name), "error").Inc()
		// A missing manager binary is a permanent condition on this host,
		// not an outage worth tracking in the breaker.
		if kind == domain.FailureNotFound {
			s.health.RecordSuccess(name)
		} else {
			s.health.RecordFailure(name)
		}
		s.logger.Warn("source query failed",
			"source", name,
			"kind", kind,
			"elapsed", elapsed,
			"error", err)
		return domain.SourceStatus{
			Source: name,
			Kind:   kind,
			Error:  err.Error(),
		}, nil
	}

	metrics.SourceRequestsTotal.WithLabelValues(string(name), "ok").Inc()
	s.health.RecordSuccess(name)

	if s.cache != nil && len(found) > 0 {
		s.cache.Set(ctx, query, name, found)
	}

	s.logger.Debug("source query done",
		"source", name,
		"count", len(found),
		"elapsed", elapsed)
	return domain.SourceStatus{
		Source: name,
		OK:     true,
		Count:  len(found),
	}, found
}

func (s *Service) appendStatus(mu *sync.Mutex, statuses *[]domain.SourceStatus, st domain.SourceStatus) {
	mu.Lock()
	*statuses = append(*statuses, st)
	mu.Unlock()
}

// sortStatuses orders status rows by source name so output is stable
// across runs regardless of goroutine completion order.
func sortStatuses(statuses []domain.SourceStatus) {
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Source < statuses[j].Source
	})
}
