package search

import (
	"sync"
	"time"

	"pkgscout/internal/domain"
	"pkgscout/internal/metrics"
)

const (
	sourceFailureThreshold = 3
	sourceBlockBase        = 2 * time.Minute
	sourceBlockMax         = 15 * time.Minute
)

type sourceHealth struct {
	consecutiveFailures int
	blockedUntil        time.Time
	blockDuration       time.Duration
}

// healthTracker keeps a small circuit breaker per source. A source that
// fails sourceFailureThreshold times in a row is skipped for a growing
// window so one dead backend cannot slow every search.
type healthTracker struct {
	mu     sync.Mutex
	states map[domain.Source]*sourceHealth
	now    func() time.Time
}

func newHealthTracker() *healthTracker {
	return &healthTracker{
		states: make(map[domain.Source]*sourceHealth),
		now:    time.Now,
	}
}

// Blocked reports whether the source is currently in a failure window.
func (h *healthTracker) Blocked(src domain.Source) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.states[src]
	if !ok {
		return false
	}
	return h.now().Before(st.blockedUntil)
}

// RecordSuccess resets the failure streak and lifts any block.
func (h *healthTracker) RecordSuccess(src domain.Source) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.states, src)
	metrics.SourceAvailable.WithLabelValues(string(src)).Set(1)
}

// RecordFailure increments the streak and, past the threshold, blocks the
// source with exponential growth capped at sourceBlockMax.
func (h *healthTracker) RecordFailure(src domain.Source) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.states[src]
	if !ok {
		st = &sourceHealth{}
		h.states[src] = st
	}
	st.consecutiveFailures++
	if st.consecutiveFailures < sourceFailureThreshold {
		return
	}

	if st.blockDuration == 0 {
		st.blockDuration = sourceBlockBase
	} else {
		st.blockDuration *= 2
		if st.blockDuration > sourceBlockMax {
			st.blockDuration = sourceBlockMax
		}
	}
	st.blockedUntil = h.now().Add(st.blockDuration)
	metrics.SourceAvailable.WithLabelValues(string(src)).Set(0)
}
