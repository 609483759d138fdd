package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os/exec"
	"strings"
)

// FailureKind classifies why a source adapter query failed. Adapters return
// a tagged kind instead of a type hierarchy so the aggregator can switch on
// it when building diagnostics.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureNotFound   FailureKind = "not-found"
	FailureNetwork    FailureKind = "network"
	FailureTimeout    FailureKind = "timeout"
	FailurePermission FailureKind = "permission"
	FailureGeneric    FailureKind = "generic"
)

// SourceError wraps an adapter failure with its source and failure kind.
type SourceError struct {
	Source Source
	Kind   FailureKind
	Err    error
}

func NewSourceError(source Source, kind FailureKind, err error) *SourceError {
	return &SourceError{Source: source, Kind: kind, Err: err}
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ClassifyFailure maps an arbitrary adapter error onto a FailureKind.
// A SourceError keeps its own kind; everything else is classified by the
// standard error chains, with a string fallback for errors that only carry
// their nature in the message.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureNone
	}

	var srcErr *SourceError
	if errors.As(err, &srcErr) && srcErr.Kind != FailureNone {
		return srcErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	if errors.Is(err, exec.ErrNotFound) {
		return FailureNotFound
	}
	if errors.Is(err, fs.ErrPermission) {
		return FailurePermission
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return FailureTimeout
	case strings.Contains(lower, "permission denied"):
		return FailurePermission
	case strings.Contains(lower, "executable file not found") || strings.Contains(lower, "command not found"):
		return FailureNotFound
	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "connection reset"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "network is unreachable"):
		return FailureNetwork
	default:
		return FailureGeneric
	}
}
