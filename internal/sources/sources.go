// Package sources implements the per-backend search adapters. Each adapter
// shells out to its package manager (or calls the AUR RPC endpoint) and
// normalizes output into PackageRecord values. Adapters classify their own
// failures so the aggregator can report them uniformly.
package sources

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// commandRunner runs a package manager command and returns its stdout.
// Swapped for a stub in tests.
type commandRunner func(ctx context.Context, name string, args ...string) (stdout string, exitCode int, err error)

func runCommand(ctx context.Context, name string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), 0, nil
	}

	if ctx.Err() != nil {
		return "", -1, ctx.Err()
	}
	if errors.Is(err, exec.ErrNotFound) {
		return "", -1, err
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), exitErr.ExitCode(), errors.New(strings.TrimSpace(stderr.String()))
	}
	return "", -1, err
}

// available reports whether the named binary exists on PATH. Used for the
// Enabled flag in adapter info; Search relies on exec's own missing-binary
// error instead of a pre-check.
func available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
