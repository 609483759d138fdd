package sources

import (
	"context"
	"strings"

	"pkgscout/internal/domain"
)

// APT searches Debian/Ubuntu repositories via apt-cache search.
type APT struct {
	run commandRunner
}

func NewAPT() *APT {
	return &APT{run: runCommand}
}

func (a *APT) Name() domain.Source { return domain.SourceAPT }

func (a *APT) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Source:  domain.SourceAPT,
		Label:   "Debian/Ubuntu repositories",
		Kind:    "cli",
		Enabled: available("apt-cache"),
	}
}

func (a *APT) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	out, _, err := a.run(ctx, "apt-cache", "search", query)
	if err != nil {
		if strings.Contains(err.Error(), "Unable to locate package") {
			return nil, nil
		}
		if strings.Contains(err.Error(), "Could not open lock file") {
			return nil, domain.NewSourceError(domain.SourceAPT, domain.FailurePermission, err)
		}
		return nil, domain.NewSourceError(domain.SourceAPT, domain.ClassifyFailure(err), err)
	}
	return parseAPTOutput(out), nil
}

// parseAPTOutput reads one "name - description" line per package.
func parseAPTOutput(out string) []domain.PackageRecord {
	var records []domain.PackageRecord
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, desc, found := strings.Cut(line, " - ")
		if !found {
			continue
		}
		records = append(records, domain.PackageRecord{
			Name:        strings.TrimSpace(name),
			Description: strings.TrimSpace(desc),
			Source:      domain.SourceAPT,
		})
	}
	return records
}
