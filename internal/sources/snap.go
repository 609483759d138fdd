package sources

import (
	"context"
	"strings"

	"pkgscout/internal/domain"
)

const snapDescriptionLimit = 100

// Snap searches the Snap Store via snap find.
type Snap struct {
	run commandRunner
}

func NewSnap() *Snap {
	return &Snap{run: runCommand}
}

func (s *Snap) Name() domain.Source { return domain.SourceSnap }

func (s *Snap) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Source:  domain.SourceSnap,
		Label:   "Snap Store",
		Kind:    "cli",
		Enabled: available("snap"),
	}
}

func (s *Snap) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	out, exitCode, err := s.run(ctx, "snap", "find", query)
	if err != nil {
		// snap exits 1 when nothing matches.
		if exitCode == 1 {
			return nil, nil
		}
		if strings.Contains(strings.ToLower(err.Error()), "cannot communicate with server") {
			return nil, domain.NewSourceError(domain.SourceSnap, domain.FailureNetwork, err)
		}
		return nil, domain.NewSourceError(domain.SourceSnap, domain.ClassifyFailure(err), err)
	}
	return parseSnapOutput(out), nil
}

// parseSnapOutput reads the whitespace-aligned snap find table. The first
// line is a header; everything after the name column is folded into the
// description and truncated.
func parseSnapOutput(out string) []domain.PackageRecord {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return nil
	}

	var records []domain.PackageRecord
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		desc := strings.Join(fields[1:], " ")
		if len(desc) > snapDescriptionLimit {
			desc = desc[:snapDescriptionLimit] + "..."
		}
		records = append(records, domain.PackageRecord{
			Name:        fields[0],
			Description: desc,
			Source:      domain.SourceSnap,
		})
	}
	return records
}
