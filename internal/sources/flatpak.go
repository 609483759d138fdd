package sources

import (
	"context"
	"strings"

	"pkgscout/internal/domain"
)

// Flatpak searches configured Flatpak remotes via flatpak search.
type Flatpak struct {
	run commandRunner
}

func NewFlatpak() *Flatpak {
	return &Flatpak{run: runCommand}
}

func (f *Flatpak) Name() domain.Source { return domain.SourceFlatpak }

func (f *Flatpak) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Source:  domain.SourceFlatpak,
		Label:   "Flatpak remotes",
		Kind:    "cli",
		Enabled: available("flatpak"),
	}
}

func (f *Flatpak) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	out, exitCode, err := f.run(ctx, "flatpak", "search", "--columns=name,description,application", query)
	if err != nil {
		// flatpak exits 1 when nothing matches.
		if exitCode == 1 {
			return nil, nil
		}
		if strings.Contains(err.Error(), "No remotes found") {
			return nil, domain.NewSourceError(domain.SourceFlatpak, domain.FailureGeneric, err)
		}
		return nil, domain.NewSourceError(domain.SourceFlatpak, domain.ClassifyFailure(err), err)
	}
	return parseFlatpakOutput(out), nil
}

// parseFlatpakOutput reads tab-separated name/description/application rows.
// The application ID becomes the record name because that is what flatpak
// install expects.
func parseFlatpakOutput(out string) []domain.PackageRecord {
	var records []domain.PackageRecord
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			continue
		}
		name := strings.TrimSpace(cols[0])
		desc := strings.TrimSpace(cols[1])
		appID := strings.TrimSpace(cols[2])
		if appID == "" {
			continue
		}
		records = append(records, domain.PackageRecord{
			Name:        appID,
			Description: name + " - " + desc,
			Source:      domain.SourceFlatpak,
		})
	}
	return records
}
