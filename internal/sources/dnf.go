package sources

import (
	"context"
	"strings"

	"pkgscout/internal/domain"
)

// DNF searches Fedora/RHEL repositories via dnf search.
type DNF struct {
	run commandRunner
}

func NewDNF() *DNF {
	return &DNF{run: runCommand}
}

func (d *DNF) Name() domain.Source { return domain.SourceDNF }

func (d *DNF) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Source:  domain.SourceDNF,
		Label:   "Fedora/RHEL repositories",
		Kind:    "cli",
		Enabled: available("dnf"),
	}
}

func (d *DNF) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	out, exitCode, err := d.run(ctx, "dnf", "search", query)
	if err != nil {
		// dnf exits 1 when nothing matches.
		if exitCode == 1 {
			return nil, nil
		}
		msg := err.Error()
		switch {
		case strings.Contains(msg, "Cannot retrieve metalink"):
			return nil, domain.NewSourceError(domain.SourceDNF, domain.FailureNetwork, err)
		case strings.Contains(msg, "Permission denied"):
			return nil, domain.NewSourceError(domain.SourceDNF, domain.FailurePermission, err)
		default:
			return nil, domain.NewSourceError(domain.SourceDNF, domain.ClassifyFailure(err), err)
		}
	}
	return parseDNFOutput(out), nil
}

// parseDNFOutput reads "name.arch : description" lines after the match
// header. Metadata banner lines are skipped.
func parseDNFOutput(out string) []domain.PackageRecord {
	var records []domain.PackageRecord
	inResults := false

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "====") || (strings.Contains(line, "Name") && strings.Contains(line, "Matched")) {
			inResults = true
			continue
		}
		if !inResults || strings.HasPrefix(line, "Last metadata") {
			continue
		}
		nameVersion, desc, found := strings.Cut(line, " : ")
		if !found {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimSpace(nameVersion), ".")
		records = append(records, domain.PackageRecord{
			Name:        name,
			Description: strings.TrimSpace(desc),
			Source:      domain.SourceDNF,
		})
	}
	return records
}
