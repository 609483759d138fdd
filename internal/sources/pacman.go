package sources

import (
	"context"
	"strings"

	"pkgscout/internal/domain"
)

// Pacman searches the official Arch repositories via pacman -Ss.
type Pacman struct {
	run commandRunner
}

func NewPacman() *Pacman {
	return &Pacman{run: runCommand}
}

func (p *Pacman) Name() domain.Source { return domain.SourcePacman }

func (p *Pacman) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Source:  domain.SourcePacman,
		Label:   "Arch official repositories",
		Kind:    "cli",
		Enabled: available("pacman"),
	}
}

func (p *Pacman) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	out, exitCode, err := p.run(ctx, "pacman", "-Ss", query)
	if err != nil {
		// pacman exits 1 when nothing matches.
		if exitCode == 1 {
			return nil, nil
		}
		return nil, domain.NewSourceError(domain.SourcePacman, domain.ClassifyFailure(err), err)
	}
	return parsePacmanOutput(out), nil
}

// parsePacmanOutput reads the two-line-per-package -Ss format:
//
//	extra/firefox 128.0-1
//	    Fast, Private & Safe Web Browser
func parsePacmanOutput(out string) []domain.PackageRecord {
	lines := strings.Split(out, "\n")
	var records []domain.PackageRecord

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || !strings.Contains(line, "/") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		slash := strings.LastIndex(fields[0], "/")
		name := fields[0][slash+1:]

		desc := ""
		if i+1 < len(lines) {
			desc = strings.TrimSpace(lines[i+1])
			i++
		}
		records = append(records, domain.PackageRecord{
			Name:        name,
			Description: desc,
			Source:      domain.SourcePacman,
		})
	}
	return records
}
