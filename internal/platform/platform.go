// Package platform detects which distribution family the tool is running on,
// which decides the set of native package sources worth querying.
package platform

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"

	"pkgscout/internal/domain"
)

type Family string

const (
	FamilyArch    Family = "arch"
	FamilyDebian  Family = "debian"
	FamilyFedora  Family = "fedora"
	FamilyUnknown Family = "unknown"
)

// distroFamilies maps /etc/os-release IDs onto a supported family.
var distroFamilies = map[string]Family{
	"arch":        FamilyArch,
	"manjaro":     FamilyArch,
	"endeavouros": FamilyArch,
	"arco":        FamilyArch,
	"garuda":      FamilyArch,
	"ubuntu":      FamilyDebian,
	"debian":      FamilyDebian,
	"linuxmint":   FamilyDebian,
	"pop":         FamilyDebian,
	"elementary":  FamilyDebian,
	"fedora":      FamilyFedora,
	"rhel":        FamilyFedora,
	"centos":      FamilyFedora,
	"rocky":       FamilyFedora,
	"alma":        FamilyFedora,
}

const osReleasePath = "/etc/os-release"

// Detect reads /etc/os-release and maps the distribution ID (falling back to
// ID_LIKE) onto a family. Unreadable or unrecognized systems come back as
// FamilyUnknown, which still allows the universal stores to be searched.
func Detect() Family {
	file, err := os.Open(osReleasePath)
	if err != nil {
		slog.Debug("os-release not readable", slog.String("error", err.Error()))
		return FamilyUnknown
	}
	defer file.Close()
	return DetectFrom(file)
}

// DetectFrom parses os-release content from r.
func DetectFrom(r io.Reader) Family {
	var id string
	var idLike []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "ID":
			id = strings.ToLower(strings.TrimSpace(value))
		case "ID_LIKE":
			idLike = strings.Fields(strings.ToLower(value))
		}
	}

	if family, ok := distroFamilies[id]; ok {
		return family
	}
	for _, like := range idLike {
		if family, ok := distroFamilies[like]; ok {
			return family
		}
	}

	slog.Debug("unsupported distribution", slog.String("id", id))
	return FamilyUnknown
}

// NativeSources returns the distro-managed sources applicable to a family.
// The universal stores (flatpak, snap) apply everywhere and are not listed.
func NativeSources(family Family) []domain.Source {
	switch family {
	case FamilyArch:
		return []domain.Source{domain.SourceAUR, domain.SourcePacman}
	case FamilyDebian:
		return []domain.Source{domain.SourceAPT}
	case FamilyFedora:
		return []domain.Source{domain.SourceDNF}
	default:
		return nil
	}
}
