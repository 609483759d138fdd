package search

import (
	"pkgscout/internal/domain"
)

// nativePreference orders the distro-managed sources used to break ties when
// the same package name appears in several sources and no explicit
// preference was requested.
var nativePreference = []domain.Source{domain.SourcePacman, domain.SourceAPT, domain.SourceDNF}

// Deduplicate collapses records sharing the same exact name (case-sensitive)
// down to one record each. Selection precedence within a group:
//
//  1. prefer, when supplied and present in the group
//  2. the highest-priority native source present
//  3. the first-encountered record
//
// Output preserves the first-encounter order of distinct names, which later
// stable ranking relies on. Deduplicating an already-deduplicated list is a
// no-op.
func Deduplicate(records []domain.PackageRecord, prefer domain.Source) []domain.PackageRecord {
	if len(records) == 0 {
		return nil
	}

	order := make([]string, 0, len(records))
	groups := make(map[string][]domain.PackageRecord, len(records))
	for _, record := range records {
		if _, seen := groups[record.Name]; !seen {
			order = append(order, record.Name)
		}
		groups[record.Name] = append(groups[record.Name], record)
	}

	result := make([]domain.PackageRecord, 0, len(order))
	for _, name := range order {
		result = append(result, pickPreferred(groups[name], prefer))
	}
	return result
}

func pickPreferred(group []domain.PackageRecord, prefer domain.Source) domain.PackageRecord {
	if len(group) == 1 {
		return group[0]
	}
	if prefer != "" {
		for _, record := range group {
			if record.Source == prefer {
				return record
			}
		}
	}
	for _, native := range nativePreference {
		for _, record := range group {
			if record.Source == native {
				return record
			}
		}
	}
	return group[0]
}
