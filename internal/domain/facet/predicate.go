package facet

import (
	"slices"

	"github.com/cecidology/cecidarium/internal/domain/gall"
)

// Matches reports whether the record satisfies every facet in the registry
// for the given query. Facets combine by conjunction: no facet can compensate
// for another. Comparison is exact and case-sensitive; no normalization is
// applied beyond what the extractors already guarantee.
func Matches(g *gall.Gall, q Query) bool {
	for _, def := range registry {
		if !satisfies(g, def, q.Get(def.name)) {
			return false
		}
	}
	return true
}

// Filter returns the records of the candidate set that match the query.
// The input is never modified; a fresh slice is returned.
func Filter(candidates []gall.Gall, q Query) []gall.Gall {
	out := make([]gall.Gall, 0, len(candidates))
	for i := range candidates {
		if Matches(&candidates[i], q) {
			out = append(out, candidates[i])
		}
	}
	return out
}

func satisfies(g *gall.Gall, def Definition, values []string) bool {
	want := effective(values)
	if len(want) == 0 {
		return true
	}
	got := def.extract(g)
	if len(got) == 0 {
		// A null record value never matches a constrained facet.
		return false
	}
	if def.cardinality == Single {
		// First selection wins for single facets behind a multi-select.
		return got[0] == want[0]
	}
	// Multi: any-of within the facet.
	for _, tag := range got {
		if slices.Contains(want, tag) {
			return true
		}
	}
	return false
}
