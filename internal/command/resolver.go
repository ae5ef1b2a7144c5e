package command

import (
	"strings"

	"github.com/pgulin/placebot/internal/catalog"
)

// ResolutionKind tags the outcome of matching argument text against
// the catalog.
type ResolutionKind int

const (
	ResolutionNotFound ResolutionKind = iota
	ResolutionUnique
	ResolutionAmbiguous
)

// Resolution is the outcome of resolving argument text. Place is set
// for Unique; Candidates are set for Ambiguous, best match first.
type Resolution struct {
	Kind       ResolutionKind
	Place      catalog.Place
	Candidates []catalog.Match
}

// Resolver turns raw argument text into a Resolution against the
// catalog. An exact identifier match takes precedence over name
// search, but free text alone is enough to resolve a place.
type Resolver struct {
	catalog *catalog.Catalog

	// maxSuggestions caps the Ambiguous candidate list.
	maxSuggestions int

	// uniqueThreshold is the minimum score for a single match to
	// resolve without confirmation. Substring strength or better
	// qualifies; a lone fuzzy hit is returned as a suggestion.
	uniqueThreshold int
}

// NewResolver creates a Resolver with the default thresholds.
func NewResolver(c *catalog.Catalog) *Resolver {
	return &Resolver{
		catalog:         c,
		maxSuggestions:  5,
		uniqueThreshold: catalog.ScoreSubstring,
	}
}

// Resolve matches text against the catalog.
func (r *Resolver) Resolve(text string) Resolution {
	text = strings.TrimSpace(text)
	if text == "" {
		return Resolution{Kind: ResolutionNotFound}
	}

	// Identifier lookup first: power users and replies chained from a
	// previous /find carry the exact id.
	if p, ok := r.catalog.LookupByID(text); ok {
		return Resolution{Kind: ResolutionUnique, Place: p}
	}

	matches := r.catalog.Search(text)
	if len(matches) == 0 {
		return Resolution{Kind: ResolutionNotFound}
	}

	// An exact name always wins, even when other names contain the
	// query; this keeps resolution of full names idempotent.
	if matches[0].Score == catalog.ScoreExact {
		return Resolution{Kind: ResolutionUnique, Place: matches[0].Place}
	}

	if len(matches) == 1 && matches[0].Score >= r.uniqueThreshold {
		return Resolution{Kind: ResolutionUnique, Place: matches[0].Place}
	}

	if len(matches) > r.maxSuggestions {
		matches = matches[:r.maxSuggestions]
	}
	return Resolution{Kind: ResolutionAmbiguous, Candidates: matches}
}
