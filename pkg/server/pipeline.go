package server

import (
	"strings"

	"github.com/levalleyjack/slugtistics/pkg/facet"
	"github.com/levalleyjack/slugtistics/pkg/ranking"
	"github.com/levalleyjack/slugtistics/pkg/search"
	"github.com/levalleyjack/slugtistics/pkg/types"
)

// ComputeVisibleList runs the full derivation pipeline: search scopes
// the catalog when a query is present, then facets filter, then the
// ranking engine orders. It is synchronous and allocates fresh slices,
// so a consumer never observes a list filtered with one input set but
// sorted with another.
func ComputeVisibleList(
	catalog []types.Course,
	matcher *search.Matcher,
	query string,
	filters types.FilterOptions,
	sortKey types.SortKey,
	activeGE string,
	ratings ranking.RatingSource,
) []types.Course {
	list := catalog
	if strings.TrimSpace(query) != "" {
		list = matcher.Match(query, catalog)
	}
	list = facet.Apply(list, filters, activeGE)
	return ranking.Sort(list, sortKey, ratings)
}

// BuildRatingSource collects known instructor ratings out of a catalog
// snapshot, so courses missing a rating inherit their instructor's
// rating from sibling offerings. First value seen per instructor wins;
// the placeholder instructor is never a key.
func BuildRatingSource(catalog []types.Course) ranking.RatingSource {
	src := make(ranking.RatingSource)
	for i := range catalog {
		c := &catalog[i]
		if c.InstructorRating == nil || c.Instructor == types.StaffInstructor {
			continue
		}
		if _, ok := src[c.Instructor]; !ok {
			src[c.Instructor] = *c.InstructorRating
		}
	}
	return src
}
