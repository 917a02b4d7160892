package facet

import (
	"slices"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

// Apply returns the courses satisfying every active facet, preserving
// input order. A facet with an empty selection constrains nothing;
// within a facet the selected values combine as OR, across facets as
// AND.
//
// The GE facet is only enforced while browsing the unscoped category
// (activeGE == AnyGE); with a specific GE category active the outer
// category selection already scopes the list.
func Apply(list []types.Course, f types.FilterOptions, activeGE string) []types.Course {
	out := make([]types.Course, 0, len(list))
	for i := range list {
		if passes(&list[i], &f, activeGE) {
			out = append(out, list[i])
		}
	}
	return out
}

func passes(c *types.Course, f *types.FilterOptions, activeGE string) bool {
	if len(f.Subjects) > 0 && !slices.Contains(f.Subjects, c.Subject) {
		return false
	}
	if len(f.ClassTypes) > 0 && !slices.Contains(f.ClassTypes, c.ClassType) {
		return false
	}
	if len(f.EnrollmentStatuses) > 0 && !slices.Contains(f.EnrollmentStatuses, c.EnrollmentStatus) {
		return false
	}
	if len(f.GEs) > 0 && activeGE == types.AnyGE && !slices.Contains(f.GEs, c.GE) {
		return false
	}
	if len(f.Careers) > 0 && !slices.Contains(f.Careers, c.Career) {
		return false
	}
	if len(f.Prereqs) > 0 && !matchesPrereq(c, f.Prereqs) {
		return false
	}
	return true
}

// matchesPrereq is a flag test, not value membership: selecting both
// options keeps a course matching either flag state rather than
// contradicting itself.
func matchesPrereq(c *types.Course, selected []string) bool {
	return slices.ContainsFunc(selected, func(s string) bool {
		switch s {
		case types.PrereqHas:
			return c.HasPrerequisites
		case types.PrereqNone:
			return !c.HasPrerequisites
		}
		return false
	})
}
