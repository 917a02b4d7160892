package facet

import "github.com/levalleyjack/slugtistics/pkg/types"

// Counts holds the distinct values seen per facet with occurrence
// counts, for rendering filter controls.
type Counts struct {
	Subjects           map[string]int `json:"subjects"`
	ClassTypes         map[string]int `json:"classTypes"`
	EnrollmentStatuses map[string]int `json:"enrollmentStatuses"`
	GEs                map[string]int `json:"ges"`
	Careers            map[string]int `json:"careers"`
	Prereqs            map[string]int `json:"prereqs"`
}

func CountValues(list []types.Course) Counts {
	c := Counts{
		Subjects:           map[string]int{},
		ClassTypes:         map[string]int{},
		EnrollmentStatuses: map[string]int{},
		GEs:                map[string]int{},
		Careers:            map[string]int{},
		Prereqs:            map[string]int{},
	}
	for i := range list {
		course := &list[i]
		c.Subjects[course.Subject]++
		c.ClassTypes[course.ClassType]++
		c.EnrollmentStatuses[course.EnrollmentStatus]++
		if course.GE != "" {
			c.GEs[course.GE]++
		}
		c.Careers[course.Career]++
		if course.HasPrerequisites {
			c.Prereqs[types.PrereqHas]++
		} else {
			c.Prereqs[types.PrereqNone]++
		}
	}
	return c
}
