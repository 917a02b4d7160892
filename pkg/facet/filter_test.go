package facet

import (
	"testing"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

func testCatalog() []types.Course {
	return []types.Course{
		{Id: "1", Subject: "CSE", ClassType: "In Person", EnrollmentStatus: "Open", GE: "MF", Career: "Undergraduate", HasPrerequisites: true},
		{Id: "2", Subject: "CSE", ClassType: "Asynchronous Online", EnrollmentStatus: "Closed", GE: "SI", Career: "Undergraduate", HasPrerequisites: false},
		{Id: "3", Subject: "AM", ClassType: "In Person", EnrollmentStatus: "Open", Career: "Graduate", HasPrerequisites: false},
	}
}

func ids(list []types.Course) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Id
	}
	return out
}

func TestApplyNoFilters(t *testing.T) {
	list := testCatalog()
	res := Apply(list, types.FilterOptions{}, types.AnyGE)
	if len(res) != len(list) {
		t.Errorf("Expected all %d courses but got %d", len(list), len(res))
	}
}

func TestApplySubjectFacet(t *testing.T) {
	list := testCatalog()
	res := Apply(list, types.FilterOptions{Subjects: []string{"CSE"}}, types.AnyGE)
	if len(res) != 2 {
		t.Fatalf("Expected 2 CSE courses but got %d", len(res))
	}
	if res[0].Id != "1" || res[1].Id != "2" {
		t.Errorf("Expected order preserved, got %v", ids(res))
	}
}

func TestApplyAcrossFacetsIsAnd(t *testing.T) {
	list := testCatalog()
	f := types.FilterOptions{
		Subjects:   []string{"CSE"},
		ClassTypes: []string{"In Person"},
	}
	res := Apply(list, f, types.AnyGE)
	if len(res) != 1 || res[0].Id != "1" {
		t.Errorf("Expected only course 1, got %v", ids(res))
	}
}

func TestApplyGEOnlyWhenUnscoped(t *testing.T) {
	list := testCatalog()
	f := types.FilterOptions{GEs: []string{"MF"}}

	res := Apply(list, f, types.AnyGE)
	if len(res) != 1 || res[0].Id != "1" {
		t.Errorf("Expected GE facet enforced under AnyGE, got %v", ids(res))
	}

	// A concrete GE category already scopes the list, so the facet is
	// bypassed.
	res = Apply(list, f, "MF")
	if len(res) != 3 {
		t.Errorf("Expected GE facet bypassed under a scoped category, got %v", ids(res))
	}
}

func TestApplyPrereqFlag(t *testing.T) {
	list := testCatalog()

	res := Apply(list, types.FilterOptions{Prereqs: []string{types.PrereqHas}}, types.AnyGE)
	if len(res) != 1 || res[0].Id != "1" {
		t.Errorf("Expected only the prereq course, got %v", ids(res))
	}

	res = Apply(list, types.FilterOptions{Prereqs: []string{types.PrereqNone}}, types.AnyGE)
	if len(res) != 2 {
		t.Errorf("Expected 2 courses without prereqs, got %v", ids(res))
	}

	// Both selected is an OR over the flag states, not a contradiction.
	res = Apply(list, types.FilterOptions{Prereqs: []string{types.PrereqHas, types.PrereqNone}}, types.AnyGE)
	if len(res) != 3 {
		t.Errorf("Expected all courses with both prereq options, got %v", ids(res))
	}
}

func TestApplyIdempotent(t *testing.T) {
	list := testCatalog()
	f := types.FilterOptions{Subjects: []string{"CSE"}, Prereqs: []string{types.PrereqNone}}
	once := Apply(list, f, types.AnyGE)
	twice := Apply(once, f, types.AnyGE)
	if len(once) != len(twice) {
		t.Fatalf("Expected idempotent filter, got %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Id != twice[i].Id {
			t.Errorf("Expected identical order at %d: %s vs %s", i, once[i].Id, twice[i].Id)
		}
	}
}

func TestApplyMonotonic(t *testing.T) {
	list := testCatalog()
	f1 := types.FilterOptions{Subjects: []string{"CSE", "AM"}}
	f2 := types.FilterOptions{Subjects: []string{"CSE", "AM"}, ClassTypes: []string{"In Person"}}
	wide := Apply(list, f1, types.AnyGE)
	narrow := Apply(list, f2, types.AnyGE)
	for _, c := range narrow {
		found := false
		for _, w := range wide {
			if w.Id == c.Id {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Course %s in narrower result but not wider one", c.Id)
		}
	}
}

func TestCountValues(t *testing.T) {
	counts := CountValues(testCatalog())
	if counts.Subjects["CSE"] != 2 || counts.Subjects["AM"] != 1 {
		t.Errorf("Unexpected subject counts: %v", counts.Subjects)
	}
	if counts.Prereqs[types.PrereqHas] != 1 || counts.Prereqs[types.PrereqNone] != 2 {
		t.Errorf("Unexpected prereq counts: %v", counts.Prereqs)
	}
	if _, ok := counts.GEs[""]; ok {
		t.Errorf("Empty GE should not be counted as a value")
	}
}
