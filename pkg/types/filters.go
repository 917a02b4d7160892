package types

// FilterOptions holds the six independent facet selections. An empty
// set means "no constraint from that facet", never "exclude everything".
type FilterOptions struct {
	Subjects           []string `json:"subjects" schema:"subject"`
	ClassTypes         []string `json:"classTypes" schema:"type"`
	EnrollmentStatuses []string `json:"enrollmentStatuses" schema:"status"`
	GEs                []string `json:"ges" schema:"ge"`
	Careers            []string `json:"careers" schema:"career"`
	Prereqs            []string `json:"prereqs" schema:"prereq"`
}

func (f *FilterOptions) IsEmpty() bool {
	return len(f.Subjects) == 0 &&
		len(f.ClassTypes) == 0 &&
		len(f.EnrollmentStatuses) == 0 &&
		len(f.GEs) == 0 &&
		len(f.Careers) == 0 &&
		len(f.Prereqs) == 0
}

// Clone returns a deep copy, so persisted filter state never aliases
// the set the pipeline is currently deriving from.
func (f *FilterOptions) Clone() FilterOptions {
	cp := func(s []string) []string {
		if len(s) == 0 {
			return nil
		}
		out := make([]string, len(s))
		copy(out, s)
		return out
	}
	return FilterOptions{
		Subjects:           cp(f.Subjects),
		ClassTypes:         cp(f.ClassTypes),
		EnrollmentStatuses: cp(f.EnrollmentStatuses),
		GEs:                cp(f.GEs),
		Careers:            cp(f.Careers),
		Prereqs:            cp(f.Prereqs),
	}
}
