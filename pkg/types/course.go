package types

import "fmt"

// Course is one catalog offering as received from the feed. Records are
// replaced wholesale on every fetch, never mutated in place.
type Course struct {
	Id               string   `json:"id"`
	Subject          string   `json:"subject"`
	CatalogNum       string   `json:"catalog_num"`
	Name             string   `json:"name"`
	Instructor       string   `json:"instructor"`
	GPA              *float64 `json:"gpa"`
	InstructorRating *float64 `json:"instructor_rating,omitempty"`
	ClassType        string   `json:"class_type"`
	EnrollmentStatus string   `json:"class_status"`
	GE               string   `json:"ge,omitempty"`
	Career           string   `json:"career"`
	HasPrerequisites bool     `json:"has_prerequisites"`
	Schedule         string   `json:"schedule,omitempty"`
	Location         string   `json:"location,omitempty"`
}

// Code returns the "SUBJECT NUM" display string, e.g. "CSE 101".
func (c *Course) Code() string {
	return c.Subject + " " + c.CatalogNum
}

// Validate checks the feed contract. A course without an id is a
// programmer error upstream, not a runtime condition to recover from.
func (c *Course) Validate() error {
	if c.Id == "" {
		return fmt.Errorf("course %q has no id", c.Code())
	}
	return nil
}

const (
	StaffInstructor = "Staff"

	// AnyGE is the unscoped category; only then is the GE facet enforced.
	AnyGE = "AnyGE"

	PrereqHas  = "Has Prerequisites"
	PrereqNone = "No Prerequisites"
)
