package types

// SortKey selects the comparator used by the ranking engine.
type SortKey string

const (
	SortDefault      SortKey = "DEFAULT"
	SortGPA          SortKey = "GPA"
	SortInstructor   SortKey = "INSTRUCTOR"
	SortAlphanumeric SortKey = "ALPHANUMERIC"
)

// ParseSortKey maps a persisted or query-string value onto a known
// key, falling back to the composite default.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortGPA, SortInstructor, SortAlphanumeric, SortDefault:
		return SortKey(s)
	}
	return SortDefault
}
