package types

// KeyValueStore is the persistence contract UI state survives through.
// Two lifetimes exist behind the same interface: session-scoped and
// durable. The engine only ever sees this interface.
type KeyValueStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Persisted UI state keys and their documented fallbacks.
const (
	KeySortBy             = "sortBy"
	KeySubjects           = "selectedSubjects"
	KeyClassTypes         = "selectedClassTypes"
	KeyEnrollmentStatuses = "selectedEnrollmentStatuses"
	KeyGEs                = "selectedGEs"
	KeyCareers            = "selectedCareers"
	KeyPrereqs            = "selectedPrereqs"
	KeyCategoriesVisible  = "isCategoriesVisible"
	KeyFavoriteCourses    = "favoriteCourses"
)
