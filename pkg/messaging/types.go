package messaging

// CatalogUpdatedMessage announces a fresh upstream pull. Consumers
// refetch the feed (or read the shared snapshot) on receipt; the
// message itself carries no course data.
type CatalogUpdatedMessage struct {
	CourseCount   int    `json:"courseCount"`
	LastUpdatedAt string `json:"lastUpdatedAt"`
}
