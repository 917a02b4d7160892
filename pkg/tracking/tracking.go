package tracking

import (
	"net/http"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

// Tracking receives discovery events. A nil Tracking is valid and
// means "don't track"; callers guard accordingly.
type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackSearch(sessionId string, query string, filters *types.FilterOptions, resultCount int)
	TrackSelect(sessionId string, courseId string, origin types.SelectOrigin)
}
