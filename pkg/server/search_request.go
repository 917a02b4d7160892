package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

// SearchRequest is one derivation input set: query, facet selections,
// sort key and the active GE category, decoded together so the
// pipeline always runs against a consistent view.
type SearchRequest struct {
	types.FilterOptions
	Query    string `json:"query" schema:"query"`
	Sort     string `json:"sort" schema:"sort"`
	ActiveGE string `json:"activeGE" schema:"activeGE"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// Sanitize normalizes the inputs. An absent sort stays empty so the
// caller can fall back to the session's persisted preference.
func (s *SearchRequest) Sanitize() {
	if s.ActiveGE == "" {
		s.ActiveGE = types.AnyGE
	}
	if s.Sort != "" {
		s.Sort = string(types.ParseSortKey(s.Sort))
	}
}

func (s *SearchRequest) SortKey() types.SortKey {
	return types.ParseSortKey(s.Sort)
}

// GetSearchRequest decodes GET query parameters with gorilla/schema
// and POST bodies as JSON.
func GetSearchRequest(r *http.Request) (*SearchRequest, error) {
	sr := &SearchRequest{}
	var err error
	if r.Method == http.MethodGet {
		err = decodeQuery(r.URL.Query(), sr)
	} else {
		err = json.NewDecoder(r.Body).Decode(sr)
	}
	sr.Sanitize()
	return sr, err
}

func decodeQuery(query url.Values, result *SearchRequest) error {
	return decoder.Decode(result, query)
}
