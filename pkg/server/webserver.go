package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/levalleyjack/slugtistics/pkg/catalog"
	"github.com/levalleyjack/slugtistics/pkg/common"
	"github.com/levalleyjack/slugtistics/pkg/facet"
	"github.com/levalleyjack/slugtistics/pkg/ranking"
	"github.com/levalleyjack/slugtistics/pkg/search"
	"github.com/levalleyjack/slugtistics/pkg/tracking"
	"github.com/levalleyjack/slugtistics/pkg/types"
	"github.com/levalleyjack/slugtistics/pkg/uistate"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugtistics_searches_total",
		Help: "The total number of processed searches",
	})
	facetSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugtistics_facets_total",
		Help: "The total number of facet aggregations",
	})
	noSelects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugtistics_selects_total",
		Help: "The total number of course selections",
	})
)

type WebServer struct {
	Catalog  *catalog.Store
	Matcher  *search.Matcher
	Tracking tracking.Tracking
	Sessions *SessionRegistry

	muRatings sync.RWMutex
	ratings   ranking.RatingSource
}

func NewWebServer(store *catalog.Store, sessions *SessionRegistry, trk tracking.Tracking) *WebServer {
	return &WebServer{
		Catalog:  store,
		Matcher:  search.NewMatcher(),
		Tracking: trk,
		Sessions: sessions,
	}
}

// RefreshRatings rebuilds the instructor-rating memo from the current
// snapshot. Called after every catalog replacement.
func (ws *WebServer) RefreshRatings() {
	courses, _ := ws.Catalog.Snapshot()
	src := BuildRatingSource(courses)
	ws.muRatings.Lock()
	ws.ratings = src
	ws.muRatings.Unlock()
}

func (ws *WebServer) ratingSource() ranking.RatingSource {
	ws.muRatings.RLock()
	defer ws.muRatings.RUnlock()
	return ws.ratings
}

type searchResponse struct {
	Courses     []types.Course `json:"courses"`
	Total       int            `json:"total"`
	LastUpdated string         `json:"lastUpdated"`
}

// HandleSearch derives the visible list for the request's inputs and
// installs it as the session coordinator's current ordering.
func (ws *WebServer) HandleSearch(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	sr, err := GetSearchRequest(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return err
	}
	noSearches.Inc()

	session := ws.Sessions.Get(sessionId)
	if sr.Sort == "" {
		sr.Sort = uistate.Load(session.State, types.KeySortBy, string(types.SortDefault))
	}

	courses, lastUpdated := ws.Catalog.Snapshot()
	visible := ComputeVisibleList(courses, ws.Matcher, sr.Query, sr.FilterOptions, sr.SortKey(), sr.ActiveGE, ws.ratingSource())

	session.Coordinator.SetList(visible)

	if ws.Tracking != nil {
		var filters *types.FilterOptions
		if !sr.FilterOptions.IsEmpty() {
			// The event goroutine outlives the request; never alias
			// its slices.
			f := sr.FilterOptions.Clone()
			filters = &f
		}
		go ws.Tracking.TrackSearch(sessionId, sr.Query, filters, len(visible))
	}
	return enc.Encode(searchResponse{
		Courses:     visible,
		Total:       len(visible),
		LastUpdated: lastUpdated,
	})
}

// HandleFacets returns the distinct facet values with counts for the
// request's query scope, for rendering the filter controls.
func (ws *WebServer) HandleFacets(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	sr, err := GetSearchRequest(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return err
	}
	facetSearches.Inc()

	courses, _ := ws.Catalog.Snapshot()
	visible := ComputeVisibleList(courses, ws.Matcher, sr.Query, sr.FilterOptions, sr.SortKey(), sr.ActiveGE, ws.ratingSource())
	return enc.Encode(facet.CountValues(visible))
}

type selectRequest struct {
	Id     string             `json:"id"`
	Origin types.SelectOrigin `json:"origin"`
}

func (ws *WebServer) HandleSelect(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return err
	}
	if req.Id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return fmt.Errorf("select without course id")
	}
	if req.Origin != types.OriginClick {
		req.Origin = types.OriginProgrammatic
	}
	noSelects.Inc()

	ws.Sessions.Get(sessionId).Coordinator.Select(req.Id, req.Origin)
	if ws.Tracking != nil {
		go ws.Tracking.TrackSelect(sessionId, req.Id, req.Origin)
	}
	w.WriteHeader(http.StatusAccepted)
	return nil
}

func (ws *WebServer) HandleViewport(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	var rng types.ViewportRange
	if err := json.NewDecoder(r.Body).Decode(&rng); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return err
	}
	ws.Sessions.Get(sessionId).Coordinator.OnViewportRangeChange(rng)
	w.WriteHeader(http.StatusAccepted)
	return nil
}

type scrollResponse struct {
	Instruction *types.ScrollInstruction `json:"instruction"`
	Direction   types.ScrollDirection    `json:"direction"`
}

// HandleScroll is the pull the renderer drains each frame: the pending
// scroll instruction (or null) plus the jump-affordance direction.
func (ws *WebServer) HandleScroll(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	co := ws.Sessions.Get(sessionId).Coordinator
	return enc.Encode(scrollResponse{
		Instruction: co.ScrollInstruction(),
		Direction:   co.ScrollDirection(),
	})
}

var uiStateDefaults = map[string]json.RawMessage{
	types.KeySortBy:             json.RawMessage(`"DEFAULT"`),
	types.KeySubjects:           json.RawMessage(`[]`),
	types.KeyClassTypes:         json.RawMessage(`[]`),
	types.KeyEnrollmentStatuses: json.RawMessage(`[]`),
	types.KeyGEs:                json.RawMessage(`[]`),
	types.KeyCareers:            json.RawMessage(`[]`),
	types.KeyPrereqs:            json.RawMessage(`[]`),
	types.KeyCategoriesVisible:  json.RawMessage(`false`),
	types.KeyFavoriteCourses:    json.RawMessage(`[]`),
}

func (ws *WebServer) HandleUIState(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	key := r.PathValue("key")
	def, known := uiStateDefaults[key]
	if !known {
		w.WriteHeader(http.StatusNotFound)
		return fmt.Errorf("unknown ui state key %q", key)
	}
	state := ws.Sessions.Get(sessionId).State

	switch r.Method {
	case http.MethodGet:
		data, ok, err := state.Get(key)
		if err != nil || !ok || !json.Valid(data) {
			// Absent or corrupt state falls back to the documented
			// default rather than surfacing an error.
			data = def
		}
		_, err = w.Write(data)
		return err
	case http.MethodPut:
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			return err
		}
		if !json.Valid(body) {
			w.WriteHeader(http.StatusBadRequest)
			return fmt.Errorf("ui state value for %q is not valid json", key)
		}
		if err = state.Set(key, body); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return err
		}
		w.WriteHeader(http.StatusAccepted)
		return nil
	}
	w.WriteHeader(http.StatusMethodNotAllowed)
	return nil
}

// CreateHandler wires the routes. Everything under /api is
// authentication free; sessions exist only to scope scroll state and
// persisted UI preferences.
func (ws *WebServer) CreateHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/courses", common.JsonHandler(ws.Tracking, ws.HandleSearch))
	mux.Handle("GET /api/facets", common.JsonHandler(ws.Tracking, ws.HandleFacets))
	mux.Handle("POST /api/select", common.JsonHandler(ws.Tracking, ws.HandleSelect))
	mux.Handle("POST /api/viewport", common.JsonHandler(ws.Tracking, ws.HandleViewport))
	mux.Handle("GET /api/scroll", common.JsonHandler(ws.Tracking, ws.HandleScroll))
	mux.Handle("/api/ui/{key}", common.JsonHandler(ws.Tracking, ws.HandleUIState))
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}
