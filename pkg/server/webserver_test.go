package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/levalleyjack/slugtistics/pkg/catalog"
	"github.com/levalleyjack/slugtistics/pkg/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *WebServer) {
	t.Helper()
	store := catalog.NewStore()
	err := store.Set(pipelineCatalog(), "2026-03-01T00:00:00Z")
	if err != nil {
		t.Fatalf("Seeding catalog failed: %v", err)
	}
	ws := NewWebServer(store, NewSessionRegistry(nil), nil)
	ws.RefreshRatings()
	srv := httptest.NewServer(ws.CreateHandler())
	t.Cleanup(srv.Close)
	t.Cleanup(ws.Sessions.Close)
	return srv, ws
}

// sessionClient carries the sid cookie across requests so they land in
// the same session.
type sessionClient struct {
	t      *testing.T
	base   string
	cookie *http.Cookie
}

func (c *sessionClient) do(method, path string, body []byte) *http.Response {
	c.t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, c.base+path, bytes.NewReader(body))
	} else {
		req, err = http.NewRequest(method, c.base+path, nil)
	}
	if err != nil {
		c.t.Fatalf("Building request failed: %v", err)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	for _, ck := range res.Cookies() {
		if ck.Name == "sid" {
			c.cookie = ck
		}
	}
	return res
}

func TestSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &sessionClient{t: t, base: srv.URL}

	res := c.do(http.MethodGet, "/api/courses?query=cse&sort=GPA", nil)
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 but got %d", res.StatusCode)
	}
	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("Decoding response failed: %v", err)
	}
	if body.Total != 2 {
		t.Fatalf("Expected 2 CSE courses but got %d", body.Total)
	}
	if body.Courses[0].Id != "2" {
		t.Errorf("Expected highest GPA first, got %s", body.Courses[0].Id)
	}
	if body.LastUpdated != "2026-03-01T00:00:00Z" {
		t.Errorf("Expected last updated marker, got %q", body.LastUpdated)
	}
}

func TestSearchEndpointFacetParams(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &sessionClient{t: t, base: srv.URL}

	res := c.do(http.MethodGet, "/api/courses?status=Open&status=Closed&type=In+Person", nil)
	defer res.Body.Close()
	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("Decoding response failed: %v", err)
	}
	if body.Total != 2 {
		t.Errorf("Expected the 2 in-person courses, got %d", body.Total)
	}
}

func TestSelectThenScrollFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &sessionClient{t: t, base: srv.URL}

	// Derive a list first so the session coordinator has an ordering.
	c.do(http.MethodGet, "/api/courses?sort=ALPHANUMERIC", nil).Body.Close()

	payload, _ := json.Marshal(selectRequest{Id: "1", Origin: types.OriginClick})
	res := c.do(http.MethodPost, "/api/select", payload)
	res.Body.Close()
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected 202 but got %d", res.StatusCode)
	}

	// The scroll resolves after the coordinator debounce.
	time.Sleep(300 * time.Millisecond)

	res = c.do(http.MethodGet, "/api/scroll", nil)
	var scroll scrollResponse
	if err := json.NewDecoder(res.Body).Decode(&scroll); err != nil {
		t.Fatalf("Decoding scroll response failed: %v", err)
	}
	res.Body.Close()
	if scroll.Instruction == nil {
		t.Fatal("Expected a scroll instruction")
	}
	// ALPHANUMERIC puts AM 10 first, CSE 13 second, CSE 101 third.
	if scroll.Instruction.Index != 2 {
		t.Errorf("Expected index 2 but got %d", scroll.Instruction.Index)
	}
	if scroll.Instruction.Behavior != types.ScrollSmooth {
		t.Errorf("Expected smooth scroll for click but got %s", scroll.Instruction.Behavior)
	}

	// Drained: the next pull is empty.
	res = c.do(http.MethodGet, "/api/scroll", nil)
	if err := json.NewDecoder(res.Body).Decode(&scroll); err != nil {
		t.Fatalf("Decoding scroll response failed: %v", err)
	}
	res.Body.Close()
	if scroll.Instruction != nil {
		t.Errorf("Expected drained instruction, got %+v", scroll.Instruction)
	}
}

func TestViewportDirection(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &sessionClient{t: t, base: srv.URL}

	c.do(http.MethodGet, "/api/courses?sort=ALPHANUMERIC", nil).Body.Close()

	payload, _ := json.Marshal(selectRequest{Id: "1", Origin: types.OriginProgrammatic})
	c.do(http.MethodPost, "/api/select", payload).Body.Close()
	time.Sleep(300 * time.Millisecond)
	c.do(http.MethodGet, "/api/scroll", nil).Body.Close()

	rng, _ := json.Marshal(types.ViewportRange{StartIndex: 0, EndIndex: 1})
	c.do(http.MethodPost, "/api/viewport", rng).Body.Close()

	res := c.do(http.MethodGet, "/api/scroll", nil)
	var scroll scrollResponse
	if err := json.NewDecoder(res.Body).Decode(&scroll); err != nil {
		t.Fatalf("Decoding scroll response failed: %v", err)
	}
	res.Body.Close()
	if scroll.Direction != types.DirectionDown {
		t.Errorf("Expected down direction, got %s", scroll.Direction)
	}
}

func TestFacetsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &sessionClient{t: t, base: srv.URL}

	res := c.do(http.MethodGet, "/api/facets", nil)
	defer res.Body.Close()
	var counts struct {
		Subjects map[string]int `json:"subjects"`
	}
	if err := json.NewDecoder(res.Body).Decode(&counts); err != nil {
		t.Fatalf("Decoding facets failed: %v", err)
	}
	if counts.Subjects["CSE"] != 2 || counts.Subjects["AM"] != 1 {
		t.Errorf("Unexpected subject counts: %v", counts.Subjects)
	}
}

// recordingTracking captures search events for assertions.
type recordingTracking struct {
	mu       sync.Mutex
	searches []*types.FilterOptions
}

func (r *recordingTracking) TrackSession(string, *http.Request) {}

func (r *recordingTracking) TrackSearch(_ string, _ string, filters *types.FilterOptions, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, filters)
}

func (r *recordingTracking) TrackSelect(string, string, types.SelectOrigin) {}

func TestSearchTrackingOmitsEmptyFilters(t *testing.T) {
	store := catalog.NewStore()
	if err := store.Set(pipelineCatalog(), "2026-03-01T00:00:00Z"); err != nil {
		t.Fatalf("Seeding catalog failed: %v", err)
	}
	rec := &recordingTracking{}
	ws := NewWebServer(store, NewSessionRegistry(nil), rec)
	ws.RefreshRatings()
	srv := httptest.NewServer(ws.CreateHandler())
	t.Cleanup(srv.Close)
	t.Cleanup(ws.Sessions.Close)
	c := &sessionClient{t: t, base: srv.URL}

	c.do(http.MethodGet, "/api/courses?query=cse", nil).Body.Close()
	c.do(http.MethodGet, "/api/courses?subject=CSE", nil).Body.Close()
	time.Sleep(100 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.searches) != 2 {
		t.Fatalf("Expected 2 tracked searches, got %d", len(rec.searches))
	}
	if rec.searches[0] != nil {
		t.Errorf("Expected no filter payload for an unfiltered search, got %+v", rec.searches[0])
	}
	if rec.searches[1] == nil || len(rec.searches[1].Subjects) != 1 || rec.searches[1].Subjects[0] != "CSE" {
		t.Errorf("Unexpected tracked filters: %+v", rec.searches[1])
	}
}

func TestSearchFallsBackToPersistedSort(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &sessionClient{t: t, base: srv.URL}

	res := c.do(http.MethodPut, "/api/ui/sortBy", []byte(`"ALPHANUMERIC"`))
	res.Body.Close()
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected 202 but got %d", res.StatusCode)
	}

	res = c.do(http.MethodGet, "/api/courses", nil)
	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("Decoding response failed: %v", err)
	}
	res.Body.Close()
	if len(body.Courses) != 3 {
		t.Fatalf("Expected all 3 courses but got %d", len(body.Courses))
	}
	if body.Courses[0].Id != "3" {
		t.Errorf("Expected the persisted alphanumeric order, got %s first", body.Courses[0].Id)
	}

	// An explicit sort on the request still wins.
	res = c.do(http.MethodGet, "/api/courses?sort=GPA", nil)
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("Decoding response failed: %v", err)
	}
	res.Body.Close()
	if body.Courses[0].Id != "2" {
		t.Errorf("Expected explicit GPA sort to win, got %s first", body.Courses[0].Id)
	}
}

func TestUIStateDefaultsAndRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &sessionClient{t: t, base: srv.URL}

	res := c.do(http.MethodGet, "/api/ui/sortBy", nil)
	raw := json.RawMessage{}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		t.Fatalf("Decoding default failed: %v", err)
	}
	res.Body.Close()
	if string(raw) != `"DEFAULT"` {
		t.Errorf("Expected documented default, got %s", raw)
	}

	res = c.do(http.MethodPut, "/api/ui/selectedSubjects", []byte(`["CSE","AM"]`))
	res.Body.Close()
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected 202 but got %d", res.StatusCode)
	}

	res = c.do(http.MethodGet, "/api/ui/selectedSubjects", nil)
	var subjects []string
	if err := json.NewDecoder(res.Body).Decode(&subjects); err != nil {
		t.Fatalf("Decoding stored value failed: %v", err)
	}
	res.Body.Close()
	if len(subjects) != 2 || subjects[0] != "CSE" {
		t.Errorf("Unexpected stored subjects: %v", subjects)
	}

	res = c.do(http.MethodGet, "/api/ui/unknownKey", nil)
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown key but got %d", res.StatusCode)
	}
}
