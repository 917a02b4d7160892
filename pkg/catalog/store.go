package catalog

import (
	"fmt"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

var (
	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slugtistics_catalog_courses",
		Help: "Number of courses in the current catalog snapshot",
	})
	catalogUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slugtistics_catalog_updates_total",
		Help: "The total number of catalog snapshot replacements",
	})
	catalogLastUpdate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slugtistics_catalog_last_update_timestamp_seconds",
		Help: "Unix time of the last catalog snapshot replacement, for fetch-age alerts",
	})
)

// Store holds the last-fetched course list and its "last updated"
// marker. Snapshots are replaced wholesale; readers always see either
// the old list or the new one, never a partial mutation.
type Store struct {
	mu          sync.RWMutex
	courses     []types.Course
	lastUpdated string
}

func NewStore() *Store {
	return &Store{}
}

// Set validates and installs a new snapshot. A course without an id or
// a duplicated id is an upstream contract violation and fails the whole
// replacement; the previous snapshot stays in place.
func (s *Store) Set(courses []types.Course, lastUpdated string) error {
	seen := make(map[string]struct{}, len(courses))
	for i := range courses {
		if err := courses[i].Validate(); err != nil {
			return fmt.Errorf("invalid catalog snapshot: %w", err)
		}
		if _, dup := seen[courses[i].Id]; dup {
			return fmt.Errorf("invalid catalog snapshot: duplicate id %q", courses[i].Id)
		}
		seen[courses[i].Id] = struct{}{}
	}
	snapshot := slices.Clone(courses)

	s.mu.Lock()
	s.courses = snapshot
	s.lastUpdated = lastUpdated
	s.mu.Unlock()

	catalogSize.Set(float64(len(snapshot)))
	catalogLastUpdate.SetToCurrentTime()
	catalogUpdates.Inc()
	return nil
}

// Snapshot returns the current course list and last-updated marker.
// The returned slice is shared and must be treated as read-only.
func (s *Store) Snapshot() ([]types.Course, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses, s.lastUpdated
}

// Get looks a single course up by id.
func (s *Store) Get(id string) (types.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.courses {
		if s.courses[i].Id == id {
			return s.courses[i], true
		}
	}
	return types.Course{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}
