package catalog

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/levalleyjack/slugtistics/pkg/types"
)

func TestStoreReplacesAtomically(t *testing.T) {
	s := NewStore()
	err := s.Set([]types.Course{{Id: "a"}, {Id: "b"}}, "2026-01-05")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	courses, updated := s.Snapshot()
	if len(courses) != 2 || updated != "2026-01-05" {
		t.Errorf("Unexpected snapshot: %d courses, %q", len(courses), updated)
	}

	if err = s.Set([]types.Course{{Id: "c"}}, "2026-01-06"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	courses, _ = s.Snapshot()
	if len(courses) != 1 || courses[0].Id != "c" {
		t.Errorf("Expected replacement snapshot, got %v", courses)
	}
}

func TestStoreRejectsMissingId(t *testing.T) {
	s := NewStore()
	if err := s.Set([]types.Course{{Id: "a"}}, "v1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	err := s.Set([]types.Course{{Subject: "CSE", CatalogNum: "101"}}, "v2")
	if err == nil {
		t.Fatal("Expected an error for a course without an id")
	}
	// The previous snapshot survives a rejected replacement.
	courses, updated := s.Snapshot()
	if len(courses) != 1 || updated != "v1" {
		t.Errorf("Expected old snapshot to remain, got %d courses, %q", len(courses), updated)
	}
}

func TestStoreRejectsDuplicateIds(t *testing.T) {
	s := NewStore()
	err := s.Set([]types.Course{{Id: "a"}, {Id: "a"}}, "v1")
	if err == nil {
		t.Fatal("Expected an error for duplicate ids")
	}
}

func TestSetRecordsMetrics(t *testing.T) {
	s := NewStore()
	if err := s.Set([]types.Course{{Id: "m1"}, {Id: "m2"}}, "2026-02-01T00:00:00Z"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(catalogSize); got != 2 {
		t.Errorf("Expected size gauge 2, got %v", got)
	}
	if got := testutil.ToFloat64(catalogLastUpdate); got == 0 {
		t.Error("Expected the last-update timestamp gauge to be set")
	}
}

func TestStoreGet(t *testing.T) {
	s := NewStore()
	if err := s.Set([]types.Course{{Id: "a", Subject: "CSE"}}, "v1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	c, ok := s.Get("a")
	if !ok || c.Subject != "CSE" {
		t.Errorf("Expected to find course a, got %v %v", c, ok)
	}
	if _, ok = s.Get("missing"); ok {
		t.Error("Expected miss for unknown id")
	}
}
