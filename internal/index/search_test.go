package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/akorchak/paragon/internal/model"
)

func searchFixture(t *testing.T) *SearchStore {
	t.Helper()

	store, err := OpenSearchStore(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatalf("OpenSearchStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	notes := []model.NoteEntry{
		{
			File: "goroutines.md", Path: "resources/programming/goroutines.md",
			Category: "resources", Subcategory: "programming",
			Title: "goroutines", Tags: []string{"go", "concurrency"},
			Summary: "Notes on goroutines and channels", Size: 100,
		},
		{
			File: "budget.md", Path: "areas/finance/budget.md",
			Category: "areas", Subcategory: "finance",
			Title: "budget", Tags: []string{"money"},
			Summary: "Monthly budget planning", Size: 50,
		},
		{
			File: "workout.md", Path: "areas/health/workout.md",
			Category: "areas", Subcategory: "health",
			Title: "workout", Tags: []string{"fitness"},
			Summary: "Strength training plan", Size: 80,
		},
	}
	if err := store.Rebuild(context.Background(), notes); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	return store
}

func TestSearchStore_FullTextQuery(t *testing.T) {
	store := searchFixture(t)

	results, err := store.Search(context.Background(), "goroutines", "", "", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].File != "goroutines.md" {
		t.Errorf("results = %v", results)
	}
	if len(results[0].Tags) != 2 || results[0].Tags[0] != "go" {
		t.Errorf("Tags not round-tripped: %v", results[0].Tags)
	}
}

func TestSearchStore_TagFilter(t *testing.T) {
	store := searchFixture(t)

	results, err := store.Search(context.Background(), "", "fitness", "", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].File != "workout.md" {
		t.Errorf("results = %v", results)
	}

	// A tag that is a substring of another must not match.
	results, err = store.Search(context.Background(), "", "fit", "", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("substring tag matched: %v", results)
	}
}

func TestSearchStore_CategoryFilter(t *testing.T) {
	store := searchFixture(t)

	results, err := store.Search(context.Background(), "", "", "areas", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Category != "areas" {
			t.Errorf("category filter leaked %s", r.Path)
		}
	}
}

func TestSearchStore_CombinedFilters(t *testing.T) {
	store := searchFixture(t)

	results, err := store.Search(context.Background(), "budget", "", "areas", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].File != "budget.md" {
		t.Errorf("results = %v", results)
	}

	results, err = store.Search(context.Background(), "budget", "", "resources", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("category mismatch still matched: %v", results)
	}
}

func TestSearchStore_RebuildReplacesContents(t *testing.T) {
	store := searchFixture(t)

	if err := store.Rebuild(context.Background(), []model.NoteEntry{{
		File: "only.md", Path: "archive/completed/only.md",
		Category: "archive", Subcategory: "completed",
		Title: "only", Tags: []string{}, Size: 1,
	}}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	results, err := store.Search(context.Background(), "", "", "", 100)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].File != "only.md" {
		t.Errorf("rebuild did not replace contents: %v", results)
	}
}
