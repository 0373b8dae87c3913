package categorize

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akorchak/paragon/internal/cache"
	"github.com/akorchak/paragon/internal/frontmatter"
	"github.com/akorchak/paragon/internal/model"
)

// stubClassifier returns a fixed classification and counts calls. Per-file
// failures are injected via errs.
type stubClassifier struct {
	calls  int
	result model.Classification
	errs   map[string]error
}

func (s *stubClassifier) Classify(ctx context.Context, filename, content string) (*model.Classification, error) {
	s.calls++
	if err, ok := s.errs[filename]; ok {
		return nil, err
	}
	out := s.result
	return &out, nil
}

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	root := t.TempDir()

	cfg := model.DefaultConfig()
	cfg.Paths.SourceDir = filepath.Join(root, "input")
	cfg.Paths.OutputDir = filepath.Join(root, "output")
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.MOCDir = filepath.Join(root, "output", "_MOC")
	cfg.Batch.Size = 2
	cfg.Batch.RequestsPerSecond = 1000
	cfg.Batch.Burst = 100

	if err := os.MkdirAll(cfg.Paths.SourceDir, 0755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func writeNote(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_MovesAndAnnotates(t *testing.T) {
	cfg := testConfig(t)
	writeNote(t, cfg.Paths.SourceDir, "workout.md", "# Workout\n\nSquats and deadlifts.\n")

	stub := &stubClassifier{result: model.Classification{
		Category:    "areas",
		Subcategory: "health",
		Tags:        []string{"fitness"},
		Summary:     "Workout log",
	}}

	c := New(cfg, stub, nil, io.Discard)
	c.now = func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }

	summary, err := c.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Processed != 1 || summary.Errors != 0 {
		t.Errorf("summary = %+v", summary)
	}

	dest := filepath.Join(cfg.Paths.OutputDir, "areas", "health", "workout.md")
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("destination not written: %v", err)
	}
	content := string(data)

	if !frontmatter.Has(content) {
		t.Error("destination lacks a frontmatter header")
	}
	for _, want := range []string{`title: "workout"`, "category: areas", "subcategory: health", `tags: ["fitness"]`, "processed: 2026-08-24", "Squats and deadlifts."} {
		if !strings.Contains(content, want) {
			t.Errorf("destination missing %q", want)
		}
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.SourceDir, "workout.md")); !os.IsNotExist(err) {
		t.Error("source file was not removed")
	}

	cp, err := LoadCheckpoint(cfg.Paths.CheckpointFile())
	if err != nil {
		t.Fatal(err)
	}
	if !cp.Contains("workout.md") {
		t.Error("checkpoint does not record the processed file")
	}
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	cfg := testConfig(t)
	writeNote(t, cfg.Paths.SourceDir, "note.md", "plain content\n")

	stub := &stubClassifier{result: model.Classification{
		Category:    "resources",
		Subcategory: "programming",
		Tags:        []string{},
	}}

	c := New(cfg, stub, nil, io.Discard)
	summary, err := c.Run(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Processed != 1 {
		t.Errorf("Processed = %d, want 1", summary.Processed)
	}

	// Source untouched.
	data, err := os.ReadFile(filepath.Join(cfg.Paths.SourceDir, "note.md"))
	if err != nil || string(data) != "plain content\n" {
		t.Errorf("source changed: %q, %v", data, err)
	}

	// No output tree, no checkpoint, no result log.
	if _, err := os.Stat(cfg.Paths.OutputDir); !os.IsNotExist(err) {
		t.Error("dry run created the output directory")
	}
	if _, err := os.Stat(cfg.Paths.DataDir); !os.IsNotExist(err) {
		t.Error("dry run created the data directory")
	}
}

func TestRun_SkipsAlreadyHeaderedInput(t *testing.T) {
	cfg := testConfig(t)
	headered := frontmatter.Render(frontmatter.Meta{
		Title: "done", Category: "areas", Subcategory: "finance",
		Tags: []string{}, Processed: "2026-01-01",
	}) + "body\n"
	writeNote(t, cfg.Paths.SourceDir, "done.md", headered)

	stub := &stubClassifier{}
	c := New(cfg, stub, nil, io.Discard)

	summary, err := c.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stub.calls != 0 {
		t.Errorf("classifier called %d times for headered input", stub.calls)
	}
	if summary.Skipped != 1 || summary.Processed != 0 {
		t.Errorf("summary = %+v", summary)
	}

	// Skipped files are checkpointed so later runs ignore them.
	cp, err := LoadCheckpoint(cfg.Paths.CheckpointFile())
	if err != nil {
		t.Fatal(err)
	}
	if !cp.Contains("done.md") {
		t.Error("skipped file not checkpointed")
	}
}

func TestRun_FailureIsolatedToDocument(t *testing.T) {
	cfg := testConfig(t)
	writeNote(t, cfg.Paths.SourceDir, "bad.md", "unparseable\n")
	writeNote(t, cfg.Paths.SourceDir, "good.md", "fine\n")

	stub := &stubClassifier{
		result: model.Classification{Category: "archive", Subcategory: "completed", Tags: []string{}},
		errs:   map[string]error{"bad.md": errors.New("no JSON object in response")},
	}

	c := New(cfg, stub, nil, io.Discard)
	summary, err := c.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Processed != 1 || summary.Errors != 1 {
		t.Errorf("summary = %+v", summary)
	}

	// The failed document stays in place for a later retry.
	if _, err := os.Stat(filepath.Join(cfg.Paths.SourceDir, "bad.md")); err != nil {
		t.Error("failed document should remain in the source directory")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "archive", "completed", "good.md")); err != nil {
		t.Error("healthy document was not moved")
	}

	// Failure must be recorded, not checkpointed.
	cp, err := LoadCheckpoint(cfg.Paths.CheckpointFile())
	if err != nil {
		t.Fatal(err)
	}
	if cp.Contains("bad.md") {
		t.Error("failed document must not be checkpointed")
	}
	data, err := os.ReadFile(cfg.Paths.ResultLogFile())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "no JSON object in response") {
		t.Error("result log does not record the failure")
	}
}

func TestRun_ResumeProcessesOnlyNewFiles(t *testing.T) {
	cfg := testConfig(t)
	writeNote(t, cfg.Paths.SourceDir, "a.md", "first\n")
	writeNote(t, cfg.Paths.SourceDir, "b.md", "second\n")

	stub := &stubClassifier{result: model.Classification{Category: "areas", Subcategory: "career", Tags: []string{}}}
	c := New(cfg, stub, nil, io.Discard)

	if _, err := c.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("first run calls = %d, want 2", stub.calls)
	}

	writeNote(t, cfg.Paths.SourceDir, "c.md", "third\n")

	if _, err := c.Run(context.Background(), Options{Resume: true}); err != nil {
		t.Fatalf("resume run failed: %v", err)
	}
	if stub.calls != 3 {
		t.Errorf("resume reprocessed checkpointed files: calls = %d, want 3", stub.calls)
	}
}

func TestRun_ResumeReconcilesMovedFiles(t *testing.T) {
	cfg := testConfig(t)

	// Simulate a crash after relocation but before the checkpoint flush:
	// the note sits under the output taxonomy and the checkpoint is empty.
	destDir := filepath.Join(cfg.Paths.OutputDir, "areas", "health")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeNote(t, destDir, "moved.md", "---\ntitle: \"moved\"\n---\n\nbody\n")
	writeNote(t, cfg.Paths.SourceDir, "moved.md", "body\n")

	stub := &stubClassifier{result: model.Classification{Category: "areas", Subcategory: "health", Tags: []string{}}}
	c := New(cfg, stub, nil, io.Discard)

	summary, err := c.Run(context.Background(), Options{Resume: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stub.calls != 0 {
		t.Errorf("already-moved file was reclassified: calls = %d", stub.calls)
	}
	if summary.Eligible != 0 {
		t.Errorf("Eligible = %d, want 0", summary.Eligible)
	}
}

func TestRun_LimitCapsWork(t *testing.T) {
	cfg := testConfig(t)
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		writeNote(t, cfg.Paths.SourceDir, name, "content\n")
	}

	stub := &stubClassifier{result: model.Classification{Category: "archive", Subcategory: "outdated", Tags: []string{}}}
	c := New(cfg, stub, nil, io.Discard)

	summary, err := c.Run(context.Background(), Options{Limit: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Processed != 2 || stub.calls != 2 {
		t.Errorf("Processed = %d, calls = %d, want 2/2", summary.Processed, stub.calls)
	}
}

func TestRun_MissingSourceDirFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.SourceDir = filepath.Join(cfg.Paths.DataDir, "nope")

	c := New(cfg, &stubClassifier{}, nil, io.Discard)
	if _, err := c.Run(context.Background(), Options{}); err == nil {
		t.Fatal("expected fatal error for missing source directory")
	}
}

func TestRun_CacheHitSkipsClassifier(t *testing.T) {
	cfg := testConfig(t)
	content := "cached note body\n"
	writeNote(t, cfg.Paths.SourceDir, "hit.md", content)

	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	cached, _ := json.Marshal(model.Classification{
		Category: "resources", Subcategory: "data-science",
		Tags: []string{"ml"}, Summary: "Cached",
	})
	if err := mem.Set(cache.ContentKey(content), cached, 0); err != nil {
		t.Fatal(err)
	}

	stub := &stubClassifier{}
	c := New(cfg, stub, mem, io.Discard)

	summary, err := c.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stub.calls != 0 {
		t.Errorf("classifier called despite cache hit: %d", stub.calls)
	}
	if summary.Processed != 1 {
		t.Errorf("Processed = %d, want 1", summary.Processed)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "resources", "data-science", "hit.md")); err != nil {
		t.Error("cached classification did not drive the move")
	}
}

func TestRun_CorruptCacheEntryFallsThrough(t *testing.T) {
	cfg := testConfig(t)
	content := "note body\n"
	writeNote(t, cfg.Paths.SourceDir, "stale.md", content)

	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	// Invalid taxonomy pair: must be discarded, not trusted.
	stale, _ := json.Marshal(model.Classification{Category: "resources", Subcategory: "health"})
	if err := mem.Set(cache.ContentKey(content), stale, 0); err != nil {
		t.Fatal(err)
	}

	stub := &stubClassifier{result: model.Classification{Category: "areas", Subcategory: "health", Tags: []string{}}}
	c := New(cfg, stub, mem, io.Discard)

	if _, err := c.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("classifier calls = %d, want 1 (stale cache entry must not be used)", stub.calls)
	}
}

func TestTruncate_BoundsContent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Batch.MaxContentLength = 10
	c := New(cfg, &stubClassifier{}, nil, io.Discard)

	got := c.truncate("0123456789abcdef")
	if got != "0123456789"+truncationMarker {
		t.Errorf("truncate = %q", got)
	}
	if c.truncate("short") != "short" {
		t.Error("short content must pass through unchanged")
	}
}
