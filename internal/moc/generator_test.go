package moc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akorchak/paragon/internal/model"
)

var fixedDate = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func entry(title, category, subcategory string, tags ...string) model.NoteEntry {
	return model.NoteEntry{
		File:        title + ".md",
		Path:        category + "/" + subcategory + "/" + title + ".md",
		Category:    category,
		Subcategory: subcategory,
		Title:       title,
		Tags:        tags,
	}
}

func hubByName(hubs []Hub, name string) (Hub, bool) {
	for _, h := range hubs {
		if h.Filename == name {
			return h, true
		}
	}
	return Hub{}, false
}

func TestGenerate_MainHub(t *testing.T) {
	notes := []model.NoteEntry{
		entry("workout", "areas", "health", "fitness"),
		entry("diet", "areas", "health", "fitness"),
		entry("budget", "areas", "finance", "money"),
		entry("go-notes", "resources", "programming", "go"),
	}

	g := NewGeneratorAt(model.MOCConfig{MinTagNotes: 2, TopTags: 15}, fixedDate)
	hubs := g.Generate(notes)

	main, ok := hubByName(hubs, "_MOC-index.md")
	if !ok {
		t.Fatal("main hub missing")
	}

	for _, want := range []string{
		"# MOC: Main Index",
		"> Total notes: 4",
		"> Updated: 2026-08-24",
		"### Areas",
		"### Resources",
		"- [health](./_MOC-health.md) (2 notes)",
		"- [finance](./_MOC-finance.md) (1 notes)",
		"- [programming](./_MOC-programming.md) (1 notes)",
		"## Popular Tags",
		"- [#fitness](./_MOC-tag-fitness.md) (2)",
	} {
		if !strings.Contains(main.Content, want) {
			t.Errorf("main hub missing %q", want)
		}
	}

	// Below-threshold tags are listed without a link.
	if !strings.Contains(main.Content, "- #go (1)") {
		t.Error("below-threshold tag should appear unlinked")
	}
	if strings.Contains(main.Content, "_MOC-tag-go.md") {
		t.Error("below-threshold tag must not be linked")
	}

	// Category sections follow the fixed taxonomy order.
	if strings.Index(main.Content, "### Areas") > strings.Index(main.Content, "### Resources") {
		t.Error("categories out of order")
	}
}

func TestGenerate_SubcategoryHubs(t *testing.T) {
	notes := []model.NoteEntry{
		{File: "b.md", Path: "areas/health/b.md", Category: "areas", Subcategory: "health", Title: "b", Tags: []string{"x"}, Summary: "Second"},
		{File: "a.md", Path: "areas/health/a.md", Category: "areas", Subcategory: "health", Title: "a", Tags: []string{"x"}},
	}

	g := NewGeneratorAt(model.MOCConfig{MinTagNotes: 5, TopTags: 15}, fixedDate)
	hubs := g.Generate(notes)

	hub, ok := hubByName(hubs, "_MOC-health.md")
	if !ok {
		t.Fatal("subcategory hub missing")
	}

	for _, want := range []string{
		"# MOC: Health",
		"> Category: areas",
		"> Notes: 2",
		"- [a](../areas/health/a.md)",
		"- [b](../areas/health/b.md) — Second",
		"- #x (2)",
	} {
		if !strings.Contains(hub.Content, want) {
			t.Errorf("hub missing %q", want)
		}
	}

	// Notes listed alphabetically by title.
	if strings.Index(hub.Content, "[a](") > strings.Index(hub.Content, "[b](") {
		t.Error("notes out of order")
	}
}

func TestGenerate_TagHubThreshold(t *testing.T) {
	below := []model.NoteEntry{
		entry("one", "areas", "health", "sparse"),
	}
	at := []model.NoteEntry{
		entry("one", "areas", "health", "dense"),
		entry("two", "resources", "programming", "dense"),
	}

	g := NewGeneratorAt(model.MOCConfig{MinTagNotes: 2, TopTags: 15}, fixedDate)

	if _, ok := hubByName(g.Generate(below), "_MOC-tag-sparse.md"); ok {
		t.Error("tag below threshold produced a hub")
	}

	hub, ok := hubByName(g.Generate(at), "_MOC-tag-dense.md")
	if !ok {
		t.Fatal("tag at threshold produced no hub")
	}

	// Tag hub groups notes by category.
	for _, want := range []string{"# MOC: #dense", "> Notes: 2", "### Areas", "### Resources", "- [one](../areas/health/one.md)", "- [two](../resources/programming/two.md)"} {
		if !strings.Contains(hub.Content, want) {
			t.Errorf("tag hub missing %q", want)
		}
	}
}

func TestGenerate_PathUnsafeTagSanitized(t *testing.T) {
	notes := []model.NoteEntry{
		entry("one", "areas", "health", "c/c++"),
		entry("two", "areas", "health", "c/c++"),
	}

	g := NewGeneratorAt(model.MOCConfig{MinTagNotes: 2, TopTags: 15}, fixedDate)
	hubs := g.Generate(notes)

	if _, ok := hubByName(hubs, "_MOC-tag-c_c++.md"); !ok {
		names := make([]string, len(hubs))
		for i, h := range hubs {
			names[i] = h.Filename
		}
		t.Errorf("sanitized tag hub missing, got %v", names)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	notes := []model.NoteEntry{
		entry("alpha", "areas", "health", "x", "y"),
		entry("beta", "areas", "finance", "x"),
		entry("gamma", "resources", "programming", "y"),
		entry("delta", "archive", "completed"),
	}

	g := NewGeneratorAt(model.MOCConfig{MinTagNotes: 1, TopTags: 15}, fixedDate)
	first := g.Generate(notes)
	second := g.Generate(notes)

	if len(first) != len(second) {
		t.Fatalf("hub count differs: %d != %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Filename != second[i].Filename || first[i].Content != second[i].Content {
			t.Errorf("hub %d differs between runs", i)
		}
	}
}

func TestWriteHubs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output", "_MOC")

	hubs := []Hub{
		{Filename: "_MOC-index.md", Content: "# MOC: Main Index\n"},
		{Filename: "_MOC-health.md", Content: "# MOC: Health\n"},
	}
	if err := WriteHubs(dir, hubs); err != nil {
		t.Fatalf("WriteHubs failed: %v", err)
	}

	for _, hub := range hubs {
		data, err := os.ReadFile(filepath.Join(dir, hub.Filename))
		if err != nil {
			t.Fatalf("hub not written: %v", err)
		}
		if string(data) != hub.Content {
			t.Errorf("%s content mismatch", hub.Filename)
		}
	}
}

func TestPreviewHubs_TruncatesLongContent(t *testing.T) {
	var b strings.Builder
	PreviewHubs(&b, []Hub{{
		Filename: "_MOC-index.md",
		Content:  strings.Repeat("x", previewLimit+100),
	}})

	out := b.String()
	if !strings.Contains(out, "FILE: _MOC-index.md") {
		t.Error("preview missing filename banner")
	}
	if !strings.Contains(out, strings.Repeat("x", previewLimit)+"...") {
		t.Error("preview not truncated with ellipsis")
	}
	if strings.Contains(out, strings.Repeat("x", previewLimit+1)) {
		t.Error("preview exceeded the limit")
	}
}
