// Package moc renders Map-of-Content hub pages from the notes index. The
// generator consumes only index entries, never the notes themselves, and
// its output is deterministic for a given index (timestamps aside).
package moc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/akorchak/paragon/internal/model"
	"github.com/akorchak/paragon/internal/util"
)

// previewLimit bounds hub content echoed in preview mode.
const previewLimit = 500

// Hub is one rendered hub page.
type Hub struct {
	Filename string
	Content  string
}

// Groups holds index entries grouped for hub generation.
type Groups struct {
	BySubcategory map[string][]model.NoteEntry // "category/subcategory" keys
	ByTag         map[string][]model.NoteEntry
}

// GroupNotes groups index entries by subcategory and by individual tag.
func GroupNotes(notes []model.NoteEntry) Groups {
	groups := Groups{
		BySubcategory: make(map[string][]model.NoteEntry),
		ByTag:         make(map[string][]model.NoteEntry),
	}

	for _, note := range notes {
		key := note.Category + "/" + note.Subcategory
		groups.BySubcategory[key] = append(groups.BySubcategory[key], note)

		for _, tag := range note.Tags {
			if tag != "" {
				groups.ByTag[tag] = append(groups.ByTag[tag], note)
			}
		}
	}

	return groups
}

// Generator renders hub pages.
type Generator struct {
	cfg  model.MOCConfig
	date string // "Updated" stamp, YYYY-MM-DD
}

// NewGenerator creates a generator stamping hubs with today's date.
func NewGenerator(cfg model.MOCConfig) *Generator {
	return NewGeneratorAt(cfg, time.Now())
}

// NewGeneratorAt creates a generator with a fixed date, for deterministic
// output.
func NewGeneratorAt(cfg model.MOCConfig, now time.Time) *Generator {
	if cfg.MinTagNotes <= 0 {
		cfg.MinTagNotes = 5
	}
	if cfg.TopTags <= 0 {
		cfg.TopTags = 15
	}
	return &Generator{cfg: cfg, date: now.Format("2006-01-02")}
}

// Generate renders the main hub, one hub per subcategory, and one hub per
// tag meeting the minimum note count.
func (g *Generator) Generate(notes []model.NoteEntry) []Hub {
	groups := GroupNotes(notes)

	hubs := []Hub{{
		Filename: "_MOC-index.md",
		Content:  g.mainHub(groups, len(notes)),
	}}

	subcats := sortedKeys(groups.BySubcategory)
	for _, subcat := range subcats {
		subcatNotes := groups.BySubcategory[subcat]
		if len(subcatNotes) == 0 {
			continue
		}
		name := subcatName(subcat)
		hubs = append(hubs, Hub{
			Filename: "_MOC-" + util.SanitizeFilename(name) + ".md",
			Content:  g.subcategoryHub(subcat, subcatNotes),
		})
	}

	tags := sortedKeys(groups.ByTag)
	for _, tag := range tags {
		tagNotes := groups.ByTag[tag]
		if len(tagNotes) < g.cfg.MinTagNotes {
			continue
		}
		hubs = append(hubs, Hub{
			Filename: "_MOC-tag-" + util.SanitizeFilename(tag) + ".md",
			Content:  g.tagHub(tag, tagNotes),
		})
	}

	return hubs
}

// mainHub renders the top-level index hub: subcategories per category with
// counts, then the most popular tags.
func (g *Generator) mainHub(groups Groups, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# MOC: Main Index\n\n")
	fmt.Fprintf(&b, "> Total notes: %d\n", total)
	fmt.Fprintf(&b, "> Updated: %s\n\n", g.date)
	fmt.Fprintf(&b, "## By Category\n\n")

	byCategory := make(map[string][]string)
	for subcat := range groups.BySubcategory {
		cat := strings.SplitN(subcat, "/", 2)[0]
		byCategory[cat] = append(byCategory[cat], subcat)
	}

	for _, cat := range model.CategoryOrder {
		subcats, ok := byCategory[cat]
		if !ok {
			continue
		}
		sort.Strings(subcats)

		fmt.Fprintf(&b, "### %s\n\n", title(cat))
		for _, subcat := range subcats {
			name := subcatName(subcat)
			fmt.Fprintf(&b, "- [%s](./_MOC-%s.md) (%d notes)\n", name, util.SanitizeFilename(name), len(groups.BySubcategory[subcat]))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Popular Tags\n\n")
	for _, tag := range topTags(groups.ByTag, g.cfg.TopTags) {
		count := len(groups.ByTag[tag])
		if count >= g.cfg.MinTagNotes {
			fmt.Fprintf(&b, "- [#%s](./_MOC-tag-%s.md) (%d)\n", tag, util.SanitizeFilename(tag), count)
		} else {
			fmt.Fprintf(&b, "- #%s (%d)\n", tag, count)
		}
	}

	return b.String()
}

// subcategoryHub renders the hub for one subcategory: notes alphabetical by
// title, then the subcategory's most frequent tags.
func (g *Generator) subcategoryHub(subcat string, notes []model.NoteEntry) string {
	parts := strings.SplitN(subcat, "/", 2)
	category, name := parts[0], parts[1]

	var b strings.Builder
	fmt.Fprintf(&b, "# MOC: %s\n\n", title(strings.ReplaceAll(name, "-", " ")))
	fmt.Fprintf(&b, "> Category: %s\n", category)
	fmt.Fprintf(&b, "> Notes: %d\n", len(notes))
	fmt.Fprintf(&b, "> Updated: %s\n\n", g.date)
	fmt.Fprintf(&b, "## Notes\n\n")

	sorted := sortByTitle(notes)
	for _, note := range sorted {
		if note.Summary != "" {
			fmt.Fprintf(&b, "- [%s](../%s) — %s\n", note.Title, note.Path, note.Summary)
		} else {
			fmt.Fprintf(&b, "- [%s](../%s)\n", note.Title, note.Path)
		}
	}

	tagCounts := make(map[string][]model.NoteEntry)
	for _, note := range notes {
		for _, tag := range note.Tags {
			if tag != "" {
				tagCounts[tag] = append(tagCounts[tag], note)
			}
		}
	}
	if len(tagCounts) > 0 {
		fmt.Fprintf(&b, "\n## Popular Tags\n\n")
		for _, tag := range topTags(tagCounts, 10) {
			fmt.Fprintf(&b, "- #%s (%d)\n", tag, len(tagCounts[tag]))
		}
	}

	return b.String()
}

// tagHub renders the hub for one tag, grouping its notes by category.
func (g *Generator) tagHub(tag string, notes []model.NoteEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# MOC: #%s\n\n", tag)
	fmt.Fprintf(&b, "> Notes: %d\n", len(notes))
	fmt.Fprintf(&b, "> Updated: %s\n\n", g.date)
	fmt.Fprintf(&b, "## Notes\n\n")

	byCategory := make(map[string][]model.NoteEntry)
	for _, note := range notes {
		byCategory[note.Category] = append(byCategory[note.Category], note)
	}

	for _, category := range sortedKeys(byCategory) {
		fmt.Fprintf(&b, "### %s\n\n", title(category))
		for _, note := range sortByTitle(byCategory[category]) {
			fmt.Fprintf(&b, "- [%s](../%s)\n", note.Title, note.Path)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// WriteHubs saves hubs into dir, creating it as needed.
func WriteHubs(dir string, hubs []Hub) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create MOC dir: %w", err)
	}

	for _, hub := range hubs {
		path := filepath.Join(dir, hub.Filename)
		if err := os.WriteFile(path, []byte(hub.Content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", hub.Filename, err)
		}
	}

	return nil
}

// PreviewHubs prints truncated hub content without writing anything.
func PreviewHubs(w io.Writer, hubs []Hub) {
	for _, hub := range hubs {
		fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 50))
		fmt.Fprintf(w, "FILE: %s\n", hub.Filename)
		fmt.Fprintf(w, "%s\n", strings.Repeat("=", 50))

		content := hub.Content
		if len(content) > previewLimit {
			content = content[:previewLimit] + "..."
		}
		fmt.Fprintln(w, content)
	}
}

func subcatName(subcat string) string {
	parts := strings.SplitN(subcat, "/", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return subcat
}

func sortByTitle(notes []model.NoteEntry) []model.NoteEntry {
	sorted := make([]model.NoteEntry, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Title != sorted[j].Title {
			return sorted[i].Title < sorted[j].Title
		}
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// topTags orders tag groups by descending note count, ties alphabetical.
func topTags(groups map[string][]model.NoteEntry, n int) []string {
	tags := sortedKeys(groups)
	sort.SliceStable(tags, func(i, j int) bool {
		return len(groups[tags[i]]) > len(groups[tags[j]])
	})
	if n > 0 && len(tags) > n {
		tags = tags[:n]
	}
	return tags
}

// title upper-cases the first letter of each word, matching the hub
// heading style.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
