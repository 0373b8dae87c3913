// Package frontmatter reads and writes the YAML metadata block prefixed to
// categorized notes.
package frontmatter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Delimiter marks the start and end of a frontmatter block.
const Delimiter = "---"

// Meta is the structured header of a categorized note.
type Meta struct {
	Title       string
	Category    string
	Subcategory string
	Tags        []string
	Summary     string
	Processed   string // YYYY-MM-DD
}

// Has reports whether content begins with a frontmatter block.
func Has(content string) bool {
	return strings.HasPrefix(content, Delimiter)
}

// Parse extracts the frontmatter from note content. The second return value
// is false when no parseable block is present; callers degrade to defaults
// in that case. Tags are accepted as a YAML sequence, a JSON-encoded string,
// or a bare string, and are normalized to a sequence. A processed value the
// YAML parser resolved to a timestamp is normalized back to YYYY-MM-DD text.
func Parse(content string) (Meta, bool) {
	if !Has(content) {
		return Meta{}, false
	}

	end := strings.Index(content[len(Delimiter):], Delimiter)
	if end == -1 {
		return Meta{}, false
	}
	block := content[len(Delimiter) : len(Delimiter)+end]

	var raw struct {
		Title       string `yaml:"title"`
		Category    string `yaml:"category"`
		Subcategory string `yaml:"subcategory"`
		Tags        any    `yaml:"tags"`
		Summary     string `yaml:"summary"`
		Processed   any    `yaml:"processed"`
	}
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return Meta{}, false
	}

	return Meta{
		Title:       raw.Title,
		Category:    raw.Category,
		Subcategory: raw.Subcategory,
		Tags:        normalizeTags(raw.Tags),
		Summary:     raw.Summary,
		Processed:   normalizeDate(raw.Processed),
	}, true
}

// Render serializes meta into a frontmatter block, trailed by a blank line
// so it can be prepended directly to a note body.
func Render(meta Meta) string {
	tags, err := json.Marshal(meta.Tags)
	if err != nil || meta.Tags == nil {
		tags = []byte("[]")
	}

	var b strings.Builder
	b.WriteString(Delimiter + "\n")
	fmt.Fprintf(&b, "title: %s\n", quote(meta.Title))
	fmt.Fprintf(&b, "category: %s\n", meta.Category)
	fmt.Fprintf(&b, "subcategory: %s\n", meta.Subcategory)
	fmt.Fprintf(&b, "tags: %s\n", tags)
	fmt.Fprintf(&b, "summary: %s\n", quote(meta.Summary))
	fmt.Fprintf(&b, "processed: %s\n", meta.Processed)
	b.WriteString(Delimiter + "\n\n")
	return b.String()
}

func normalizeTags(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := fmt.Sprint(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		// Older notes carry tags as a JSON-encoded string.
		var decoded []string
		if err := json.Unmarshal([]byte(t), &decoded); err == nil {
			return decoded
		}
		if t == "" {
			return []string{}
		}
		return []string{t}
	default:
		return []string{}
	}
}

func normalizeDate(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	case time.Time:
		return d.Format("2006-01-02")
	default:
		return fmt.Sprint(d)
	}
}

// quote produces a double-quoted YAML scalar.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	return `"` + s + `"`
}
