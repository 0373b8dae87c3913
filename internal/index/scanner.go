// Package index builds the searchable notes index by rescanning the
// taxonomy tree. The index is a cache: fully rebuildable from the notes
// themselves and never a source of truth.
package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/akorchak/paragon/internal/frontmatter"
	"github.com/akorchak/paragon/internal/model"
)

// Diagnostic records a note that could not be indexed. One bad file never
// aborts the whole scan.
type Diagnostic struct {
	Path string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Path, d.Err)
}

// Scan walks the category roots under outputRoot and builds one entry per
// markdown note. Header metadata degrades gracefully: a missing or
// malformed header yields a filename-derived title, empty tags and summary.
// Category and subcategory come from the path, so the index always matches
// the tree.
func Scan(outputRoot string, categories []string) ([]model.NoteEntry, []Diagnostic) {
	var notes []model.NoteEntry
	var diags []Diagnostic

	for _, category := range categories {
		base := filepath.Join(outputRoot, category)
		if _, err := os.Stat(base); err != nil {
			continue
		}

		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				diags = append(diags, Diagnostic{Path: path, Err: err})
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
				return nil
			}

			entry, err := scanNote(outputRoot, path)
			if err != nil {
				diags = append(diags, Diagnostic{Path: path, Err: err})
				return nil
			}
			notes = append(notes, entry)
			return nil
		})
	}

	return notes, diags
}

func scanNote(outputRoot, path string) (model.NoteEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.NoteEntry{}, fmt.Errorf("read note: %w", err)
	}
	content := string(raw)

	rel, err := filepath.Rel(outputRoot, path)
	if err != nil {
		return model.NoteEntry{}, fmt.Errorf("relative path: %w", err)
	}
	rel = filepath.ToSlash(rel)

	parts := strings.Split(rel, "/")
	category, subcategory := "unknown", "unknown"
	if len(parts) > 0 {
		category = parts[0]
	}
	if len(parts) > 1 {
		subcategory = parts[1]
	}

	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	meta, ok := frontmatter.Parse(content)
	if !ok {
		meta = frontmatter.Meta{}
	}
	if meta.Title == "" {
		meta.Title = stem
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}

	return model.NoteEntry{
		File:        name,
		Path:        rel,
		Category:    category,
		Subcategory: subcategory,
		Title:       meta.Title,
		Tags:        meta.Tags,
		Summary:     meta.Summary,
		Processed:   meta.Processed,
		Size:        len(content),
	}, nil
}
