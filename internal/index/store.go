package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akorchak/paragon/internal/model"
)

// indexFile is the persisted index record.
type indexFile struct {
	Notes     []model.NoteEntry `json:"notes"`
	Timestamp string            `json:"timestamp"`
	Total     int               `json:"total"`
}

// statsFile is the persisted statistics record.
type statsFile struct {
	Stats     model.Statistics `json:"stats"`
	Timestamp string           `json:"timestamp"`
}

// SaveIndex writes the notes index to path.
func SaveIndex(path string, notes []model.NoteEntry) error {
	file := indexFile{
		Notes:     notes,
		Timestamp: time.Now().Format(time.RFC3339),
		Total:     len(notes),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	return nil
}

// LoadIndex reads the notes index from path. A missing file tells the user
// to build the index first; a corrupt file is never silently replaced with
// fabricated data.
func LoadIndex(path string) ([]model.NoteEntry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("index not found at %s: run 'paragon index' first", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("index %s is corrupt: %w (run 'paragon index' to rebuild it from the notes)", path, err)
	}

	return file.Notes, nil
}

// SaveStats writes the statistics file to path.
func SaveStats(path string, stats model.Statistics) error {
	file := statsFile{
		Stats:     stats,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}

	return nil
}
