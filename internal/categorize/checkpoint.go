// Package categorize implements the checkpointed batch workflow: classify
// each uncategorized note, stamp it with a frontmatter header, relocate it
// into the taxonomy tree, and record durable progress so an interrupted run
// can resume without reclassifying finished documents.
package categorize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Checkpoint tracks which documents completed the batch workflow. The set
// only grows during a run; Reset is the single way to shrink it.
type Checkpoint struct {
	path      string
	processed map[string]bool
	lastFile  string
}

// checkpointFile is the persisted form of a Checkpoint.
type checkpointFile struct {
	Processed      []string `json:"processed"`
	Timestamp      string   `json:"timestamp"`
	TotalProcessed int      `json:"total_processed"`
	LastFile       string   `json:"last_file,omitempty"`
}

// LoadCheckpoint reads the checkpoint at path. A missing file yields an
// empty checkpoint; a corrupt file is surfaced as an explicit error rather
// than silently starting over.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	cp := &Checkpoint{
		path:      path,
		processed: make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var file checkpointFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("checkpoint %s is corrupt: %w (delete it to start over, already-moved notes will not be reclassified)", path, err)
	}

	for _, name := range file.Processed {
		cp.processed[name] = true
	}
	cp.lastFile = file.LastFile

	return cp, nil
}

// Contains reports whether a document id is already checkpointed.
func (c *Checkpoint) Contains(name string) bool {
	return c.processed[name]
}

// Add marks a document id as processed.
func (c *Checkpoint) Add(name string) {
	c.processed[name] = true
	c.lastFile = name
}

// Len returns the number of processed documents.
func (c *Checkpoint) Len() int {
	return len(c.processed)
}

// Reset clears all progress. Used when a run starts without --resume.
func (c *Checkpoint) Reset() {
	c.processed = make(map[string]bool)
	c.lastFile = ""
}

// Save persists the checkpoint to disk.
func (c *Checkpoint) Save() error {
	names := make([]string, 0, len(c.processed))
	for name := range c.processed {
		names = append(names, name)
	}
	sort.Strings(names)

	file := checkpointFile{
		Processed:      names,
		Timestamp:      time.Now().Format(time.RFC3339),
		TotalProcessed: len(names),
		LastFile:       c.lastFile,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}

	return nil
}
