package categorize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akorchak/paragon/internal/model"
)

// ResultRecord is one successful (or previewed) categorization.
type ResultRecord struct {
	File           string                `json:"file"`
	Classification *model.Classification `json:"classification"`
	MovedTo        string                `json:"moved_to"`
	DryRun         bool                  `json:"dry_run,omitempty"`
}

// ErrorRecord is one failed categorization. Failures are recorded so they
// are visible without being retried automatically on the next run.
type ErrorRecord struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// ResultLog collects per-document outcomes for a run. It is rewritten
// wholesale on every save, paired with the checkpoint.
type ResultLog struct {
	path    string
	Results []ResultRecord
	Errors  []ErrorRecord
}

type resultLogFile struct {
	Results        []ResultRecord `json:"results"`
	Errors         []ErrorRecord  `json:"errors"`
	Timestamp      string         `json:"timestamp"`
	TotalProcessed int            `json:"total_processed"`
	TotalErrors    int            `json:"total_errors"`
}

// NewResultLog creates an empty result log that saves to path.
func NewResultLog(path string) *ResultLog {
	return &ResultLog{
		path:    path,
		Results: []ResultRecord{},
		Errors:  []ErrorRecord{},
	}
}

// AddResult records a successful categorization.
func (l *ResultLog) AddResult(r ResultRecord) {
	l.Results = append(l.Results, r)
}

// AddError records a failed categorization.
func (l *ResultLog) AddError(file string, err error) {
	l.Errors = append(l.Errors, ErrorRecord{File: file, Error: err.Error()})
}

// Save persists the log to disk.
func (l *ResultLog) Save() error {
	file := resultLogFile{
		Results:        l.Results,
		Errors:         l.Errors,
		Timestamp:      time.Now().Format(time.RFC3339),
		TotalProcessed: len(l.Results),
		TotalErrors:    len(l.Errors),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result log: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("write result log: %w", err)
	}

	return nil
}
