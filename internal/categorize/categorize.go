package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/akorchak/paragon/internal/cache"
	"github.com/akorchak/paragon/internal/frontmatter"
	"github.com/akorchak/paragon/internal/model"
)

// truncationMarker is appended when note content is cut before classification.
const truncationMarker = "\n...[truncated]..."

// DocumentClassifier is the capability the batch workflow needs from the
// LLM layer. llm.Classifier satisfies it; tests substitute a fake.
type DocumentClassifier interface {
	Classify(ctx context.Context, filename, content string) (*model.Classification, error)
}

// Options control a single categorization run.
type Options struct {
	// DryRun classifies and reports destinations without touching the
	// filesystem beyond reading.
	DryRun bool

	// Limit caps how many documents this run processes (0 = all).
	Limit int

	// Resume keeps the existing checkpoint instead of resetting it.
	Resume bool
}

// RunSummary aggregates per-document outcomes for reporting.
type RunSummary struct {
	Eligible  int
	Processed int
	Errors    int
	Skipped   int // already-headered documents
}

// Categorizer runs the batch workflow. Processing is strictly sequential;
// the only blocking points are the provider call and the rate limiter.
type Categorizer struct {
	cfg        *model.Config
	classifier DocumentClassifier
	cache      cache.Cache // nil when disabled
	limiter    *rate.Limiter
	out        io.Writer
	now        func() time.Time
}

// New creates a Categorizer. out receives progress lines (typically stderr).
func New(cfg *model.Config, classifier DocumentClassifier, c cache.Cache, out io.Writer) *Categorizer {
	rps := cfg.Batch.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Batch.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Categorizer{
		cfg:        cfg,
		classifier: classifier,
		cache:      c,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		out:        out,
		now:        time.Now,
	}
}

// Run processes all eligible documents once, checkpointing every
// cfg.Batch.Size documents and at completion. A missing source directory is
// a fatal precondition; every later failure is confined to its document.
func (c *Categorizer) Run(ctx context.Context, opts Options) (*RunSummary, error) {
	if _, err := os.Stat(c.cfg.Paths.SourceDir); err != nil {
		return nil, fmt.Errorf("source directory %s not found: %w (create it and add your markdown files)", c.cfg.Paths.SourceDir, err)
	}

	checkpoint, err := LoadCheckpoint(c.cfg.Paths.CheckpointFile())
	if err != nil {
		return nil, err
	}

	if opts.Resume {
		if n := checkpoint.Len(); n > 0 {
			fmt.Fprintf(c.out, "Loaded checkpoint: %d files already processed\n", n)
		}
		reconciled := c.reconcileDestination(checkpoint)
		if reconciled > 0 {
			fmt.Fprintf(c.out, "Reconciled %d already-moved files into checkpoint\n", reconciled)
		}
	} else {
		checkpoint.Reset()
	}

	results := NewResultLog(c.cfg.Paths.ResultLogFile())

	files, err := c.eligibleFiles(checkpoint, opts.Limit)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{Eligible: len(files)}
	if len(files) == 0 {
		fmt.Fprintf(c.out, "No files to process\n")
		return summary, nil
	}

	fmt.Fprintf(c.out, "Found %d files to process\n", len(files))
	if opts.DryRun {
		fmt.Fprintf(c.out, "DRY RUN MODE - files will not be changed\n")
	}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			break
		}

		fmt.Fprintf(c.out, "\n[%d/%d] Processing: %s\n", i+1, len(files), filepath.Base(path))
		c.processFile(ctx, path, opts, checkpoint, results, summary)

		// Flush durable state at batch boundaries so progress survives
		// interruption. Successes and failures both advance the cadence.
		if !opts.DryRun && (i+1)%c.cfg.Batch.Size == 0 {
			if err := c.flush(checkpoint, results); err != nil {
				return summary, err
			}
			fmt.Fprintf(c.out, "  [Checkpoint saved]\n")
		}
	}

	if !opts.DryRun {
		if err := c.flush(checkpoint, results); err != nil {
			return summary, err
		}
	}

	fmt.Fprintf(c.out, "\n%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(c.out, "Processed: %d\n", summary.Processed)
	fmt.Fprintf(c.out, "Errors: %d\n", summary.Errors)
	if summary.Skipped > 0 {
		fmt.Fprintf(c.out, "Skipped (already categorized): %d\n", summary.Skipped)
	}
	if !opts.DryRun {
		fmt.Fprintf(c.out, "Results: %s\n", c.cfg.Paths.ResultLogFile())
	}

	return summary, nil
}

// processFile runs the per-document procedure. Failures never unwind past
// the document they originate from.
func (c *Categorizer) processFile(ctx context.Context, path string, opts Options, checkpoint *Checkpoint, results *ResultLog, summary *RunSummary) {
	name := filepath.Base(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(c.out, "  ✗ read failed: %v\n", err)
		results.AddError(name, fmt.Errorf("read: %w", err))
		summary.Errors++
		return
	}
	content := string(raw)

	// A document that already carries a header was categorized by an earlier
	// run whose checkpoint is gone. Never reclassify it.
	if frontmatter.Has(content) {
		fmt.Fprintf(c.out, "  → already has frontmatter, skipping\n")
		if !opts.DryRun {
			checkpoint.Add(name)
		}
		summary.Skipped++
		return
	}

	classification, err := c.classify(ctx, name, content, opts.DryRun)
	if err != nil {
		fmt.Fprintf(c.out, "  ✗ %v\n", err)
		results.AddError(name, err)
		summary.Errors++
		return
	}

	destDir := filepath.Join(c.cfg.Paths.OutputDir, classification.Category, classification.Subcategory)
	destPath := filepath.Join(destDir, name)

	fmt.Fprintf(c.out, "  → %s/%s\n", classification.Category, classification.Subcategory)
	fmt.Fprintf(c.out, "  → tags: %v\n", classification.Tags)

	if opts.DryRun {
		fmt.Fprintf(c.out, "  [DRY RUN] Would move to %s\n", destPath)
		results.AddResult(ResultRecord{
			File:           name,
			Classification: classification,
			MovedTo:        destDir + string(os.PathSeparator),
			DryRun:         true,
		})
		summary.Processed++
		return
	}

	header := frontmatter.Render(frontmatter.Meta{
		Title:       strings.TrimSuffix(name, filepath.Ext(name)),
		Category:    classification.Category,
		Subcategory: classification.Subcategory,
		Tags:        classification.Tags,
		Summary:     classification.Summary,
		Processed:   c.now().Format("2006-01-02"),
	})

	if err := os.MkdirAll(destDir, 0755); err != nil {
		results.AddError(name, fmt.Errorf("create target dir: %w", err))
		summary.Errors++
		return
	}

	if err := os.WriteFile(destPath, []byte(header+content), 0644); err != nil {
		results.AddError(name, fmt.Errorf("write target: %w", err))
		summary.Errors++
		return
	}

	if err := os.Remove(path); err != nil {
		results.AddError(name, fmt.Errorf("remove source: %w", err))
		summary.Errors++
		return
	}

	// Checkpoint only after the write+remove pair succeeded.
	checkpoint.Add(name)
	results.AddResult(ResultRecord{
		File:           name,
		Classification: classification,
		MovedTo:        destPath,
	})
	summary.Processed++
}

// classify obtains a classification for one document, consulting the cache
// before spending an API call. Cached entries are re-validated against the
// taxonomy so a stale or corrupt entry can never bypass the invariant.
func (c *Categorizer) classify(ctx context.Context, name, content string, dryRun bool) (*model.Classification, error) {
	truncated := c.truncate(content)

	if c.cache != nil {
		key := cache.ContentKey(truncated)
		if data, found := c.cache.Get(key); found {
			var cached model.Classification
			if err := json.Unmarshal(data, &cached); err == nil {
				if c.cfg.Taxonomy.Validate(cached.Category, cached.Subcategory) == nil {
					fmt.Fprintf(c.out, "  → classification from cache\n")
					return &cached, nil
				}
			}
			_ = c.cache.Delete(key)
		}
	}

	// The inter-document delay exists to respect provider rate limits.
	// Preview runs take no delay.
	if !dryRun {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	classification, err := c.classifier.Classify(ctx, name, truncated)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && !dryRun {
		if data, err := json.Marshal(classification); err == nil {
			_ = c.cache.Set(cache.ContentKey(truncated), data, 0)
		}
	}

	return classification, nil
}

// truncate bounds the content sent to the classifier. The cut is by byte
// length with the marker appended; plain text tolerates a mid-line cut.
func (c *Categorizer) truncate(content string) string {
	max := c.cfg.Batch.MaxContentLength
	if max <= 0 || len(content) <= max {
		return content
	}
	return content[:max] + truncationMarker
}

// eligibleFiles lists source documents not yet checkpointed, sorted by name.
func (c *Categorizer) eligibleFiles(checkpoint *Checkpoint, limit int) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(c.cfg.Paths.SourceDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("list source files: %w", err)
	}
	sort.Strings(matches)

	var files []string
	for _, m := range matches {
		if checkpoint.Contains(filepath.Base(m)) {
			continue
		}
		files = append(files, m)
	}

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	return files, nil
}

// reconcileDestination closes the crash window between relocation and
// checkpoint flush: a document already present under the output taxonomy is
// done, even if the process died before the checkpoint recorded it.
func (c *Categorizer) reconcileDestination(checkpoint *Checkpoint) int {
	added := 0
	_ = filepath.WalkDir(c.cfg.Paths.OutputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, "_MOC") {
			return nil
		}
		// Only reconcile names that still sit in the source dir or were
		// never checkpointed; adding extras is harmless (the set is keyed
		// by filename and only suppresses reprocessing).
		if !checkpoint.Contains(name) {
			checkpoint.Add(name)
			added++
		}
		return nil
	})
	return added
}

// flush persists checkpoint and result log together.
func (c *Categorizer) flush(checkpoint *Checkpoint, results *ResultLog) error {
	if err := checkpoint.Save(); err != nil {
		return err
	}
	return results.Save()
}
