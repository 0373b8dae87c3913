package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akorchak/paragon/internal/cache"
	"github.com/akorchak/paragon/internal/categorize"
	"github.com/akorchak/paragon/internal/llm"
	"github.com/akorchak/paragon/internal/model"
)

var (
	catDryRun   bool
	catLimit    int
	catResume   bool
	catNoCache  bool
	catSource   string
	catOutput   string
	llmProvider string
	llmModel    string
)

// categorizeCmd represents the categorize command
var categorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Classify uncategorized notes and file them into the taxonomy tree",
	Long: `Classify each markdown note in the source directory with an LLM, stamp it
with a frontmatter header, and move it to output/<category>/<subcategory>/.

Progress is checkpointed every batch, so an interrupted run can continue
with --resume without reclassifying finished notes. Notes that already
carry a frontmatter header are never reclassified.

Example:
  paragon categorize --dry-run
  paragon categorize --limit 10
  paragon categorize --resume
  paragon categorize --llm-provider openai --llm-model gpt-4o-mini`,
	RunE: runCategorize,
}

func init() {
	rootCmd.AddCommand(categorizeCmd)

	categorizeCmd.Flags().BoolVar(&catDryRun, "dry-run", false, "classify and report destinations without changing any files")
	categorizeCmd.Flags().IntVar(&catLimit, "limit", 0, "maximum number of notes to process (0 = all)")
	categorizeCmd.Flags().BoolVar(&catResume, "resume", false, "continue from the existing checkpoint")
	categorizeCmd.Flags().BoolVar(&catNoCache, "no-cache", false, "disable the classification cache")
	categorizeCmd.Flags().StringVar(&catSource, "source", "", "source directory (overrides config)")
	categorizeCmd.Flags().StringVar(&catOutput, "output", "", "output directory (overrides config)")

	// LLM flags
	categorizeCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (anthropic, openai, ollama)")
	categorizeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runCategorize(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if catSource != "" {
		cfg.Paths.SourceDir = catSource
	}
	if catOutput != "" {
		cfg.Paths.OutputDir = catOutput
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	// A missing credential is a fatal precondition, checked before any
	// document is touched.
	if err := resolveAPIKey(&cfg.LLM); err != nil {
		return err
	}

	classifier, err := llm.NewClassifier(llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Timeout:   cfg.LLM.Timeout,
		MaxTokens: cfg.LLM.MaxTokens,
		Taxonomy:  cfg.Taxonomy,
	}, cfg.Batch.RetryAttempts, cfg.Batch.RetryDelay)
	if err != nil {
		return err
	}

	var classificationCache cache.Cache
	if cfg.Cache.Enabled && !catNoCache {
		classificationCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Paragon Categorize\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Source:     %s\n", cfg.Paths.SourceDir)
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", cfg.Paths.OutputDir)
	fmt.Fprintf(os.Stderr, "  LLM:        %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "  Batch size: %d\n", cfg.Batch.Size)
	fmt.Fprintf(os.Stderr, "\n")

	categorizer := categorize.New(cfg, classifier, classificationCache, os.Stderr)

	summary, err := categorizer.Run(context.Background(), categorize.Options{
		DryRun: catDryRun,
		Limit:  catLimit,
		Resume: catResume,
	})
	if err != nil {
		return err
	}

	if summary.Errors > 0 {
		fmt.Fprintf(os.Stderr, "\nCompleted with %d errors (see %s)\n", summary.Errors, cfg.Paths.ResultLogFile())
	}

	return nil
}

// resolveAPIKey fills the credential for the configured provider from the
// environment and fails with an actionable message when it is missing.
func resolveAPIKey(cfg *model.LLMConfig) error {
	switch cfg.Provider {
	case "anthropic", "claude":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set\nAdd the key to your environment:\n  export ANTHROPIC_API_KEY=sk-ant-...")
		}
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set\nAdd the key to your environment:\n  export OPENAI_API_KEY=sk-...")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.BaseURL = baseURL
		}
	}
	return nil
}
