package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akorchak/paragon/internal/index"
)

var (
	searchTag      string
	searchCategory string
	searchLimit    int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the notes index",
	Long: `Search indexed notes by full-text query over title, summary and tags,
optionally narrowed by tag or category.

The search database is a disposable SQLite projection of the JSON index,
rebuilt on every invocation; run 'paragon index' after categorizing to
refresh it.

Example:
  paragon search "machine learning"
  paragon search python --category resources
  paragon search --tag sql --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchTag, "tag", "", "only notes carrying this tag")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "only notes in this category")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	var query string
	if len(args) > 0 {
		query = args[0]
	}
	if query == "" && searchTag == "" && searchCategory == "" {
		return fmt.Errorf("nothing to search for: give a query, --tag or --category")
	}

	cfg := loadConfig()
	ctx := context.Background()

	notes, err := index.LoadIndex(cfg.Paths.IndexFile())
	if err != nil {
		return err
	}

	store, err := index.OpenSearchStore(cfg.Paths.SearchDBFile())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Rebuild(ctx, notes); err != nil {
		return fmt.Errorf("rebuild search index: %w", err)
	}

	results, err := store.Search(ctx, query, searchTag, searchCategory, searchLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matching notes")
		return nil
	}

	fmt.Printf("Found %d notes:\n\n", len(results))
	for _, n := range results {
		fmt.Printf("- %s (%s/%s)\n", n.Title, n.Category, n.Subcategory)
		if n.Summary != "" {
			fmt.Printf("  %s\n", n.Summary)
		}
		if len(n.Tags) > 0 {
			fmt.Printf("  tags: %s\n", strings.Join(n.Tags, ", "))
		}
		fmt.Printf("  %s\n", n.Path)
	}

	return nil
}
