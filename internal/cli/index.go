package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/akorchak/paragon/internal/index"
	"github.com/akorchak/paragon/internal/model"
)

var indexStatsOnly bool

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the notes index from the taxonomy tree",
	Long: `Scan the taxonomy tree, extract frontmatter metadata from each note, and
write the searchable index plus aggregate statistics.

The index is a cache, fully rebuildable from the notes; this command can
run anytime, independently of categorization.

Example:
  paragon index
  paragon index --stats`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().BoolVar(&indexStatsOnly, "stats", false, "print statistics without writing the index")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	fmt.Fprintf(os.Stderr, "Scanning notes...\n")
	notes, diags := index.Scan(cfg.Paths.OutputDir, cfg.Taxonomy.Categories())

	for _, diag := range diags {
		fmt.Fprintf(os.Stderr, "✗ %s\n", diag)
	}

	fmt.Fprintf(os.Stderr, "Found %d notes\n", len(notes))
	if len(notes) == 0 {
		fmt.Fprintf(os.Stderr, "\nNo notes found. Categorize some documents first:\n")
		fmt.Fprintf(os.Stderr, "  paragon categorize --limit 10\n")
		return nil
	}

	stats := index.BuildStats(notes)

	if !indexStatsOnly {
		if err := index.SaveIndex(cfg.Paths.IndexFile(), notes); err != nil {
			return err
		}
		if err := index.SaveStats(cfg.Paths.StatsFile(), stats); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Index saved: %s\n", cfg.Paths.IndexFile())
		fmt.Fprintf(os.Stderr, "Statistics: %s\n", cfg.Paths.StatsFile())
	}

	printStats(stats)
	return nil
}

func printStats(stats model.Statistics) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Notes Statistics")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("Total notes: %d\n", stats.Total)
	fmt.Printf("Total size: %.1f MB\n", stats.TotalSizeMB)

	fmt.Println("\nBy category:")
	for _, cat := range sortedCountKeys(stats.ByCategory, false) {
		fmt.Printf("  %s: %d\n", cat, stats.ByCategory[cat])
	}

	fmt.Println("\nBy subcategory:")
	for _, subcat := range sortedCountKeys(stats.BySubcategory, true) {
		fmt.Printf("  %s: %d\n", subcat, stats.BySubcategory[subcat])
	}

	if len(stats.ByTag) > 0 {
		fmt.Println("\nTop 20 tags:")
		for i, tag := range sortedCountKeys(stats.ByTag, true) {
			if i >= 20 {
				break
			}
			fmt.Printf("  %d. %s: %d\n", i+1, tag, stats.ByTag[tag])
		}
	}
}

// sortedCountKeys returns map keys sorted alphabetically, or by descending
// count (ties alphabetical) when byCount is set.
func sortedCountKeys(m map[string]int, byCount bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if byCount {
		sort.SliceStable(keys, func(i, j int) bool {
			return m[keys[i]] > m[keys[j]]
		})
	}
	return keys
}
