package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akorchak/paragon/internal/index"
	"github.com/akorchak/paragon/internal/moc"
)

var mocPreview bool

// mocCmd represents the moc command
var mocCmd = &cobra.Command{
	Use:   "moc",
	Short: "Generate Map-of-Content hub pages from the index",
	Long: `Render hub pages for navigating the knowledge base: a main index hub,
one hub per subcategory, and one hub per tag that appears on enough notes.

Hubs are generated from the persisted index only, never from the notes
themselves. Run 'paragon index' first.

Example:
  paragon moc
  paragon moc --preview`,
	RunE: runMOC,
}

func init() {
	rootCmd.AddCommand(mocCmd)

	mocCmd.Flags().BoolVar(&mocPreview, "preview", false, "print truncated hub content without writing files")
}

func runMOC(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	fmt.Fprintf(os.Stderr, "Loading index...\n")
	notes, err := index.LoadIndex(cfg.Paths.IndexFile())
	if err != nil {
		return err
	}

	if len(notes) == 0 {
		fmt.Fprintf(os.Stderr, "\nNo notes in index. Run these commands first:\n")
		fmt.Fprintf(os.Stderr, "  paragon categorize --limit 10\n")
		fmt.Fprintf(os.Stderr, "  paragon index\n")
		return nil
	}

	fmt.Fprintf(os.Stderr, "Loaded %d notes\n", len(notes))

	generator := moc.NewGenerator(cfg.MOC)
	hubs := generator.Generate(notes)

	if mocPreview {
		moc.PreviewHubs(os.Stdout, hubs)
		return nil
	}

	if err := moc.WriteHubs(cfg.Paths.MOCDir, hubs); err != nil {
		return err
	}

	for _, hub := range hubs {
		fmt.Fprintf(os.Stderr, "  Created: %s\n", hub.Filename)
	}
	fmt.Fprintf(os.Stderr, "\nMOC files created in: %s\n", cfg.Paths.MOCDir)

	return nil
}
