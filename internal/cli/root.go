package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/akorchak/paragon/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "paragon",
	Short: "Paragon - PARA knowledge-base pipeline (classify, index, link)",
	Long: `Paragon organizes a collection of markdown notes into the PARA taxonomy
(areas, resources, archive), builds a searchable index of the result, and
renders Map-of-Content hub pages for navigation.

Three independent stages share on-disk state and can each run standalone:

  categorize   classify uncategorized notes with an LLM and file them
               into the taxonomy tree (checkpointed, resumable)
  index        scan the taxonomy tree into a searchable index
  moc          render hub pages from the index

Data flows one way: categorize → taxonomy tree → index → hub pages.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Paragon.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("paragon v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.paragon/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.paragon")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match PARAGON_*
	viper.SetEnvPrefix("PARAGON")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the immutable run configuration from defaults overlaid
// with config-file/env values. Components receive this object; nothing
// reads viper after this point.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	overlayString(&cfg.Paths.SourceDir, "paths.source_dir")
	overlayString(&cfg.Paths.OutputDir, "paths.output_dir")
	overlayString(&cfg.Paths.DataDir, "paths.data_dir")
	overlayString(&cfg.Paths.MOCDir, "paths.moc_dir")

	overlayInt(&cfg.Batch.Size, "batch.size")
	overlayInt(&cfg.Batch.MaxContentLength, "batch.max_content_length")
	overlayInt(&cfg.Batch.RetryAttempts, "batch.retry_attempts")
	overlayDuration(&cfg.Batch.RetryDelay, "batch.retry_delay")
	overlayFloat(&cfg.Batch.RequestsPerSecond, "batch.requests_per_second")

	overlayString(&cfg.LLM.Provider, "llm.provider")
	overlayString(&cfg.LLM.Model, "llm.model")
	overlayString(&cfg.LLM.BaseURL, "llm.base_url")
	overlayInt(&cfg.LLM.Timeout, "llm.timeout")
	overlayInt(&cfg.LLM.MaxTokens, "llm.max_tokens")

	overlayInt(&cfg.MOC.MinTagNotes, "moc.min_tag_notes")
	overlayInt(&cfg.MOC.TopTags, "moc.top_tags")

	overlayBool(&cfg.Cache.Enabled, "cache.enabled")
	overlayString(&cfg.Cache.Dir, "cache.dir")
	overlayDuration(&cfg.Cache.TTL, "cache.ttl")

	cfg.Verbose = viper.GetBool("verbose")

	return cfg
}

func overlayString(dst *string, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetString(key)
	}
}

func overlayInt(dst *int, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetInt(key)
	}
}

func overlayFloat(dst *float64, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetFloat64(key)
	}
}

func overlayBool(dst *bool, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetBool(key)
	}
}

func overlayDuration(dst *time.Duration, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetDuration(key)
	}
}
