package model

import "time"

// Config is the complete Paragon configuration. It is constructed once at
// startup and passed to each component; nothing reads ambient state after
// that.
type Config struct {
	Paths PathsConfig `yaml:"paths" mapstructure:"paths"`
	Batch BatchConfig `yaml:"batch" mapstructure:"batch"`
	LLM   LLMConfig   `yaml:"llm" mapstructure:"llm"`
	MOC   MOCConfig   `yaml:"moc" mapstructure:"moc"`
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	Taxonomy Taxonomy `yaml:"taxonomy" mapstructure:"taxonomy"`

	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// PathsConfig holds the shared on-disk layout all three stages agree on.
type PathsConfig struct {
	SourceDir string `yaml:"source_dir" mapstructure:"source_dir"` // uncategorized notes
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"` // taxonomy tree root
	DataDir   string `yaml:"data_dir" mapstructure:"data_dir"`     // checkpoint, logs, index
	MOCDir    string `yaml:"moc_dir" mapstructure:"moc_dir"`       // generated hub pages
}

// CheckpointFile returns the checkpoint path under the data directory.
func (p PathsConfig) CheckpointFile() string { return p.DataDir + "/checkpoint.json" }

// ResultLogFile returns the categorization log path.
func (p PathsConfig) ResultLogFile() string { return p.DataDir + "/categorization.json" }

// IndexFile returns the notes index path.
func (p PathsConfig) IndexFile() string { return p.DataDir + "/notes_index.json" }

// StatsFile returns the notes statistics path.
func (p PathsConfig) StatsFile() string { return p.DataDir + "/notes_stats.json" }

// SearchDBFile returns the SQLite search database path.
func (p PathsConfig) SearchDBFile() string { return p.DataDir + "/search.db" }

// BatchConfig controls the categorization batch workflow.
type BatchConfig struct {
	Size              int           `yaml:"size" mapstructure:"size"`                               // checkpoint flush cadence
	MaxContentLength  int           `yaml:"max_content_length" mapstructure:"max_content_length"`   // bytes sent to the classifier
	RetryAttempts     int           `yaml:"retry_attempts" mapstructure:"retry_attempts"`           // per-document classification attempts
	RetryDelay        time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`                 // between attempts
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // inter-document rate limit
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// LLMConfig selects and configures the classification provider.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // anthropic, openai, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // from environment only, never persisted
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// MOCConfig controls hub generation.
type MOCConfig struct {
	MinTagNotes int `yaml:"min_tag_notes" mapstructure:"min_tag_notes"` // threshold for per-tag hubs
	TopTags     int `yaml:"top_tags" mapstructure:"top_tags"`           // tags listed on the main hub
}

// CacheConfig controls the classification cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			SourceDir: "input",
			OutputDir: "output",
			DataDir:   "data",
			MOCDir:    "output/_MOC",
		},
		Batch: BatchConfig{
			Size:              10,
			MaxContentLength:  4000,
			RetryAttempts:     3,
			RetryDelay:        2 * time.Second,
			RequestsPerSecond: 2,
			Burst:             1,
		},
		LLM: LLMConfig{
			Provider:  "anthropic",
			Model:     "claude-sonnet-4-20250514",
			Timeout:   30,
			MaxTokens: 500,
		},
		MOC: MOCConfig{
			MinTagNotes: 5,
			TopTags:     15,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "data/cache",
			TTL:     30 * 24 * time.Hour,
		},
		Taxonomy: DefaultTaxonomy(),
	}
}
