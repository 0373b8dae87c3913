package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/akorchak/paragon/internal/model"
)

// Provider defines the interface for LLM classification providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Classify asks the model to place a note in the taxonomy
	Classify(ctx context.Context, req ClassifyRequest) (*model.Classification, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ClassifyRequest contains the input for a classification call
type ClassifyRequest struct {
	// Filename of the note being classified (shown to the model)
	Filename string

	// Content is the (already truncated) note body
	Content string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "anthropic", "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Taxonomy validates classification results; DefaultTaxonomy when nil
	Taxonomy model.Taxonomy
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "anthropic",
		Model:     "",
		Timeout:   30,
		MaxTokens: 500,
	}
}

func (c Config) taxonomy() model.Taxonomy {
	if c.Taxonomy != nil {
		return c.Taxonomy
	}
	return model.DefaultTaxonomy()
}

// classifySystemMessage primes the model before the per-note prompt.
const classifySystemMessage = "You are a document classifier that files personal notes into a fixed PARA taxonomy and returns only JSON."

// BuildPrompt constructs the default classification prompt for a note
func BuildPrompt(filename, content string, tax model.Taxonomy) string {
	var rules strings.Builder
	for _, cat := range tax.Categories() {
		fmt.Fprintf(&rules, "%s → %s\n", cat, strings.Join(tax[cat], " | "))
	}

	return fmt.Sprintf(`You are a document classifier. Analyze the note and return ONLY JSON without markdown formatting.

CATEGORIES:
- areas: ongoing responsibilities (health, finance, family, career)
- resources: reference material, knowledge (data science, programming, business, personal development)
- archive: outdated, completed projects, temporary notes

SUBCATEGORIES:
%s
RULES:
1. If note is about health, fitness, medicine → areas/health
2. If note is about money, investments → areas/finance
3. If note is about work, career, skills → areas/career
4. If note is about family, children → areas/family
5. If note is about ML, Python, SQL, analytics → resources/data-science
6. If note is about code, architecture → resources/programming
7. If note is about business, sales → resources/business
8. If note is about personal growth, values → resources/personal-dev
9. If note is outdated, temporary, empty → archive

RESPONSE FORMAT (JSON only, no %s):
{"category": "resources", "subcategory": "data-science", "tags": ["machine-learning", "python"], "summary": "Brief description"}

NOTE:
---
File: %s
---
%s`, rules.String(), "```json", filename, content)
}
