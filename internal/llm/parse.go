package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/akorchak/paragon/internal/model"
)

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// ParseClassification defensively extracts a classification from raw model
// output. The service is not contractually guaranteed to return bare JSON:
// surrounding code fences are stripped and the payload is isolated between
// the first '{' and the last '}'. The parsed result is validated against
// the taxonomy before being accepted.
func ParseClassification(text string, tax model.Taxonomy) (*model.Classification, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = fenceOpen.ReplaceAllString(cleaned, "")
	cleaned = fenceClose.ReplaceAllString(cleaned, "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response: %q", truncateForError(text))
	}

	var c model.Classification
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &c); err != nil {
		return nil, fmt.Errorf("parse classification JSON: %w", err)
	}

	if err := tax.Validate(c.Category, c.Subcategory); err != nil {
		return nil, fmt.Errorf("invalid classification: %w", err)
	}

	if c.Tags == nil {
		c.Tags = []string{}
	}

	return &c, nil
}

func truncateForError(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
