package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/akorchak/paragon/internal/model"
)

// classifySleepFunc is the sleep function used between retries (injectable for tests)
var classifySleepFunc = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Classifier wraps a Provider with a bounded retry policy. A malformed or
// invalid response is retried up to maxAttempts times with a fixed delay;
// the final failure carries the last underlying error.
type Classifier struct {
	provider    Provider
	config      Config
	maxAttempts int
	retryDelay  time.Duration
}

// NewClassifier creates a classifier for the configured provider
func NewClassifier(config Config, maxAttempts int, retryDelay time.Duration) (*Classifier, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	return &Classifier{
		provider:    provider,
		config:      config,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}, nil
}

// NewClassifierWithProvider creates a classifier around an existing provider
func NewClassifierWithProvider(provider Provider, config Config, maxAttempts int, retryDelay time.Duration) *Classifier {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Classifier{
		provider:    provider,
		config:      config,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// ProviderName returns the name of the underlying provider
func (c *Classifier) ProviderName() string {
	return c.provider.Name()
}

// IsAvailable checks the underlying provider's availability
func (c *Classifier) IsAvailable(ctx context.Context) bool {
	return c.provider.IsAvailable(ctx)
}

// Classify classifies a single note, retrying on failure
func (c *Classifier) Classify(ctx context.Context, filename, content string) (*model.Classification, error) {
	req := ClassifyRequest{
		Filename: filename,
		Content:  content,
		Prompt:   BuildPrompt(filename, content, c.config.taxonomy()),
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		result, err := c.provider.Classify(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < c.maxAttempts {
			if sleepErr := classifySleepFunc(ctx, c.retryDelay); sleepErr != nil {
				return nil, sleepErr
			}
		}
	}

	return nil, fmt.Errorf("classification failed after %d attempts: %w", c.maxAttempts, lastErr)
}
