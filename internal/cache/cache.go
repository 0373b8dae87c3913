// Package cache stores classification results keyed by note content, so an
// interrupted or repeated run never pays for the same API call twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentKey generates a cache key from note content. The key depends only
// on the bytes sent to the classifier, so renaming a note does not miss.
func ContentKey(content string) string {
	hash := sha256.Sum256([]byte(content))
	return "paragon:v1:" + hex.EncodeToString(hash[:])
}
