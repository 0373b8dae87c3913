// Package util holds small helpers shared across stages.
package util

import "strings"

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// SanitizeFilename makes a tag or subcategory value safe to embed in an
// output filename. Tags come from an external model, so a path separator or
// a leading dot must never escape the intended output directory.
func SanitizeFilename(s string) string {
	s = filenameReplacer.Replace(s)
	s = strings.TrimLeft(s, ".")

	if s == "" {
		s = "_"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
