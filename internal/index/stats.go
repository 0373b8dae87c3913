package index

import (
	"sort"

	"github.com/akorchak/paragon/internal/model"
)

// BuildStats aggregates statistics from the index. ByTag keeps only the top
// model.TopTagsCap tags by frequency (ties broken alphabetically so the
// result is deterministic).
func BuildStats(notes []model.NoteEntry) model.Statistics {
	stats := model.Statistics{
		Total:         len(notes),
		ByCategory:    make(map[string]int),
		BySubcategory: make(map[string]int),
		ByTag:         make(map[string]int),
	}

	totalSize := 0
	tagCounts := make(map[string]int)

	for _, note := range notes {
		stats.ByCategory[note.Category]++
		stats.BySubcategory[note.Category+"/"+note.Subcategory]++
		totalSize += note.Size

		for _, tag := range note.Tags {
			if tag != "" {
				tagCounts[tag]++
			}
		}
	}

	stats.TotalSizeMB = float64(totalSize) / (1024 * 1024)

	type tagCount struct {
		tag   string
		count int
	}
	sorted := make([]tagCount, 0, len(tagCounts))
	for tag, count := range tagCounts {
		sorted = append(sorted, tagCount{tag, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].tag < sorted[j].tag
	})

	for i, tc := range sorted {
		if i >= model.TopTagsCap {
			break
		}
		stats.ByTag[tc.tag] = tc.count
	}

	return stats
}

// TopTags returns up to n tags from the index ordered by descending
// frequency, ties broken alphabetically.
func TopTags(notes []model.NoteEntry, n int) []string {
	counts := make(map[string]int)
	for _, note := range notes {
		for _, tag := range note.Tags {
			if tag != "" {
				counts[tag]++
			}
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if n > 0 && len(tags) > n {
		tags = tags[:n]
	}
	return tags
}
