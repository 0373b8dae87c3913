package model

// Classification is the result of classifying a single note.
// Category/Subcategory must satisfy the taxonomy invariant before a
// classification is accepted.
type Classification struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
}

// NoteEntry is one indexed note. Category and subcategory are derived from
// the note's location in the taxonomy tree, not from its header, so the
// index always reflects where a note actually lives.
type NoteEntry struct {
	File        string   `json:"file"`
	Path        string   `json:"path"` // relative to the output root
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
	Processed   string   `json:"processed"` // YYYY-MM-DD
	Size        int      `json:"size"`      // bytes
}

// Statistics are aggregate counts over the index. ByTag is capped to the
// top entries by frequency (see TopTagsCap).
type Statistics struct {
	Total         int            `json:"total"`
	ByCategory    map[string]int `json:"by_category"`
	BySubcategory map[string]int `json:"by_subcategory"` // "category/subcategory" keys
	ByTag         map[string]int `json:"by_tag"`
	TotalSizeMB   float64        `json:"total_size_mb"`
}

// TopTagsCap limits how many tags the statistics keep.
const TopTagsCap = 50
