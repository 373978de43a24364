package artifact

import "sort"

// FilterStats summarizes the effect of applying a filter to a batch.
type FilterStats struct {
	OriginalCount int     `json:"original_count"`
	FilteredCount int     `json:"filtered_count"`
	ExcludedCount int     `json:"excluded_count"`
	OriginalSize  int64   `json:"original_size"`
	FilteredSize  int64   `json:"filtered_size"`
	ExcludedSize  int64   `json:"excluded_size"`
	ExclusionRate float64 `json:"exclusion_rate"` // percent
}

// Stats computes filter statistics from the original and filtered batches.
func Stats(original, filtered []Artifact) FilterStats {
	s := FilterStats{
		OriginalCount: len(original),
		FilteredCount: len(filtered),
		ExcludedCount: len(original) - len(filtered),
	}
	for _, a := range original {
		s.OriginalSize += a.Size
	}
	for _, a := range filtered {
		s.FilteredSize += a.Size
	}
	s.ExcludedSize = s.OriginalSize - s.FilteredSize
	if s.OriginalCount > 0 {
		s.ExclusionRate = float64(s.ExcludedCount) / float64(s.OriginalCount) * 100
	}
	return s
}

// TypeStat aggregates count and size for one file extension.
type TypeStat struct {
	Extension     string `json:"extension"`
	Count         int    `json:"count"`
	Size          int64  `json:"size"`
	FormattedSize string `json:"formatted_size"`
}

// TypeStats groups a batch by extension, sorted by count descending.
// Extension ties keep first-encountered order.
func TypeStats(files []Artifact) []TypeStat {
	byExt := make(map[string]*TypeStat)
	order := make([]string, 0)

	for _, a := range files {
		ext := a.Extension
		if ext == "" {
			ext = "unknown"
		}
		st, ok := byExt[ext]
		if !ok {
			st = &TypeStat{Extension: ext}
			byExt[ext] = st
			order = append(order, ext)
		}
		st.Count++
		st.Size += a.Size
	}

	result := make([]TypeStat, 0, len(order))
	for _, ext := range order {
		st := byExt[ext]
		st.FormattedSize = FormatFileSize(st.Size)
		result = append(result, *st)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}
