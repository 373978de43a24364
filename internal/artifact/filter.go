package artifact

import (
	"regexp"
	"strings"
)

// FilterConfig is the rule set deciding which ingested files are retained.
// An empty AllowedExtensions set accepts every extension; an empty
// IncludePatterns list includes everything. ExcludePatterns always narrows.
type FilterConfig struct {
	AllowedExtensions  []string `json:"allowedExtensions"`
	MaxFileSize        int64    `json:"maxFileSize"`
	ExcludePatterns    []string `json:"excludePatterns"`
	IncludePatterns    []string `json:"includePatterns"`
	ExcludeEmptyFiles  bool     `json:"excludeEmptyFiles"`
	ExcludeBinaryFiles bool     `json:"excludeBinaryFiles"`
}

// DefaultFilter returns the product's default filter configuration.
func DefaultFilter() FilterConfig {
	return FilterConfig{
		AllowedExtensions: []string{
			".ts", ".tsx", ".js", ".jsx", ".vue", ".py", ".java", ".cpp", ".c", ".h",
			".cs", ".php", ".rb", ".go", ".rs", ".swift", ".kt", ".scala", ".clj",
			".html", ".css", ".scss", ".sass", ".less", ".xml", ".json", ".yaml", ".yml",
			".md", ".txt", ".sql", ".sh", ".bat", ".ps1", ".dockerfile", ".gitignore",
			".env", ".config", ".ini", ".toml", ".lock",
		},
		MaxFileSize: 1024 * 1024,
		ExcludePatterns: []string{
			"node_modules",
			`\.git`,
			"dist",
			"build",
			"coverage",
			`\.DS_Store`,
			`Thumbs\.db`,
			`\.log$`,
			`\.tmp$`,
			`\.cache`,
		},
		IncludePatterns:    []string{},
		ExcludeEmptyFiles:  true,
		ExcludeBinaryFiles: true,
	}
}

// Pass reports whether a single artifact survives the filter. Checks are
// applied in a fixed order; the first failing check rejects.
func (f FilterConfig) Pass(a Artifact) bool {
	if a.Size > f.MaxFileSize {
		return false
	}
	if f.ExcludeEmptyFiles && len(strings.TrimSpace(a.Content)) == 0 {
		return false
	}
	if f.ExcludeBinaryFiles && IsBinary(a.Content) {
		return false
	}
	if !allowedExtension(a.Name, f.AllowedExtensions) {
		return false
	}
	if matchesAny(a.Path, f.ExcludePatterns) {
		return false
	}
	if len(f.IncludePatterns) > 0 && !matchesAny(a.Path, f.IncludePatterns) {
		return false
	}
	return true
}

// Apply filters a batch, preserving input order.
func (f FilterConfig) Apply(files []Artifact) []Artifact {
	result := make([]Artifact, 0, len(files))
	for _, a := range files {
		if f.Pass(a) {
			result = append(result, a)
		}
	}
	return result
}

// IsBinary classifies content as binary if it contains any NUL character,
// or if more than 30% of its characters fall in the control/high ranges
// 0x00-0x08, 0x0E-0x1F, 0x7F-0xFF.
func IsBinary(content string) bool {
	if content == "" {
		return false
	}

	total := 0
	nonPrintable := 0
	for _, r := range content {
		total++
		if r == 0 {
			return true
		}
		if r <= 0x08 || (r >= 0x0E && r <= 0x1F) || (r >= 0x7F && r <= 0xFF) {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(total) > 0.3
}

// allowedExtension checks the file's extension against the allow-list.
// An empty list accepts everything; comparison is case-insensitive.
func allowedExtension(name string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext := ExtensionOf(name)
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

// matchesAny reports whether the path matches at least one pattern.
// Patterns are case-insensitive regular expressions; a pattern that fails
// to compile degrades to case-insensitive substring containment.
func matchesAny(filePath string, patterns []string) bool {
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			if strings.Contains(strings.ToLower(filePath), strings.ToLower(pattern)) {
				return true
			}
			continue
		}
		if re.MatchString(filePath) {
			return true
		}
	}
	return false
}
