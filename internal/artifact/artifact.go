package artifact

import (
	"fmt"
	"math"
	"path"
	"strings"
)

// Artifact is one ingested file's metadata and text content.
// Path is the dedup key within a working set; slash-separated so that
// directory-sourced files keep their nesting visible.
type Artifact struct {
	// Name is the base file name
	Name string `json:"name"`

	// Path is the full relative path, directory-qualified
	Path string `json:"path"`

	// Size is the byte length of the content at ingestion time
	Size int64 `json:"size"`

	// Extension is the lower-cased suffix including the leading dot
	Extension string `json:"extension"`

	// Content is the decoded text (or generated Markdown for PDF-derived artifacts)
	Content string `json:"content"`
}

// New builds an Artifact from a path and its text content.
func New(relPath, content string) Artifact {
	name := path.Base(relPath)
	return Artifact{
		Name:      name,
		Path:      relPath,
		Size:      int64(len(content)),
		Extension: ExtensionOf(name),
		Content:   content,
	}
}

// ExtensionOf returns the lower-cased suffix after the last dot in a base
// name, prefixed with a dot. A dotless name counts as its own extension
// (Dockerfile -> .dockerfile), so well-known extensionless files can be
// allow-listed.
func ExtensionOf(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		if name == "" {
			return ""
		}
		return "." + strings.ToLower(name)
	}
	return strings.ToLower(name[idx:])
}

// FormatFileSize renders a byte count as a human-readable string.
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	s := fmt.Sprintf("%.2f", value)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + " " + units[i]
}
