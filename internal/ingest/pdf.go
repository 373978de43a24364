package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
)

// IsPDF reports whether the path names a PDF file.
func IsPDF(path string) bool {
	return strings.EqualFold(artifact.ExtensionOf(path), ".pdf")
}

// ConvertPDF extracts a PDF's text into a Markdown artifact named after
// the source file with a .md extension. When extraction fails, it
// returns a .txt fallback artifact describing the failure instead, so
// the file still shows up in the batch.
func ConvertPDF(absPath, relPath string) artifact.Artifact {
	content, err := extractMarkdown(absPath, relPath)
	if err != nil {
		return pdfFallback(absPath, relPath, err)
	}
	a := artifact.New(swapExtension(relPath, ".md"), content)
	return a
}

func extractMarkdown(absPath, relPath string) (string, error) {
	f, r, err := pdf.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", baseName(relPath))
	fmt.Fprintf(&b, "Pages: %d\n", pages)

	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		fmt.Fprintf(&b, "\n## Page %d\n\n", i)
		text, err := p.GetPlainText(nil)
		if err != nil {
			fmt.Fprintf(&b, "(failed to extract text: %v)\n", err)
			continue
		}
		b.WriteString(strings.TrimSpace(text))
		b.WriteString("\n")
	}

	return b.String(), nil
}

// pdfFallback builds the placeholder artifact for an unreadable PDF.
func pdfFallback(absPath, relPath string, cause error) artifact.Artifact {
	var size int64
	if info, err := os.Stat(absPath); err == nil {
		size = info.Size()
	}

	content := fmt.Sprintf(
		"%s\n\nPDF text extraction failed: %v\nOriginal size: %s\n",
		baseName(relPath), cause, artifact.FormatFileSize(size),
	)
	return artifact.New(swapExtension(relPath, ".txt"), content)
}

// swapExtension replaces the path's dot suffix, or appends when the
// path has none.
func swapExtension(path, ext string) string {
	old := artifact.ExtensionOf(path)
	if old == "" || !strings.HasSuffix(strings.ToLower(path), old) {
		return path + ext
	}
	return path[:len(path)-len(old)] + ext
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
