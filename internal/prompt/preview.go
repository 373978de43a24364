package prompt

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
)

// RenderHTML converts a generated prompt to HTML for preview. On a
// conversion failure the raw text is returned escaped.
func RenderHTML(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
