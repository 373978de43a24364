// Package prompt assembles the final prompt text from the four content
// sections and the attached files, and estimates its token cost.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
)

// Section headings in output order.
const (
	headingRole   = "# 角色"
	headingRule   = "# 规则"
	headingTask   = "# 任务"
	headingOutput = "# 输出格式"
)

// Input carries the draft content a prompt is generated from.
type Input struct {
	RoleContent   string
	RuleContent   string
	TaskContent   string
	OutputContent string
	Files         []artifact.Artifact
}

// Generate builds the full prompt. Empty sections are omitted
// entirely; each attached file becomes a fenced block whose info
// string is the file path. Sections are joined by blank lines.
func Generate(in Input) string {
	sections := make([]string, 0, 4+len(in.Files))

	for _, s := range []struct {
		heading string
		content string
	}{
		{headingRole, in.RoleContent},
		{headingRule, in.RuleContent},
		{headingTask, in.TaskContent},
		{headingOutput, in.OutputContent},
	} {
		content := strings.TrimSpace(s.content)
		if content == "" {
			continue
		}
		sections = append(sections, s.heading+"\n"+content)
	}

	for _, f := range in.Files {
		content := strings.TrimSpace(f.Content)
		if content == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("```%s\n%s\n```", f.Path, content))
	}

	return strings.Join(sections, "\n\n")
}

// TokenCount estimates the token cost of the draft: all content is
// merged, line breaks are ignored, and the remaining character count
// is divided by 3.5 and rounded up.
func TokenCount(in Input) int {
	parts := make([]string, 0, 4+len(in.Files))
	parts = append(parts,
		strings.TrimSpace(in.RoleContent),
		strings.TrimSpace(in.RuleContent),
		strings.TrimSpace(in.TaskContent),
		strings.TrimSpace(in.OutputContent),
	)
	for _, f := range in.Files {
		parts = append(parts, strings.TrimSpace(f.Content))
	}
	merged := strings.Join(parts, "\n\n")

	chars := 0
	for _, r := range merged {
		if r == '\r' || r == '\n' {
			continue
		}
		chars++
	}
	if chars == 0 {
		return 0
	}
	// ceil(chars / 3.5) without floating point
	return (chars*2 + 6) / 7
}

// FormatTokenCount humanizes a token count: 10000 and up in 万, 1000
// and up in k, one decimal place with a trailing .0 dropped.
func FormatTokenCount(count int) string {
	withUnit := func(value float64, unit string) string {
		s := fmt.Sprintf("%.1f", value)
		s = strings.TrimSuffix(s, ".0")
		return s + unit
	}

	switch {
	case count >= 10000:
		return withUnit(float64(count)/10000, "万")
	case count >= 1000:
		return withUnit(float64(count)/1000, "k")
	default:
		return fmt.Sprintf("%d", count)
	}
}

// ValidateStructure reports whether a generated prompt carries the
// role, rule, and task sections.
func ValidateStructure(prompt string) bool {
	for _, heading := range []string{headingRole, headingRule, headingTask} {
		if !strings.Contains(prompt, heading) {
			return false
		}
	}
	return true
}
