package prompt

import (
	"strings"
	"testing"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
)

func TestGenerate_FullPrompt(t *testing.T) {
	got := Generate(Input{
		RoleContent: "你是审查者",
		RuleContent: "保持简洁",
		TaskContent: "审查代码",
		Files: []artifact.Artifact{
			artifact.New("src/main.go", "package main\n"),
		},
	})

	want := "# 角色\n你是审查者\n\n" +
		"# 规则\n保持简洁\n\n" +
		"# 任务\n审查代码\n\n" +
		"```src/main.go\npackage main\n```"
	if got != want {
		t.Errorf("Generate =\n%q\nwant\n%q", got, want)
	}
}

func TestGenerate_SkipsEmptySections(t *testing.T) {
	got := Generate(Input{TaskContent: "only a task"})

	if strings.Contains(got, "# 角色") || strings.Contains(got, "# 输出格式") {
		t.Errorf("empty sections should be omitted, got %q", got)
	}
	if got != "# 任务\nonly a task" {
		t.Errorf("Generate = %q", got)
	}
}

func TestGenerate_SkipsEmptyFiles(t *testing.T) {
	got := Generate(Input{
		TaskContent: "t",
		Files: []artifact.Artifact{
			artifact.New("empty.txt", "   \n"),
			artifact.New("real.txt", "content"),
		},
	})
	if strings.Contains(got, "empty.txt") {
		t.Errorf("whitespace-only file should be omitted, got %q", got)
	}
	if !strings.Contains(got, "```real.txt\ncontent\n```") {
		t.Errorf("file block missing, got %q", got)
	}
}

func TestTokenCount(t *testing.T) {
	// 7 characters / 3.5 = exactly 2.
	if got := TokenCount(Input{TaskContent: "abcdefg"}); got != 2 {
		t.Errorf("TokenCount(7 chars) = %d, want 2", got)
	}
	// 8 characters / 3.5 rounds up to 3.
	if got := TokenCount(Input{TaskContent: "abcdefgh"}); got != 3 {
		t.Errorf("TokenCount(8 chars) = %d, want 3", got)
	}
	// Line breaks do not count.
	if got := TokenCount(Input{TaskContent: "abc\r\ndefg"}); got != 2 {
		t.Errorf("TokenCount with line breaks = %d, want 2", got)
	}
	// CJK counts one per rune.
	if got := TokenCount(Input{TaskContent: "中文内容测试哦"}); got != 2 {
		t.Errorf("TokenCount(7 CJK runes) = %d, want 2", got)
	}
	if got := TokenCount(Input{}); got != 0 {
		t.Errorf("TokenCount(empty) = %d, want 0", got)
	}
}

func TestFormatTokenCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1k"},
		{1500, "1.5k"},
		{9999, "10k"},
		{10000, "1万"},
		{123456, "12.3万"},
	}
	for _, tt := range tests {
		if got := FormatTokenCount(tt.count); got != tt.want {
			t.Errorf("FormatTokenCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestValidateStructure(t *testing.T) {
	full := Generate(Input{
		RoleContent: "r", RuleContent: "u", TaskContent: "t",
	})
	if !ValidateStructure(full) {
		t.Error("prompt with role, rule, and task should validate")
	}

	partial := Generate(Input{TaskContent: "t"})
	if ValidateStructure(partial) {
		t.Error("prompt missing role and rule should not validate")
	}
}

func TestRenderHTML(t *testing.T) {
	html := string(RenderHTML("# 标题\n\nsome **bold** text"))
	if !strings.Contains(html, "<h1>") {
		t.Errorf("heading not rendered: %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("emphasis not rendered: %q", html)
	}
}
