package workset

import (
	"testing"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
)

func permissive() artifact.FilterConfig {
	return artifact.FilterConfig{MaxFileSize: 1 << 20}
}

func file(path, content string) artifact.Artifact {
	return artifact.New(path, content)
}

func TestAdd_FirstWriteWins(t *testing.T) {
	w := New(permissive())

	res := w.Add([]artifact.Artifact{
		file("a.go", "first"),
		file("a.go", "second"),
		file("b.go", "x"),
	})
	if res.Added != 2 || res.Dropped != 1 {
		t.Fatalf("Add = %+v, want Added=2 Dropped=1", res)
	}

	// A later batch cannot overwrite an existing path either.
	res = w.Add([]artifact.Artifact{file("a.go", "third")})
	if res.Added != 0 || res.Dropped != 1 {
		t.Fatalf("second Add = %+v, want Added=0 Dropped=1", res)
	}

	files := w.Files()
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].Content != "first" {
		t.Errorf("earliest occurrence should win, got %q", files[0].Content)
	}
}

func TestSetFilter_RecoversHiddenFiles(t *testing.T) {
	w := New(permissive())
	w.Add([]artifact.Artifact{
		file("src/a.ts", "x"),
		file("node_modules/b.ts", "y"),
	})

	strict := permissive()
	strict.ExcludePatterns = []string{"node_modules"}
	w.SetFilter(strict)

	if n := len(w.Files()); n != 1 {
		t.Fatalf("filtered view = %d files, want 1", n)
	}

	// Loosening the filter restores the hidden file without re-adding.
	w.SetFilter(permissive())
	if n := len(w.Files()); n != 2 {
		t.Fatalf("after loosening, view = %d files, want 2", n)
	}
	if n := len(w.Raw()); n != 2 {
		t.Fatalf("raw batch = %d files, want 2", n)
	}
}

func TestRemoveAndClear(t *testing.T) {
	w := New(permissive())
	w.Add([]artifact.Artifact{file("a.go", "x"), file("b.go", "y")})

	if !w.Remove("a.go") {
		t.Error("Remove of present path should report true")
	}
	if w.Remove("a.go") {
		t.Error("Remove of absent path should report false")
	}
	if n := len(w.Files()); n != 1 {
		t.Fatalf("after Remove, %d files, want 1", n)
	}

	// Removed path can be re-added.
	res := w.Add([]artifact.Artifact{file("a.go", "fresh")})
	if res.Added != 1 {
		t.Errorf("re-add after Remove = %+v, want Added=1", res)
	}

	w.Clear()
	if len(w.Files()) != 0 || len(w.Raw()) != 0 {
		t.Error("Clear should empty both raw batch and view")
	}
}

func TestStats(t *testing.T) {
	strict := permissive()
	strict.ExcludePatterns = []string{"vendor"}

	w := New(strict)
	w.Add([]artifact.Artifact{
		file("a.go", "12345"),
		file("vendor/b.go", "123"),
	})

	s := w.Stats()
	if s.OriginalCount != 2 || s.FilteredCount != 1 || s.ExcludedCount != 1 {
		t.Errorf("Stats = %+v, want 2/1/1 counts", s)
	}
	if s.OriginalSize != 8 || s.FilteredSize != 5 {
		t.Errorf("Stats sizes = %d/%d, want 8/5", s.OriginalSize, s.FilteredSize)
	}
}
