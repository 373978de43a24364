// Package ingest reads files and directories from disk into artifacts.
// Directories are expanded recursively; reads run concurrently but the
// resulting batch preserves the order files were discovered in.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
)

// readConcurrency caps parallel file reads.
const readConcurrency = 8

// Entry pairs a file's location on disk with the relative path it will
// carry through the rest of the pipeline.
type Entry struct {
	AbsPath string
	RelPath string
}

// FileError records a file that could not be ingested.
type FileError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result is the outcome of reading a batch of entries. A failed file
// lands in Errors; it never aborts the rest of the batch.
type Result struct {
	Files  []artifact.Artifact `json:"files"`
	Errors []FileError         `json:"errors,omitempty"`
}

// Collect expands the given paths into a flat list of file entries.
// Plain files keep their base name as relative path; directories are
// walked recursively and contribute paths rooted at the directory name,
// so "src" yields entries like "src/app/main.go". Relative paths always
// use forward slashes.
func Collect(paths []string) ([]Entry, error) {
	var entries []Entry

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			entries = append(entries, Entry{AbsPath: abs, RelPath: info.Name()})
			continue
		}

		root := filepath.Base(abs)
		err = filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(abs, path)
			if err != nil {
				return err
			}
			entries = append(entries, Entry{
				AbsPath: path,
				RelPath: filepath.ToSlash(filepath.Join(root, rel)),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	return entries, nil
}

// Read loads every entry into an artifact. Reads run concurrently; the
// returned batch preserves entry order. PDF files are converted to
// Markdown, with a plain-text fallback artifact when extraction fails.
func Read(ctx context.Context, entries []Entry) Result {
	loaded := make([]*artifact.Artifact, len(entries))
	failures := make([]*FileError, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)

	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = &FileError{Path: e.RelPath, Reason: err.Error()}
				return nil
			}

			if IsPDF(e.RelPath) {
				a := ConvertPDF(e.AbsPath, e.RelPath)
				loaded[i] = &a
				return nil
			}

			raw, err := os.ReadFile(e.AbsPath)
			if err != nil {
				failures[i] = &FileError{Path: e.RelPath, Reason: err.Error()}
				return nil
			}
			a := artifact.New(e.RelPath, string(raw))
			loaded[i] = &a
			return nil
		})
	}

	// Workers only record per-entry failures, so this cannot fail.
	_ = g.Wait()

	var result Result
	for i := range entries {
		if loaded[i] != nil {
			result.Files = append(result.Files, *loaded[i])
		}
		if failures[i] != nil {
			result.Errors = append(result.Errors, *failures[i])
		}
	}
	return result
}

// Ingest collects and reads the given paths in one step.
func Ingest(ctx context.Context, paths []string) (Result, error) {
	entries, err := Collect(paths)
	if err != nil {
		return Result{}, err
	}
	return Read(ctx, entries), nil
}
