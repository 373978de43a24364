// Package workset holds the in-progress file selection. It keeps every
// ingested artifact in a raw batch and derives the visible view by
// running the current filter over it, so loosening the filter brings
// previously hidden files back without re-reading disk.
package workset

import (
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
)

// WorkSet is the deduplicated raw batch plus its filtered view.
// It is not safe for concurrent use.
type WorkSet struct {
	raw    []artifact.Artifact
	byPath map[string]struct{}
	filter artifact.FilterConfig
	view   []artifact.Artifact
}

// New creates an empty WorkSet using the given filter.
func New(filter artifact.FilterConfig) *WorkSet {
	return &WorkSet{
		byPath: make(map[string]struct{}),
		filter: filter,
	}
}

// AddResult reports how a batch landed in the set.
type AddResult struct {
	Added   int `json:"added"`
	Dropped int `json:"dropped"`
}

// Add merges files into the raw batch. Duplicates are detected by Path;
// the earliest occurrence wins and later ones are dropped, whether the
// duplicate is within the incoming batch or against files already held.
func (w *WorkSet) Add(files []artifact.Artifact) AddResult {
	var res AddResult
	for _, a := range files {
		if _, seen := w.byPath[a.Path]; seen {
			res.Dropped++
			continue
		}
		w.byPath[a.Path] = struct{}{}
		w.raw = append(w.raw, a)
		res.Added++
	}
	if res.Added > 0 {
		w.refresh()
	}
	return res
}

// Remove deletes the file with the given path from the raw batch.
// It reports whether the file was present.
func (w *WorkSet) Remove(path string) bool {
	if _, ok := w.byPath[path]; !ok {
		return false
	}
	delete(w.byPath, path)
	for i, a := range w.raw {
		if a.Path == path {
			w.raw = append(w.raw[:i], w.raw[i+1:]...)
			break
		}
	}
	w.refresh()
	return true
}

// Clear empties the set.
func (w *WorkSet) Clear() {
	w.raw = nil
	w.byPath = make(map[string]struct{})
	w.view = nil
}

// SetFilter replaces the filter and re-derives the view from the raw
// batch.
func (w *WorkSet) SetFilter(f artifact.FilterConfig) {
	w.filter = f
	w.refresh()
}

// Filter returns the active filter.
func (w *WorkSet) Filter() artifact.FilterConfig {
	return w.filter
}

// Files returns the filtered view in ingestion order.
func (w *WorkSet) Files() []artifact.Artifact {
	out := make([]artifact.Artifact, len(w.view))
	copy(out, w.view)
	return out
}

// Raw returns the unfiltered batch in ingestion order.
func (w *WorkSet) Raw() []artifact.Artifact {
	out := make([]artifact.Artifact, len(w.raw))
	copy(out, w.raw)
	return out
}

// Stats summarizes the current filter's effect on the raw batch.
func (w *WorkSet) Stats() artifact.FilterStats {
	return artifact.Stats(w.raw, w.view)
}

func (w *WorkSet) refresh() {
	w.view = w.filter.Apply(w.raw)
}
