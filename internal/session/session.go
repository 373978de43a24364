// Package session holds the editor's working state: the four draft
// content sections, the ingested file batch, and the active filter.
// Every change is written through to the key-value store so a restart
// resumes exactly where the user left off.
package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/kvstore"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/ops"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/profile"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/prompt"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/workset"
)

// Draft storage keys.
const (
	keyRole      = "roleContent"
	keyRule      = "ruleContent"
	keyTask      = "taskContent"
	keyOutput    = "outputContent"
	keyFiles     = "draftFiles"
	keyFilter    = "fileFilter"
	scrollPrefix = "scrollPos_"
)

// Session is the restorable editor state.
type Session struct {
	store kvstore.Store
	ws    *workset.WorkSet

	Role   string
	Rule   string
	Task   string
	Output string
}

// Load restores a session from the store. Missing keys start empty;
// a missing filter starts from the default filter configuration.
func Load(store kvstore.Store) (*Session, error) {
	s := &Session{store: store}
	s.Role, _ = store.Get(keyRole)
	s.Rule, _ = store.Get(keyRule)
	s.Task, _ = store.Get(keyTask)
	s.Output, _ = store.Get(keyOutput)

	filter := artifact.DefaultFilter()
	if raw, ok := store.Get(keyFilter); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			return nil, errors.NewStorage(fmt.Errorf("corrupt filter state: %w", err))
		}
	}
	s.ws = workset.New(filter)

	if raw, ok := store.Get(keyFiles); ok && raw != "" {
		var files []artifact.Artifact
		if err := json.Unmarshal([]byte(raw), &files); err != nil {
			return nil, errors.NewStorage(fmt.Errorf("corrupt draft files: %w", err))
		}
		s.ws.Add(files)
	}

	return s, nil
}

// SetRole updates the role section and persists it.
func (s *Session) SetRole(content string) error { return s.setSection(keyRole, &s.Role, content) }

// SetRule updates the rule section and persists it.
func (s *Session) SetRule(content string) error { return s.setSection(keyRule, &s.Rule, content) }

// SetTask updates the task section and persists it.
func (s *Session) SetTask(content string) error { return s.setSection(keyTask, &s.Task, content) }

// SetOutput updates the output-format section and persists it.
func (s *Session) SetOutput(content string) error { return s.setSection(keyOutput, &s.Output, content) }

func (s *Session) setSection(key string, field *string, content string) error {
	*field = content
	if err := s.store.Set(key, content); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// AddFiles merges files into the batch and persists the raw state.
func (s *Session) AddFiles(files []artifact.Artifact) (workset.AddResult, error) {
	res := s.ws.Add(files)
	if res.Added > 0 {
		if err := s.persistFiles(); err != nil {
			return res, err
		}
	}
	return res, nil
}

// RemoveFile drops one file by path.
func (s *Session) RemoveFile(path string) (bool, error) {
	if !s.ws.Remove(path) {
		return false, nil
	}
	return true, s.persistFiles()
}

// ClearFiles empties the batch.
func (s *Session) ClearFiles() error {
	s.ws.Clear()
	return s.persistFiles()
}

// Files returns the filtered view of the batch.
func (s *Session) Files() []artifact.Artifact { return s.ws.Files() }

// RawFiles returns the unfiltered batch.
func (s *Session) RawFiles() []artifact.Artifact { return s.ws.Raw() }

// Filter returns the active filter.
func (s *Session) Filter() artifact.FilterConfig { return s.ws.Filter() }

// FilterStats summarizes the filter's effect on the batch.
func (s *Session) FilterStats() artifact.FilterStats { return s.ws.Stats() }

// SetFilter replaces the filter, re-derives the visible batch, and
// persists the filter.
func (s *Session) SetFilter(f artifact.FilterConfig) error {
	s.ws.SetFilter(f)
	raw, err := json.Marshal(f)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := s.store.Set(keyFilter, string(raw)); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// ApplyProfile overwrites the role, rule, and output sections with the
// profile's content. The task section is the user's own and is kept.
func (s *Session) ApplyProfile(p *profile.Profile) error {
	if err := s.SetRole(p.RoleContent); err != nil {
		return err
	}
	if err := s.SetRule(p.RuleContent); err != nil {
		return err
	}
	if err := s.SetOutput(p.OutputContent); err != nil {
		return err
	}
	if len(p.DefaultFiles) > 0 {
		if _, err := s.AddFiles(p.DefaultFiles); err != nil {
			return err
		}
	}
	return nil
}

// PromptInput builds the generator input from the current drafts and
// the filtered file batch.
func (s *Session) PromptInput() prompt.Input {
	return prompt.Input{
		RoleContent:   s.Role,
		RuleContent:   s.Rule,
		TaskContent:   s.Task,
		OutputContent: s.Output,
		Files:         s.ws.Files(),
	}
}

// Snapshot captures the session as a save request. The record carries
// the filtered file batch, not the raw one.
func (s *Session) Snapshot(title, description string, tags []string) ops.SaveInput {
	return ops.SaveInput{
		Title:         title,
		Description:   description,
		RoleContent:   s.Role,
		RuleContent:   s.Rule,
		TaskContent:   s.Task,
		OutputContent: s.Output,
		Files:         s.ws.Files(),
		Tags:          tags,
	}
}

// LoadRecord replaces the session state with a saved record's content
// and files.
func (s *Session) LoadRecord(r *history.Record) error {
	if err := s.SetRole(r.RoleContent); err != nil {
		return err
	}
	if err := s.SetRule(r.RuleContent); err != nil {
		return err
	}
	if err := s.SetTask(r.TaskContent); err != nil {
		return err
	}
	if err := s.SetOutput(r.OutputContent); err != nil {
		return err
	}
	s.ws.Clear()
	s.ws.Add(r.Files)
	return s.persistFiles()
}

// SetScroll persists an editor scroll position by pane name.
func (s *Session) SetScroll(pane string, position int) error {
	if err := s.store.Set(scrollPrefix+pane, strconv.Itoa(position)); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// Scroll returns the persisted scroll position for a pane, 0 if none.
func (s *Session) Scroll(pane string) int {
	raw, ok := s.store.Get(scrollPrefix + pane)
	if !ok {
		return 0
	}
	position, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return position
}

// Scrolls returns every persisted pane scroll position by pane name.
func (s *Session) Scrolls() map[string]int {
	out := make(map[string]int)
	for _, key := range s.store.Keys() {
		if !strings.HasPrefix(key, scrollPrefix) {
			continue
		}
		pane := strings.TrimPrefix(key, scrollPrefix)
		out[pane] = s.Scroll(pane)
	}
	return out
}

func (s *Session) persistFiles() error {
	raw, err := json.Marshal(s.ws.Raw())
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := s.store.Set(keyFiles, string(raw)); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}
