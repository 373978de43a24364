package profile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/kvstore"
)

const (
	storageKey        = "prompt_profiles"
	currentProfileKey = "current_profile"
)

// Manager reads and writes profiles through a key-value store. All
// profiles are held under one key as a JSON array; the current
// selection is a separate key holding a profile ID.
type Manager struct {
	store kvstore.Store
}

// NewManager creates a Manager over the given store.
func NewManager(store kvstore.Store) *Manager {
	return &Manager{store: store}
}

// All returns every profile. On first use the built-in presets are
// seeded; if a built-in was lost (for example a partially imported
// state file), it is re-added. Repeated calls are idempotent.
func (m *Manager) All() ([]Profile, error) {
	raw, ok := m.store.Get(storageKey)
	if !ok || raw == "" {
		seeded := stampAll(DefaultProfiles())
		if err := m.persist(seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}

	var profiles []Profile
	if err := json.Unmarshal([]byte(raw), &profiles); err != nil {
		return nil, errors.NewStorage(fmt.Errorf("corrupt profile store: %w", err))
	}

	existing := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		existing[p.ID] = true
	}
	missing := false
	for _, d := range stampAll(DefaultProfiles()) {
		if !existing[d.ID] {
			profiles = append(profiles, d)
			missing = true
		}
	}
	if missing {
		if err := m.persist(profiles); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// Get returns the profile with the given ID.
func (m *Manager) Get(id string) (*Profile, error) {
	profiles, err := m.All()
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ID == id {
			return &profiles[i], nil
		}
	}
	return nil, errors.NewNotFound(id)
}

// Save inserts or replaces a profile and stamps UpdatedAt. CreatedAt
// is stamped only when unset.
func (m *Manager) Save(p Profile) (*Profile, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, errors.NewInvalidRequest("profile id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.NewInvalidRequest("profile name is required")
	}

	profiles, err := m.All()
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	p.UpdatedAt = now
	if p.CreatedAt == 0 {
		p.CreatedAt = now
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	replaced := false
	for i := range profiles {
		if profiles[i].ID == p.ID {
			profiles[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		profiles = append(profiles, p)
	}

	if err := m.persist(profiles); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a profile and reports whether anything was removed.
// Built-in presets are refused; a missing id is a benign no-op. When
// the deleted profile was the current selection, the selection is
// cleared.
func (m *Manager) Delete(id string) (bool, error) {
	profiles, err := m.All()
	if err != nil {
		return false, err
	}

	index := -1
	for i := range profiles {
		if profiles[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return false, nil
	}
	if profiles[index].IsDefault {
		return false, errors.NewProtected(id)
	}

	profiles = append(profiles[:index], profiles[index+1:]...)
	if err := m.persist(profiles); err != nil {
		return false, err
	}

	if current, _ := m.store.Get(currentProfileKey); current == id {
		if err := m.store.Delete(currentProfileKey); err != nil {
			return false, errors.NewStorage(err)
		}
	}
	return true, nil
}

// Duplicate copies a profile under a fresh ID. The copy is never a
// built-in, so it can be edited and deleted freely. An empty newName
// derives one from the original.
func (m *Manager) Duplicate(id, newName string) (*Profile, error) {
	original, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	copied := *original
	copied.ID = fmt.Sprintf("%s_copy_%d", original.ID, now)
	copied.Name = newName
	if copied.Name == "" {
		copied.Name = original.Name + " (副本)"
	}
	copied.CreatedAt = now
	copied.UpdatedAt = now
	copied.IsDefault = false

	return m.Save(copied)
}

// Search filters and orders profiles. Keyword matches name,
// description, or any tag, case-insensitively. A record matches the
// tag predicate when it carries at least one requested tag.
func (m *Manager) Search(filter SearchFilter) ([]Profile, error) {
	profiles, err := m.All()
	if err != nil {
		return nil, err
	}

	matched := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if matchesProfile(p, filter) {
			matched = append(matched, p)
		}
	}

	sortProfiles(matched, filter.SortBy, filter.SortOrder)
	return matched, nil
}

func matchesProfile(p Profile, filter SearchFilter) bool {
	if filter.Keyword != "" {
		keyword := strings.ToLower(filter.Keyword)
		hit := strings.Contains(strings.ToLower(p.Name), keyword) ||
			strings.Contains(strings.ToLower(p.Description), keyword)
		if !hit {
			for _, tag := range p.Tags {
				if strings.Contains(strings.ToLower(tag), keyword) {
					hit = true
					break
				}
			}
		}
		if !hit {
			return false
		}
	}

	if filter.Category != "" && p.Category != filter.Category {
		return false
	}

	if len(filter.Tags) > 0 {
		found := false
		for _, want := range filter.Tags {
			for _, have := range p.Tags {
				if want == have {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func sortProfiles(profiles []Profile, sortBy, sortOrder string) {
	var less func(a, b Profile) bool
	switch sortBy {
	case "name":
		less = func(a, b Profile) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case "createdAt":
		less = func(a, b Profile) bool { return a.CreatedAt < b.CreatedAt }
	case "updatedAt":
		less = func(a, b Profile) bool { return a.UpdatedAt < b.UpdatedAt }
	default:
		return
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		if sortOrder == "desc" {
			return less(profiles[j], profiles[i])
		}
		return less(profiles[i], profiles[j])
	})
}

// CurrentID returns the selected profile ID, or empty when none.
func (m *Manager) CurrentID() string {
	id, _ := m.store.Get(currentProfileKey)
	return id
}

// SetCurrent selects a profile. An empty ID clears the selection.
func (m *Manager) SetCurrent(id string) error {
	if id == "" {
		if err := m.store.Delete(currentProfileKey); err != nil {
			return errors.NewStorage(err)
		}
		return nil
	}
	if _, err := m.Get(id); err != nil {
		return err
	}
	if err := m.store.Set(currentProfileKey, id); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// Current returns the selected profile. When nothing is selected, the
// first built-in (or failing that, the first profile) becomes the
// selection and is persisted.
func (m *Manager) Current() (*Profile, error) {
	if id := m.CurrentID(); id != "" {
		p, err := m.Get(id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		// Stale pointer: fall through to the default.
	}

	profiles, err := m.All()
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, errors.NewNotFound("current profile")
	}

	chosen := profiles[0]
	for _, p := range profiles {
		if p.IsDefault {
			chosen = p
			break
		}
	}
	if err := m.store.Set(currentProfileKey, chosen.ID); err != nil {
		return nil, errors.NewStorage(err)
	}
	return &chosen, nil
}

// ExportData is the profile export envelope.
type ExportData struct {
	Version    string    `json:"version"`
	ExportTime int64     `json:"exportTime"`
	Profiles   []Profile `json:"profiles"`
}

// Export serializes profiles for sharing. With no IDs, everything is
// exported; otherwise only the named profiles.
func (m *Manager) Export(ids []string) ([]byte, error) {
	profiles, err := m.All()
	if err != nil {
		return nil, err
	}

	toExport := profiles
	if len(ids) > 0 {
		wanted := make(map[string]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}
		toExport = make([]Profile, 0, len(ids))
		for _, p := range profiles {
			if wanted[p.ID] {
				toExport = append(toExport, p)
			}
		}
	}

	data := ExportData{
		Version:    "1.0",
		ExportTime: time.Now().UnixMilli(),
		Profiles:   toExport,
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// ImportResult reports how an import went.
type ImportResult struct {
	Success int      `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

// Import loads profiles from an export payload. Every imported profile
// gets a fresh ID so existing profiles are never overwritten, and is
// never marked built-in. A bad entry is reported and skipped.
func (m *Manager) Import(data []byte) (*ImportResult, error) {
	var payload ExportData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid profile export: %v", err))
	}

	result := &ImportResult{}
	now := time.Now().UnixMilli()
	for i, p := range payload.Profiles {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("profile %d: missing id or name", i+1))
			continue
		}

		p.ID = fmt.Sprintf("imported_%s_%d", p.ID, now)
		p.CreatedAt = now
		p.UpdatedAt = now
		p.IsDefault = false

		if _, err := m.Save(p); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("profile %d: %v", i+1, err))
			continue
		}
		result.Success++
	}
	return result, nil
}

// GetStats summarizes profiles by category and tag. Tags lists the
// ten most used, count descending.
func (m *Manager) GetStats() (*Stats, error) {
	profiles, err := m.All()
	if err != nil {
		return nil, err
	}

	categoryCounts := make(map[string]int)
	categoryOrder := make([]string, 0)
	tagCounts := make(map[string]int)
	tagOrder := make([]string, 0)

	for _, p := range profiles {
		category := p.Category
		if category == "" {
			category = "uncategorized"
		}
		if categoryCounts[category] == 0 {
			categoryOrder = append(categoryOrder, category)
		}
		categoryCounts[category]++

		for _, tag := range p.Tags {
			if tagCounts[tag] == 0 {
				tagOrder = append(tagOrder, tag)
			}
			tagCounts[tag]++
		}
	}

	stats := &Stats{TotalProfiles: len(profiles)}
	for _, name := range categoryOrder {
		stats.Categories = append(stats.Categories, NameCount{Name: name, Count: categoryCounts[name]})
	}
	for _, name := range tagOrder {
		stats.Tags = append(stats.Tags, NameCount{Name: name, Count: tagCounts[name]})
	}
	sort.SliceStable(stats.Tags, func(i, j int) bool {
		return stats.Tags[i].Count > stats.Tags[j].Count
	})
	if len(stats.Tags) > 10 {
		stats.Tags = stats.Tags[:10]
	}
	return stats, nil
}

func (m *Manager) persist(profiles []Profile) error {
	raw, err := json.Marshal(profiles)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := m.store.Set(storageKey, string(raw)); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

func stampAll(profiles []Profile) []Profile {
	now := time.Now().UnixMilli()
	for i := range profiles {
		profiles[i].CreatedAt = now
		profiles[i].UpdatedAt = now
	}
	return profiles
}
