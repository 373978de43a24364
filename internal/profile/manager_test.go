package profile

import (
	"strings"
	"testing"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/kvstore"
)

func newTestManager() *Manager {
	return NewManager(kvstore.NewMem())
}

func TestAll_SeedsBuiltins(t *testing.T) {
	m := newTestManager()

	profiles, err := m.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(profiles) != 4 {
		t.Fatalf("seeded %d profiles, want 4", len(profiles))
	}

	wantIDs := map[string]bool{
		"general-coding": true, "code-review": true,
		"bug-fix": true, "architecture-design": true,
	}
	for _, p := range profiles {
		if !wantIDs[p.ID] {
			t.Errorf("unexpected built-in %q", p.ID)
		}
		if !p.IsDefault {
			t.Errorf("built-in %q should be marked default", p.ID)
		}
		if p.CreatedAt == 0 || p.UpdatedAt == 0 {
			t.Errorf("built-in %q missing timestamps", p.ID)
		}
	}

	// Idempotent: a second call must not duplicate.
	again, err := m.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 4 {
		t.Errorf("second All returned %d profiles, want 4", len(again))
	}
}

func TestAll_RestoresMissingBuiltin(t *testing.T) {
	m := newTestManager()
	if _, err := m.All(); err != nil {
		t.Fatal(err)
	}

	// Simulate a state file that lost one built-in.
	store := m.store.(*kvstore.MemStore)
	raw, _ := store.Get("prompt_profiles")
	damaged := strings.Replace(raw, `"id":"bug-fix"`, `"id":"bug-fix-gone"`, 1)
	if err := store.Set("prompt_profiles", damaged); err != nil {
		t.Fatal(err)
	}

	profiles, err := m.All()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, p := range profiles {
		if p.ID == "bug-fix" {
			found = true
		}
	}
	if !found {
		t.Error("missing built-in was not restored")
	}
}

func TestSaveAndGet(t *testing.T) {
	m := newTestManager()

	saved, err := m.Save(Profile{ID: "mine", Name: "My Preset", RoleContent: "be terse"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.CreatedAt == 0 || saved.UpdatedAt == 0 {
		t.Error("Save should stamp timestamps")
	}

	got, err := m.Get("mine")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "My Preset" {
		t.Errorf("Name = %q, want My Preset", got.Name)
	}

	if _, err := m.Get("nope"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get missing = %v, want NOT_FOUND", err)
	}

	if _, err := m.Save(Profile{Name: "no id"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Save without id = %v, want INVALID_REQUEST", err)
	}
}

func TestDelete_ProtectsBuiltins(t *testing.T) {
	m := newTestManager()

	if _, err := m.Delete("general-coding"); !errors.Is(err, errors.ErrProtected) {
		t.Errorf("deleting built-in = %v, want PROTECTED", err)
	}

	if _, err := m.Save(Profile{ID: "mine", Name: "Mine"}); err != nil {
		t.Fatal(err)
	}
	if err := m.SetCurrent("mine"); err != nil {
		t.Fatal(err)
	}
	deleted, err := m.Delete("mine")
	if err != nil || !deleted {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", deleted, err)
	}
	if m.CurrentID() != "" {
		t.Error("deleting the current profile should clear the selection")
	}

	// A missing id is a no-op, not an error.
	deleted, err = m.Delete("mine")
	if err != nil || deleted {
		t.Errorf("second Delete = (%v, %v), want (false, nil)", deleted, err)
	}
}

func TestDuplicate(t *testing.T) {
	m := newTestManager()

	copied, err := m.Duplicate("general-coding", "")
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if !strings.HasPrefix(copied.ID, "general-coding_copy_") {
		t.Errorf("copy ID = %q, want general-coding_copy_<ts>", copied.ID)
	}
	if copied.Name != "通用编程助手 (副本)" {
		t.Errorf("copy name = %q, want derived name", copied.Name)
	}
	if copied.IsDefault {
		t.Error("a copy must never be a built-in")
	}
	if copied.RoleContent == "" {
		t.Error("copy should keep the original content")
	}

	// The copy is deletable.
	if deleted, err := m.Delete(copied.ID); err != nil || !deleted {
		t.Errorf("deleting a copy = (%v, %v), want (true, nil)", deleted, err)
	}
}

func TestSearch(t *testing.T) {
	m := newTestManager()

	results, err := m.Search(SearchFilter{Keyword: "审查"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "code-review" {
		t.Errorf("keyword search = %v, want [code-review]", idsOf(results))
	}

	results, err = m.Search(SearchFilter{Category: "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "bug-fix" {
		t.Errorf("category search = %v, want [bug-fix]", idsOf(results))
	}

	results, err = m.Search(SearchFilter{SortBy: "name", SortOrder: "asc"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("unfiltered search = %d, want 4", len(results))
	}
	for i := 1; i < len(results); i++ {
		if strings.ToLower(results[i-1].Name) > strings.ToLower(results[i].Name) {
			t.Errorf("names not ascending at %d: %q > %q", i, results[i-1].Name, results[i].Name)
		}
	}
}

func TestCurrent_FallsBackToDefault(t *testing.T) {
	m := newTestManager()

	current, err := m.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if !current.IsDefault {
		t.Errorf("fallback should pick a built-in, got %q", current.ID)
	}
	if m.CurrentID() != current.ID {
		t.Error("fallback selection should be persisted")
	}

	if err := m.SetCurrent("bug-fix"); err != nil {
		t.Fatal(err)
	}
	current, err = m.Current()
	if err != nil {
		t.Fatal(err)
	}
	if current.ID != "bug-fix" {
		t.Errorf("Current = %q, want bug-fix", current.ID)
	}

	if err := m.SetCurrent("ghost"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("SetCurrent to missing id = %v, want NOT_FOUND", err)
	}
}

func TestExportImport(t *testing.T) {
	m := newTestManager()

	data, err := m.Export([]string{"general-coding"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(data), `"version": "1.0"`) {
		t.Error("export should carry the envelope version")
	}

	result, err := m.Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Success != 1 || len(result.Errors) != 0 {
		t.Fatalf("Import = %+v, want one success", result)
	}

	profiles, err := m.All()
	if err != nil {
		t.Fatal(err)
	}
	var imported *Profile
	for i := range profiles {
		if strings.HasPrefix(profiles[i].ID, "imported_general-coding_") {
			imported = &profiles[i]
		}
	}
	if imported == nil {
		t.Fatal("imported profile not found")
	}
	if imported.IsDefault {
		t.Error("imported profile must not be a built-in")
	}
	if len(profiles) != 5 {
		t.Errorf("import should add, not replace: %d profiles", len(profiles))
	}
}

func TestImport_ReportsBadEntries(t *testing.T) {
	m := newTestManager()

	payload := `{"version":"1.0","exportTime":1,"profiles":[{"id":"","name":""},{"id":"ok","name":"OK"}]}`
	result, err := m.Import([]byte(payload))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Success != 1 || len(result.Errors) != 1 {
		t.Errorf("Import = %+v, want 1 success 1 error", result)
	}
}

func TestGetStats(t *testing.T) {
	m := newTestManager()

	stats, err := m.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalProfiles != 4 {
		t.Errorf("TotalProfiles = %d, want 4", stats.TotalProfiles)
	}
	if len(stats.Categories) != 4 {
		t.Errorf("Categories = %v, want 4 entries", stats.Categories)
	}
	if len(stats.Tags) == 0 || len(stats.Tags) > 10 {
		t.Errorf("Tags = %d entries, want 1..10", len(stats.Tags))
	}
}

func idsOf(profiles []Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.ID
	}
	return out
}
