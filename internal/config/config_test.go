package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GitHubOwner != "ai-coding-labs" {
		t.Errorf("GitHubOwner = %q, want default", cfg.GitHubOwner)
	}
	if cfg.StarCacheTTLMinutes != 30 {
		t.Errorf("StarCacheTTLMinutes = %d, want 30", cfg.StarCacheTTLMinutes)
	}
}

func TestLoad_OverlayWins(t *testing.T) {
	dir := t.TempDir()
	raw := `{"max_file_size": 2048, "github_owner": "someone-else", "db_max_open_conns": 1}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxFileSize != 2048 {
		t.Errorf("MaxFileSize = %d, want 2048", cfg.MaxFileSize)
	}
	if cfg.GitHubOwner != "someone-else" {
		t.Errorf("GitHubOwner = %q, want overlay value", cfg.GitHubOwner)
	}
	if cfg.DBMaxOpenConns != 1 {
		t.Errorf("DBMaxOpenConns = %d, want 1", cfg.DBMaxOpenConns)
	}
	// Untouched fields keep defaults.
	if cfg.GitHubRepo != "ai-coding-prompt-builder" {
		t.Errorf("GitHubRepo = %q, want default", cfg.GitHubRepo)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{oops"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load on corrupt config should fail")
	}
}
