// Package config loads the application configuration from
// baseDir/config.json, falling back to defaults when the file is
// missing.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	// MaxFileSize overrides the default per-file ingestion limit in bytes.
	// 0 means use the built-in default (1 MiB).
	MaxFileSize int64 `json:"max_file_size,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// GitHubOwner and GitHubRepo identify the repository whose star count
	// the star badge shows.
	GitHubOwner string `json:"github_owner,omitempty"`
	GitHubRepo  string `json:"github_repo,omitempty"`

	// StarCacheTTLMinutes is how long a fetched star count stays fresh.
	// 0 means the default of 30 minutes.
	StarCacheTTLMinutes int `json:"star_cache_ttl_minutes,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are ignored.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GitHubOwner:         "ai-coding-labs",
		GitHubRepo:          "ai-coding-prompt-builder",
		StarCacheTTLMinutes: 30,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of
// ~/.promptbuilder.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars when non-zero.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.MaxFileSize = overlay.MaxFileSize
	if result.MaxFileSize == 0 {
		result.MaxFileSize = base.MaxFileSize
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.GitHubOwner = overlay.GitHubOwner
	if result.GitHubOwner == "" {
		result.GitHubOwner = base.GitHubOwner
	}

	result.GitHubRepo = overlay.GitHubRepo
	if result.GitHubRepo == "" {
		result.GitHubRepo = base.GitHubRepo
	}

	result.StarCacheTTLMinutes = overlay.StarCacheTTLMinutes
	if result.StarCacheTTLMinutes == 0 {
		result.StarCacheTTLMinutes = base.StarCacheTTLMinutes
	}

	if len(overlay.DisabledTools) > 0 {
		result.DisabledTools = overlay.DisabledTools
	} else {
		result.DisabledTools = base.DisabledTools
	}

	return result
}
