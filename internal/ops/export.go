package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path    string // optional, default: <baseDir>/exports/history-<timestamp>.json
	BaseDir string // location of the exports directory for the default path
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes the full history as a JSON array, newest first. The
// file is written to a temp path and renamed into place so a failure
// never clobbers an existing export.
func Export(ctx context.Context, database *sql.DB, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	exportPath := input.Path
	if exportPath == "" {
		filename := fmt.Sprintf("history-%s.json", now.Format("2006-01-02T150405"))
		exportPath = filepath.Join(input.BaseDir, "exports", filename)
	}

	records, err := db.All(database)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to write export file: %w", err))
	}
	if err := os.Rename(tempPath, exportPath); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      len(records),
		ExportedAt: now.UnixMilli(),
	}, nil
}
