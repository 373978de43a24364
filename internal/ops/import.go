package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string // required: JSON array file produced by Export
}

// ImportError describes one record that could not be imported.
type ImportError struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// Import loads records from an export file. Records keep their IDs, so
// re-importing an export is idempotent. A bad record is reported and
// skipped; the rest of the file still imports.
func Import(ctx context.Context, database *sql.DB, input ImportInput) (*ImportOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("failed to read import file: %v", err))
	}

	var records []history.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("import file is not a JSON record array: %v", err))
	}

	output := &ImportOutput{}
	for i := range records {
		r := &records[i]
		if err := validateImported(r); err != nil {
			output.Failed++
			output.Errors = append(output.Errors, ImportError{
				Index: i, ID: r.ID, Message: err.Error(),
			})
			continue
		}
		if r.Version == 0 {
			r.Version = history.CurrentVersion
		}
		if err := db.Upsert(database, r); err != nil {
			output.Failed++
			output.Errors = append(output.Errors, ImportError{
				Index: i, ID: r.ID, Message: err.Error(),
			})
			continue
		}
		output.Imported++
	}

	return output, nil
}

func validateImported(r *history.Record) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("missing id")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("missing title")
	}
	if r.Timestamp <= 0 {
		return fmt.Errorf("missing timestamp")
	}
	return nil
}
