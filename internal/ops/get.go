package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID string // required
}

// GetOutput contains the result of the Get operation.
type GetOutput struct {
	Record *history.Record `json:"record"`
}

// Get retrieves one record by ID.
func Get(ctx context.Context, database *sql.DB, input GetInput) (*GetOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	record, err := db.GetByID(database, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Record: record}, nil
}
