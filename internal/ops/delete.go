package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string // required
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	ID string `json:"id"`
}

// Delete removes a record. Deleting an ID that is already gone
// succeeds, so retries are safe.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.DeleteByID(database, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{ID: input.ID}, nil
}
