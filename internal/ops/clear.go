package ops

import (
	"context"
	"database/sql"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
)

// ClearOutput contains the result of the Clear operation.
type ClearOutput struct {
	Removed int `json:"removed"`
}

// Clear deletes every record.
func Clear(ctx context.Context, database *sql.DB) (*ClearOutput, error) {
	stats, err := db.Stats(database)
	if err != nil {
		return nil, err
	}
	if err := db.Clear(database); err != nil {
		return nil, err
	}
	return &ClearOutput{Removed: stats.TotalRecords}, nil
}
