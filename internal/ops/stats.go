package ops

import (
	"context"
	"database/sql"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
)

// StatsOutput contains the result of the Stats operation.
type StatsOutput struct {
	Stats *history.Stats `json:"stats"`
}

// GetStats summarizes the stored history.
func GetStats(ctx context.Context, database *sql.DB) (*StatsOutput, error) {
	stats, err := db.Stats(database)
	if err != nil {
		return nil, err
	}
	return &StatsOutput{Stats: stats}, nil
}
