package ops

import (
	"context"
	"database/sql"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Filter history.SearchFilter
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Records []history.Record `json:"records"`
	Count   int              `json:"count"`
}

// Search lists records matching the filter, in the requested order.
func Search(ctx context.Context, database *sql.DB, input SearchInput) (*SearchOutput, error) {
	records, err := db.Search(database, input.Filter)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Records: records, Count: len(records)}, nil
}
