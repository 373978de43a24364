package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	ID            string // optional: set to update an existing record
	Title         string // required
	Description   string
	RoleContent   string
	RuleContent   string
	TaskContent   string
	OutputContent string
	Files         []artifact.Artifact
	Tags          []string
	Timestamp     int64 // optional: default is now
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// Save persists a prompt record. A new ID is generated unless the
// input names one, in which case the existing record is replaced.
func Save(ctx context.Context, database *sql.DB, input SaveInput) (*SaveOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}

	id := input.ID
	if id == "" {
		id = history.NewID()
	}
	timestamp := input.Timestamp
	if timestamp == 0 {
		timestamp = history.Now()
	}

	record := &history.Record{
		ID:            id,
		Timestamp:     timestamp,
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		RoleContent:   input.RoleContent,
		RuleContent:   input.RuleContent,
		TaskContent:   input.TaskContent,
		OutputContent: input.OutputContent,
		Files:         input.Files,
		Tags:          normalizeTags(input.Tags),
		Version:       history.CurrentVersion,
	}

	if err := db.Upsert(database, record); err != nil {
		return nil, err
	}

	return &SaveOutput{ID: record.ID, Timestamp: record.Timestamp}, nil
}
