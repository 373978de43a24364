package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
)

// TestFullWorkflow exercises the complete record lifecycle:
// save → get → update → search → stats → delete → get (not found)
func TestFullWorkflow(t *testing.T) {
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()

	// 1. Save
	saveOut, err := Save(ctx, database, SaveInput{
		Title:       "parser rewrite",
		TaskContent: "rewrite the expression parser",
		Tags:        []string{"go", "parser"},
		Files: []artifact.Artifact{
			artifact.New("parser.go", "package parser"),
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saveOut.ID)
	id := saveOut.ID

	// 2. Get
	getOut, err := Get(ctx, database, GetInput{ID: id})
	require.NoError(t, err)
	require.Equal(t, "parser rewrite", getOut.Record.Title)
	require.Len(t, getOut.Record.Files, 1)

	// 3. Update in place
	updated := *getOut.Record
	_, err = Save(ctx, database, SaveInput{
		ID:          id,
		Title:       "parser rewrite v2",
		TaskContent: updated.TaskContent,
		Tags:        updated.Tags,
		Files:       updated.Files,
		Timestamp:   updated.Timestamp,
	})
	require.NoError(t, err)

	getOut, err = Get(ctx, database, GetInput{ID: id})
	require.NoError(t, err)
	require.Equal(t, "parser rewrite v2", getOut.Record.Title)

	// 4. Search by keyword and tag
	searchOut, err := Search(ctx, database, SearchInput{
		Filter: history.SearchFilter{Keyword: "rewrite", Tags: []string{"parser"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, searchOut.Count)
	require.Equal(t, id, searchOut.Records[0].ID)

	// 5. Stats
	statsOut, err := GetStats(ctx, database)
	require.NoError(t, err)
	require.Equal(t, 1, statsOut.Stats.TotalRecords)
	require.Equal(t, 1, statsOut.Stats.TotalFiles)

	// 6. Delete
	_, err = Delete(ctx, database, DeleteInput{ID: id})
	require.NoError(t, err)

	// 7. Get - verify not found
	_, err = Get(ctx, database, GetInput{ID: id})
	require.True(t, errors.Is(err, errors.ErrNotFound))

	// Deleting again still succeeds
	_, err = Delete(ctx, database, DeleteInput{ID: id})
	require.NoError(t, err)
}
