package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/config"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/ops"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/profile"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/prompt"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	profiles *profile.Manager
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, profiles *profile.Manager) *Handlers {
	return &Handlers{db: db, cfg: cfg, profiles: profiles}
}

// Request types for each tool

// FileRef is one attached file in a request.
type FileRef struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// SaveRequest represents the arguments for record_save.
type SaveRequest struct {
	ID            string    `json:"id,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	RoleContent   string    `json:"role_content,omitempty"`
	RuleContent   string    `json:"rule_content,omitempty"`
	TaskContent   string    `json:"task_content,omitempty"`
	OutputContent string    `json:"output_content,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Files         []FileRef `json:"files,omitempty"`
}

// GetRequest represents the arguments for record_get.
type GetRequest struct {
	ID string `json:"id"`
}

// SearchRequest represents the arguments for record_search.
type SearchRequest struct {
	Keyword   string   `json:"keyword,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Start     *int64   `json:"start,omitempty"`
	End       *int64   `json:"end,omitempty"`
	SortBy    string   `json:"sort_by,omitempty"`
	SortOrder string   `json:"sort_order,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	Offset    int      `json:"offset,omitempty"`
}

// DeleteRequest represents the arguments for record_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ProfileListRequest represents the arguments for profile_list.
type ProfileListRequest struct {
	Keyword  string `json:"keyword,omitempty"`
	Category string `json:"category,omitempty"`
}

// PromptBuildRequest represents the arguments for prompt_build.
type PromptBuildRequest struct {
	RoleContent   string    `json:"role_content,omitempty"`
	RuleContent   string    `json:"rule_content,omitempty"`
	TaskContent   string    `json:"task_content,omitempty"`
	OutputContent string    `json:"output_content,omitempty"`
	Files         []FileRef `json:"files,omitempty"`
}

// Handler implementations

// HandleSave handles the record_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Save(ctx, h.db, ops.SaveInput{
		ID:            input.ID,
		Title:         input.Title,
		Description:   input.Description,
		RoleContent:   input.RoleContent,
		RuleContent:   input.RuleContent,
		TaskContent:   input.TaskContent,
		OutputContent: input.OutputContent,
		Files:         toArtifacts(input.Files),
		Tags:          input.Tags,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the record_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(ctx, h.db, ops.GetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the record_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	filter := history.SearchFilter{
		Keyword:   input.Keyword,
		Tags:      input.Tags,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Limit:     input.Limit,
		Offset:    input.Offset,
	}
	if input.Start != nil || input.End != nil {
		dateRange := &history.DateRange{End: math.MaxInt64}
		if input.Start != nil {
			dateRange.Start = *input.Start
		}
		if input.End != nil {
			dateRange.End = *input.End
		}
		filter.DateRange = dateRange
	}

	result, err := ops.Search(ctx, h.db, ops.SearchInput{Filter: filter})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the record_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the record_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.GetStats(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleProfileList handles the profile_list tool call.
func (h *Handlers) HandleProfileList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProfileListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	profiles, err := h.profiles.Search(profile.SearchFilter{
		Keyword:  input.Keyword,
		Category: input.Category,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// HandleProfileCurrent handles the profile_current tool call.
func (h *Handlers) HandleProfileCurrent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, err := h.profiles.Current()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"profile": current})
}

// HandlePromptBuild handles the prompt_build tool call.
func (h *Handlers) HandlePromptBuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PromptBuildRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	promptInput := prompt.Input{
		RoleContent:   input.RoleContent,
		RuleContent:   input.RuleContent,
		TaskContent:   input.TaskContent,
		OutputContent: input.OutputContent,
		Files:         toArtifacts(input.Files),
	}

	text := prompt.Generate(promptInput)
	tokens := prompt.TokenCount(promptInput)

	return successResult(map[string]any{
		"prompt":           text,
		"token_count":      tokens,
		"formatted_tokens": prompt.FormatTokenCount(tokens),
		"valid_structure":  prompt.ValidateStructure(text),
	})
}

func toArtifacts(files []FileRef) []artifact.Artifact {
	if len(files) == 0 {
		return nil
	}
	out := make([]artifact.Artifact, 0, len(files))
	for _, f := range files {
		out = append(out, artifact.New(f.Path, f.Content))
	}
	return out
}

// errorResult converts an error into an MCP error payload.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if builderErr, ok := err.(*errors.BuilderError); ok {
		errorObj := map[string]any{
			"code":    builderErr.Code,
			"message": builderErr.Message,
			"status":  builderErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if builderErr.Code != errors.ErrInternal && builderErr.Details != nil {
			errorObj["details"] = builderErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return mcp.NewToolResultError(string(content))
}

// successResult wraps data in a JSON tool result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
