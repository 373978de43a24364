// Package history defines the persisted prompt record model shared by
// the database layer, the operations layer, and the MCP surface.
package history

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
)

// CurrentVersion is the schema version stamped on new records.
const CurrentVersion = 1

// Record is one saved prompt session: the four content sections, the
// attached file batch, and user-supplied metadata. Timestamp is Unix
// milliseconds.
type Record struct {
	ID            string              `json:"id"`
	Timestamp     int64               `json:"timestamp"`
	Title         string              `json:"title"`
	Description   string              `json:"description,omitempty"`
	RoleContent   string              `json:"roleContent"`
	RuleContent   string              `json:"ruleContent"`
	TaskContent   string              `json:"taskContent"`
	OutputContent string              `json:"outputContent"`
	Files         []artifact.Artifact `json:"files"`
	Tags          []string            `json:"tags"`
	Version       int                 `json:"version"`
}

// NewID generates a sortable record ID.
func NewID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Now returns the current time as Unix milliseconds.
func Now() int64 {
	return time.Now().UnixMilli()
}

// Sort columns accepted by search.
const (
	SortByTimestamp = "timestamp"
	SortByTitle     = "title"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultSearchLimit applies when a search names no limit.
const DefaultSearchLimit = 50

// DateRange bounds a search by timestamp, inclusive on both ends.
type DateRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// SearchFilter narrows and orders a history search. Zero values mean
// "no constraint"; SortBy defaults to timestamp descending.
type SearchFilter struct {
	Keyword   string     `json:"keyword,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
	SortBy    string     `json:"sortBy,omitempty"`
	SortOrder string     `json:"sortOrder,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// Normalize fills defaults and rejects unknown sort parameters.
func (f *SearchFilter) Normalize() error {
	if f.SortBy == "" {
		f.SortBy = SortByTimestamp
	}
	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
	if f.SortBy != SortByTimestamp && f.SortBy != SortByTitle {
		return errInvalidSort("sortBy", f.SortBy)
	}
	if f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		return errInvalidSort("sortOrder", f.SortOrder)
	}
	if f.Limit <= 0 {
		f.Limit = DefaultSearchLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return nil
}

func errInvalidSort(field, value string) error {
	return errors.NewInvalidRequest(fmt.Sprintf("invalid %s value %q", field, value))
}

// TagCount pairs a tag with its usage count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Stats summarizes the stored history.
type Stats struct {
	TotalRecords    int        `json:"totalRecords"`
	TotalFiles      int        `json:"totalFiles"`
	TotalSize       int64      `json:"totalSize"`
	OldestTimestamp int64      `json:"oldestTimestamp,omitempty"`
	NewestTimestamp int64      `json:"newestTimestamp,omitempty"`
	TopTags         []TagCount `json:"topTags"`
}
