package db

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
)

// Upsert inserts a record, or replaces it when the ID already exists.
// The record's tag rows are rewritten in the same transaction so the
// tag index never disagrees with tags_json.
func Upsert(db *sql.DB, r *history.Record) error {
	filesJSON, err := json.Marshal(r.Files)
	if err != nil {
		return errors.NewInternal(err)
	}
	if r.Files == nil {
		filesJSON = []byte("[]")
	}

	var tagsJSON sql.NullString
	if len(r.Tags) > 0 {
		data, err := json.Marshal(r.Tags)
		if err != nil {
			return errors.NewInternal(err)
		}
		tagsJSON = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.NewStorage(err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO records (
			id, timestamp, title, description,
			role_content, rule_content, task_content, output_content,
			files_json, tags_json, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timestamp = excluded.timestamp,
			title = excluded.title,
			description = excluded.description,
			role_content = excluded.role_content,
			rule_content = excluded.rule_content,
			task_content = excluded.task_content,
			output_content = excluded.output_content,
			files_json = excluded.files_json,
			tags_json = excluded.tags_json,
			version = excluded.version
	`
	_, err = tx.Exec(query,
		r.ID, r.Timestamp, r.Title, r.Description,
		r.RoleContent, r.RuleContent, r.TaskContent, r.OutputContent,
		string(filesJSON), tagsJSON, r.Version,
	)
	if err != nil {
		return errors.NewStorage(err)
	}

	if _, err := tx.Exec("DELETE FROM record_tags WHERE record_id = ?", r.ID); err != nil {
		return errors.NewStorage(err)
	}
	for _, tag := range r.Tags {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO record_tags (record_id, tag) VALUES (?, ?)",
			r.ID, tag,
		); err != nil {
			return errors.NewStorage(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

const recordColumns = `
	id, timestamp, title, description,
	role_content, rule_content, task_content, output_content,
	files_json, tags_json, version
`

// GetByID retrieves a record by its ID.
func GetByID(db *sql.DB, id string) (*history.Record, error) {
	row := db.QueryRow("SELECT "+recordColumns+" FROM records WHERE id = ?", id)

	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// DeleteByID removes a record. Deleting an absent ID succeeds, so
// retried deletes stay idempotent.
func DeleteByID(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewStorage(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM record_tags WHERE record_id = ?", id); err != nil {
		return errors.NewStorage(err)
	}
	if _, err := tx.Exec("DELETE FROM records WHERE id = ?", id); err != nil {
		return errors.NewStorage(err)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// Search walks records in the requested sort order and applies the
// filter's predicates row by row. Offset and limit count matching
// records only, so paging stays stable under non-indexed predicates.
func Search(db *sql.DB, filter history.SearchFilter) ([]history.Record, error) {
	if err := filter.Normalize(); err != nil {
		return nil, err
	}

	// Normalize restricts the sort column and direction, so the
	// interpolation below cannot inject.
	direction := "ASC"
	if filter.SortOrder == history.SortDesc {
		direction = "DESC"
	}
	query := "SELECT " + recordColumns + " FROM records ORDER BY " +
		filter.SortBy + " " + direction + ", id " + direction

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer rows.Close()

	results := make([]history.Record, 0)
	matched := 0
	for rows.Next() {
		r, err := scanRecordRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		if !matchesFilter(r, filter) {
			continue
		}
		if matched >= filter.Offset {
			results = append(results, *r)
			if len(results) >= filter.Limit {
				break
			}
		}
		matched++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage(err)
	}
	return results, nil
}

// matchesFilter applies keyword, tag, and date-range predicates.
// Keyword search is case-insensitive across title, description, and
// all four content sections. A record matches the tag predicate when
// it carries at least one of the requested tags.
func matchesFilter(r *history.Record, filter history.SearchFilter) bool {
	if filter.Keyword != "" {
		keyword := strings.ToLower(filter.Keyword)
		searchText := strings.ToLower(strings.Join([]string{
			r.Title, r.Description,
			r.RoleContent, r.RuleContent, r.TaskContent, r.OutputContent,
		}, " "))
		if !strings.Contains(searchText, keyword) {
			return false
		}
	}

	if len(filter.Tags) > 0 {
		found := false
		for _, want := range filter.Tags {
			for _, have := range r.Tags {
				if want == have {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.DateRange != nil {
		if r.Timestamp < filter.DateRange.Start || r.Timestamp > filter.DateRange.End {
			return false
		}
	}

	return true
}

// All returns every record ordered by timestamp descending.
func All(db *sql.DB) ([]history.Record, error) {
	rows, err := db.Query("SELECT " + recordColumns + " FROM records ORDER BY timestamp DESC, id DESC")
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer rows.Close()

	records := make([]history.Record, 0)
	for rows.Next() {
		r, err := scanRecordRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage(err)
	}
	return records, nil
}

// Stats summarizes the stored history. TotalSize is the serialized
// JSON length of every record. TopTags holds the ten most used tags,
// count descending; ties keep insertion order.
func Stats(db *sql.DB) (*history.Stats, error) {
	records, err := All(db)
	if err != nil {
		return nil, err
	}

	stats := &history.Stats{
		TotalRecords: len(records),
		TopTags:      make([]history.TagCount, 0),
	}
	for i := range records {
		stats.TotalFiles += len(records[i].Files)
		data, err := json.Marshal(&records[i])
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		stats.TotalSize += int64(len(data))
		ts := records[i].Timestamp
		if stats.OldestTimestamp == 0 || ts < stats.OldestTimestamp {
			stats.OldestTimestamp = ts
		}
		if ts > stats.NewestTimestamp {
			stats.NewestTimestamp = ts
		}
	}

	rows, err := db.Query(`
		SELECT tag, COUNT(*) AS uses
		FROM record_tags
		GROUP BY tag
		ORDER BY uses DESC, MIN(rowid) ASC
		LIMIT 10
	`)
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc history.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, errors.NewInternal(err)
		}
		stats.TopTags = append(stats.TopTags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage(err)
	}

	return stats, nil
}

// Clear removes every record and tag row.
func Clear(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewStorage(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM record_tags"); err != nil {
		return errors.NewStorage(err)
	}
	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return errors.NewStorage(err)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for record scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (*history.Record, error)       { return scanInto(row) }
func scanRecordRows(rows *sql.Rows) (*history.Record, error) { return scanInto(rows) }

func scanInto(s scanner) (*history.Record, error) {
	var (
		r         history.Record
		filesJSON string
		tagsJSON  sql.NullString
	)

	err := s.Scan(
		&r.ID, &r.Timestamp, &r.Title, &r.Description,
		&r.RoleContent, &r.RuleContent, &r.TaskContent, &r.OutputContent,
		&filesJSON, &tagsJSON, &r.Version,
	)
	if err != nil {
		return nil, err
	}

	if filesJSON != "" {
		if err := json.Unmarshal([]byte(filesJSON), &r.Files); err != nil {
			return nil, err
		}
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &r.Tags); err != nil {
			return nil, err
		}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}

	return &r, nil
}
