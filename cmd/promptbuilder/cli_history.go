package main

import (
	"math"

	"github.com/urfave/cli/v2"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/history"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/ops"
)

// historyCmd groups the history record commands.
func historyCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse and manage saved prompt records",
		Subcommands: []*cli.Command{
			historyListCmd(env),
			historySearchCmd(env),
			historyShowCmd(env),
			historyDeleteCmd(env),
			historyStatsCmd(env),
			historyExportCmd(env),
			historyImportCmd(env),
			historyClearCmd(env),
		},
	}
}

// historyListCmd lists records, newest first.
func historyListCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List saved records, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: history.DefaultSearchLimit, Usage: "Maximum records to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Records to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Search(c.Context, env.db, ops.SearchInput{
				Filter: history.SearchFilter{
					Limit:  c.Int("limit"),
					Offset: c.Int("offset"),
				},
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historySearchCmd searches records by keyword, tags, and date range.
func historySearchCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search records by keyword, tags, and date range",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Case-insensitive match on title, description, and content"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags; a record matches if it carries any of them"},
			&cli.Int64Flag{Name: "after", Usage: "Earliest timestamp, Unix milliseconds, inclusive"},
			&cli.Int64Flag{Name: "before", Usage: "Latest timestamp, Unix milliseconds, inclusive"},
			&cli.StringFlag{Name: "sort-by", Value: history.SortByTimestamp, Usage: "timestamp or title"},
			&cli.StringFlag{Name: "sort-order", Value: history.SortDesc, Usage: "asc or desc"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: history.DefaultSearchLimit, Usage: "Maximum records to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Matching records to skip"},
		},
		Action: func(c *cli.Context) error {
			filter := history.SearchFilter{
				Keyword:   c.String("keyword"),
				Tags:      parseTags(c.String("tags")),
				SortBy:    c.String("sort-by"),
				SortOrder: c.String("sort-order"),
				Limit:     c.Int("limit"),
				Offset:    c.Int("offset"),
			}
			if c.IsSet("after") || c.IsSet("before") {
				dateRange := &history.DateRange{Start: c.Int64("after")}
				if c.IsSet("before") {
					dateRange.End = c.Int64("before")
				} else {
					dateRange.End = math.MaxInt64
				}
				filter.DateRange = dateRange
			}

			output, err := ops.Search(c.Context, env.db, ops.SearchInput{Filter: filter})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyShowCmd fetches one record by ID.
func historyShowCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one record, including its files",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("record id is required"))
			}
			output, err := ops.Get(c.Context, env.db, ops.GetInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyDeleteCmd removes one record.
func historyDeleteCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a record (deleting an absent id succeeds)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("record id is required"))
			}
			output, err := ops.Delete(c.Context, env.db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyStatsCmd summarizes the record store.
func historyStatsCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show record count, total size, time span, and top tags",
		Action: func(c *cli.Context) error {
			output, err := ops.GetStats(c.Context, env.db)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyExportCmd writes all records to a JSON file.
func historyExportCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all records to a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: <base>/exports/history-<timestamp>.json)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, env.db, ops.ExportInput{
				Path:    c.String("path"),
				BaseDir: env.baseDir,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyImportCmd loads records from a JSON export file.
func historyImportCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import records from a JSON export file (existing ids are replaced)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, env.db, ops.ImportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyClearCmd deletes every record.
func historyClearCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every record (requires --force)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Confirm deleting all records"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("force") {
				return outputError(errors.NewInvalidRequest("refusing to delete all records without --force"))
			}
			output, err := ops.Clear(c.Context, env.db)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}
