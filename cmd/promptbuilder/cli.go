package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v2"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/artifact"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/config"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/github"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/ingest"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/kvstore"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/ops"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/profile"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/prompt"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/session"
)

// appEnv bundles the shared dependencies every command needs.
type appEnv struct {
	db       *sql.DB
	cfg      *config.Config
	state    kvstore.Store
	profiles *profile.Manager
	baseDir  string
}

// loadSession restores the draft session from the state store.
func (e *appEnv) loadSession() (*session.Session, error) {
	return session.Load(e.state)
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *appEnv) *cli.App {
	app := &cli.App{
		Name:    "promptbuilder",
		Usage:   "AI coding prompt builder",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(env),
			filesCmd(env),
			removeCmd(env),
			clearFilesCmd(env),
			filterCmd(env),
			setCmd(env),
			showCmd(env),
			buildCmd(env),
			saveCmd(env),
			loadCmd(env),
			historyCmd(env),
			profileCmd(env),
			starsCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd ingests files and directories into the draft file batch.
func addCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add files or directories to the prompt (directories are walked recursively)",
		ArgsUsage: "<path>...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("at least one path is required"))
			}

			result, err := ingest.Ingest(c.Context, c.Args().Slice())
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}

			added, err := sess.AddFiles(result.Files)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"added":   added.Added,
				"dropped": added.Dropped,
				"visible": len(sess.Files()),
				"errors":  result.Errors,
			})
		},
	}
}

// filesCmd lists the files currently in the batch.
func filesCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "files",
		Usage: "List files in the current batch after filtering",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "raw", Usage: "List every ingested file, including filtered-out ones"},
		},
		Action: func(c *cli.Context) error {
			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}

			files := sess.Files()
			if c.Bool("raw") {
				files = sess.RawFiles()
			}

			type listing struct {
				Path string `json:"path"`
				Size string `json:"size"`
			}
			items := make([]listing, 0, len(files))
			for _, f := range files {
				items = append(items, listing{Path: f.Path, Size: artifact.FormatFileSize(f.Size)})
			}

			return outputJSON(map[string]any{
				"files": items,
				"types": artifact.TypeStats(files),
				"stats": sess.FilterStats(),
			})
		},
	}
}

// removeCmd drops one file from the batch by path.
func removeCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a file from the batch by its relative path",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one path is required"))
			}

			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}

			removed, err := sess.RemoveFile(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			if !removed {
				return outputError(errors.NewNotFound(c.Args().First()))
			}

			return outputJSON(map[string]any{"removed": c.Args().First()})
		},
	}
}

// clearFilesCmd empties the file batch.
func clearFilesCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "clear-files",
		Usage: "Remove all files from the batch",
		Action: func(c *cli.Context) error {
			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}
			if err := sess.ClearFiles(); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"cleared": true})
		},
	}
}

// filterCmd shows or adjusts the file filter.
func filterCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "filter",
		Usage: "Show or adjust the file filter (no flags prints the active filter)",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "max-size", Usage: "Maximum file size in bytes"},
			&cli.StringFlag{Name: "ext", Usage: "Comma-separated allowed extensions (empty allows all)"},
			&cli.StringFlag{Name: "exclude", Usage: "Comma-separated exclude patterns"},
			&cli.StringFlag{Name: "include", Usage: "Comma-separated include patterns"},
			&cli.BoolFlag{Name: "keep-empty", Usage: "Keep empty files"},
			&cli.BoolFlag{Name: "keep-binary", Usage: "Keep binary files"},
			&cli.BoolFlag{Name: "reset", Usage: "Restore the default filter"},
		},
		Action: func(c *cli.Context) error {
			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}

			f := sess.Filter()
			changed := false

			if c.Bool("reset") {
				f = artifact.DefaultFilter()
				changed = true
			}
			if c.IsSet("max-size") {
				f.MaxFileSize = c.Int64("max-size")
				changed = true
			}
			if c.IsSet("ext") {
				f.AllowedExtensions = splitList(c.String("ext"))
				changed = true
			}
			if c.IsSet("exclude") {
				f.ExcludePatterns = splitList(c.String("exclude"))
				changed = true
			}
			if c.IsSet("include") {
				f.IncludePatterns = splitList(c.String("include"))
				changed = true
			}
			if c.IsSet("keep-empty") {
				f.ExcludeEmptyFiles = !c.Bool("keep-empty")
				changed = true
			}
			if c.IsSet("keep-binary") {
				f.ExcludeBinaryFiles = !c.Bool("keep-binary")
				changed = true
			}

			if changed {
				if err := sess.SetFilter(f); err != nil {
					return outputError(err)
				}
			}

			return outputJSON(map[string]any{
				"filter": sess.Filter(),
				"stats":  sess.FilterStats(),
			})
		},
	}
}

// setCmd updates one draft content section.
func setCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a content section (role|rule|task|output); text from the argument or stdin",
		ArgsUsage: "<section> [text]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("section is required: role, rule, task, or output"))
			}
			section := c.Args().First()

			var text string
			if c.NArg() >= 2 {
				text = strings.Join(c.Args().Slice()[1:], " ")
			} else if stdinHasData() {
				content, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				text = content
			}

			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}

			switch section {
			case "role":
				err = sess.SetRole(text)
			case "rule":
				err = sess.SetRule(text)
			case "task":
				err = sess.SetTask(text)
			case "output":
				err = sess.SetOutput(text)
			default:
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown section %q", section)))
			}
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"section": section, "chars": len(text)})
		},
	}
}

// showCmd prints the current draft state.
func showCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show the current draft sections and file batch summary",
		Action: func(c *cli.Context) error {
			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}

			input := sess.PromptInput()
			tokens := prompt.TokenCount(input)

			return outputJSON(map[string]any{
				"role":             sess.Role,
				"rule":             sess.Rule,
				"task":             sess.Task,
				"output":           sess.Output,
				"files":            len(sess.Files()),
				"stats":            sess.FilterStats(),
				"scroll":           sess.Scrolls(),
				"token_count":      tokens,
				"formatted_tokens": prompt.FormatTokenCount(tokens),
			})
		},
	}
}

// buildCmd assembles the prompt and prints it.
func buildCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Assemble the prompt from the current draft and print it",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "copy", Aliases: []string{"c"}, Usage: "Copy the prompt to the clipboard"},
			&cli.BoolFlag{Name: "preview", Usage: "Print an HTML preview instead of raw Markdown"},
			&cli.StringFlag{Name: "save", Usage: "Also save the draft to history under this title"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Suppress the token summary on stderr"},
		},
		Action: func(c *cli.Context) error {
			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}

			input := sess.PromptInput()
			text := prompt.Generate(input)
			if text == "" {
				return outputError(errors.NewInvalidRequest("nothing to build: all sections and the file batch are empty"))
			}

			if c.Bool("preview") {
				fmt.Println(prompt.RenderHTML(text))
			} else {
				fmt.Println(text)
			}

			if c.Bool("copy") {
				if err := clipboard.WriteAll(text); err != nil {
					fmt.Fprintf(os.Stderr, "warning: clipboard copy failed: %v\n", err)
				}
			}

			if title := c.String("save"); title != "" {
				saved, err := ops.Save(c.Context, env.db, sess.Snapshot(title, "", nil))
				if err != nil {
					return outputError(err)
				}
				fmt.Fprintf(os.Stderr, "saved as %s\n", saved.ID)
			}

			if !c.Bool("quiet") {
				tokens := prompt.TokenCount(input)
				fmt.Fprintf(os.Stderr, "~%s tokens, %d files\n",
					prompt.FormatTokenCount(tokens), len(input.Files))
			}
			return nil
		},
	}
}

// saveCmd snapshots the draft into history.
func saveCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save the current draft as a history record",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Record title"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Record description"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
		},
		Action: func(c *cli.Context) error {
			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}

			input := sess.Snapshot(c.String("title"), c.String("description"), parseTags(c.String("tags")))
			output, err := ops.Save(c.Context, env.db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// loadCmd restores a history record into the draft.
func loadCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Replace the draft with a saved history record",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("record id is required"))
			}

			got, err := ops.Get(c.Context, env.db, ops.GetInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}
			if err := sess.LoadRecord(got.Record); err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"id":    got.Record.ID,
				"title": got.Record.Title,
				"files": len(got.Record.Files),
			})
		},
	}
}

// starsCmd looks up the project's GitHub star count.
func starsCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "stars",
		Usage: "Show the project's GitHub star count",
		Action: func(c *cli.Context) error {
			fetcher, err := github.NewRESTFetcher()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			ttl := time.Duration(env.cfg.StarCacheTTLMinutes) * time.Minute
			svc := github.NewService(fetcher, env.state, ttl)

			result, err := svc.Stars(c.Context, env.cfg.GitHubOwner, env.cfg.GitHubRepo)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"repo":   result.Repo.FullName,
				"stars":  result.Repo.StargazersCount,
				"badge":  github.FormatStarCount(result.Repo.StargazersCount),
				"url":    result.Repo.HTMLURL,
				"cached": result.Cached,
			})
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if builderErr, ok := err.(*errors.BuilderError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", builderErr.Code, builderErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	return splitList(s)
}

// splitList splits a comma-separated string, trimming blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		item := strings.TrimSpace(p)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
