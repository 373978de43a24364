package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/profile"
)

// profileCmd groups the prompt profile commands.
func profileCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage prompt profiles (role/rule/output presets)",
		Subcommands: []*cli.Command{
			profileListCmd(env),
			profileShowCmd(env),
			profileSaveCmd(env),
			profileUseCmd(env),
			profileCurrentCmd(env),
			profileDuplicateCmd(env),
			profileDeleteCmd(env),
			profileExportCmd(env),
			profileImportCmd(env),
			profileStatsCmd(env),
		},
	}
}

// profileListCmd lists profiles with optional filters.
func profileListCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Match on name, description, or tags"},
			&cli.StringFlag{Name: "category", Usage: "Exact category match"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags; a profile matches if it carries any of them"},
			&cli.StringFlag{Name: "sort-by", Value: "name", Usage: "name, createdAt, or updatedAt"},
			&cli.StringFlag{Name: "sort-order", Value: "asc", Usage: "asc or desc"},
		},
		Action: func(c *cli.Context) error {
			profiles, err := env.profiles.Search(profile.SearchFilter{
				Keyword:   c.String("keyword"),
				Category:  c.String("category"),
				Tags:      parseTags(c.String("tags")),
				SortBy:    c.String("sort-by"),
				SortOrder: c.String("sort-order"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"profiles": profiles,
				"count":    len(profiles),
			})
		},
	}
}

// profileShowCmd fetches one profile by ID.
func profileShowCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one profile",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("profile id is required"))
			}
			p, err := env.profiles.Get(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(p)
		},
	}
}

// profileSaveCmd creates or updates a profile from a JSON document.
func profileSaveCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Create or update a profile from a JSON document (from --path or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Profile JSON file (stdin when omitted)"},
		},
		Action: func(c *cli.Context) error {
			var data []byte
			if path := c.String("path"); path != "" {
				raw, err := os.ReadFile(path)
				if err != nil {
					return outputError(errors.NewStorage(err))
				}
				data = raw
			} else {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("profile JSON must come from --path or stdin"))
				}
				raw, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				data = []byte(raw)
			}

			var p profile.Profile
			if err := json.Unmarshal(data, &p); err != nil {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid profile JSON: %v", err)))
			}

			saved, err := env.profiles.Save(p)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(saved)
		},
	}
}

// profileUseCmd selects a profile and applies it to the draft.
func profileUseCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "use",
		Usage:     "Select a profile and apply its role, rule, and output sections to the draft",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("profile id is required"))
			}
			id := c.Args().First()

			if err := env.profiles.SetCurrent(id); err != nil {
				return outputError(err)
			}
			p, err := env.profiles.Get(id)
			if err != nil {
				return outputError(err)
			}

			sess, err := env.loadSession()
			if err != nil {
				return outputError(err)
			}
			if err := sess.ApplyProfile(p); err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"id": p.ID, "name": p.Name})
		},
	}
}

// profileCurrentCmd shows the selected profile.
func profileCurrentCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "current",
		Usage: "Show the currently selected profile",
		Action: func(c *cli.Context) error {
			p, err := env.profiles.Current()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(p)
		},
	}
}

// profileDuplicateCmd copies a profile under a new ID.
func profileDuplicateCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "duplicate",
		Usage:     "Copy a profile; the copy is never a protected built-in",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Name for the copy (default: original name with a copy suffix)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("profile id is required"))
			}
			p, err := env.profiles.Duplicate(c.Args().First(), c.String("name"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(p)
		},
	}
}

// profileDeleteCmd removes a profile.
func profileDeleteCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a profile (built-in profiles are protected)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("profile id is required"))
			}
			deleted, err := env.profiles.Delete(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"id": c.Args().First(), "deleted": deleted})
		},
	}
}

// profileExportCmd writes profiles to a JSON file.
func profileExportCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export profiles to a JSON file (all profiles unless --ids is given)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Export file path"},
			&cli.StringFlag{Name: "ids", Usage: "Comma-separated profile ids to export"},
		},
		Action: func(c *cli.Context) error {
			data, err := env.profiles.Export(splitList(c.String("ids")))
			if err != nil {
				return outputError(err)
			}
			if err := os.WriteFile(c.String("path"), data, 0600); err != nil {
				return outputError(errors.NewStorage(err))
			}
			return outputJSON(map[string]any{"path": c.String("path")})
		},
	}
}

// profileImportCmd loads profiles from a JSON export file.
func profileImportCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import profiles from a JSON export file (imported copies get fresh ids)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("path"))
			if err != nil {
				return outputError(errors.NewStorage(err))
			}
			result, err := env.profiles.Import(data)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// profileStatsCmd summarizes the profile store.
func profileStatsCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show profile counts by category and top tags",
		Action: func(c *cli.Context) error {
			stats, err := env.profiles.GetStats()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(stats)
		},
	}
}
