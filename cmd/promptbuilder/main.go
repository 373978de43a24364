package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/config"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/kvstore"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/mcp"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/profile"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "files": true, "remove": true, "clear-files": true,
	"filter": true, "set": true, "show": true, "build": true,
	"save": true, "load": true,
	"history": true, "profile": true, "stars": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___ _ __ ___  _ __ ___  _ __ | |_
  | _ \ '__/ _ \| '_ \ _ \| '_ \| __|
  |  _/ | | (_) | | | | | | |_) | |_
  |_| |_|  \___/|_| |_| |_| .__/ \__|
                          |_|
  AI coding prompt builder

  Usage: promptbuilder <command> [options]
         promptbuilder --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any state is opened (not needed)
	if isHelpOrVersion() {
		app := newCLIApp(&appEnv{})
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".promptbuilder")

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	db.ConfigurePool(database, cfg)

	state, err := kvstore.OpenFile(filepath.Join(baseDir, "state.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open state store: %v\n", err)
		os.Exit(1)
	}

	profiles := profile.NewManager(state)

	// CLI mode: known subcommand
	if isCLIMode() {
		env := &appEnv{
			db:       database,
			cfg:      cfg,
			state:    state,
			profiles: profiles,
			baseDir:  baseDir,
		}
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'promptbuilder --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(database, cfg, profiles, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
