// Package mcp exposes the prompt builder over the Model Context
// Protocol so agents can save, search, and rebuild prompts from the
// same store the CLI uses.
package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/config"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/profile"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"record_save": {
		def:     saveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSave },
	},
	"record_get": {
		def:     getToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"record_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"record_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"record_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"profile_list": {
		def:     profileListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProfileList },
	},
	"profile_current": {
		def:     profileCurrentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProfileCurrent },
	},
	"prompt_build": {
		def:     promptBuildToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePromptBuild },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates a new MCP server with prompt builder tools
// registered. Tools listed in cfg.DisabledTools are excluded.
func NewServer(db *sql.DB, cfg *config.Config, profiles *profile.Manager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"promptbuilder",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, profiles)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, profiles *profile.Manager, version string) error {
	s := NewServer(db, cfg, profiles, version)
	return server.ServeStdio(s)
}
