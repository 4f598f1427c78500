// Package mcp implements the Model Context Protocol server for crewdesk.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/crewdeskhq/crewdesk/internal/analyzer"
	"github.com/crewdeskhq/crewdesk/internal/brain"
	"github.com/crewdeskhq/crewdesk/internal/chat"
	"github.com/crewdeskhq/crewdesk/internal/entity"
	"github.com/crewdeskhq/crewdesk/internal/models"
	"github.com/crewdeskhq/crewdesk/internal/registry"
	"github.com/crewdeskhq/crewdesk/internal/router"
)

// Server wraps an MCPServer with crewdesk dependencies.
type Server struct {
	mcp      *mcpserver.MCPServer
	registry *registry.Registry
	brain    *brain.Store
	chat     *chat.Service
	router   router.Router
	entities *entity.Store
	userID   string
	logger   *slog.Logger
}

// NewServer creates a new MCP server. Nil dependencies make the
// corresponding tool calls return an error response instead of panicking.
func NewServer(reg *registry.Registry, br *brain.Store, ch *chat.Service, rt router.Router, es *entity.Store, userID string, logger *slog.Logger) *Server {
	s := &Server{
		registry: reg,
		brain:    br,
		chat:     ch,
		router:   rt,
		entities: es,
		userID:   userID,
		logger:   logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"crewdesk",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildAddPersonaTool(), s.handleAddPersona)
	mcpSrv.AddTool(buildRouteTool(), s.handleRoute)
	mcpSrv.AddTool(buildRememberTool(), s.handleRemember)
	mcpSrv.AddTool(buildSearchBrainTool(), s.handleSearchBrain)
	mcpSrv.AddTool(buildChatTool(), s.handleChat)
	mcpSrv.AddTool(buildStatsTool(), s.handleStats)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleAddPersona is the exported handler for the "add_persona" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleAddPersona(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleAddPersona(ctx, req)
}

// HandleRoute is the exported handler for the "route_question" tool.
func (s *Server) HandleRoute(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleRoute(ctx, req)
}

// HandleRemember is the exported handler for the "remember" tool.
func (s *Server) HandleRemember(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleRemember(ctx, req)
}

// HandleSearchBrain is the exported handler for the "search_brain" tool.
func (s *Server) HandleSearchBrain(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleSearchBrain(ctx, req)
}

// HandleChat is the exported handler for the "chat" tool.
func (s *Server) HandleChat(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleChat(ctx, req)
}

// HandleStats is the exported handler for the "stats" tool.
func (s *Server) HandleStats(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleStats(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// --- tool definitions ---

func buildAddPersonaTool() mcpgo.Tool {
	return mcpgo.NewTool("add_persona",
		mcpgo.WithDescription("Create a new AI employee persona in the workspace."),
		mcpgo.WithString("name",
			mcpgo.Required(),
			mcpgo.Description("Display name of the persona"),
		),
		mcpgo.WithString("role",
			mcpgo.Required(),
			mcpgo.Description("Role of the persona, e.g. 'Copywriter'"),
		),
		mcpgo.WithString("color",
			mcpgo.Description("Presentation color token"),
		),
	)
}

func buildRouteTool() mcpgo.Tool {
	return mcpgo.NewTool("route_question",
		mcpgo.WithDescription("Pick the persona best suited to answer a free-text question."),
		mcpgo.WithString("question",
			mcpgo.Required(),
			mcpgo.Description("The question to route"),
		),
	)
}

func buildRememberTool() mcpgo.Tool {
	return mcpgo.NewTool("remember",
		mcpgo.WithDescription("Store a knowledge item in the user's brain."),
		mcpgo.WithString("title",
			mcpgo.Required(),
			mcpgo.Description("Title of the knowledge item"),
		),
		mcpgo.WithString("content",
			mcpgo.Required(),
			mcpgo.Description("The content to remember"),
		),
		mcpgo.WithString("type",
			mcpgo.Description("Item type: snippet, website, or file (default: snippet)"),
		),
	)
}

func buildSearchBrainTool() mcpgo.Tool {
	return mcpgo.NewTool("search_brain",
		mcpgo.WithDescription("Search the user's knowledge items by substring over title and content. An empty query returns everything."),
		mcpgo.WithString("query",
			mcpgo.Description("The text to search for"),
		),
	)
}

func buildChatTool() mcpgo.Tool {
	return mcpgo.NewTool("chat",
		mcpgo.WithDescription("Send a message to a persona and get the assistant reply. The message is logged before the model is called."),
		mcpgo.WithString("persona_id",
			mcpgo.Required(),
			mcpgo.Description("ID of the persona to talk to"),
		),
		mcpgo.WithString("message",
			mcpgo.Required(),
			mcpgo.Description("The message to send"),
		),
	)
}

func buildStatsTool() mcpgo.Tool {
	return mcpgo.NewTool("stats",
		mcpgo.WithDescription("Get workspace statistics: persona count, brain users, conversation count."),
	)
}

// --- tool handlers ---

func (s *Server) handleAddPersona(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.registry == nil {
		return mcpgo.NewToolResultError("registry is unavailable"), nil
	}

	name := req.GetString("name", "")
	role := req.GetString("role", "")
	color := req.GetString("color", "")

	p, err := s.registry.Add(ctx, name, role, "", color, nil)
	if err != nil {
		return mcpgo.NewToolResultErrorf("add persona failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: added persona", "id", p.ID, "role", p.Role)
	return toolResultJSON(p)
}

func (s *Server) handleRoute(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.registry == nil || s.router == nil {
		return mcpgo.NewToolResultError("router is unavailable"), nil
	}

	question := req.GetString("question", "")
	if strings.TrimSpace(question) == "" {
		return mcpgo.NewToolResultError("question is required and must not be empty"), nil
	}

	p, err := s.router.Route(s.registry.List(ctx), question)
	if err != nil {
		if errors.Is(err, router.ErrNoPersonas) {
			return mcpgo.NewToolResultError("no personas available; create or seed a team first"), nil
		}
		return mcpgo.NewToolResultErrorf("route failed: %s", err.Error()), nil
	}

	return toolResultJSON(p)
}

func (s *Server) handleRemember(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.brain == nil {
		return mcpgo.NewToolResultError("brain is unavailable"), nil
	}

	title := req.GetString("title", "")
	content := req.GetString("content", "")
	if strings.TrimSpace(content) == "" {
		return mcpgo.NewToolResultError("content is required and must not be empty"), nil
	}

	itemType := models.KnowledgeTypeSnippet
	if t := req.GetString("type", ""); t != "" {
		candidate := models.KnowledgeType(t)
		if !candidate.IsValid() {
			return mcpgo.NewToolResultErrorf("invalid type %q: must be one of snippet, website, file", t), nil
		}
		itemType = candidate
	}

	item, err := s.brain.Add(ctx, s.userID, brain.AddInput{
		Type:    itemType,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return mcpgo.NewToolResultErrorf("remember failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: remembered item", "id", item.ID, "type", item.Type)
	return toolResultJSON(map[string]any{"id": item.ID, "stored": true})
}

func (s *Server) handleSearchBrain(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.brain == nil {
		return mcpgo.NewToolResultError("brain is unavailable"), nil
	}

	items := s.brain.Search(ctx, s.userID, req.GetString("query", ""))
	if items == nil {
		items = []models.KnowledgeItem{}
	}
	return toolResultJSON(map[string]any{"items": items})
}

func (s *Server) handleChat(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.chat == nil {
		return mcpgo.NewToolResultError("chat is unavailable"), nil
	}

	personaID := req.GetString("persona_id", "")
	message := req.GetString("message", "")
	if strings.TrimSpace(personaID) == "" {
		return mcpgo.NewToolResultError("persona_id is required and must not be empty"), nil
	}
	if strings.TrimSpace(message) == "" {
		return mcpgo.NewToolResultError("message is required and must not be empty"), nil
	}

	reply, err := s.chat.Send(ctx, personaID, message, nil, nil)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrNotFound):
			return mcpgo.NewToolResultErrorf("persona %s not found", personaID), nil
		case errors.Is(err, analyzer.ErrRateLimited):
			return mcpgo.NewToolResultError("assistant is rate limited; the message was saved"), nil
		case errors.Is(err, analyzer.ErrUnavailable):
			return mcpgo.NewToolResultError("assistant is unavailable; the message was saved"), nil
		}
		return mcpgo.NewToolResultErrorf("chat failed: %s", err.Error()), nil
	}

	return toolResultJSON(reply)
}

func (s *Server) handleStats(ctx context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.entities == nil {
		return mcpgo.NewToolResultError("store is unavailable"), nil
	}

	stats, err := s.entities.Stats(ctx)
	if err != nil {
		return mcpgo.NewToolResultErrorf("stats failed: %s", err.Error()), nil
	}
	return toolResultJSON(stats)
}
