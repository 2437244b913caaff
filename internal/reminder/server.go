package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "reminder"
	serverVersion = "1.0.0"
)

// Tool names exposed by Server. The MCP gateway calls them by these names.
const (
	ToolAdd     = "add_reminder"
	ToolList    = "list_reminders"
	ToolSetDone = "set_reminder_done"
	ToolDelete  = "delete_reminder"
)

// NotFoundPrefix starts the text of every tool error caused by an unknown id.
const NotFoundPrefix = "not found: "

// Backend is the storage the MCP server exposes.
type Backend interface {
	Create(ctx context.Context, text string) (int64, error)
	List(ctx context.Context) ([]Reminder, error)
	SetDone(ctx context.Context, id int64, done bool) error
	Delete(ctx context.Context, id int64) error
}

// Server is the MCP server for reminder management.
type Server struct {
	mcpServer *server.MCPServer
	backend   Backend
}

// NewServer creates a new Reminder MCP server backed by the given storage.
func NewServer(backend Backend) *Server {
	s := &Server{
		backend: backend,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(ToolAdd,
			mcp.WithDescription("Add a new reminder and return its id"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Reminder text")),
		),
		s.handleAdd,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolList,
			mcp.WithDescription("List all reminders in creation order"),
		),
		s.handleList,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolSetDone,
			mcp.WithDescription("Mark a reminder as done or not done"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithBoolean("done", mcp.Required(), mcp.Description("New done flag")),
		),
		s.handleSetDone,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolDelete,
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDelete,
	)
}

func (s *Server) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")

	id, err := s.backend.Create(ctx, text)
	if err != nil {
		return toolError("failed to add reminder", err), nil
	}

	output, _ := json.Marshal(map[string]int64{"id": id})
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders, err := s.backend.List(ctx)
	if err != nil {
		return toolError("failed to list reminders", err), nil
	}

	output, _ := json.Marshal(reminders)
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleSetDone(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := requireID(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}
	done := req.GetBool("done", false)

	if err := s.backend.SetDone(ctx, id, done); err != nil {
		return toolError("failed to update reminder", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d done=%t.", id, done)), nil
}

func (s *Server) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := requireID(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	if err := s.backend.Delete(ctx, id); err != nil {
		return toolError("failed to delete reminder", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d deleted.", id)), nil
}

func requireID(req mcp.CallToolRequest) (int64, bool) {
	idFloat := req.GetFloat("id", -1)
	if idFloat <= 0 {
		return 0, false
	}
	return int64(idFloat), true
}

func toolError(msg string, err error) *mcp.CallToolResult {
	if errors.Is(err, ErrNotFound) {
		return mcp.NewToolResultError(NotFoundPrefix + err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", msg, err))
}
