// Package mcp talks to the reminder MCP server over stdio and exposes it as
// a persistence gateway for the console.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolError is returned when the server reports a failed tool call.
type ToolError struct {
	Tool string
	Text string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Text)
}

// Client wraps an MCP client connected to one server.
type Client struct {
	mcpClient *client.Client
	connected bool
	tools     []string
}

// NewClient starts the server command and returns a client for it.
// env entries are appended to the current environment.
func NewClient(command string, env []string, args ...string) (*Client, error) {
	// mcp-go panics on a nil reader when the command cannot be spawned
	if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("MCP server command not found: %w", err)
	}

	mcpClient, err := client.NewStdioMCPClient(command, append(os.Environ(), env...), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}

	return &Client{mcpClient: mcpClient}, nil
}

// Wrap returns a Client over an already started mcp-go client, such as an
// in-process one.
func Wrap(c *client.Client) *Client {
	return &Client{mcpClient: c}
}

// Connect performs the protocol handshake and records the server's tools.
func (c *Client) Connect(ctx context.Context) error {
	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "voice-reminder",
		Version: "1.0.0",
	}
	initRequest.Params.Capabilities = mcp.ClientCapabilities{}

	if _, err := c.mcpClient.Initialize(ctx, initRequest); err != nil {
		return fmt.Errorf("MCP initialization failed: %w", err)
	}

	toolsResult, err := c.mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}

	c.tools = c.tools[:0]
	for _, t := range toolsResult.Tools {
		c.tools = append(c.tools, t.Name)
	}
	c.connected = true
	return nil
}

// HasTool reports whether the connected server offers the named tool.
func (c *Client) HasTool(name string) bool {
	return slices.Contains(c.tools, name)
}

// CallTool executes a tool and returns its text output. A result flagged
// as an error comes back as *ToolError.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if !c.connected {
		return "", fmt.Errorf("not connected to MCP server, call Connect() first")
	}

	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := c.mcpClient.CallTool(ctx, request)
	if err != nil {
		return "", fmt.Errorf("tool call failed: %w", err)
	}

	var output string
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			output += textContent.Text
		}
	}

	if result.IsError {
		return "", &ToolError{Tool: name, Text: output}
	}
	return output, nil
}

// Close shuts down the connection and the server process.
func (c *Client) Close() error {
	if c.mcpClient != nil {
		return c.mcpClient.Close()
	}
	return nil
}
