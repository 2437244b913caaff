package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/notexe/voice-reminder/internal/reminder"
)

// Caller executes one tool call. *Client implements it.
type Caller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// Gateway stores reminders through the reminder MCP server's tools.
type Gateway struct {
	caller Caller
	closer func() error
}

// NewGateway wraps caller. If caller also has a Close method the gateway's
// Close forwards to it.
func NewGateway(caller Caller) *Gateway {
	g := &Gateway{caller: caller}
	if c, ok := caller.(interface{ Close() error }); ok {
		g.closer = c.Close
	}
	return g
}

// Dial starts the MCP server command, connects and checks that every
// reminder tool is present.
func Dial(ctx context.Context, command string, env []string, args ...string) (*Gateway, error) {
	c, err := NewClient(command, env, args...)
	if err != nil {
		return nil, err
	}

	if err := c.Connect(ctx); err != nil {
		c.Close()
		return nil, err
	}

	for _, tool := range []string{reminder.ToolAdd, reminder.ToolList, reminder.ToolSetDone, reminder.ToolDelete} {
		if !c.HasTool(tool) {
			c.Close()
			return nil, fmt.Errorf("MCP server %s does not provide tool %s", command, tool)
		}
	}

	log.Printf("[mcp] Connected to %s", command)
	return NewGateway(c), nil
}

func (g *Gateway) Create(ctx context.Context, text string) (int64, error) {
	out, err := g.call(ctx, reminder.ToolAdd, map[string]any{"text": text})
	if err != nil {
		return 0, err
	}

	var resp struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return 0, fmt.Errorf("failed to decode %s result: %w", reminder.ToolAdd, err)
	}
	return resp.ID, nil
}

func (g *Gateway) List(ctx context.Context) ([]reminder.Reminder, error) {
	out, err := g.call(ctx, reminder.ToolList, nil)
	if err != nil {
		return nil, err
	}

	reminders := []reminder.Reminder{}
	if err := json.Unmarshal([]byte(out), &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", reminder.ToolList, err)
	}
	return reminders, nil
}

func (g *Gateway) SetDone(ctx context.Context, id int64, done bool) error {
	_, err := g.call(ctx, reminder.ToolSetDone, map[string]any{"id": id, "done": done})
	return err
}

func (g *Gateway) Delete(ctx context.Context, id int64) error {
	_, err := g.call(ctx, reminder.ToolDelete, map[string]any{"id": id})
	return err
}

func (g *Gateway) Close() error {
	if g.closer != nil {
		return g.closer()
	}
	return nil
}

func (g *Gateway) call(ctx context.Context, tool string, args map[string]any) (string, error) {
	out, err := g.caller.CallTool(ctx, tool, args)
	if err == nil {
		return out, nil
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) && strings.HasPrefix(toolErr.Text, reminder.NotFoundPrefix) {
		return "", fmt.Errorf("%s: %w", tool, reminder.ErrNotFound)
	}
	return "", err
}
