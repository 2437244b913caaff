package api

import (
	"context"
	"fmt"

	"github.com/notexe/voice-reminder/internal/config"
	"github.com/notexe/voice-reminder/internal/mcp"
	"github.com/notexe/voice-reminder/internal/reminder"
)

// NewGateway creates a Gateway based on the client transport.
func NewGateway(ctx context.Context, cfg *config.Config) (Gateway, error) {
	switch cfg.Client.Transport {
	case config.TransportHTTP:
		return NewClient(cfg.Client)

	case config.TransportMCP:
		env := []string{config.EnvPrefix + "SERVER__DB_PATH=" + cfg.Server.DBPath}
		return mcp.Dial(ctx, cfg.Client.MCPCommand, env, cfg.Client.MCPArgs...)

	case config.TransportLocal:
		if err := config.EnsureDir(cfg.Server.DBPath); err != nil {
			return nil, err
		}
		return reminder.OpenDB(cfg.Server.DBPath)

	default:
		return nil, fmt.Errorf("unknown transport: %s (supported: %s, %s, %s)",
			cfg.Client.Transport, config.TransportHTTP, config.TransportMCP, config.TransportLocal)
	}
}
