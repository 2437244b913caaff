// Package api serves the reminder REST API and provides the gateways the
// console uses to reach durable storage.
package api

import "github.com/notexe/voice-reminder/internal/session"

// Gateway is a session.Gateway that holds a connection or file handle.
// Implementations are the REST Client, the MCP gateway and the local
// SQLite database.
type Gateway interface {
	session.Gateway

	// Close releases any resources held by the gateway.
	Close() error
}
