// Command mcp-reminder provides an MCP server for the voice reminder list.
//
// It exposes the reminder list stored in a SQLite database as MCP tools
// so the console can use it as a persistence gateway over stdio.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Environment:
//
//	VOICE_REMINDER_SERVER__DB_PATH  Path to SQLite database (default: ~/.voice-reminder/reminders.db)
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/voice-reminder/internal/config"
	"github.com/notexe/voice-reminder/internal/reminder"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(config.GetDefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := config.EnsureDir(cfg.Server.DBPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	db, err := reminder.OpenDB(cfg.Server.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	s := reminder.NewServer(db)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - voice reminder list via MCP protocol

USAGE:
    mcp-reminder          Start MCP server (communicates via stdio)
    mcp-reminder --help   Show this help

ENVIRONMENT:
    VOICE_REMINDER_SERVER__DB_PATH  Path to SQLite database file
                                    Default: ~/.voice-reminder/reminders.db

TOOLS:
    add_reminder       Add a reminder (text) and return its id
    list_reminders     List all reminders in creation order
    set_reminder_done  Mark a reminder as done or not done (id, done)
    delete_reminder    Delete a reminder permanently (id)

CONSOLE:
    reminder -transport mcp`)
}
