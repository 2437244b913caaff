// Command reminderd serves the reminder REST API over a SQLite database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/notexe/voice-reminder/internal/api"
	"github.com/notexe/voice-reminder/internal/config"
	"github.com/notexe/voice-reminder/internal/reminder"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	// .env is optional; values from it feed the VOICE_REMINDER_* overrides
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[server] Failed to load .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Server.DBPath = config.ExpandPath(*dbPath)
	}

	if err := cfg.ValidateServer(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
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

	stats := api.NewStatsCollector(db, cfg.Server.StatsSchedule)
	if err := stats.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start stats job: %v\n", err)
		os.Exit(1)
	}
	defer stats.Stop()

	gin.SetMode(cfg.Server.GinMode)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[server] Listening on %s (db: %s)", cfg.Server.Addr, cfg.Server.DBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] Listen failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("[server] Caught signal %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[server] Shutdown error: %v", err)
	}
	log.Printf("[server] Shutdown complete.")
}
