package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notexe/voice-reminder/internal/api"
	"github.com/notexe/voice-reminder/internal/config"
	"github.com/notexe/voice-reminder/internal/repl"
	"github.com/notexe/voice-reminder/internal/session"
	"github.com/notexe/voice-reminder/internal/speech"
	"github.com/notexe/voice-reminder/internal/ui"
)

const startupTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	transport := flag.String("transport", "", "Storage transport (http, mcp, local)")
	baseURL := flag.String("url", "", "REST backend URL (overrides config)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *transport != "" {
		cfg.Client.Transport = *transport
	}
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}
	if *noColor {
		cfg.UI.ColoredOutput = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// log output would corrupt the readline prompt
	if cfg.UI.LogFile != "" {
		if err := config.EnsureDir(cfg.UI.LogFile); err == nil {
			if f, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				log.SetOutput(f)
				defer f.Close()
			}
		}
	}

	synth, err := speech.New(cfg.Speech)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating speech backend: %v\n", err)
		os.Exit(1)
	}
	defer synth.Close()
	gate := speech.NewGate(synth, cfg.Speech.Locale)

	spinner := ui.NewSpinner(os.Stdout, cfg.UI.ColoredOutput)
	spinner.Start("Подключение к хранилищу...")

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStart()

	gateway, err := api.NewGateway(startCtx, cfg)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Не удалось подключиться: %v", err))
		os.Exit(1)
	}
	defer gateway.Close()

	order, err := session.ParseOrder(cfg.Features.DefaultOrder)
	if err != nil {
		order = session.OrderDate
	}

	store := session.NewStore(gateway, gate, session.Options{
		SortingEnabled:   cfg.Features.Sorting,
		NotesEnabled:     cfg.Features.Notes,
		Order:            order,
		AnnounceInterval: cfg.Announce.Interval(),
		CallTimeout:      cfg.Client.RequestTimeout(),
		OnChange: func(snap session.Snapshot) {
			log.Printf("[store] %d reminders, %d done, %d toggles",
				len(snap.Reminders), snap.CompletedCount, snap.CheckboxCount)
		},
	})

	spinner.Start("Загрузка напоминаний...")
	if err := store.Load(startCtx); err != nil {
		spinner.StopWithError(fmt.Sprintf("Не удалось загрузить напоминания: %v", err))
		os.Exit(1)
	}
	spinner.StopWithMessage(fmt.Sprintf("Загружено напоминаний: %d", store.Len()))

	replInstance := repl.NewREPL(store, gate, cfg, repl.Options{Transport: cfg.Client.Transport})
	defer replInstance.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
		replInstance.Stop()
	}()

	if err := replInstance.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
