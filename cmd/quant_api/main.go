package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"quant_trader/internal/agents"
	"quant_trader/internal/ai"
	"quant_trader/internal/api"
	"quant_trader/internal/config"
	"quant_trader/internal/logger"
	"quant_trader/internal/registry"
	"quant_trader/internal/trading"
	"quant_trader/internal/wallet"
)

const VersionFile = "version.latest"

// main is the entry point of the API server.
func main() {
	// 1. Initialization
	// Load configuration first to get logger settings
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("CRITICAL: invalid configuration: %v", err)
	}
	version := readVersion()

	closer, err := logger.Setup(logger.Options{
		Filename:   cfg.LogFile,
		MaxSizeMB:  int64(cfg.MaxLogSizeMB),
		MaxBackups: cfg.MaxLogBackups,
		Level:      cfg.LogLevel,
	})
	if err != nil {
		log.Printf("Warning: file logging disabled: %v", err)
	}
	defer closer.Close()
	cfg.LogSummary()

	// 2. Setup Dependencies
	reg := registry.New()
	agentService := agents.NewService(reg, wallet.NewSolanaValidator())

	dex := ai.NewOllamaBackend(cfg.OllamaURL, cfg.OllamaModel, cfg.AITimeout())
	pump := ai.NewCompletionsBackend(ai.CompletionsOptions{
		BaseURL:     cfg.CompletionsURL,
		Model:       cfg.CompletionsModel,
		APIKey:      cfg.CompletionsAPIKey,
		MaxTokens:   cfg.CompletionsMaxTokens,
		Temperature: cfg.CompletionsTemperature,
		Timeout:     cfg.AITimeout(),
	})
	analyzer := ai.NewDispatcher(dex, pump)
	trader := trading.NewDispatcher()

	srv := api.NewServer(agentService, analyzer, trader, api.Options{
		Version:           version,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		StreamInterval:    cfg.StreamInterval(),
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// analysis calls can take up to the AI timeout
		WriteTimeout: cfg.AITimeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 3. Setup Signal Handling (Graceful Shutdown)
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down: system signal received.")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
		}
	}()

	log.Printf("Quant API %s listening on %s", version, server.Addr)
	log.Printf("dex -> %s (%s), pump -> %s (%s)", cfg.OllamaURL, cfg.OllamaModel, cfg.CompletionsURL, cfg.CompletionsModel)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	<-shutdownDone
	log.Println("Server stopped.")
}

func readVersion() string {
	version, err := os.ReadFile(VersionFile)
	if err != nil {
		return "v0.0.0-dev"
	}
	return strings.TrimSpace(string(version))
}
