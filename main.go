package main

import (
	"os"
	"os/signal"
	"syscall"

	"kleinanzeigen-mcp/config"
	"kleinanzeigen-mcp/monitoring"
	"kleinanzeigen-mcp/scraper/kleinanzeigen"
	"kleinanzeigen-mcp/server"
	"kleinanzeigen-mcp/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Kleinanzeigen MCP Server starting (transport: %s) ===", cfg.TransportMode)

	metrics := monitoring.NewMetrics()

	client := kleinanzeigen.New(cfg, logger)
	if err := client.Start(); err != nil {
		logger.Error("Browser startup failed: %v", err)
		logger.Error("Set CHROME_BIN if Chrome/Chromium is installed in a non-standard location")
		os.Exit(1)
	}
	defer client.Stop()

	srv := server.New(cfg, logger, client, metrics)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received %v, shutting down", sig)
		client.Stop()
		os.Exit(0)
	}()

	var err error
	switch cfg.TransportMode {
	case "sse":
		err = srv.ServeSSE(cfg.Addr())
	default:
		err = srv.ServeStdio()
	}

	if err != nil {
		logger.Error("Server stopped: %v", err)
		client.Stop()
		os.Exit(1)
	}
}
