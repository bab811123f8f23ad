package server

import (
	"encoding/json"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kleinanzeigen-mcp/config"
	"kleinanzeigen-mcp/monitoring"
	"kleinanzeigen-mcp/scraper/kleinanzeigen"
	"kleinanzeigen-mcp/utils"
)

const (
	serverName    = "ebay-kleinanzeigen-search"
	serverVersion = "1.0.0"
)

// Server wires the scraping client into an MCP server: two tools, three
// workflow prompts, and for the HTTP transport a health and a metrics
// endpoint. It contains no extraction logic of its own.
type Server struct {
	cfg     *config.Config
	logger  *utils.Logger
	client  *kleinanzeigen.Client
	metrics *monitoring.Metrics
	mcp     *mcpserver.MCPServer
}

// New builds the MCP server and registers all tools and prompts.
func New(cfg *config.Config, logger *utils.Logger, client *kleinanzeigen.Client, metrics *monitoring.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		metrics: metrics,
	}

	m := mcpserver.NewMCPServer(serverName, serverVersion, mcpserver.WithRecovery())
	s.registerTools(m)
	s.registerPrompts(m)
	s.mcp = m

	logger.Info("[server] Available tools: search_listings, get_listing_details")
	logger.Info("[server] Available prompts: find_deals, compare_listings, monitor_search")
	return s
}

// ServeStdio runs the server over stdin/stdout for local clients. All
// logging stays on stderr.
func (s *Server) ServeStdio() error {
	s.logger.Info("[server] stdio transport ready")
	return mcpserver.ServeStdio(s.mcp)
}

// ServeSSE runs the HTTP/SSE transport plus the health and metrics
// endpoints on the given address. Blocks until the listener fails.
func (s *Server) ServeSSE(addr string) error {
	sse := mcpserver.NewSSEServer(s.mcp,
		mcpserver.WithSSEEndpoint("/sse"),
		mcpserver.WithMessageEndpoint("/messages"),
	)

	mux := http.NewServeMux()
	mux.Handle("/sse", sse.SSEHandler())
	mux.Handle("/messages", sse.MessageHandler())
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleHealth)

	s.logger.Info("[server] SSE transport listening on %s", addr)
	httpServer := &http.Server{Addr: addr, Handler: mux}
	return httpServer.ListenAndServe()
}

// handleHealth answers monitoring probes with a small JSON status document.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"server":    serverName,
		"version":   serverVersion,
		"transport": "sse",
		"endpoints": map[string]string{
			"health":   "/",
			"sse":      "/sse",
			"messages": "/messages",
			"metrics":  "/metrics",
		},
	})
}
