package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"kleinanzeigen-mcp/models"
)

func (s *Server) registerTools(m *mcpserver.MCPServer) {
	searchTool := mcp.NewTool("search_listings",
		mcp.WithDescription("Durchsuche eBay Kleinanzeigen (kleinanzeigen.de) nach Artikeln mit Filtern. "+
			"Nutze dieses Tool für alle Suchanfragen nach lokalen Angeboten, gebrauchten Artikeln "+
			"oder Kleinanzeigen in Deutschland. Jedes Inserat enthält ID, Titel, Preis, "+
			"Kurzbeschreibung und direkten Link."),
		mcp.WithString("query",
			mcp.Description("Suchbegriffe für den Artikel (z.B. \"stereo lautsprecher\", \"fahrrad\", \"laptop\")")),
		mcp.WithString("location",
			mcp.Description("Postleitzahl oder Ort (z.B. \"78464\", \"Konstanz\", \"Berlin\")")),
		mcp.WithNumber("radius",
			mcp.Description("Suchradius in Kilometern um den Standort (z.B. 5, 10, 20, 50)")),
		mcp.WithNumber("min_price",
			mcp.Description("Mindestpreis in EUR (z.B. 50)")),
		mcp.WithNumber("max_price",
			mcp.Description("Höchstpreis in EUR (z.B. 500)")),
		mcp.WithNumber("page_count",
			mcp.DefaultNumber(1),
			mcp.Description("Anzahl der Ergebnisseiten (1-20, Standard: 1)")),
	)
	m.AddTool(searchTool, s.handleSearchListings)

	detailsTool := mcp.NewTool("get_listing_details",
		mcp.WithDescription("Hole vollständige Details zu einem eBay Kleinanzeigen Inserat: komplette "+
			"Beschreibung, Status, Preis, Versandoptionen, Standort, alle Bild-URLs, technische "+
			"Details und Verkäufer-Informationen. Nutze die \"adid\" aus search_listings Ergebnissen."),
		mcp.WithString("listing_id",
			mcp.Required(),
			mcp.Description("Die eindeutige Inserat-ID aus den Suchergebnissen (z.B. \"2937345678\")")),
	)
	m.AddTool(detailsTool, s.handleGetListingDetails)
}

// handleSearchListings decodes the individually-optional filter arguments,
// runs the search and renders the result. Errors become user-facing tool
// error text, never a raw protocol failure.
func (s *Server) handleSearchListings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filters := models.SearchFilters{
		Query:    req.GetString("query", ""),
		Location: req.GetString("location", ""),
		Radius:   req.GetInt("radius", 0),
	}
	if v := req.GetInt("min_price", -1); v >= 0 {
		filters.MinPrice = &v
	}
	if v := req.GetInt("max_price", -1); v >= 0 {
		filters.MaxPrice = &v
	}
	pageCount := req.GetInt("page_count", 1)

	start := time.Now()
	results, err := s.client.SearchListings(ctx, filters, pageCount)
	if err != nil {
		s.metrics.ObserveSearch("failure", 0, time.Since(start))
		s.logger.Error("[server] search_listings failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf(
			"Search error: %v. Please check your parameters and try again.", err)), nil
	}

	s.metrics.ObserveSearch("success", len(results), time.Since(start))
	return mcp.NewToolResultText(FormatSearchResults(results, filters)), nil
}

// handleGetListingDetails fetches and renders one full listing record.
func (s *Server) handleGetListingDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listingID := req.GetString("listing_id", "")
	if listingID == "" {
		return mcp.NewToolResultError("listing_id is required"), nil
	}

	start := time.Now()
	details, err := s.client.GetListingDetails(ctx, listingID)
	if err != nil {
		s.metrics.ObserveDetails("failure", time.Since(start))
		s.logger.Error("[server] get_listing_details failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf(
			"Error fetching listing %s: %v. Please verify the ID is correct.", listingID, err)), nil
	}

	s.metrics.ObserveDetails("success", time.Since(start))
	return mcp.NewToolResultText(FormatListingDetails(details)), nil
}
