package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func (s *Server) registerPrompts(m *mcpserver.MCPServer) {
	m.AddPrompt(mcp.NewPrompt("find_deals",
		mcp.WithPromptDescription("Help users find the best deals for a specific item type within budget."),
		mcp.WithArgument("item_type",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("What to search for (e.g. \"laptop\", \"bicycle\", \"furniture\")")),
		mcp.WithArgument("max_budget",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("Maximum price in EUR")),
		mcp.WithArgument("location",
			mcp.ArgumentDescription("Location or postal code for local search (default: Germany)")),
	), s.handleFindDeals)

	m.AddPrompt(mcp.NewPrompt("compare_listings",
		mcp.WithPromptDescription("Compare multiple listings side-by-side to help decision-making."),
		mcp.WithArgument("listing_ids",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("Comma-separated listing IDs to compare (e.g. \"123,456,789\")")),
	), s.handleCompareListings)

	m.AddPrompt(mcp.NewPrompt("monitor_search",
		mcp.WithPromptDescription("Set up a search monitoring strategy for new listings."),
		mcp.WithArgument("query",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("Search keywords")),
		mcp.WithArgument("location",
			mcp.ArgumentDescription("Optional location filter")),
		mcp.WithArgument("max_price",
			mcp.ArgumentDescription("Optional maximum price in EUR")),
	), s.handleMonitorSearch)
}

func (s *Server) handleFindDeals(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	itemType := req.Params.Arguments["item_type"]
	maxBudget := req.Params.Arguments["max_budget"]
	location := req.Params.Arguments["location"]
	if location == "" {
		location = "Germany"
	}

	text := fmt.Sprintf(`You are helping a user find the best deals for %[1]s on eBay Kleinanzeigen.

**User Requirements:**
- Item: %[1]s
- Maximum Budget: %[2]s€
- Location: %[3]s

**Your Task:**
1. Use search_listings to find available %[1]s items under %[2]s€ in %[3]s
2. Sort results mentally by value (price vs. features/condition)
3. For the top 3-5 most promising listings, use get_listing_details to get full information
4. Compare and present:
   - Price comparison
   - Condition analysis
   - Location/delivery convenience
   - Seller reputation indicators
5. Provide a recommendation with reasoning

**Output Format:**
- Summary table of best options
- Detailed analysis of top recommendation
- Pros/cons for each option
- Action steps for the user

Begin your search now.`, itemType, maxBudget, location)

	return promptResult("Find deals workflow", text), nil
}

func (s *Server) handleCompareListings(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	var ids []string
	for _, id := range strings.Split(req.Params.Arguments["listing_ids"], ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	text := fmt.Sprintf(`You are helping a user compare multiple eBay Kleinanzeigen listings.

**Listings to Compare:**
%s

**Your Task:**
1. Use get_listing_details for each listing ID
2. Create a comparison table with:
   - Price
   - Condition/Status
   - Location & Delivery
   - Key Features
   - Seller Information
3. Highlight:
   - Best value for money
   - Most convenient option
   - Any concerns or red flags
4. Provide a clear recommendation

**Output Format:**
- Side-by-side comparison table
- Key differences highlighted
- Recommendation with reasoning
- Questions user should ask sellers

Begin the comparison now.`, strings.Join(ids, ", "))

	return promptResult("Compare listings workflow", text), nil
}

func (s *Server) handleMonitorSearch(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	query := req.Params.Arguments["query"]
	location := req.Params.Arguments["location"]
	maxPrice := req.Params.Arguments["max_price"]

	filters := "query: " + query
	if location != "" {
		filters += ", location: " + location
	}
	if maxPrice != "" {
		filters += ", max price: " + maxPrice + "€"
	}

	text := fmt.Sprintf(`You are helping a user monitor new listings on eBay Kleinanzeigen.

**Search Parameters:**
%s

**Your Task:**
1. Run search_listings with the parameters above to establish a baseline
2. Note the listing IDs currently present
3. Explain to the user how to re-run this search to spot new listings
4. Suggest refinements (price bounds, radius) that would sharpen the results
5. Flag listings worth an immediate get_listing_details follow-up

**Output Format:**
- Baseline summary with listing count
- Watchlist of the most promising current listings
- Concrete re-check strategy

Begin the baseline search now.`, filters)

	return promptResult("Monitor search workflow", text), nil
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}
