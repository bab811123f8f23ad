package server

import (
	"fmt"
	"sort"
	"strings"

	"kleinanzeigen-mcp/models"
	"kleinanzeigen-mcp/services"
)

const listingBaseURL = "https://www.kleinanzeigen.de/s-anzeige/"

// FormatSearchResults renders search results as readable text for the LLM
// client: a numbered list with id, price, truncated description and link,
// followed by price statistics over the result set. Formatting only, no
// extraction logic.
func FormatSearchResults(results []models.ListingSummary, filters models.SearchFilters) string {
	if len(results) == 0 {
		return noResultsMessage(filters)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d listings:\n\n", len(results))

	for i, listing := range results {
		priceDisplay := "Preis auf Anfrage"
		if listing.Price != "" {
			priceDisplay = listing.Price + "€"
		}

		fmt.Fprintf(&b, "%d. [%s]\n", i+1, listing.Title)
		fmt.Fprintf(&b, "   ID: %s\n", listing.AdID)
		fmt.Fprintf(&b, "   Price: %s\n", priceDisplay)
		if listing.Description != "" {
			fmt.Fprintf(&b, "   Description: %s\n", truncate(listing.Description, 100))
		}
		fmt.Fprintf(&b, "   URL: %s\n\n", listing.URL)
	}

	stats := services.ComputeSearchStats(results)
	if stats.Priced > 0 {
		fmt.Fprintf(&b, "Price overview: %s€ – %s€ (avg %s€) across %d priced listings\n",
			formatAmount(stats.MinPrice), formatAmount(stats.MaxPrice),
			formatAmount(stats.AveragePrice), stats.Priced)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// noResultsMessage describes the filters that produced zero hits so the
// model can suggest broadening them. Zero results is not an error.
func noResultsMessage(filters models.SearchFilters) string {
	var parts []string
	if filters.Query != "" {
		parts = append(parts, "query: "+filters.Query)
	}
	if filters.Location != "" {
		parts = append(parts, "location: "+filters.Location)
	}
	if filters.HasPriceFilter() {
		minStr, maxStr := "0", "∞"
		if filters.MinPrice != nil {
			minStr = fmt.Sprintf("%d", *filters.MinPrice)
		}
		if filters.MaxPrice != nil {
			maxStr = fmt.Sprintf("%d", *filters.MaxPrice)
		}
		parts = append(parts, fmt.Sprintf("price: %s€ - %s€", minStr, maxStr))
	}

	filterText := "no filters"
	if len(parts) > 0 {
		filterText = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("No listings found for search (%s). Try broader criteria.", filterText)
}

// FormatListingDetails renders one full listing record as a detail sheet.
func FormatListingDetails(d *models.ListingDetails) string {
	var b strings.Builder

	b.WriteString("=== LISTING DETAILS ===\n\n")
	fmt.Fprintf(&b, "Title: %s\n", d.Title)
	fmt.Fprintf(&b, "ID: %s\n", d.ID)
	fmt.Fprintf(&b, "Status: %s\n", d.Status)
	if d.Price != nil {
		fmt.Fprintf(&b, "Price: %s€\n", *d.Price)
	} else {
		b.WriteString("Price: On request\n")
	}
	fmt.Fprintf(&b, "Views: %s\n\n", d.Views)

	if len(d.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n\n", strings.Join(d.Categories, " > "))
	}

	if d.Description != "" {
		b.WriteString("Description:\n")
		b.WriteString(d.Description)
		b.WriteString("\n\n")
	}

	if raw, ok := d.Location["raw"]; ok && raw != "" {
		fmt.Fprintf(&b, "Location: %s\n", raw)
	}
	if d.Delivery != nil {
		deliveryText := "Shipping available"
		if *d.Delivery == models.DeliveryPickup {
			deliveryText = "Pickup only"
		}
		fmt.Fprintf(&b, "Delivery: %s\n", deliveryText)
	}
	if len(d.Location) > 0 || d.Delivery != nil {
		b.WriteString("\n")
	}

	if len(d.Images) > 0 {
		fmt.Fprintf(&b, "Images (%d):\n", len(d.Images))
		shown := d.Images
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for i, img := range shown {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, img)
		}
		if rest := len(d.Images) - len(shown); rest > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", rest)
		}
		b.WriteString("\n")
	}

	writeKeyValues(&b, "Details", d.Details)
	writeKeyValues(&b, "Features", d.Features)
	writeKeyValues(&b, "Seller", d.Seller)

	fmt.Fprintf(&b, "View online: %s%s\n", listingBaseURL, d.ID)
	return b.String()
}

// writeKeyValues renders a label/value block with sorted keys so the sheet
// is stable between calls.
func writeKeyValues(b *strings.Builder, heading string, kv map[string]string) {
	if len(kv) == 0 {
		return
	}
	keys := make([]string, 0, len(kv))
	for key := range kv {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	b.WriteString(heading + ":\n")
	for _, key := range keys {
		fmt.Fprintf(b, "  %s: %s\n", key, kv[key])
	}
	b.WriteString("\n")
}

// truncate cuts s to max runes, never mid-sequence: descriptions are full of
// umlauts and a byte slice could emit invalid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
