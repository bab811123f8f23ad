package services

import (
	"math"
	"strconv"

	"kleinanzeigen-mcp/models"
)

// SearchStats summarizes the prices seen in one search's results. Listings
// without a usable price ("price on request") count towards Total only.
type SearchStats struct {
	Total        int
	Priced       int
	MinPrice     float64
	MaxPrice     float64
	AveragePrice float64
}

// ComputeSearchStats derives price statistics over a slice of summaries.
func ComputeSearchStats(listings []models.ListingSummary) SearchStats {
	stats := SearchStats{Total: len(listings)}

	var total float64
	for _, l := range listings {
		price, err := strconv.ParseFloat(l.Price, 64)
		if err != nil || price <= 0 {
			continue
		}
		if stats.Priced == 0 {
			stats.MinPrice = price
			stats.MaxPrice = price
		}
		if price < stats.MinPrice {
			stats.MinPrice = price
		}
		if price > stats.MaxPrice {
			stats.MaxPrice = price
		}
		total += price
		stats.Priced++
	}

	if stats.Priced > 0 {
		stats.AveragePrice = round2(total / float64(stats.Priced))
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
