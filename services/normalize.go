package services

import (
	"regexp"
	"strings"

	"kleinanzeigen-mcp/models"
)

var (
	// horizontalSpaceRegexp collapses runs of spaces/tabs inside descriptions
	horizontalSpaceRegexp = regexp.MustCompile(`[ \t]+`)
	// blankLinesRegexp collapses runs of line breaks to a single one
	blankLinesRegexp = regexp.MustCompile(`\n+`)
)

// priceReplacer strips the currency symbol, the "VB" (negotiable) marker and
// the thousands-separator dots Kleinanzeigen uses, e.g. "1.250 € VB" → "1250".
var priceReplacer = strings.NewReplacer("€", "", "VB", "", ".", "")

// NormalizePrice turns a raw price fragment into a bare numeric string.
// An empty or marker-only input yields "", which callers treat as
// "price on request".
func NormalizePrice(raw string) string {
	return strings.TrimSpace(priceReplacer.Replace(raw))
}

// CleanTitle strips the bullet-separated status/category prefix the site
// bakes into the title element, keeping only the text after the last bullet.
// "Reserviert • Top • Real Title" → "Real Title".
func CleanTitle(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.LastIndex(raw, " • "); idx >= 0 {
		return strings.TrimSpace(raw[idx+len(" • "):])
	}
	return raw
}

// ResolveStatus derives the listing status from the raw title text and the
// presence of the sold badge. The badge check runs last and therefore wins
// over any title-derived state; that ordering matches the source site, where
// the badge is more authoritative than stale title markers.
func ResolveStatus(titleText string, soldBadge bool) string {
	status := models.StatusActive
	switch {
	case strings.Contains(titleText, "Verkauft"):
		status = models.StatusSold
	case strings.Contains(titleText, "Reserviert •"):
		status = models.StatusReserved
	case strings.Contains(titleText, "Gelöscht •"):
		status = models.StatusDeleted
	}
	if soldBadge {
		status = models.StatusSold
	}
	return status
}

// ClassifyDelivery maps the shipping info text to a delivery mode. The
// pickup-only marker is checked first since "Nur Abholung" listings can
// still mention Versand in surrounding text. Returns "" when unknown.
func ClassifyDelivery(shippingText string) string {
	switch {
	case shippingText == "":
		return ""
	case strings.Contains(shippingText, "Nur Abholung"):
		return models.DeliveryPickup
	case strings.Contains(shippingText, "Versand"):
		return models.DeliveryShipping
	default:
		return ""
	}
}

// NormalizeDescription collapses runs of horizontal whitespace to a single
// space and runs of blank lines to a single line break, then trims.
func NormalizeDescription(raw string) string {
	if raw == "" {
		return ""
	}
	s := horizontalSpaceRegexp.ReplaceAllString(raw, " ")
	s = blankLinesRegexp.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// LabelValue is one label/value row from a structured attributes block on
// the detail page.
type LabelValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PairLabels folds label/value rows into a map. Rows missing either side are
// skipped; later duplicates of a label overwrite earlier ones.
func PairLabels(pairs []LabelValue) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		label := strings.TrimSpace(p.Label)
		value := strings.TrimSpace(p.Value)
		if label == "" || value == "" {
			continue
		}
		out[label] = value
	}
	return out
}
