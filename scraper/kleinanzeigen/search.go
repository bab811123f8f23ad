package kleinanzeigen

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"

	"kleinanzeigen-mcp/models"
	"kleinanzeigen-mcp/services"
)

// searchExtractJS pulls the candidate result fragments from a rendered
// search page. Promoted placements (top ads, pro badges) are excluded in the
// selector itself. Identity filtering happens on the Go side so the rule
// "no adid or href, no summary" stays testable.
const searchExtractJS = `
(function() {
	var out = [];
	var items = document.querySelectorAll('.ad-listitem:not(.is-topad):not(.badge-hint-pro-small-srp)');
	for (var i = 0; i < items.length; i++) {
		var article = items[i].querySelector('article');
		if (!article) continue;
		var titleEl = article.querySelector('h2.text-module-begin a.ellipsis');
		var priceEl = article.querySelector('p.aditem-main--middle--price-shipping--price');
		var descEl = article.querySelector('p.aditem-main--middle--description');
		out.push({
			adid: article.getAttribute('data-adid') || '',
			href: article.getAttribute('data-href') || '',
			title: titleEl ? titleEl.innerText : '',
			price: priceEl ? priceEl.innerText : '',
			description: descEl ? descEl.innerText : ''
		});
	}
	return out;
})()`

// rawSearchItem mirrors one fragment as returned by searchExtractJS.
type rawSearchItem struct {
	AdID        string `json:"adid"`
	Href        string `json:"href"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// SearchListings fetches up to pageCount result pages for the given filters
// and returns the summaries in page order, document order within a page.
// pageCount is clamped into [1, 20]; the adjustment is logged, not rejected.
// Zero results is a successful empty slice, never an error.
func (c *Client) SearchListings(ctx context.Context, filters models.SearchFilters, pageCount int) ([]models.ListingSummary, error) {
	if !c.session.Started() {
		return nil, &SearchError{Err: ErrNotStarted}
	}

	pageCount, adjusted := clampPageCount(pageCount)
	if adjusted {
		c.logger.Warn("[search] page_count clamped to valid range: %d", pageCount)
	}

	results := make([]models.ListingSummary, 0)
	for page := 1; page <= pageCount; page++ {
		pageURL := c.buildSearchURL(filters, page)
		c.logger.Info("[search] Fetching page %d: %s", page, pageURL)

		items, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, &SearchError{Err: err}
		}

		results = append(results, items...)

		// Page 1 empty means the whole search is empty; later pages would be too.
		if page == 1 && len(items) == 0 {
			c.logger.Warn("[search] No results found on first page")
			break
		}
	}

	c.logger.Info("[search] Search completed: %d listings found", len(results))
	return results, nil
}

// buildSearchURL assembles the search URL for one page. The price segment
// only enters the path when at least one bound is set, with either side of
// "<min>:<max>" left blank for unbounded. Filter text becomes query params,
// absent values omitted.
func (c *Client) buildSearchURL(filters models.SearchFilters, page int) string {
	pricePath := ""
	if filters.HasPriceFilter() {
		minStr, maxStr := "", ""
		if filters.MinPrice != nil {
			minStr = strconv.Itoa(*filters.MinPrice)
		}
		if filters.MaxPrice != nil {
			maxStr = strconv.Itoa(*filters.MaxPrice)
		}
		pricePath = fmt.Sprintf("/preis:%s:%s", minStr, maxStr)
	}

	params := url.Values{}
	if filters.Query != "" {
		params.Set("keywords", filters.Query)
	}
	if filters.Location != "" {
		params.Set("locationStr", filters.Location)
	}
	if filters.Radius > 0 {
		params.Set("radius", strconv.Itoa(filters.Radius))
	}

	searchURL := fmt.Sprintf("%s%s/s-seite:%d", c.baseURL, pricePath, page)
	if len(params) > 0 {
		searchURL += "?" + params.Encode()
	}
	return searchURL
}

// fetchSearchPage navigates one result page in a fresh tab and extracts its
// summaries. The wait for a result-or-empty marker is bounded and non-fatal.
func (c *Client) fetchSearchPage(ctx context.Context, pageURL string) ([]models.ListingSummary, error) {
	tabCtx, release, err := c.session.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	// An outer caller deadline cancels only this tab, never the browser.
	stop := context.AfterFunc(ctx, release)
	defer stop()

	navCtx, cancel := context.WithTimeout(tabCtx, c.navTimeout)
	defer cancel()

	var raw []rawSearchItem
	err = chromedp.Run(navCtx,
		chromedp.Navigate(pageURL),
		waitForAny(c.resultsWait, ".ad-listitem", ".srp-no-results"),
		chromedp.Evaluate(searchExtractJS, &raw),
	)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	c.logger.Debug("[search] Page yielded %d candidate fragments", len(raw))
	return summariesFromRaw(raw, c.baseURL), nil
}

// summariesFromRaw converts extracted fragments into summaries. Fragments
// missing either identity or URL are dropped silently rather than emitted
// with synthesized identity.
func summariesFromRaw(items []rawSearchItem, baseURL string) []models.ListingSummary {
	out := make([]models.ListingSummary, 0, len(items))
	for _, it := range items {
		if it.AdID == "" || it.Href == "" {
			continue
		}
		out = append(out, models.ListingSummary{
			AdID:        it.AdID,
			URL:         baseURL + it.Href,
			Title:       strings.TrimSpace(it.Title),
			Price:       services.NormalizePrice(it.Price),
			Description: strings.TrimSpace(it.Description),
		})
	}
	return out
}
