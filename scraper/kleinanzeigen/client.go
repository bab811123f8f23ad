package kleinanzeigen

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"kleinanzeigen-mcp/config"
	"kleinanzeigen-mcp/models"
	"kleinanzeigen-mcp/utils"
)

const (
	minPageCount = 1
	maxPageCount = 20
)

// Client is the centralized interface to kleinanzeigen.de. It owns a
// browser Session and exposes the two operations the tool layer calls:
// SearchListings and GetListingDetails. One operation runs per borrowed
// tab; the client performs no retries and keeps no state between calls.
type Client struct {
	logger  *utils.Logger
	session *Session
	baseURL string

	navTimeout      time.Duration
	resultsWait     time.Duration
	viewCounterWait time.Duration

	// fetchPage fetches one search result page. It defaults to the
	// browser-backed fetchSearchPage and exists as a seam for tests.
	fetchPage func(ctx context.Context, pageURL string) ([]models.ListingSummary, error)
}

// New creates a Client. The logger doubles as the diagnostic side channel
// for non-fatal adjustments such as page-count clamping.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	c := &Client{
		logger:          logger,
		session:         NewSession(cfg, logger),
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		navTimeout:      time.Duration(cfg.NavTimeoutMs) * time.Millisecond,
		resultsWait:     time.Duration(cfg.ResultsWaitMs) * time.Millisecond,
		viewCounterWait: time.Duration(cfg.ViewCounterWaitMs) * time.Millisecond,
	}
	c.fetchPage = c.fetchSearchPage
	return c
}

// Start launches the shared browser process.
func (c *Client) Start() error { return c.session.Start() }

// Stop tears the browser down; safe to call twice.
func (c *Client) Stop() { c.session.Stop() }

// clampPageCount forces n into [1, 20] and reports whether it was adjusted.
func clampPageCount(n int) (int, bool) {
	switch {
	case n < minPageCount:
		return minPageCount, true
	case n > maxPageCount:
		return maxPageCount, true
	default:
		return n, false
	}
}

// waitForAny polls until one of the selectors matches or the timeout
// elapses. The timeout is deliberately non-fatal: extraction proceeds
// against whatever DOM state exists.
func waitForAny(timeout time.Duration, selectors ...string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		checks := make([]string, len(selectors))
		for i, sel := range selectors {
			checks[i] = "document.querySelector(" + strconv.Quote(sel) + ") !== null"
		}
		expr := strings.Join(checks, " || ")

		// ErrPollingTimeout and friends are swallowed on purpose.
		var found bool
		_ = chromedp.Poll(expr, &found, chromedp.WithPollingTimeout(timeout)).Do(ctx)
		return nil
	})
}
