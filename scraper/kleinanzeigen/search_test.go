package kleinanzeigen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"kleinanzeigen-mcp/config"
	"kleinanzeigen-mcp/models"
	"kleinanzeigen-mcp/utils"
)

func intPtr(v int) *int { return &v }

func newTestClient() *Client {
	cfg := &config.Config{
		BaseURL:           "https://www.kleinanzeigen.de",
		NavTimeoutMs:      30000,
		ResultsWaitMs:     5000,
		ViewCounterWaitMs: 2500,
	}
	return New(cfg, utils.NewLogger())
}

func TestClampPageCount(t *testing.T) {
	tests := []struct {
		in           int
		want         int
		wantAdjusted bool
	}{
		{1, 1, false},
		{5, 5, false},
		{20, 20, false},
		{0, 1, true},
		{-3, 1, true},
		{21, 20, true},
		{100, 20, true},
	}

	for _, tt := range tests {
		got, adjusted := clampPageCount(tt.in)
		if got != tt.want || adjusted != tt.wantAdjusted {
			t.Errorf("clampPageCount(%d) = (%d, %v); want (%d, %v)",
				tt.in, got, adjusted, tt.want, tt.wantAdjusted)
		}
	}
}

func TestBuildSearchURL(t *testing.T) {
	c := newTestClient()

	tests := []struct {
		name    string
		filters models.SearchFilters
		page    int
		want    string
	}{
		{
			name:    "query only",
			filters: models.SearchFilters{Query: "laptop"},
			page:    1,
			want:    "https://www.kleinanzeigen.de/s-seite:1?keywords=laptop",
		},
		{
			name:    "no filters",
			filters: models.SearchFilters{},
			page:    3,
			want:    "https://www.kleinanzeigen.de/s-seite:3",
		},
		{
			name:    "both price bounds",
			filters: models.SearchFilters{Query: "laptop", MinPrice: intPtr(100), MaxPrice: intPtr(500)},
			page:    2,
			want:    "https://www.kleinanzeigen.de/preis:100:500/s-seite:2?keywords=laptop",
		},
		{
			name:    "max price only leaves min side blank",
			filters: models.SearchFilters{MaxPrice: intPtr(300)},
			page:    1,
			want:    "https://www.kleinanzeigen.de/preis::300/s-seite:1",
		},
		{
			name:    "min price only leaves max side blank",
			filters: models.SearchFilters{MinPrice: intPtr(50)},
			page:    1,
			want:    "https://www.kleinanzeigen.de/preis:50:/s-seite:1",
		},
		{
			name:    "zero min price is a real bound",
			filters: models.SearchFilters{MinPrice: intPtr(0)},
			page:    1,
			want:    "https://www.kleinanzeigen.de/preis:0:/s-seite:1",
		},
		{
			name:    "location and radius become query params",
			filters: models.SearchFilters{Query: "gaming pc", Location: "10178", Radius: 20},
			page:    1,
			want:    "https://www.kleinanzeigen.de/s-seite:1?keywords=gaming+pc&locationStr=10178&radius=20",
		},
	}

	for _, tt := range tests {
		got := c.buildSearchURL(tt.filters, tt.page)
		if got != tt.want {
			t.Errorf("%s: buildSearchURL = %q; want %q", tt.name, got, tt.want)
		}
	}
}

func TestSummariesFromRawDropsFragmentsMissingIdentity(t *testing.T) {
	items := []rawSearchItem{
		{AdID: "111", Href: "/s-anzeige/laptop/111", Title: "Laptop", Price: "250 € VB"},
		{AdID: "", Href: "/s-anzeige/no-id/222", Title: "No ID"},
		{AdID: "333", Href: "", Title: "No URL"},
		{AdID: "444", Href: "/s-anzeige/bike/444", Title: " Fahrrad ", Price: "1.000 €", Description: " Wie neu "},
	}

	got := summariesFromRaw(items, "https://www.kleinanzeigen.de")

	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	if got[0].AdID != "111" || got[0].URL != "https://www.kleinanzeigen.de/s-anzeige/laptop/111" {
		t.Errorf("first summary identity wrong: %+v", got[0])
	}
	if got[0].Price != "250" {
		t.Errorf("price not normalized: got %q, want %q", got[0].Price, "250")
	}
	if got[1].Title != "Fahrrad" || got[1].Description != "Wie neu" {
		t.Errorf("text not trimmed: %+v", got[1])
	}
	if got[1].Price != "1000" {
		t.Errorf("thousands separator not stripped: got %q", got[1].Price)
	}
}

func TestSummariesFromRawEmptyPriceMeansOnRequest(t *testing.T) {
	items := []rawSearchItem{
		{AdID: "1", Href: "/s-anzeige/x/1", Title: "X", Price: "VB"},
	}

	got := summariesFromRaw(items, "https://www.kleinanzeigen.de")
	if len(got) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(got))
	}
	if got[0].Price != "" {
		t.Errorf("marker-only price should normalize to empty, got %q", got[0].Price)
	}
}

// newPagedClient returns a client whose page fetches are served by fn
// instead of a live browser, with the session marked as started.
func newPagedClient(fn func(pageURL string) ([]models.ListingSummary, error)) (*Client, *[]string) {
	c := newTestClient()
	c.session.started = true

	var urls []string
	c.fetchPage = func(_ context.Context, pageURL string) ([]models.ListingSummary, error) {
		urls = append(urls, pageURL)
		return fn(pageURL)
	}
	return c, &urls
}

func TestSearchListingsStopsAfterEmptyFirstPage(t *testing.T) {
	c, urls := newPagedClient(func(string) ([]models.ListingSummary, error) {
		return []models.ListingSummary{}, nil
	})

	got, err := c.SearchListings(context.Background(), models.SearchFilters{Query: "laptop"}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("zero results must be an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("expected empty aggregate, got %d listings", len(got))
	}
	if len(*urls) != 1 {
		t.Fatalf("empty first page must stop pagination: %d pages fetched (%v)", len(*urls), *urls)
	}
	if !strings.Contains((*urls)[0], "/s-seite:1") {
		t.Errorf("first fetch should target page 1, got %q", (*urls)[0])
	}
}

func TestSearchListingsFetchesPagesInAscendingOrder(t *testing.T) {
	page := 0
	c, urls := newPagedClient(func(string) ([]models.ListingSummary, error) {
		page++
		return []models.ListingSummary{
			{AdID: fmt.Sprintf("%d-a", page), URL: "u"},
			{AdID: fmt.Sprintf("%d-b", page), URL: "u"},
		}, nil
	})

	got, err := c.SearchListings(context.Background(), models.SearchFilters{}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantURLs := []string{"/s-seite:1", "/s-seite:2", "/s-seite:3"}
	if len(*urls) != len(wantURLs) {
		t.Fatalf("expected %d page fetches, got %d (%v)", len(wantURLs), len(*urls), *urls)
	}
	for i, suffix := range wantURLs {
		if !strings.Contains((*urls)[i], suffix) {
			t.Errorf("fetch %d targeted %q, want page %s", i, (*urls)[i], suffix)
		}
	}

	wantIDs := []string{"1-a", "1-b", "2-a", "2-b", "3-a", "3-b"}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d aggregated listings, got %d", len(wantIDs), len(got))
	}
	for i, id := range wantIDs {
		if got[i].AdID != id {
			t.Errorf("aggregate[%d] = %q, want %q (page order then document order)", i, got[i].AdID, id)
		}
	}
}

func TestSearchListingsAbortsOnPageFailure(t *testing.T) {
	boom := errors.New("navigation lost")
	page := 0
	c, urls := newPagedClient(func(string) ([]models.ListingSummary, error) {
		page++
		if page == 2 {
			return nil, boom
		}
		return []models.ListingSummary{{AdID: "1", URL: "u"}}, nil
	})

	_, err := c.SearchListings(context.Background(), models.SearchFilters{}, 3)

	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("expected *SearchError, got %T: %v", err, err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped cause in chain, got %v", err)
	}
	if len(*urls) != 2 {
		t.Errorf("failure on page 2 must abort the loop: %d pages fetched", len(*urls))
	}
}

func TestSearchListingsRequiresStartedSession(t *testing.T) {
	c := newTestClient()

	_, err := c.SearchListings(context.Background(), models.SearchFilters{Query: "laptop"}, 1)
	if err == nil {
		t.Fatal("expected an error from an unstarted session")
	}

	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("expected *SearchError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted in chain, got %v", err)
	}
}
