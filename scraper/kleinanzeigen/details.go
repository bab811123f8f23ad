package kleinanzeigen

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"kleinanzeigen-mcp/models"
	"kleinanzeigen-mcp/services"
)

// detailExtractJS lifts every raw fragment of a detail page in one pass.
// Each field is read independently and defaults to empty when its element
// is missing; interpretation (status, price, delivery, pairing) happens on
// the Go side.
const detailExtractJS = `
(function() {
	function text(sel) {
		var el = document.querySelector(sel);
		return el ? el.innerText.trim() : '';
	}
	function pairs(scope) {
		var out = [];
		var items = document.querySelectorAll(scope + ' .addetailslist--detail');
		for (var i = 0; i < items.length; i++) {
			var label = items[i].querySelector('.addetailslist--detail--label');
			var value = items[i].querySelector('.addetailslist--detail--value');
			out.push({
				label: label ? label.innerText.trim() : '',
				value: value ? value.innerText.trim() : ''
			});
		}
		return out;
	}
	var images = [];
	var imgs = document.querySelectorAll('#viewad-image img');
	for (var i = 0; i < imgs.length; i++) {
		var src = imgs[i].getAttribute('src');
		if (src) images.push(src);
	}
	var categories = [];
	var crumbs = document.querySelectorAll('.breadcrump-link');
	for (var j = 0; j < crumbs.length; j++) {
		var t = crumbs[j].innerText.trim();
		if (t) categories.push(t);
	}
	return {
		id: text('#viewad-ad-id-box > ul > li:nth-child(2)'),
		title: text('#viewad-title'),
		soldBadge: document.querySelector('.badge-sold') !== null,
		categories: categories,
		price: text('#viewad-price'),
		views: text('#viewad-cntr-num'),
		description: text('#viewad-description-text'),
		images: images,
		shipping: text('.boxedarticle--details--shipping'),
		locality: text('#viewad-locality'),
		sellerName: text('.userprofile--name'),
		details: pairs('#viewad-details'),
		features: pairs('#viewad-configuration')
	};
})()`

// rawDetail mirrors the object returned by detailExtractJS.
type rawDetail struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	SoldBadge   bool                  `json:"soldBadge"`
	Categories  []string              `json:"categories"`
	Price       string                `json:"price"`
	Views       string                `json:"views"`
	Description string                `json:"description"`
	Images      []string              `json:"images"`
	Shipping    string                `json:"shipping"`
	Locality    string                `json:"locality"`
	SellerName  string                `json:"sellerName"`
	Details     []services.LabelValue `json:"details"`
	Features    []services.LabelValue `json:"features"`
}

// GetListingDetails fetches the full record for one listing id. Extraction
// is best-effort: optional fields fall back to their defaults, only a
// navigation-level failure aborts and surfaces as a DetailFetchError.
func (c *Client) GetListingDetails(ctx context.Context, id string) (*models.ListingDetails, error) {
	if !c.session.Started() {
		return nil, &DetailFetchError{ID: id, Err: ErrNotStarted}
	}

	tabCtx, release, err := c.session.Acquire()
	if err != nil {
		return nil, &DetailFetchError{ID: id, Err: err}
	}
	defer release()

	stop := context.AfterFunc(ctx, release)
	defer stop()

	navCtx, cancel := context.WithTimeout(tabCtx, c.navTimeout)
	defer cancel()

	detailURL := fmt.Sprintf("%s/s-anzeige/%s", c.baseURL, id)
	c.logger.Info("[details] Fetching listing %s", id)

	var raw rawDetail
	err = chromedp.Run(navCtx,
		chromedp.Navigate(detailURL),
		// The view counter renders asynchronously; missing it is fine.
		waitForAny(c.viewCounterWait, "#viewad-cntr-num"),
		chromedp.Evaluate(detailExtractJS, &raw),
	)
	if err != nil {
		return nil, &DetailFetchError{ID: id, Err: err}
	}

	details := detailsFromRaw(raw)
	c.logger.Info("[details] Successfully fetched listing %s (status: %s)", id, details.Status)
	return details, nil
}

// detailsFromRaw normalizes the raw page fragments into the final record.
// id and title get sentinel error strings when missing instead of aborting
// the whole extraction.
func detailsFromRaw(raw rawDetail) *models.ListingDetails {
	d := models.NewListingDetails()

	d.ID = strings.TrimSpace(raw.ID)
	if d.ID == "" {
		d.ID = "[ERROR] ID not found"
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		d.Title = "[ERROR] Title not found"
	} else {
		d.Title = services.CleanTitle(title)
	}

	d.Status = services.ResolveStatus(raw.Title, raw.SoldBadge)

	if price := services.NormalizePrice(raw.Price); price != "" {
		d.Price = &price
	}
	if delivery := services.ClassifyDelivery(raw.Shipping); delivery != "" {
		d.Delivery = &delivery
	}

	for _, cat := range raw.Categories {
		if cat = strings.TrimSpace(cat); cat != "" {
			d.Categories = append(d.Categories, cat)
		}
	}

	if views := strings.TrimSpace(raw.Views); views != "" {
		d.Views = views
	}

	d.Description = services.NormalizeDescription(raw.Description)

	for _, src := range raw.Images {
		if src != "" {
			d.Images = append(d.Images, src)
		}
	}

	if locality := strings.TrimSpace(raw.Locality); locality != "" {
		d.Location["raw"] = locality
	}
	if name := strings.TrimSpace(raw.SellerName); name != "" {
		d.Seller["name"] = name
	}

	d.Details = services.PairLabels(raw.Details)
	d.Features = services.PairLabels(raw.Features)

	return d
}
