package kleinanzeigen

import (
	"context"
	"errors"
	"testing"

	"kleinanzeigen-mcp/models"
	"kleinanzeigen-mcp/services"
)

func TestDetailsFromRawEmptyPage(t *testing.T) {
	d := detailsFromRaw(rawDetail{})

	if d.ID != "[ERROR] ID not found" {
		t.Errorf("ID sentinel: got %q", d.ID)
	}
	if d.Title != "[ERROR] Title not found" {
		t.Errorf("Title sentinel: got %q", d.Title)
	}
	if d.Status != models.StatusActive {
		t.Errorf("Status: got %q, want active", d.Status)
	}
	if d.Views != "0" {
		t.Errorf("Views default: got %q, want \"0\"", d.Views)
	}
	if d.Price != nil || d.Delivery != nil {
		t.Errorf("Price/Delivery should be nil on an empty page")
	}

	// collection fields must default to empty, never nil
	if d.Categories == nil || d.Images == nil {
		t.Error("slice fields must be non-nil")
	}
	if d.Location == nil || d.Details == nil || d.Features == nil || d.Seller == nil || d.ExtraInfo == nil {
		t.Error("map fields must be non-nil")
	}
	if len(d.Location) != 0 || len(d.Details) != 0 {
		t.Errorf("expected empty collections, got %+v", d)
	}
}

func TestDetailsFromRawFullPage(t *testing.T) {
	raw := rawDetail{
		ID:          " 2937345678 ",
		Title:       "Elektronik > Notebooks • ThinkPad T480",
		Categories:  []string{"Elektronik", "Notebooks"},
		Price:       "1.000 € VB",
		Views:       "123",
		Description: "Guter  Zustand\n\n\nMit Ladegerät",
		Images:      []string{"https://img.kleinanzeigen.de/1.jpg", ""},
		Shipping:    "Versand möglich",
		Locality:    "10178 Berlin - Mitte",
		SellerName:  "Max",
		Details: []services.LabelValue{
			{Label: "Zustand", Value: "Gebraucht"},
			{Label: "Zustand", Value: "Sehr Gut"},
			{Label: "Marke", Value: ""},
		},
		Features: []services.LabelValue{
			{Label: "RAM", Value: "16 GB"},
		},
	}

	d := detailsFromRaw(raw)

	if d.ID != "2937345678" {
		t.Errorf("ID: got %q", d.ID)
	}
	if d.Title != "ThinkPad T480" {
		t.Errorf("Title cleanup: got %q", d.Title)
	}
	if d.Status != models.StatusActive {
		t.Errorf("Status: got %q, want active", d.Status)
	}
	if d.Price == nil || *d.Price != "1000" {
		t.Errorf("Price: got %v, want 1000", d.Price)
	}
	if d.Delivery == nil || *d.Delivery != models.DeliveryShipping {
		t.Errorf("Delivery: got %v, want shipping", d.Delivery)
	}
	if d.Views != "123" {
		t.Errorf("Views: got %q", d.Views)
	}
	if d.Description != "Guter Zustand\nMit Ladegerät" {
		t.Errorf("Description: got %q", d.Description)
	}
	if len(d.Images) != 1 {
		t.Errorf("Images: empty srcs must be dropped, got %v", d.Images)
	}
	if d.Location["raw"] != "10178 Berlin - Mitte" {
		t.Errorf("Location: got %v", d.Location)
	}
	if d.Seller["name"] != "Max" {
		t.Errorf("Seller: got %v", d.Seller)
	}
	if d.Details["Zustand"] != "Sehr Gut" {
		t.Errorf("duplicate detail label should keep last value, got %v", d.Details)
	}
	if _, ok := d.Details["Marke"]; ok {
		t.Error("detail rows with an empty value must be skipped")
	}
	if d.Features["RAM"] != "16 GB" {
		t.Errorf("Features: got %v", d.Features)
	}
}

func TestDetailsFromRawBadgeOverridesTitleStatus(t *testing.T) {
	raw := rawDetail{
		ID:        "1",
		Title:     "Reserviert • Fahrrad",
		SoldBadge: true,
	}

	d := detailsFromRaw(raw)
	if d.Status != models.StatusSold {
		t.Errorf("sold badge must override title-derived status, got %q", d.Status)
	}
	if d.Title != "Fahrrad" {
		t.Errorf("Title cleanup: got %q", d.Title)
	}
}

func TestGetListingDetailsRequiresStartedSession(t *testing.T) {
	c := newTestClient()

	_, err := c.GetListingDetails(context.Background(), "2937345678")
	if err == nil {
		t.Fatal("expected an error from an unstarted session")
	}

	var detailErr *DetailFetchError
	if !errors.As(err, &detailErr) {
		t.Fatalf("expected *DetailFetchError, got %T: %v", err, err)
	}
	if detailErr.ID != "2937345678" {
		t.Errorf("error should carry the requested id, got %q", detailErr.ID)
	}
	if !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted in chain, got %v", err)
	}
}
