package models

// Listing status values. Active is the initial state; the sold badge on the
// detail page wins over any status baked into the title.
const (
	StatusActive   = "active"
	StatusSold     = "sold"
	StatusReserved = "reserved"
	StatusDeleted  = "deleted"
)

// Delivery classifications derived from the shipping info box.
const (
	DeliveryPickup   = "pickup"
	DeliveryShipping = "shipping"
)

// SearchFilters holds the optional search parameters. Zero values mean
// "not set" for Query, Location and Radius; the price bounds are pointers so
// a minimum of 0 EUR is distinguishable from no minimum at all.
type SearchFilters struct {
	Query    string
	Location string
	Radius   int
	MinPrice *int
	MaxPrice *int
}

// HasPriceFilter reports whether at least one price bound is set, which is
// what decides if the price segment goes into the search URL path.
func (f SearchFilters) HasPriceFilter() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// ListingSummary is one row from a search results page. AdID and URL are
// always set; a fragment missing either is never turned into a summary.
// Price is the normalized numeric string, empty for "price on request".
type ListingSummary struct {
	AdID        string `json:"adid"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// ListingDetails is the full record for a single listing. Every map and
// slice field is non-nil after construction so consumers only ever branch
// on emptiness, never on absence. Price and Delivery are nil when the page
// gave us nothing usable.
type ListingDetails struct {
	ID          string            `json:"id"`
	Categories  []string          `json:"categories"`
	Title       string            `json:"title"`
	Status      string            `json:"status"`
	Price       *string           `json:"price"`
	Delivery    *string           `json:"delivery"`
	Location    map[string]string `json:"location"`
	Views       string            `json:"views"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	Details     map[string]string `json:"details"`
	Features    map[string]string `json:"features"`
	Seller      map[string]string `json:"seller"`
	ExtraInfo   map[string]string `json:"extra_info"`
}

// NewListingDetails returns a details record with every collection field
// initialized and the documented defaults in place.
func NewListingDetails() *ListingDetails {
	return &ListingDetails{
		Status:     StatusActive,
		Views:      "0",
		Categories: []string{},
		Images:     []string{},
		Location:   map[string]string{},
		Details:    map[string]string{},
		Features:   map[string]string{},
		Seller:     map[string]string{},
		ExtraInfo:  map[string]string{},
	}
}
