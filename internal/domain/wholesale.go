package domain

import "time"

type WholesaleProfile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	BusinessName  string    `json:"businessName"`
	LicenseNumber string    `json:"licenseNumber,omitempty"`
	GSTNumber     string    `json:"gstNumber,omitempty"`
	Address       string    `json:"address,omitempty"`
	IsVerified    bool      `json:"isVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

type QuoteItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes,omitempty"`
}

// QuoteRequest is a wholesale user's list of products submitted for manual pricing.
type QuoteRequest struct {
	ID        string      `json:"id"`
	RequestID string      `json:"requestId"`
	UserID    string      `json:"userId"`
	Items     []QuoteItem `json:"items"`
	Notes     string      `json:"notes,omitempty"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// WholesaleProduct is an item in the bulk catalog shown to verified wholesalers.
type WholesaleProduct struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku,omitempty"`
	Manufacturer  string `json:"manufacturer,omitempty"`
	PriceCents    int64  `json:"priceCents"`
	MinOrderQty   int    `json:"minOrderQuantity"`
	StockQuantity int    `json:"stockQuantity"`
}

// WholesaleTab is a section of the wholesale dashboard.
type WholesaleTab string

const (
	TabDashboard WholesaleTab = "dashboard"
	TabProducts  WholesaleTab = "products"
	TabQuotes    WholesaleTab = "quotes"
	TabProfile   WholesaleTab = "profile"
)

// ParseWholesaleTab maps the tab query parameter to a tab, defaulting to the
// dashboard for empty or unknown values.
func ParseWholesaleTab(s string) WholesaleTab {
	switch t := WholesaleTab(s); t {
	case TabDashboard, TabProducts, TabQuotes, TabProfile:
		return t
	}
	return TabDashboard
}
