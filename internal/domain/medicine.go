package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine is a catalog item sold in the shop.
type Medicine struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Brand                string    `json:"brand,omitempty"`
	GenericName          string    `json:"genericName,omitempty"`
	CategorySlug         string    `json:"category,omitempty"`
	Description          string    `json:"description,omitempty"`
	PriceCents           int64     `json:"priceCents"`
	DiscountPercent      int       `json:"discountPercent"`
	ImageURL             string    `json:"imageUrl,omitempty"`
	RequiresPrescription bool      `json:"requiresPrescription"`
	IsActive             bool      `json:"isActive"`
	StockQuantity        int       `json:"stockQuantity"`
	CreatedAt            time.Time `json:"createdAt"`
}

// ListPriceCents is the undiscounted price the selling price was derived from.
func (m Medicine) ListPriceCents() int64 {
	return ListPriceCents(m.PriceCents, m.DiscountPercent)
}

// Category groups medicines in the shop sidebar.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListPriceCents reverses a percentage discount: price / (1 - discount/100),
// rounded to the nearest cent.
func ListPriceCents(priceCents int64, discountPercent int) int64 {
	if discountPercent <= 0 || discountPercent >= 100 {
		return priceCents
	}
	factor := decimal.NewFromInt(int64(100 - discountPercent)).Div(decimal.NewFromInt(100))
	return decimal.NewFromInt(priceCents).Div(factor).Round(0).IntPart()
}

// FormatCents renders an amount in minor units as a fixed two-decimal string.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
