package domain

import "time"

// CartLine is one product line in a user's cart. Display fields are a
// snapshot of the catalog item taken at read time.
type CartLine struct {
	LineID               string    `json:"lineId"`
	ProductID            string    `json:"productId"`
	Quantity             int       `json:"quantity"`
	Name                 string    `json:"name"`
	Brand                string    `json:"brand,omitempty"`
	UnitPriceCents       int64     `json:"unitPriceCents"`
	ListPriceCents       int64     `json:"listPriceCents"`
	ImageRef             string    `json:"imageRef,omitempty"`
	RequiresPrescription bool      `json:"requiresPrescription"`
	CreatedAt            time.Time `json:"createdAt"`
}

// LineTotalCents is unit price times quantity.
func (l CartLine) LineTotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// CartProjection is the in-memory view of a cart rendered by the UI.
type CartProjection struct {
	Lines         []CartLine `json:"lines"`
	ItemCount     int        `json:"itemCount"`
	SubtotalCents int64      `json:"subtotalCents"`
	Subtotal      string     `json:"subtotal"`
}

// NewCartProjection copies lines and derives the totals from them.
func NewCartProjection(lines []CartLine) CartProjection {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	subtotal := SubtotalCents(out)
	return CartProjection{
		Lines:         out,
		ItemCount:     ItemCount(out),
		SubtotalCents: subtotal,
		Subtotal:      FormatCents(subtotal),
	}
}

// ItemCount is the sum of line quantities.
func ItemCount(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// SubtotalCents is the sum of unit price times quantity over all lines.
func SubtotalCents(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.LineTotalCents()
	}
	return total
}

// RequiresPrescription reports whether any line needs a prescription at checkout.
func RequiresPrescription(lines []CartLine) bool {
	for _, l := range lines {
		if l.RequiresPrescription {
			return true
		}
	}
	return false
}
