package httpserver

import (
	"time"

	"medistore/internal/domain"
)

type medicineView struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Brand                string       `json:"brand,omitempty"`
	GenericName          string       `json:"genericName,omitempty"`
	Category             string       `json:"category,omitempty"`
	Description          string       `json:"description,omitempty"`
	Price                priceView    `json:"price"`
	Discount             discountView `json:"discount"`
	ImageURL             string       `json:"imageUrl,omitempty"`
	RequiresPrescription bool         `json:"requiresPrescription"`
	InStock              bool         `json:"inStock"`
	StockQuantity        int          `json:"stockQuantity"`
	CreatedAt            time.Time    `json:"createdAt"`
}

type priceView struct {
	CentAmount     int64  `json:"centAmount"`
	Amount         string `json:"amount"`
	ListCentAmount int64  `json:"listCentAmount"`
	ListAmount     string `json:"listAmount"`
}

type discountView struct {
	Percent   int  `json:"percent"`
	IsActive  bool `json:"isActive"`
	Permyriad int  `json:"permyriad"`
}

type listView[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func newList[T any](items []T) listView[T] {
	if items == nil {
		items = []T{}
	}
	return listView[T]{Count: len(items), Results: items}
}

func toMedicineView(m domain.Medicine) medicineView {
	list := m.ListPriceCents()
	return medicineView{
		ID:          m.ID,
		Name:        m.Name,
		Brand:       m.Brand,
		GenericName: m.GenericName,
		Category:    m.CategorySlug,
		Description: m.Description,
		Price: priceView{
			CentAmount:     m.PriceCents,
			Amount:         domain.FormatCents(m.PriceCents),
			ListCentAmount: list,
			ListAmount:     domain.FormatCents(list),
		},
		Discount: discountView{
			Percent:   m.DiscountPercent,
			IsActive:  m.DiscountPercent > 0 && m.DiscountPercent < 100,
			Permyriad: m.DiscountPercent * 100,
		},
		ImageURL:             m.ImageURL,
		RequiresPrescription: m.RequiresPrescription,
		InStock:              m.StockQuantity > 0,
		StockQuantity:        m.StockQuantity,
		CreatedAt:            m.CreatedAt,
	}
}

func toMedicineViews(ms []domain.Medicine) []medicineView {
	out := make([]medicineView, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMedicineView(m))
	}
	return out
}
