package domain

import "time"

type OrderLine struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

type Order struct {
	ID            string      `json:"id"`
	RequestID     string      `json:"requestId"`
	UserID        string      `json:"userId"`
	Lines         []OrderLine `json:"items"`
	SubtotalCents int64       `json:"subtotalCents"`
	Address       string      `json:"shippingAddress"`
	PaymentMethod string      `json:"paymentMethod"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	CreatedAt     time.Time   `json:"createdAt"`
}
