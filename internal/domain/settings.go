package domain

import "time"

// SettingsID is the primary key of the single admin settings row.
const SettingsID = "00000000-0000-0000-0000-000000000001"

type AdminSettings struct {
	StoreName              string    `json:"storeName"`
	SupportEmail           string    `json:"supportEmail"`
	PaymentPublicKey       string    `json:"paymentPublicKey,omitempty"`
	PaymentSecretKey       string    `json:"paymentSecretKey,omitempty"`
	DeliveryFeeCents       int64     `json:"deliveryFeeCents"`
	FreeDeliveryAboveCents int64     `json:"freeDeliveryAboveCents"`
	MaintenanceMessage     string    `json:"maintenanceMessage,omitempty"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// Redacted hides all but the last four characters of the payment secret.
func (s AdminSettings) Redacted() AdminSettings {
	out := s
	if n := len(out.PaymentSecretKey); n > 0 {
		if n > 4 {
			out.PaymentSecretKey = "****" + out.PaymentSecretKey[n-4:]
		} else {
			out.PaymentSecretKey = "****"
		}
	}
	return out
}
