package domain

import "time"

type Doctor struct {
	ID                   string    `json:"id"`
	UserID               *string   `json:"userId,omitempty"`
	Name                 string    `json:"name"`
	Specialty            string    `json:"specialty"`
	Qualification        string    `json:"qualification,omitempty"`
	ExperienceYears      int       `json:"experienceYears"`
	ConsultationFeeCents int64     `json:"consultationFeeCents"`
	Rating               float64   `json:"rating"`
	IsAvailable          bool      `json:"isAvailable"`
	ProfileImage         string    `json:"profileImage,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

type LabTest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	IsActive    bool   `json:"isActive"`
}

type ScanTest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	IsActive    bool   `json:"isActive"`
}

type HealthPackage struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tests       []string `json:"tests,omitempty"`
	PriceCents  int64    `json:"priceCents"`
	IsPopular   bool     `json:"isPopular"`
	IsActive    bool     `json:"isActive"`
}
