package models

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"min=0"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

func (p Product) RecordID() int { return p.ID }
