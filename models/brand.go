package models

type Brand struct {
	ID          int    `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (b Brand) RecordID() int { return b.ID }
