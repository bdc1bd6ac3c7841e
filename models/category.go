package models

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (c Category) RecordID() int { return c.ID }
