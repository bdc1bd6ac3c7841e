package models

const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "approved"
	OrderStatusRejected = "rejected"
)

type Order struct {
	ID           int          `json:"id"`
	Items        []OrderItem  `json:"items" validate:"dive"`
	Total        float64      `json:"total"`
	Status       string       `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	CreatedAt    string       `json:"createdAt"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
}

// OrderItem carries a full product snapshot taken at order time, so later
// catalog edits never change historical orders.
type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity" validate:"min=1"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

func (o Order) RecordID() int { return o.ID }
