package client

import (
	"sync"
	"time"

	"toolmart/models"
)

// Cart accumulates order items in memory. Each added product is copied into
// the line item as a snapshot, so catalog edits made after the add do not
// affect a pending or submitted order.
type Cart struct {
	mu    sync.Mutex
	items []models.OrderItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts quantity units of product in the cart, merging with an existing
// line for the same product id.
func (c *Cart) Add(product models.Product, quantity int) {
	if quantity < 1 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity += quantity
			return
		}
	}
	c.items = append(c.items, models.OrderItem{Product: product, Quantity: quantity})
}

// SetQuantity replaces the quantity of the line for the given product id;
// zero or negative removes the line.
func (c *Cart) SetQuantity(productID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID != productID {
			continue
		}
		if quantity < 1 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		} else {
			c.items[i].Quantity = quantity
		}
		return
	}
}

func (c *Cart) Remove(productID int) {
	c.SetQuantity(productID, 0)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the current line items.
func (c *Cart) Items() []models.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.OrderItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0.0
	for _, item := range c.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// Checkout builds the order payload for the current cart contents. The cart
// is left untouched; clear it once the order has been accepted.
func (c *Cart) Checkout(info models.CustomerInfo) models.Order {
	return models.Order{
		Items:        c.Items(),
		Total:        c.Total(),
		Status:       models.OrderStatusPending,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		CustomerInfo: info,
	}
}
