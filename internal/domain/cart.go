package domain

import "time"

// Cart states.
const (
	CartStateActive  = "active"
	CartStateOrdered = "ordered"
)

type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"-"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	Lines     []CartLine `json:"lineItems,omitempty"`
}

type CartLine struct {
	ID             string    `json:"id"`
	CartID         string    `json:"cartId"`
	ProductID      string    `json:"productId"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Size           string    `json:"size,omitempty"`
	Color          string    `json:"color,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TotalCents sums line subtotals. The unit price is the price captured when
// the item was added, not the live catalog price.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}
	return total
}
