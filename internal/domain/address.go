package domain

import "time"

// Address is a delivery address owned by a user. The checkout pipeline
// creates addresses and never mutates them afterwards; an address may be
// referenced by many orders.
type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Province   string    `json:"province"`
	PostalCode string    `json:"postalCode,omitempty"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}
