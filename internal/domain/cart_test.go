package domain

import "testing"

func TestCartTotalCents(t *testing.T) {
	empty := Cart{}
	if got := empty.TotalCents(); got != 0 {
		t.Fatalf("empty cart total = %d, want 0", got)
	}

	cart := Cart{Lines: []CartLine{
		{ProductID: "P1", Quantity: 2, UnitPriceCents: 1000},
		{ProductID: "P2", Quantity: 1, UnitPriceCents: 1299},
		{ProductID: "P3", Quantity: 3, UnitPriceCents: 250},
	}}
	if got := cart.TotalCents(); got != 4049 {
		t.Fatalf("cart total = %d, want 4049", got)
	}
}
