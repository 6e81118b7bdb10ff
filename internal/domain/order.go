package domain

import "time"

// Payment methods. Pay-on-delivery is the only method the storefront
// records today.
const (
	PaymentMethodCOD = "cod"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Fulfillment statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidPaymentStatus reports whether s is a member of the payment status
// enumeration.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// ValidOrderStatus reports whether s is a member of the fulfillment status
// enumeration.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a submitted order header. Invariant: TotalCents equals the sum
// of line subtotals plus DeliveryFeeCents. Only the two status fields are
// mutated after creation, and only by the back office.
type Order struct {
	ID               string      `json:"id"`
	OrderNumber      string      `json:"orderNumber"`
	UserID           string      `json:"-"`
	AddressID        string      `json:"addressId"`
	TotalCents       int64       `json:"totalCents"`
	DeliveryFeeCents int64       `json:"deliveryFeeCents"`
	PaymentMethod    string      `json:"paymentMethod"`
	PaymentStatus    string      `json:"paymentStatus"`
	OrderStatus      string      `json:"orderStatus"`
	Notes            string      `json:"notes,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	Lines            []OrderLine `json:"lines,omitempty"`
}

// OrderLine is one cart entry frozen at submission time. The unit price is
// a historical fact and is never re-read from the catalog.
type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
}
