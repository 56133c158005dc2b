package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order. The wire values are
// the ones the mobile client already displays, so they stay French.
type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "en cours"
	OrderStatusCancelled  OrderStatus = "annulée"
	OrderStatusCompleted  OrderStatus = "livrée"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusInProgress,
	OrderStatusCancelled,
	OrderStatusCompleted,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
