package domain

import "time"

// Order statuses, in the order they normally progress.
const (
	OrderStatusPlaced         = "placed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

type Order struct {
	ID               string      `json:"id"`
	UserID           string      `json:"userId"`
	Status           string      `json:"status"`
	TotalCents       int64       `json:"totalCents"`
	Address          string      `json:"address"`
	DeliveryPersonID *string     `json:"deliveryPersonId,omitempty"`
	Items            []OrderItem `json:"items"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// OrderItem is a frozen copy of a cart line at checkout time.
type OrderItem struct {
	ID             string         `json:"id"`
	OrderID        string         `json:"orderId,omitempty"`
	ProductID      *string        `json:"productId,omitempty"`
	Kind           string         `json:"kind"`
	Name           string         `json:"name"`
	Quantity       int            `json:"quantity"`
	UnitPriceCents int64          `json:"unitPriceCents"`
	TotalCents     int64          `json:"totalCents"`
	ComplementIDs  []string       `json:"complementIds,omitempty"`
	Custom         *CustomPayload `json:"custom,omitempty"`
}

type DeliveryPerson struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}
