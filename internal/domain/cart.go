package domain

import "time"

// Kinds of cart items. Product-backed lines reference the catalog; the
// custom kinds carry a user-assembled payload and no product reference.
const (
	ItemKindProduct       = "product"
	ItemKindCustomAcai    = "custom_acai"
	ItemKindCustomProduct = "custom_product"
)

type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	TotalCents int64      `json:"cartTotalCents"`
	CreatedAt  time.Time  `json:"createdAt"`
	Items      []CartItem `json:"items"`
}

type CartItem struct {
	ID             string         `json:"id"`
	CartID         string         `json:"cartId,omitempty"`
	ProductID      *string        `json:"productId,omitempty"`
	Kind           string         `json:"kind"`
	Name           string         `json:"name"`
	Quantity       int            `json:"quantity"`
	UnitPriceCents int64          `json:"unitPriceCents"`
	TotalCents     int64          `json:"totalCents"`
	ComplementIDs  []string       `json:"complementIds,omitempty"`
	Custom         *CustomPayload `json:"custom,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// CustomPayload is the snapshot of a user-assembled item. ValueCents is the
// user-supplied unit price, not derived from the catalog.
type CustomPayload struct {
	ValueCents      int64    `json:"valueCents"`
	ComplementNames []string `json:"complementNames,omitempty"`
}
