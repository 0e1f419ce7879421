package cart

import (
	"context"

	"acaihouse/internal/domain"
)

// AddProductLineInput carries everything needed to add (or increment) a
// product-backed line. ComplementIDs must already be sorted so that equal
// complement sets compare equal regardless of the order the client sent.
type AddProductLineInput struct {
	CartID         string
	Product        domain.Product
	Quantity       int
	UnitPriceCents int64
	ComplementIDs  []string
}

type AddCustomLineInput struct {
	CartID   string
	Kind     string
	Name     string
	Quantity int
	Custom   domain.CustomPayload
}

type Repository interface {
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddProductLine(ctx context.Context, in AddProductLineInput) error
	AddCustomLine(ctx context.Context, in AddCustomLineInput) error
	ChangeItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	Clear(ctx context.Context, cartID string) error
}
