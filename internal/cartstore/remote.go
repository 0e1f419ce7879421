package cartstore

import (
	"context"

	"acaihouse/internal/domain"
)

// remoteStrategy delegates every operation to the server cart.
type remoteStrategy struct {
	api API
}

func (r *remoteStrategy) Load(ctx context.Context) ([]domain.CartItem, int64, error) {
	cart, err := r.api.GetCart(ctx)
	if err != nil {
		return nil, 0, err
	}
	return cart.Items, cart.TotalCents, nil
}

func (r *remoteStrategy) AddItem(ctx context.Context, productID string, quantity int, complementIDs []string) error {
	return r.api.AddToCart(ctx, productID, quantity, complementIDs)
}

func (r *remoteStrategy) AddCustomAcai(ctx context.Context, payload domain.CustomPayload, quantity int) error {
	return r.api.AddCustomAcaiToCart(ctx, payload, quantity)
}

func (r *remoteStrategy) AddCustomProduct(ctx context.Context, name string, payload domain.CustomPayload, quantity int) error {
	return r.api.AddCustomProductToCart(ctx, name, payload, quantity)
}

func (r *remoteStrategy) UpdateItem(ctx context.Context, itemID string, quantity int) error {
	return r.api.UpdateCartItem(ctx, itemID, quantity)
}

func (r *remoteStrategy) RemoveItem(ctx context.Context, itemID string) error {
	return r.api.RemoveFromCart(ctx, itemID)
}

func (r *remoteStrategy) Clear(ctx context.Context) error {
	return r.api.ClearCart(ctx)
}
