package order

import (
	"context"

	"acaihouse/internal/domain"
)

type CreateOrderInput struct {
	UserID     string
	Address    string
	TotalCents int64
	Items      []domain.OrderItem
}

type Repository interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	SetStatus(ctx context.Context, id, status string) error
	AssignDeliveryPerson(ctx context.Context, id, deliveryPersonID string) error
}
