package delivery

import (
	"context"

	"acaihouse/internal/domain"
)

type Repository interface {
	ListActive(ctx context.Context) ([]domain.DeliveryPerson, error)
	GetByID(ctx context.Context, id string) (*domain.DeliveryPerson, error)
	Upsert(ctx context.Context, p domain.DeliveryPerson) (*domain.DeliveryPerson, error)
}
