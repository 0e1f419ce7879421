package storehours

import (
	"context"

	"acaihouse/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.StoreHours, error)
	Replace(ctx context.Context, hours []domain.StoreHours) error
}
