package complement

import (
	"context"

	"acaihouse/internal/domain"
)

type Repository interface {
	ListActive(ctx context.Context) ([]domain.Complement, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Complement, error)
	Upsert(ctx context.Context, c domain.Complement) (*domain.Complement, error)
}
