package catalog

import (
	"context"

	"acaihouse/internal/domain"
	complementrepo "acaihouse/internal/repository/complement"
	productrepo "acaihouse/internal/repository/product"
)

type Service struct {
	products    productrepo.Repository
	complements complementrepo.Repository
}

func New(products productrepo.Repository, complements complementrepo.Repository) *Service {
	return &Service{products: products, complements: complements}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListActive(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) ListComplements(ctx context.Context) ([]domain.Complement, error) {
	return s.complements.ListActive(ctx)
}

func (s *Service) GetComplements(ctx context.Context, ids []string) ([]domain.Complement, error) {
	return s.complements.GetByIDs(ctx, ids)
}
