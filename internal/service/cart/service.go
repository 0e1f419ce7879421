package cart

import (
	"context"
	"errors"
	"sort"
	"strings"

	"acaihouse/internal/domain"
	cartrepo "acaihouse/internal/repository/cart"
)

type Service struct {
	repo           cartRepo
	productRepo    productRepo
	complementRepo complementRepo
}

type cartRepo interface {
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddProductLine(ctx context.Context, in cartrepo.AddProductLineInput) error
	AddCustomLine(ctx context.Context, in cartrepo.AddCustomLineInput) error
	ChangeItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	Clear(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type complementRepo interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Complement, error)
}

func New(repo cartrepo.Repository, products productRepo, complements complementRepo) *Service {
	return &Service{repo: repo, productRepo: products, complementRepo: complements}
}

// Get returns the user's cart, creating an empty one on first use.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.GetOrCreateByUser(ctx, userID)
}

// AddItem adds a product-backed line. A line with the same product and the
// same complement set (order ignored) is incremented instead of duplicated.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int, complementIDs []string) (*domain.Cart, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, errors.New("productId required")
	}
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	cart, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	if !product.Active {
		return nil, errors.New("product unavailable")
	}

	unitPrice := product.PriceCents
	ids := normalizeComplementIDs(complementIDs)
	if len(ids) > 0 {
		complements, err := s.complementRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(complements) != len(ids) {
			return nil, errors.New("complement not found")
		}
		for _, c := range complements {
			unitPrice += c.PriceCents
		}
	}

	if err := s.repo.AddProductLine(ctx, cartrepo.AddProductLineInput{
		CartID:         cart.ID,
		Product:        *product,
		Quantity:       quantity,
		UnitPriceCents: unitPrice,
		ComplementIDs:  ids,
	}); err != nil {
		return nil, err
	}

	return s.repo.GetOrCreateByUser(ctx, userID)
}

// AddCustomAcai adds a build-your-own açaí line priced from the payload.
func (s *Service) AddCustomAcai(ctx context.Context, userID string, payload domain.CustomPayload, quantity int) (*domain.Cart, error) {
	return s.addCustom(ctx, userID, domain.ItemKindCustomAcai, "Custom açaí", payload, quantity)
}

// AddCustomProduct adds a named custom line priced from the payload.
func (s *Service) AddCustomProduct(ctx context.Context, userID, name string, payload domain.CustomPayload, quantity int) (*domain.Cart, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name required")
	}
	return s.addCustom(ctx, userID, domain.ItemKindCustomProduct, name, payload, quantity)
}

func (s *Service) addCustom(ctx context.Context, userID, kind, name string, payload domain.CustomPayload, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if payload.ValueCents <= 0 {
		return nil, errors.New("value must be positive")
	}

	cart, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddCustomLine(ctx, cartrepo.AddCustomLineInput{
		CartID:   cart.ID,
		Kind:     kind,
		Name:     name,
		Quantity: quantity,
		Custom:   payload,
	}); err != nil {
		return nil, err
	}

	return s.repo.GetOrCreateByUser(ctx, userID)
}

// UpdateItem sets a line's quantity. Zero or negative removes the line.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, errors.New("itemId required")
	}

	cart, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ChangeItemQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateByUser(ctx, userID)
}

// RemoveItem deletes a line from the user's cart.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, errors.New("itemId required")
	}

	cart, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateByUser(ctx, userID)
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateByUser(ctx, userID)
}

// normalizeComplementIDs trims, drops empties and sorts, so complement sets
// compare as sets rather than as sequences.
func normalizeComplementIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
