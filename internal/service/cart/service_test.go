package cart

import (
	"context"
	"errors"
	"testing"

	"acaihouse/internal/domain"
	cartrepo "acaihouse/internal/repository/cart"
)

type stubCartRepo struct {
	carts         []*domain.Cart
	cartErr       error
	getCalls      int
	addProductErr error
	addCustomErr  error
	changeErr     error
	removeErr     error
	clearErr      error

	lastAddProduct cartrepo.AddProductLineInput
	lastAddCustom  cartrepo.AddCustomLineInput
	lastChangeItem string
	lastChangeQty  int
	lastRemoveItem string
	clearedCartID  string
}

func (s *stubCartRepo) GetOrCreateByUser(_ context.Context, _ string) (*domain.Cart, error) {
	if s.cartErr != nil {
		return nil, s.cartErr
	}
	var res *domain.Cart
	if len(s.carts) > 0 {
		idx := s.getCalls
		if idx >= len(s.carts) {
			idx = len(s.carts) - 1
		}
		res = s.carts[idx]
	}
	s.getCalls++
	return res, nil
}

func (s *stubCartRepo) AddProductLine(_ context.Context, in cartrepo.AddProductLineInput) error {
	s.lastAddProduct = in
	return s.addProductErr
}

func (s *stubCartRepo) AddCustomLine(_ context.Context, in cartrepo.AddCustomLineInput) error {
	s.lastAddCustom = in
	return s.addCustomErr
}

func (s *stubCartRepo) ChangeItemQuantity(_ context.Context, _, itemID string, quantity int) error {
	s.lastChangeItem = itemID
	s.lastChangeQty = quantity
	return s.changeErr
}

func (s *stubCartRepo) RemoveItem(_ context.Context, _, itemID string) error {
	s.lastRemoveItem = itemID
	return s.removeErr
}

func (s *stubCartRepo) Clear(_ context.Context, cartID string) error {
	s.clearedCartID = cartID
	return s.clearErr
}

type stubProductRepo struct {
	product *domain.Product
	err     error
	lastID  string
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

type stubComplementRepo struct {
	complements []domain.Complement
	err         error
	lastIDs     []string
}

func (s *stubComplementRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Complement, error) {
	s.lastIDs = ids
	return s.complements, s.err
}

func activeProduct() *domain.Product {
	return &domain.Product{ID: "p1", Key: "acai-500", Name: "Açaí 500ml", PriceCents: 2200, Currency: "BRL", Active: true}
}

func TestAddItemValidation(t *testing.T) {
	svc := &Service{repo: &stubCartRepo{}}

	_, err := svc.AddItem(context.Background(), "u1", "  ", 1, nil)
	if err == nil || err.Error() != "productId required" {
		t.Fatalf("expected productId error, got %v", err)
	}

	_, err = svc.AddItem(context.Background(), "u1", "p1", 0, nil)
	if err == nil || err.Error() != "quantity must be positive" {
		t.Fatalf("expected quantity error, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	repo := &stubCartRepo{carts: []*domain.Cart{{ID: "c1"}}}
	svc := &Service{repo: repo, productRepo: &stubProductRepo{err: domain.ErrNotFound}}

	_, err := svc.AddItem(context.Background(), "u1", "p1", 1, nil)
	if err == nil || err.Error() != "product not found" {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestAddItemInactiveProduct(t *testing.T) {
	p := activeProduct()
	p.Active = false
	repo := &stubCartRepo{carts: []*domain.Cart{{ID: "c1"}}}
	svc := &Service{repo: repo, productRepo: &stubProductRepo{product: p}}

	_, err := svc.AddItem(context.Background(), "u1", "p1", 1, nil)
	if err == nil || err.Error() != "product unavailable" {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestAddItemComplementPricing(t *testing.T) {
	initial := &domain.Cart{ID: "c1"}
	updated := &domain.Cart{ID: "c1", TotalCents: 2700}
	repo := &stubCartRepo{carts: []*domain.Cart{initial, updated}}
	complements := &stubComplementRepo{complements: []domain.Complement{
		{ID: "granola", PriceCents: 300},
		{ID: "leite", PriceCents: 200},
	}}
	svc := &Service{repo: repo, productRepo: &stubProductRepo{product: activeProduct()}, complementRepo: complements}

	got, err := svc.AddItem(context.Background(), "u1", "p1", 1, []string{"leite", "granola"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != updated {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastAddProduct.UnitPriceCents != 2200+300+200 {
		t.Fatalf("unexpected unit price: %d", repo.lastAddProduct.UnitPriceCents)
	}
	// Complement sets are compared sorted, so the repo must receive them sorted.
	if len(repo.lastAddProduct.ComplementIDs) != 2 || repo.lastAddProduct.ComplementIDs[0] != "granola" {
		t.Fatalf("complement ids not normalized: %v", repo.lastAddProduct.ComplementIDs)
	}
}

func TestAddItemMissingComplement(t *testing.T) {
	repo := &stubCartRepo{carts: []*domain.Cart{{ID: "c1"}}}
	complements := &stubComplementRepo{complements: []domain.Complement{{ID: "granola"}}}
	svc := &Service{repo: repo, productRepo: &stubProductRepo{product: activeProduct()}, complementRepo: complements}

	_, err := svc.AddItem(context.Background(), "u1", "p1", 1, []string{"granola", "missing"})
	if err == nil || err.Error() != "complement not found" {
		t.Fatalf("expected complement error, got %v", err)
	}
}

func TestAddCustomAcaiValidation(t *testing.T) {
	svc := &Service{repo: &stubCartRepo{}}

	_, err := svc.AddCustomAcai(context.Background(), "u1", domain.CustomPayload{ValueCents: 800}, 0)
	if err == nil || err.Error() != "quantity must be positive" {
		t.Fatalf("expected quantity error, got %v", err)
	}

	_, err = svc.AddCustomAcai(context.Background(), "u1", domain.CustomPayload{}, 1)
	if err == nil || err.Error() != "value must be positive" {
		t.Fatalf("expected value error, got %v", err)
	}
}

func TestAddCustomAcaiHappyPath(t *testing.T) {
	initial := &domain.Cart{ID: "c1"}
	updated := &domain.Cart{ID: "c1", TotalCents: 800}
	repo := &stubCartRepo{carts: []*domain.Cart{initial, updated}}
	svc := &Service{repo: repo}

	payload := domain.CustomPayload{ValueCents: 800, ComplementNames: []string{"Granola"}}
	got, err := svc.AddCustomAcai(context.Background(), "u1", payload, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != updated {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastAddCustom.Kind != domain.ItemKindCustomAcai || repo.lastAddCustom.Name != "Custom açaí" {
		t.Fatalf("unexpected custom line: %+v", repo.lastAddCustom)
	}
	if repo.lastAddCustom.Custom.ValueCents != 800 {
		t.Fatalf("payload not forwarded: %+v", repo.lastAddCustom.Custom)
	}
}

func TestAddCustomProductRequiresName(t *testing.T) {
	svc := &Service{repo: &stubCartRepo{}}
	_, err := svc.AddCustomProduct(context.Background(), "u1", "  ", domain.CustomPayload{ValueCents: 500}, 1)
	if err == nil || err.Error() != "name required" {
		t.Fatalf("expected name error, got %v", err)
	}
}

func TestUpdateItemForwardsQuantity(t *testing.T) {
	initial := &domain.Cart{ID: "c1"}
	updated := &domain.Cart{ID: "c1"}
	repo := &stubCartRepo{carts: []*domain.Cart{initial, updated}}
	svc := &Service{repo: repo}

	got, err := svc.UpdateItem(context.Background(), "u1", "item1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != updated {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastChangeItem != "item1" || repo.lastChangeQty != 3 {
		t.Fatalf("change not forwarded: %s %d", repo.lastChangeItem, repo.lastChangeQty)
	}
}

func TestRemoveItemRepoError(t *testing.T) {
	repo := &stubCartRepo{carts: []*domain.Cart{{ID: "c1"}}, removeErr: errors.New("boom")}
	svc := &Service{repo: repo}

	_, err := svc.RemoveItem(context.Background(), "u1", "item1")
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	initial := &domain.Cart{ID: "c1", TotalCents: 900}
	emptied := &domain.Cart{ID: "c1"}
	repo := &stubCartRepo{carts: []*domain.Cart{initial, emptied}}
	svc := &Service{repo: repo}

	got, err := svc.Clear(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != emptied {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.clearedCartID != "c1" {
		t.Fatalf("clear not called with cart id: %s", repo.clearedCartID)
	}
}
