package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"acaihouse/internal/domain"
	orderrepo "acaihouse/internal/repository/order"
)

type stubOrderRepo struct {
	created    *domain.Order
	createErr  error
	lastCreate orderrepo.CreateOrderInput
	byID       *domain.Order
	statusErr  error
	lastStatus string
	assignErr  error
	lastAssign string
}

func (s *stubOrderRepo) Create(_ context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error) {
	s.lastCreate = in
	return s.created, s.createErr
}

func (s *stubOrderRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return s.byID, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) SetStatus(_ context.Context, _, status string) error {
	s.lastStatus = status
	return s.statusErr
}

func (s *stubOrderRepo) AssignDeliveryPerson(_ context.Context, _, deliveryPersonID string) error {
	s.lastAssign = deliveryPersonID
	return s.assignErr
}

type stubCartRepo struct {
	cart          *domain.Cart
	err           error
	clearedCartID string
}

func (s *stubCartRepo) GetByUser(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartRepo) Clear(_ context.Context, cartID string) error {
	s.clearedCartID = cartID
	return nil
}

type stubDeliveryRepo struct {
	person *domain.DeliveryPerson
	err    error
}

func (s *stubDeliveryRepo) GetByID(_ context.Context, _ string) (*domain.DeliveryPerson, error) {
	return s.person, s.err
}

type stubHours struct {
	open bool
	err  error
}

func (s *stubHours) IsOpen(_ context.Context, _ time.Time) (bool, error) {
	return s.open, s.err
}

func strPtr(v string) *string {
	return &v
}

func filledCart() *domain.Cart {
	return &domain.Cart{
		ID:         "c1",
		UserID:     "u1",
		TotalCents: 5200,
		Items: []domain.CartItem{
			{ID: "i1", ProductID: strPtr("p1"), Kind: domain.ItemKindProduct, Name: "Açaí 500ml", Quantity: 2, UnitPriceCents: 2200, TotalCents: 4400},
			{ID: "i2", Kind: domain.ItemKindCustomAcai, Name: "Custom açaí", Quantity: 1, UnitPriceCents: 800, TotalCents: 800, Custom: &domain.CustomPayload{ValueCents: 800}},
		},
	}
}

func TestCheckoutRequiresAddress(t *testing.T) {
	svc := &Service{hours: &stubHours{open: true}, now: time.Now}
	_, err := svc.Checkout(context.Background(), "u1", "  ")
	if err == nil || err.Error() != "address required" {
		t.Fatalf("expected address error, got %v", err)
	}
}

func TestCheckoutStoreClosed(t *testing.T) {
	svc := &Service{hours: &stubHours{open: false}, now: time.Now}
	_, err := svc.Checkout(context.Background(), "u1", "Rua A, 10")
	if !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := &Service{
		hours:    &stubHours{open: true},
		cartRepo: &stubCartRepo{err: domain.ErrNotFound},
		now:      time.Now,
	}
	if _, err := svc.Checkout(context.Background(), "u1", "Rua A, 10"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart for missing cart, got %v", err)
	}

	svc.cartRepo = &stubCartRepo{cart: &domain.Cart{ID: "c1"}}
	if _, err := svc.Checkout(context.Background(), "u1", "Rua A, 10"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart for empty cart, got %v", err)
	}
}

func TestCheckoutSnapshotsAndClears(t *testing.T) {
	created := &domain.Order{ID: "o1", Status: domain.OrderStatusPlaced, TotalCents: 5200}
	repo := &stubOrderRepo{created: created}
	carts := &stubCartRepo{cart: filledCart()}
	svc := &Service{
		repo:     repo,
		cartRepo: carts,
		hours:    &stubHours{open: true},
		now:      time.Now,
	}

	got, err := svc.Checkout(context.Background(), "u1", "Rua A, 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != created {
		t.Fatalf("unexpected order: %+v", got)
	}
	if repo.lastCreate.TotalCents != 5200 || len(repo.lastCreate.Items) != 2 {
		t.Fatalf("cart not snapshotted: %+v", repo.lastCreate)
	}
	if repo.lastCreate.Items[1].Custom == nil || repo.lastCreate.Items[1].Custom.ValueCents != 800 {
		t.Fatalf("custom payload not carried into order: %+v", repo.lastCreate.Items[1])
	}
	if carts.clearedCartID != "c1" {
		t.Fatalf("cart not cleared after checkout")
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	svc := &Service{repo: &stubOrderRepo{}}
	if _, err := svc.SetStatus(context.Background(), "o1", "lost"); err == nil || err.Error() != "unknown status" {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}

func TestSetStatusHappyPath(t *testing.T) {
	updated := &domain.Order{ID: "o1", Status: domain.OrderStatusPreparing}
	repo := &stubOrderRepo{byID: updated}
	svc := &Service{repo: repo}

	got, err := svc.SetStatus(context.Background(), "o1", domain.OrderStatusPreparing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != updated || repo.lastStatus != domain.OrderStatusPreparing {
		t.Fatalf("status not forwarded: %+v", repo.lastStatus)
	}
}

func TestAssignDeliveryPersonChecksActive(t *testing.T) {
	svc := &Service{repo: &stubOrderRepo{}, deliveryRepo: &stubDeliveryRepo{err: domain.ErrNotFound}}
	if _, err := svc.AssignDeliveryPerson(context.Background(), "o1", "d1"); err == nil || err.Error() != "delivery person not found" {
		t.Fatalf("expected not found error, got %v", err)
	}

	svc = &Service{repo: &stubOrderRepo{}, deliveryRepo: &stubDeliveryRepo{person: &domain.DeliveryPerson{ID: "d1"}}}
	if _, err := svc.AssignDeliveryPerson(context.Background(), "o1", "d1"); err == nil || err.Error() != "delivery person inactive" {
		t.Fatalf("expected inactive error, got %v", err)
	}
}

func TestAssignDeliveryPersonHappyPath(t *testing.T) {
	updated := &domain.Order{ID: "o1"}
	repo := &stubOrderRepo{byID: updated}
	svc := &Service{repo: repo, deliveryRepo: &stubDeliveryRepo{person: &domain.DeliveryPerson{ID: "d1", Active: true}}}

	got, err := svc.AssignDeliveryPerson(context.Background(), "o1", "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != updated || repo.lastAssign != "d1" {
		t.Fatalf("assignment not forwarded")
	}
}
