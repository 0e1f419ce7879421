package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"acaihouse/internal/domain"
	cartrepo "acaihouse/internal/repository/cart"
	orderrepo "acaihouse/internal/repository/order"
)

var (
	// ErrEmptyCart is returned when checking out an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrStoreClosed is returned when checking out outside opening hours.
	ErrStoreClosed = errors.New("store is closed")
)

type Service struct {
	repo         orderrepo.Repository
	cartRepo     cartRepo
	deliveryRepo deliveryRepo
	hours        hoursChecker
	now          func() time.Time
}

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) error
}

type deliveryRepo interface {
	GetByID(ctx context.Context, id string) (*domain.DeliveryPerson, error)
}

type hoursChecker interface {
	IsOpen(ctx context.Context, at time.Time) (bool, error)
}

func New(repo orderrepo.Repository, carts cartrepo.Repository, deliveries deliveryRepo, hours hoursChecker) *Service {
	return &Service{
		repo:         repo,
		cartRepo:     carts,
		deliveryRepo: deliveries,
		hours:        hours,
		now:          time.Now,
	}
}

// Checkout freezes the user's cart into an order and clears the cart.
func (s *Service) Checkout(ctx context.Context, userID, address string) (*domain.Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.New("address required")
	}

	open, err := s.hours.IsOpen(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrStoreClosed
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, domain.OrderItem{
			ProductID:      line.ProductID,
			Kind:           line.Kind,
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.TotalCents,
			ComplementIDs:  line.ComplementIDs,
			Custom:         line.Custom,
		})
	}

	created, err := s.repo.Create(ctx, orderrepo.CreateOrderInput{
		UserID:     userID,
		Address:    address,
		TotalCents: cart.TotalCents,
		Items:      items,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// SetStatus moves an order to one of the known statuses.
func (s *Service) SetStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	switch status {
	case domain.OrderStatusPlaced, domain.OrderStatusPreparing, domain.OrderStatusOutForDelivery,
		domain.OrderStatusDelivered, domain.OrderStatusCancelled:
	default:
		return nil, errors.New("unknown status")
	}
	if err := s.repo.SetStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, orderID)
}

// AssignDeliveryPerson attaches an active delivery person to an order.
func (s *Service) AssignDeliveryPerson(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error) {
	p, err := s.deliveryRepo.GetByID(ctx, deliveryPersonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("delivery person not found")
		}
		return nil, err
	}
	if !p.Active {
		return nil, errors.New("delivery person inactive")
	}
	if err := s.repo.AssignDeliveryPerson(ctx, orderID, deliveryPersonID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, orderID)
}
