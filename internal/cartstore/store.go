package cartstore

import (
	"context"
	"io"
	"log"
	"sync"

	"acaihouse/internal/domain"
	"acaihouse/internal/storage"
)

// API is the slice of the api client the cart store and reconciler use.
type API interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddToCart(ctx context.Context, productID string, quantity int, complementIDs []string) error
	AddCustomAcaiToCart(ctx context.Context, payload domain.CustomPayload, quantity int) error
	AddCustomProductToCart(ctx context.Context, name string, payload domain.CustomPayload, quantity int) error
	UpdateCartItem(ctx context.Context, itemID string, quantity int) error
	RemoveFromCart(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
}

// Identity answers "who owns the cart right now".
type Identity interface {
	IsAuthenticated() bool
}

// strategy is one of the two cart backends: the local guest collection or the
// server cart. Every mutation is followed by a Load of the owning backend, so
// totals always come from one authoritative place.
type strategy interface {
	Load(ctx context.Context) ([]domain.CartItem, int64, error)
	AddItem(ctx context.Context, productID string, quantity int, complementIDs []string) error
	AddCustomAcai(ctx context.Context, payload domain.CustomPayload, quantity int) error
	AddCustomProduct(ctx context.Context, name string, payload domain.CustomPayload, quantity int) error
	UpdateItem(ctx context.Context, itemID string, quantity int) error
	RemoveItem(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
}

// Store is the single source of truth, within one client process, for what is
// in the cart and what it costs. It switches between the guest and the server
// backend based on the session identity.
type Store struct {
	mu      sync.Mutex
	session Identity
	local   *localStrategy
	remote  *remoteStrategy
	logger  *log.Logger

	items      []domain.CartItem
	totalCents int64
	loading    bool
}

func New(api API, session Identity, store storage.Storage, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		session: session,
		local:   newLocalStrategy(api, store),
		remote:  &remoteStrategy{api: api},
		logger:  logger,
	}
}

// Items returns a copy of the current line items.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalCents returns the derived cart total.
func (s *Store) TotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCents
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) strategy() strategy {
	if s.session.IsAuthenticated() {
		return s.remote
	}
	return s.local
}

// Load refreshes the store from the owning backend. A failed refresh while
// authenticated is logged and the prior state kept; the guest backend treats
// unreadable state as an empty cart, so it cannot fail here.
func (s *Store) Load(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	items, total, err := s.strategy().Load(ctx)
	if err != nil {
		s.logger.Printf("cartstore: load failed, keeping previous state: %v", err)
		return
	}
	s.replace(items, total)
}

// AddItem adds (or increments) a product-backed line.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int, complementIDs []string) error {
	return s.mutate(ctx, func(ctx context.Context, st strategy) error {
		return st.AddItem(ctx, productID, quantity, complementIDs)
	})
}

// AddCustomAcai adds a build-your-own açaí line. Custom lines are local-only
// until checkout: they are never merged into the server cart on login.
func (s *Store) AddCustomAcai(ctx context.Context, payload domain.CustomPayload, quantity int) error {
	return s.mutate(ctx, func(ctx context.Context, st strategy) error {
		return st.AddCustomAcai(ctx, payload, quantity)
	})
}

// AddCustomProduct adds a named custom line.
func (s *Store) AddCustomProduct(ctx context.Context, name string, payload domain.CustomPayload, quantity int) error {
	return s.mutate(ctx, func(ctx context.Context, st strategy) error {
		return st.AddCustomProduct(ctx, name, payload, quantity)
	})
}

// UpdateItem sets a line's quantity. An unknown guest item id is a no-op.
func (s *Store) UpdateItem(ctx context.Context, itemID string, quantity int) error {
	return s.mutate(ctx, func(ctx context.Context, st strategy) error {
		return st.UpdateItem(ctx, itemID, quantity)
	})
}

// RemoveItem deletes a line.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	return s.mutate(ctx, func(ctx context.Context, st strategy) error {
		return st.RemoveItem(ctx, itemID)
	})
}

// Clear empties the cart on whichever backend owns it.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(ctx context.Context, st strategy) error {
		return st.Clear(ctx)
	})
}

// mutate runs one strategy operation and reloads. The loading flag is cleared
// on every path out.
func (s *Store) mutate(ctx context.Context, op func(context.Context, strategy) error) error {
	s.setLoading(true)
	defer s.setLoading(false)

	st := s.strategy()
	if err := op(ctx, st); err != nil {
		return err
	}

	items, total, err := st.Load(ctx)
	if err != nil {
		s.logger.Printf("cartstore: reload after mutation failed, keeping previous state: %v", err)
		return nil
	}
	s.replace(items, total)
	return nil
}

func (s *Store) replace(items []domain.CartItem, total int64) {
	s.mu.Lock()
	s.items = items
	s.totalCents = total
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
