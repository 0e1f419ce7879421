package cartstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acaihouse/internal/domain"
	"acaihouse/internal/storage"
)

// fakeAPI records calls and serves a configurable server-side cart and
// product catalog.
type fakeAPI struct {
	cart       *domain.Cart
	cartErr    error
	products   map[string]*domain.Product
	productErr error

	addErr    map[string]error
	addCalls  []addCall
	updCalls  []updCall
	delCalls  []string
	clearCnt  int
	customCnt int
}

type addCall struct {
	productID     string
	quantity      int
	complementIDs []string
}

type updCall struct {
	itemID   string
	quantity int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		cart:     &domain.Cart{ID: "server-cart"},
		products: map[string]*domain.Product{},
		addErr:   map[string]error{},
	}
}

func (f *fakeAPI) GetCart(_ context.Context) (*domain.Cart, error) {
	if f.cartErr != nil {
		return nil, f.cartErr
	}
	return f.cart, nil
}

func (f *fakeAPI) AddToCart(_ context.Context, productID string, quantity int, complementIDs []string) error {
	if err := f.addErr[productID]; err != nil {
		return err
	}
	f.addCalls = append(f.addCalls, addCall{productID, quantity, complementIDs})
	return nil
}

func (f *fakeAPI) AddCustomAcaiToCart(_ context.Context, _ domain.CustomPayload, _ int) error {
	f.customCnt++
	return nil
}

func (f *fakeAPI) AddCustomProductToCart(_ context.Context, _ string, _ domain.CustomPayload, _ int) error {
	f.customCnt++
	return nil
}

func (f *fakeAPI) UpdateCartItem(_ context.Context, itemID string, quantity int) error {
	f.updCalls = append(f.updCalls, updCall{itemID, quantity})
	return nil
}

func (f *fakeAPI) RemoveFromCart(_ context.Context, itemID string) error {
	f.delCalls = append(f.delCalls, itemID)
	return nil
}

func (f *fakeAPI) ClearCart(_ context.Context) error {
	f.clearCnt++
	return nil
}

func (f *fakeAPI) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	if f.productErr != nil {
		return nil, f.productErr
	}
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type fakeIdentity struct {
	authenticated bool
}

func (f *fakeIdentity) IsAuthenticated() bool { return f.authenticated }

// newTestStore builds a Store over an in-memory kv with deterministic guest
// item ids (g1, g2, ...).
func newTestStore(api *fakeAPI, ident *fakeIdentity) (*Store, storage.Storage) {
	kv := storage.NewMemory()
	store := New(api, ident, kv, nil)
	n := 0
	store.local.nowID = func() string {
		n++
		return fmt.Sprintf("g%d", n)
	}
	return store, kv
}

func TestGuestAddItemResolvesProduct(t *testing.T) {
	api := newFakeAPI()
	api.products["p1"] = &domain.Product{ID: "p1", Name: "Açaí 500ml", PriceCents: 2200}
	store, _ := newTestStore(api, &fakeIdentity{})
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 2, nil))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Açaí 500ml", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.EqualValues(t, 4400, items[0].TotalCents)
	assert.EqualValues(t, 4400, store.TotalCents())
}

func TestGuestAddItemDeduplicatesByComplementSet(t *testing.T) {
	api := newFakeAPI()
	api.products["p1"] = &domain.Product{ID: "p1", Name: "Açaí 500ml", PriceCents: 500}
	store, _ := newTestStore(api, &fakeIdentity{})
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 2, []string{"granola", "leite"}))
	// Same set, different order: increments the existing line.
	require.NoError(t, store.AddItem(ctx, "p1", 1, []string{"leite", "granola"}))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.EqualValues(t, 1500, items[0].TotalCents)

	// A different complement set gets its own line.
	require.NoError(t, store.AddItem(ctx, "p1", 1, []string{"granola"}))
	assert.Len(t, store.Items(), 2)
}

func TestGuestAddItemSurvivesProductLookupFailure(t *testing.T) {
	api := newFakeAPI()
	api.productErr = errors.New("network down")
	store, _ := newTestStore(api, &fakeIdentity{})

	require.NoError(t, store.AddItem(context.Background(), "p1", 1, nil))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Name)
	assert.EqualValues(t, 0, items[0].TotalCents)
}

func TestGuestCustomItems(t *testing.T) {
	api := newFakeAPI()
	store, _ := newTestStore(api, &fakeIdentity{})
	ctx := context.Background()

	payload := domain.CustomPayload{ValueCents: 800, ComplementNames: []string{"Granola", "Leite condensado"}}
	require.NoError(t, store.AddCustomAcai(ctx, payload, 1))
	require.NoError(t, store.AddCustomProduct(ctx, "Milkshake da casa", domain.CustomPayload{ValueCents: 1500}, 2))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, domain.ItemKindCustomAcai, items[0].Kind)
	assert.Equal(t, "Custom açaí", items[0].Name)
	assert.Nil(t, items[0].ProductID)
	assert.Equal(t, "Milkshake da casa", items[1].Name)
	assert.EqualValues(t, 800+3000, store.TotalCents())

	// Custom items never call the server.
	assert.Zero(t, api.customCnt)
}

func TestGuestUpdateAndRemove(t *testing.T) {
	api := newFakeAPI()
	api.products["p1"] = &domain.Product{ID: "p1", Name: "Açaí", PriceCents: 1000}
	store, _ := newTestStore(api, &fakeIdentity{})
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 1, nil))
	itemID := store.Items()[0].ID

	require.NoError(t, store.UpdateItem(ctx, itemID, 4))
	assert.EqualValues(t, 4000, store.TotalCents())

	// Unknown id is a no-op.
	require.NoError(t, store.UpdateItem(ctx, "nope", 9))
	assert.EqualValues(t, 4000, store.TotalCents())

	require.NoError(t, store.RemoveItem(ctx, itemID))
	assert.Empty(t, store.Items())
	assert.EqualValues(t, 0, store.TotalCents())
}

func TestGuestClearDropsStoredState(t *testing.T) {
	api := newFakeAPI()
	api.products["p1"] = &domain.Product{ID: "p1", PriceCents: 1000}
	store, kv := newTestStore(api, &fakeIdentity{})
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 1, nil))
	require.NoError(t, store.Clear(ctx))

	assert.Empty(t, store.Items())
	var items []domain.CartItem
	ok, err := kv.Get(storage.GuestCartKey, &items)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticatedOperationsHitServer(t *testing.T) {
	api := newFakeAPI()
	api.cart = &domain.Cart{
		ID:         "server-cart",
		TotalCents: 2200,
		Items:      []domain.CartItem{{ID: "s1", Name: "Açaí 500ml", Quantity: 1, TotalCents: 2200}},
	}
	store, _ := newTestStore(api, &fakeIdentity{authenticated: true})
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 1, []string{"granola"}))
	require.Len(t, api.addCalls, 1)
	assert.Equal(t, addCall{"p1", 1, []string{"granola"}}, api.addCalls[0])

	require.NoError(t, store.UpdateItem(ctx, "s1", 3))
	assert.Equal(t, []updCall{{"s1", 3}}, api.updCalls)

	require.NoError(t, store.RemoveItem(ctx, "s1"))
	assert.Equal(t, []string{"s1"}, api.delCalls)

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 1, api.clearCnt)

	// State always reflects the server cart after a mutation.
	assert.EqualValues(t, 2200, store.TotalCents())
}

func TestLoadKeepsStateOnServerError(t *testing.T) {
	api := newFakeAPI()
	api.cart = &domain.Cart{ID: "server-cart", TotalCents: 900, Items: []domain.CartItem{{ID: "s1", TotalCents: 900}}}
	store, _ := newTestStore(api, &fakeIdentity{authenticated: true})
	ctx := context.Background()

	store.Load(ctx)
	require.EqualValues(t, 900, store.TotalCents())

	api.cartErr = errors.New("boom")
	store.Load(ctx)
	assert.EqualValues(t, 900, store.TotalCents())
	assert.Len(t, store.Items(), 1)
}

// The worked storefront flow: two additions of the same product collapse into
// one line, a custom açaí stays its own line, and the running total follows.
func TestGuestFlowTotals(t *testing.T) {
	api := newFakeAPI()
	api.products["p1"] = &domain.Product{ID: "p1", Name: "Açaí 300ml", PriceCents: 500}
	store, _ := newTestStore(api, &fakeIdentity{})
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 2, []string{"granola"}))
	assert.EqualValues(t, 1000, store.TotalCents())

	require.NoError(t, store.AddItem(ctx, "p1", 1, []string{"granola"}))
	require.Len(t, store.Items(), 1)
	assert.Equal(t, 3, store.Items()[0].Quantity)
	assert.EqualValues(t, 1500, store.TotalCents())

	require.NoError(t, store.AddCustomAcai(ctx, domain.CustomPayload{ValueCents: 800}, 1))
	assert.Len(t, store.Items(), 2)
	assert.EqualValues(t, 2300, store.TotalCents())
}
