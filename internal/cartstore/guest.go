package cartstore

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"acaihouse/internal/domain"
	"acaihouse/internal/storage"
)

// localStrategy keeps the guest cart in local key/value storage. Item IDs are
// client-generated from the clock so they can never collide with the server's
// UUIDs.
type localStrategy struct {
	api   API
	store storage.Storage
	nowID func() string
}

func newLocalStrategy(api API, store storage.Storage) *localStrategy {
	return &localStrategy{
		api:   api,
		store: store,
		nowID: func() string {
			return strconv.FormatInt(time.Now().UnixNano(), 10)
		},
	}
}

func (l *localStrategy) Load(_ context.Context) ([]domain.CartItem, int64, error) {
	items := l.read()
	return items, sumTotals(items), nil
}

func (l *localStrategy) AddItem(ctx context.Context, productID string, quantity int, complementIDs []string) error {
	items := l.read()
	ids := normalizeIDs(complementIDs)

	if i := findMatch(items, productID, ids); i >= 0 {
		items[i].Quantity += quantity
		items[i].TotalCents = items[i].UnitPriceCents * int64(items[i].Quantity)
		return l.write(items)
	}

	entry := domain.CartItem{
		ID:            l.nowID(),
		ProductID:     &productID,
		Kind:          domain.ItemKindProduct,
		Quantity:      quantity,
		ComplementIDs: ids,
		CreatedAt:     time.Now().UTC(),
	}

	// Product lookup is best effort: if it fails the item is still added,
	// just without a name or resolved price.
	if product, err := l.api.GetProductByID(ctx, productID); err == nil {
		entry.Name = product.Name
		entry.UnitPriceCents = product.PriceCents
		entry.TotalCents = product.PriceCents * int64(quantity)
	}

	return l.write(append(items, entry))
}

func (l *localStrategy) AddCustomAcai(ctx context.Context, payload domain.CustomPayload, quantity int) error {
	return l.addCustom(domain.ItemKindCustomAcai, "Custom açaí", payload, quantity)
}

func (l *localStrategy) AddCustomProduct(ctx context.Context, name string, payload domain.CustomPayload, quantity int) error {
	return l.addCustom(domain.ItemKindCustomProduct, name, payload, quantity)
}

func (l *localStrategy) addCustom(kind, name string, payload domain.CustomPayload, quantity int) error {
	items := l.read()
	custom := payload
	entry := domain.CartItem{
		ID:             l.nowID(),
		Kind:           kind,
		Name:           name,
		Quantity:       quantity,
		UnitPriceCents: payload.ValueCents,
		TotalCents:     payload.ValueCents * int64(quantity),
		Custom:         &custom,
		CreatedAt:      time.Now().UTC(),
	}
	return l.write(append(items, entry))
}

func (l *localStrategy) UpdateItem(_ context.Context, itemID string, quantity int) error {
	items := l.read()
	for i := range items {
		if items[i].ID == itemID {
			items[i].Quantity = quantity
			items[i].TotalCents = items[i].UnitPriceCents * int64(quantity)
			return l.write(items)
		}
	}
	// Unknown id is a no-op, not an error.
	return nil
}

func (l *localStrategy) RemoveItem(_ context.Context, itemID string) error {
	items := l.read()
	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	return l.write(kept)
}

func (l *localStrategy) Clear(_ context.Context) error {
	return l.store.Delete(storage.GuestCartKey)
}

// read treats missing or unreadable guest state as an empty cart.
func (l *localStrategy) read() []domain.CartItem {
	var items []domain.CartItem
	if ok, err := l.store.Get(storage.GuestCartKey, &items); err != nil || !ok {
		return nil
	}
	return items
}

func (l *localStrategy) write(items []domain.CartItem) error {
	return l.store.Set(storage.GuestCartKey, items)
}

// findMatch locates a line with the same product and the same complement set.
// Complement order is ignored: both sides are compared sorted.
func findMatch(items []domain.CartItem, productID string, sortedIDs []string) int {
	key := strings.Join(sortedIDs, ",")
	for i, item := range items {
		if item.ProductID == nil || *item.ProductID != productID {
			continue
		}
		if strings.Join(normalizeIDs(item.ComplementIDs), ",") == key {
			return i
		}
	}
	return -1
}

func normalizeIDs(ids []string) []string {
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

func sumTotals(items []domain.CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.TotalCents
	}
	return total
}
