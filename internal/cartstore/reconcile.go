package cartstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"acaihouse/internal/domain"
	"acaihouse/internal/storage"
)

// Reconciler merges the guest cart into the server cart once per login. It is
// registered as the session's identity-change listener.
type Reconciler struct {
	api    API
	store  *Store
	kv     storage.Storage
	logger *log.Logger
}

func NewReconciler(api API, store *Store, kv storage.Storage, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Reconciler{api: api, store: store, kv: kv, logger: logger}
}

// OnSessionChange reacts to an authentication-identity change. A login merges
// the guest cart and reloads; a logout is a pure reset with no merge.
func (r *Reconciler) OnSessionChange(ctx context.Context, user *domain.User) {
	if user == nil {
		r.store.Load(ctx)
		return
	}
	if err := r.Merge(ctx); err != nil {
		r.logger.Printf("reconcile: partial merge: %v", err)
	}
}

// Merge replays the guest cart against the server cart, sequentially and in
// original insertion order so server-side increment semantics stay
// well-ordered. Custom items (no product reference) are silently skipped.
// Failures are isolated per item and aggregated; regardless of partial
// failure the guest collection is deleted and the server cart reloaded.
func (r *Reconciler) Merge(ctx context.Context) error {
	var guest []domain.CartItem
	if ok, err := r.kv.Get(storage.GuestCartKey, &guest); err != nil || !ok || len(guest) == 0 {
		r.store.Load(ctx)
		return nil
	}

	var errs []error
	synced := 0
	for _, item := range guest {
		if item.ProductID == nil {
			continue
		}
		if err := r.api.AddToCart(ctx, *item.ProductID, item.Quantity, item.ComplementIDs); err != nil {
			errs = append(errs, fmt.Errorf("sync item %s (product %s): %w", item.ID, *item.ProductID, err))
			continue
		}
		synced++
	}

	if err := r.kv.Delete(storage.GuestCartKey); err != nil {
		errs = append(errs, fmt.Errorf("drop guest cart: %w", err))
	}
	r.store.Load(ctx)

	r.logger.Printf("reconcile: merged guest cart, synced=%d skipped_or_failed=%d", synced, len(guest)-synced)
	return errors.Join(errs...)
}
