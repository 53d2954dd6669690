// Package cart applies mutations to per-user carts. Carts are loaded
// and saved whole, so the engine serializes writers per user with a
// striped lock: concurrent mutations for one user queue up instead of
// losing updates, while different users proceed in parallel.
package cart

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/minimarket/storefront/internal/events"
	"github.com/minimarket/storefront/internal/logging"
	"github.com/minimarket/storefront/internal/models"
	"github.com/minimarket/storefront/internal/store"
)

// ErrItemNotFound is the engine's only checked failure: Add validates
// the item against the catalog, Update and Remove never do.
var ErrItemNotFound = errors.New("item not found")

const lockStripes = 64

type Engine struct {
	Items    store.ItemStore
	Carts    store.CartStore
	Producer *events.Producer

	locks [lockStripes]sync.Mutex
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &e.locks[h.Sum32()%lockStripes]
}

// Get never fails for an unknown user; it reports an empty cart.
func (e *Engine) Get(ctx context.Context, userID string) ([]models.CartEntry, error) {
	entries, err := e.Carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.CartEntry{}
	}
	return entries, nil
}

// Add is additive: repeated adds of the same item accumulate quantity.
// The item must exist in the catalog at add time; it is never
// re-validated later, so entries may outlive their item.
func (e *Engine) Add(ctx context.Context, userID, itemID string, qty int) ([]models.CartEntry, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "userID", userID)

	if qty < 1 {
		qty = 1
	}

	if _, err := e.Items.GetItem(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("add_rejected", "reason", "item not found", "itemID", itemID)
			return nil, fmt.Errorf("%s: %w", itemID, ErrItemNotFound)
		}
		return nil, err
	}

	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	entries, err := e.Carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range entries {
		if entries[i].ItemID == itemID {
			entries[i].Qty += qty
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, models.CartEntry{ItemID: itemID, Qty: qty})
	}

	if err := e.Carts.SaveCart(ctx, userID, entries); err != nil {
		return nil, err
	}

	e.publish(ctx, userID, map[string]any{"type": "cart_item_added", "userID": userID, "itemID": itemID, "qty": qty})
	return entries, nil
}

// Update sets an exact quantity. A quantity of zero or less removes the
// entry. Updating an item that is not in the cart is a no-op, not an
// error; the current cart is returned unchanged.
func (e *Engine) Update(ctx context.Context, userID, itemID string, qty int) ([]models.CartEntry, error) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	entries, err := e.Carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range entries {
		if entries[i].ItemID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return entries, nil
	}

	if qty <= 0 {
		entries = append(entries[:idx], entries[idx+1:]...)
	} else {
		entries[idx].Qty = qty
	}

	if err := e.Carts.SaveCart(ctx, userID, entries); err != nil {
		return nil, err
	}

	e.publish(ctx, userID, map[string]any{"type": "cart_item_updated", "userID": userID, "itemID": itemID, "qty": qty})
	return entries, nil
}

// Remove drops the entry when present and succeeds either way.
func (e *Engine) Remove(ctx context.Context, userID, itemID string) ([]models.CartEntry, error) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	entries, err := e.Carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.CartEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.ItemID != itemID {
			filtered = append(filtered, entry)
		}
	}
	if len(filtered) == len(entries) {
		return entries, nil
	}

	if err := e.Carts.SaveCart(ctx, userID, filtered); err != nil {
		return nil, err
	}

	e.publish(ctx, userID, map[string]any{"type": "cart_item_removed", "userID": userID, "itemID": itemID})
	return filtered, nil
}

func (e *Engine) publish(ctx context.Context, userID string, event map[string]any) {
	if err := e.Producer.PublishEvent(ctx, events.TopicCarts, userID, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "error", err)
	}
}
