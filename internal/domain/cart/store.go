// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/events"
	"github.com/your-org/storefront-client/internal/storage"
)

// KeyCart is the local storage key of the cart cache mirror
const KeyCart = "cart"

// Service is the slice of the API client the cart store depends on
type Service interface {
	GetCart(ctx context.Context) ([]Item, error)
	AddCartItem(ctx context.Context, req AddRequest) ([]Item, error)
	UpdateCartItem(ctx context.Context, cartItemID string, quantity int) (*UpdateResult, error)
	RemoveCartItem(ctx context.Context, cartItemID string) error
	ClearCart(ctx context.Context) error
}

// Store synchronizes the cart with the server. The server is the source of
// truth; the local cache mirror is a best-effort fallback consulted only
// when a fetch fails. Operations may be dispatched concurrently: each
// completion applies under the store mutex, last-resolved-wins.
type Store struct {
	mu     sync.Mutex
	state  State
	svc    Service
	cache  storage.Store
	logger *logrus.Logger
}

// NewStore creates a cart store and subscribes it to session termination:
// on SessionEnded the store resets unconditionally and purges its cache
// mirror. No cart operation triggers that transition.
func NewStore(svc Service, cache storage.Store, bus *events.Bus, logger *logrus.Logger) *Store {
	s := &Store{
		state:  InitialState(),
		svc:    svc,
		cache:  cache,
		logger: logger,
	}

	bus.Subscribe(events.SessionEnded, s.reset)

	return s
}

// State returns a copy of the current cart state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	state.Items = make([]Item, len(s.state.Items))
	copy(state.Items, s.state.Items)
	return state
}

// Fetch replaces the items wholesale from the server. On failure the error
// is recorded in state and the items fall back to the local cache mirror.
func (s *Store) Fetch(ctx context.Context) error {
	s.apply(ctx, Action{Op: OpFetch, Phase: Pending})

	items, err := s.svc.GetCart(ctx)
	if err != nil {
		s.apply(ctx, Action{
			Op:         OpFetch,
			Phase:      Rejected,
			Err:        messageFor(err),
			CacheItems: s.loadCache(ctx),
		})
		return err
	}

	s.apply(ctx, Action{Op: OpFetch, Phase: Fulfilled, Items: items})
	return nil
}

// AddItem adds a line to the cart. When a line for the same product already
// exists, the requested quantity is merged into it client-side to avoid
// duplicate lines; the server performs the authoritative merge and returns
// the full updated collection.
func (s *Store) AddItem(ctx context.Context, item Item) error {
	quantity := item.Quantity

	s.mu.Lock()
	for _, existing := range s.state.Items {
		if existing.ID == item.ID || existing.CartItemID == item.ID {
			quantity = existing.Quantity + item.Quantity
			break
		}
	}
	s.mu.Unlock()

	s.apply(ctx, Action{Op: OpAdd, Phase: Pending})

	items, err := s.svc.AddCartItem(ctx, AddRequest{ProductID: item.ID, Quantity: quantity})
	if err != nil {
		s.apply(ctx, Action{Op: OpAdd, Phase: Rejected, Err: messageFor(err)})
		return err
	}

	s.apply(ctx, Action{Op: OpAdd, Phase: Fulfilled, Items: items})
	return nil
}

// UpdateQuantity changes a line's quantity. The value is passed through as
// given: callers are responsible for translating quantities below 1 into a
// removal before dispatch.
func (s *Store) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) error {
	s.apply(ctx, Action{Op: OpUpdate, Phase: Pending})

	result, err := s.svc.UpdateCartItem(ctx, cartItemID, quantity)
	if err != nil {
		s.apply(ctx, Action{Op: OpUpdate, Phase: Rejected, Err: messageFor(err)})
		return err
	}

	s.apply(ctx, Action{Op: OpUpdate, Phase: Fulfilled, Update: result})
	return nil
}

// RemoveItem deletes a line by its cart-line identifier. The local filter is
// keyed on that identifier regardless of the response body, so repeating the
// call is a local no-op.
func (s *Store) RemoveItem(ctx context.Context, cartItemID string) error {
	s.apply(ctx, Action{Op: OpRemove, Phase: Pending})

	if err := s.svc.RemoveCartItem(ctx, cartItemID); err != nil {
		s.apply(ctx, Action{Op: OpRemove, Phase: Rejected, Err: messageFor(err)})
		return err
	}

	s.apply(ctx, Action{Op: OpRemove, Phase: Fulfilled, RemovedID: cartItemID})
	return nil
}

// Clear empties the cart, regardless of the response body
func (s *Store) Clear(ctx context.Context) error {
	s.apply(ctx, Action{Op: OpClear, Phase: Pending})

	if err := s.svc.ClearCart(ctx); err != nil {
		s.apply(ctx, Action{Op: OpClear, Phase: Rejected, Err: messageFor(err)})
		return err
	}

	s.apply(ctx, Action{Op: OpClear, Phase: Fulfilled})
	return nil
}

// SetLocalItems replaces items locally without a server round trip and
// refreshes the cache mirror.
func (s *Store) SetLocalItems(ctx context.Context, items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []Item{}
	}
	s.state.Items = items
	s.saveCache(ctx)
}

// ClearError clears the store-held error string
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}

// apply reduces an action into state under the mutex, mirrors fulfilled
// results to the cache, and logs dropped updates.
func (s *Store) apply(ctx context.Context, a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, diagnostic := Reduce(s.state, a)
	s.state = next

	if diagnostic != "" {
		s.logger.WithField("op", a.Op).Warn(diagnostic)
	}

	if a.Phase == Fulfilled {
		s.saveCache(ctx)
	}
}

// reset restores the initial state and purges the cache mirror. Invoked by
// the SessionEnded subscription only.
func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = InitialState()

	if err := s.cache.Delete(context.Background(), KeyCart); err != nil {
		s.logger.WithError(err).Warn("Failed to purge cart cache on session end")
	}
}

// saveCache mirrors the current items to local storage; caller holds the
// lock. Best-effort: failures are logged, never propagated.
func (s *Store) saveCache(ctx context.Context) {
	raw, err := json.Marshal(Cached{Items: s.state.Items})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode cart cache")
		return
	}

	if err := s.cache.Set(ctx, KeyCart, string(raw)); err != nil {
		s.logger.WithError(err).Warn("Failed to write cart cache")
	}
}

// loadCache reads the mirrored items, returning an empty slice on miss or
// corrupt data.
func (s *Store) loadCache(ctx context.Context) []Item {
	raw, err := s.cache.Get(ctx, KeyCart)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.WithError(err).Warn("Failed to read cart cache")
		}
		return []Item{}
	}

	var cached Cached
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		s.logger.WithError(err).Warn("Corrupt cart cache, ignoring")
		return []Item{}
	}

	if cached.Items == nil {
		return []Item{}
	}
	return cached.Items
}

// messageFor extracts the displayable message from a client error
func messageFor(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
