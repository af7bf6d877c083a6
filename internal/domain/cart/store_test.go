// internal/domain/cart/store_test.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-client/internal/events"
	"github.com/your-org/storefront-client/internal/storage"
)

// fakeService implements Service in memory, mimicking the server's merge
// semantics: an add for a known product sets the line to the sent quantity.
type fakeService struct {
	items     []Item
	addReqs   []AddRequest
	getErr    error
	addErr    error
	updateRes *UpdateResult
	updateErr error
	removeErr error
	clearErr  error
}

func (f *fakeService) GetCart(ctx context.Context) ([]Item, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return append([]Item(nil), f.items...), nil
}

func (f *fakeService) AddCartItem(ctx context.Context, req AddRequest) ([]Item, error) {
	f.addReqs = append(f.addReqs, req)
	if f.addErr != nil {
		return nil, f.addErr
	}

	for i := range f.items {
		if f.items[i].ID == req.ProductID {
			f.items[i].Quantity = req.Quantity
			return append([]Item(nil), f.items...), nil
		}
	}
	f.items = append(f.items, Item{
		ID:         req.ProductID,
		CartItemID: "line-" + req.ProductID,
		Name:       "Product " + req.ProductID,
		Price:      10,
		Quantity:   req.Quantity,
	})
	return append([]Item(nil), f.items...), nil
}

func (f *fakeService) UpdateCartItem(ctx context.Context, cartItemID string, quantity int) (*UpdateResult, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateRes != nil {
		return f.updateRes, nil
	}
	return &UpdateResult{Ack: &UpdateAck{ID: cartItemID, Quantity: quantity}}, nil
}

func (f *fakeService) RemoveCartItem(ctx context.Context, cartItemID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	kept := f.items[:0]
	for _, it := range f.items {
		if it.CartItemID != cartItemID {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeService) ClearCart(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.items = nil
	return nil
}

func newTestStore(svc Service) (*Store, storage.Store, *events.Bus) {
	cache := storage.NewMemoryStore()
	bus := events.NewBus()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewStore(svc, cache, bus, logger), cache, bus
}

func TestFetchReplacesItemsAndMirrorsCache(t *testing.T) {
	svc := &fakeService{items: []Item{item("p1", "c1", 2)}}
	store, cache, _ := newTestStore(svc)
	ctx := context.Background()

	require.NoError(t, store.Fetch(ctx))

	state := store.State()
	assert.True(t, state.Initialized)
	assert.Len(t, state.Items, 1)

	raw, err := cache.Get(ctx, KeyCart)
	require.NoError(t, err)
	var cached Cached
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, state.Items, cached.Items)
}

func TestFetchFailureFallsBackToCache(t *testing.T) {
	svc := &fakeService{items: []Item{item("p1", "c1", 2)}}
	store, cache, _ := newTestStore(svc)
	ctx := context.Background()

	// Populate the mirror, then fail the next fetch
	require.NoError(t, store.Fetch(ctx))
	svc.getErr = errors.New("connection refused")

	err := store.Fetch(ctx)
	require.Error(t, err)

	state := store.State()
	assert.True(t, state.Initialized)
	assert.Equal(t, "connection refused", state.Err)
	assert.Len(t, state.Items, 1, "cached items should survive a failed re-fetch")

	// The mirror itself is untouched by a rejected fetch
	_, err = cache.Get(ctx, KeyCart)
	assert.NoError(t, err)
}

func TestFetchFailureWithEmptyCacheYieldsEmptyCart(t *testing.T) {
	svc := &fakeService{getErr: errors.New("boom")}
	store, _, _ := newTestStore(svc)

	require.Error(t, store.Fetch(context.Background()))

	state := store.State()
	assert.True(t, state.Initialized)
	assert.NotNil(t, state.Items)
	assert.Empty(t, state.Items)
}

func TestFetchFailureIgnoresCorruptCache(t *testing.T) {
	svc := &fakeService{getErr: errors.New("boom")}
	store, cache, _ := newTestStore(svc)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, KeyCart, "{not json"))
	require.Error(t, store.Fetch(ctx))

	assert.Empty(t, store.State().Items)
}

func TestAddItemMergesQuantityForExistingLine(t *testing.T) {
	svc := &fakeService{}
	store, _, _ := newTestStore(svc)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, Item{ID: "p1", Quantity: 2}))
	require.NoError(t, store.AddItem(ctx, Item{ID: "p1", Quantity: 3}))

	// The second request carries the merged total, not the increment
	require.Len(t, svc.addReqs, 2)
	assert.Equal(t, 2, svc.addReqs[0].Quantity)
	assert.Equal(t, 5, svc.addReqs[1].Quantity)

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
}

func TestAddItemDistinctProductsKeepSeparateLines(t *testing.T) {
	svc := &fakeService{}
	store, _, _ := newTestStore(svc)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, Item{ID: "p1", Quantity: 1}))
	require.NoError(t, store.AddItem(ctx, Item{ID: "p2", Quantity: 4}))

	state := store.State()
	assert.Len(t, state.Items, 2)
}

func TestAddItemFailureRecordsError(t *testing.T) {
	svc := &fakeService{addErr: errors.New("out of stock")}
	store, _, _ := newTestStore(svc)

	err := store.AddItem(context.Background(), Item{ID: "p1", Quantity: 1})
	require.Error(t, err)

	state := store.State()
	assert.Equal(t, "out of stock", state.Err)
	assert.False(t, state.Loading)
}

func TestUpdateQuantityAppliesAck(t *testing.T) {
	svc := &fakeService{}
	store, _, _ := newTestStore(svc)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, Item{ID: "p1", Quantity: 2}))
	require.NoError(t, store.UpdateQuantity(ctx, "line-p1", 6))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 6, state.Items[0].Quantity)
}

func TestRemoveItemIsLocallyIdempotent(t *testing.T) {
	svc := &fakeService{}
	store, _, _ := newTestStore(svc)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, Item{ID: "p1", Quantity: 2}))
	require.NoError(t, store.RemoveItem(ctx, "line-p1"))
	require.NoError(t, store.RemoveItem(ctx, "line-p1"))

	assert.Empty(t, store.State().Items)
}

func TestClearEmptiesCartAndCacheMirror(t *testing.T) {
	svc := &fakeService{}
	store, cache, _ := newTestStore(svc)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, Item{ID: "p1", Quantity: 2}))
	require.NoError(t, store.Clear(ctx))

	assert.Empty(t, store.State().Items)

	raw, err := cache.Get(ctx, KeyCart)
	require.NoError(t, err)
	var cached Cached
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Empty(t, cached.Items)
}

func TestSessionEndedResetsStoreAndPurgesCache(t *testing.T) {
	svc := &fakeService{}
	store, cache, bus := newTestStore(svc)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, Item{ID: "p1", Quantity: 2}))
	require.NoError(t, store.Fetch(ctx))

	bus.Publish(events.SessionEnded)

	state := store.State()
	assert.Empty(t, state.Items)
	assert.False(t, state.Initialized)
	assert.Empty(t, state.Err)

	exists, err := cache.Exists(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, exists, "cache mirror must be purged on session end")
}

func TestSetLocalItemsRefreshesCache(t *testing.T) {
	svc := &fakeService{}
	store, cache, _ := newTestStore(svc)
	ctx := context.Background()

	store.SetLocalItems(ctx, []Item{item("p9", "c9", 1)})

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "p9", state.Items[0].ID)

	raw, err := cache.Get(ctx, KeyCart)
	require.NoError(t, err)
	var cached Cached
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, state.Items, cached.Items)
}

func TestClearErrorOnlyClearsError(t *testing.T) {
	svc := &fakeService{addErr: errors.New("nope")}
	store, _, _ := newTestStore(svc)

	_ = store.AddItem(context.Background(), Item{ID: "p1", Quantity: 1})
	require.NotEmpty(t, store.State().Err)

	store.ClearError()
	assert.Empty(t, store.State().Err)
}

func TestStateReturnsCopy(t *testing.T) {
	svc := &fakeService{}
	store, _, _ := newTestStore(svc)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, Item{ID: "p1", Quantity: 2}))

	state := store.State()
	state.Items[0].Quantity = 99

	assert.Equal(t, 2, store.State().Items[0].Quantity)
}
