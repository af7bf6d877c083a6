// internal/token/store_test.go
package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-client/internal/storage"
)

func TestSetAndGetToken(t *testing.T) {
	st := storage.NewMemoryStore()
	store := NewStore(st)
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, "abc123"))

	tok, ok := store.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc123", tok)
	assert.True(t, store.Valid(ctx))
}

func TestTokenAbsent(t *testing.T) {
	store := NewStore(storage.NewMemoryStore())

	tok, ok := store.Token(context.Background())
	assert.False(t, ok)
	assert.Empty(t, tok)
	assert.False(t, store.Valid(context.Background()))
}

func TestExpiredTokenClearsStorage(t *testing.T) {
	st := storage.NewMemoryStore()
	store := NewStore(st)
	ctx := context.Background()

	now := time.Now()
	store.SetClock(func() time.Time { return now })
	require.NoError(t, store.SetToken(ctx, "abc123"))

	// Advance past the 24h TTL
	store.SetClock(func() time.Time { return now.Add(TTL + time.Minute) })

	tok, ok := store.Token(ctx)
	assert.False(t, ok)
	assert.Empty(t, tok)

	// The expired token must be removed from storage as a side effect
	exists, err := st.Exists(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = st.Exists(ctx, KeyTokenExpiry)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTokenJustBeforeExpiryIsValid(t *testing.T) {
	store := NewStore(storage.NewMemoryStore())
	ctx := context.Background()

	now := time.Now()
	store.SetClock(func() time.Time { return now })
	require.NoError(t, store.SetToken(ctx, "abc123"))

	store.SetClock(func() time.Time { return now.Add(TTL - time.Minute) })

	_, ok := store.Token(ctx)
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	st := storage.NewMemoryStore()
	store := NewStore(st)
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, "abc123"))
	require.NoError(t, store.Clear(ctx))

	_, ok := store.Token(ctx)
	assert.False(t, ok)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemoryStore())
	ctx := context.Background()

	_, ok := store.RefreshToken(ctx)
	assert.False(t, ok)

	require.NoError(t, store.SetRefreshToken(ctx, "refresh-1"))

	tok, ok := store.RefreshToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, "refresh-1", tok)

	require.NoError(t, store.ClearRefreshToken(ctx))
	_, ok = store.RefreshToken(ctx)
	assert.False(t, ok)
}
