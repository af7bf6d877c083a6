// internal/token/store.go
package token

import (
	"context"
	"strconv"
	"time"

	"github.com/your-org/storefront-client/internal/storage"
)

// Storage keys for the persisted credentials
const (
	KeyToken        = "token"
	KeyTokenExpiry  = "tokenExpiry"
	KeyRefreshToken = "refreshToken"
)

// TTL is the client-enforced lifetime of a stored access token. It is not
// cryptographically verified; the server independently validates expiry.
const TTL = 24 * time.Hour

// Store persists the access token with an expiry timestamp, plus the
// long-lived refresh token used by the 401 recovery path.
type Store struct {
	storage storage.Store
	now     func() time.Time
}

// NewStore creates a token store over the given storage backend
func NewStore(st storage.Store) *Store {
	return &Store{
		storage: st,
		now:     time.Now,
	}
}

// SetToken persists the token and an expiry of now + 24h
func (s *Store) SetToken(ctx context.Context, token string) error {
	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		return err
	}

	expiry := s.now().Add(TTL).UnixMilli()
	return s.storage.Set(ctx, KeyTokenExpiry, strconv.FormatInt(expiry, 10))
}

// Token returns the stored token if present and not expired. An expired
// token is cleared from storage as a side effect.
func (s *Store) Token(ctx context.Context) (string, bool) {
	tok, err := s.storage.Get(ctx, KeyToken)
	if err != nil || tok == "" {
		return "", false
	}

	raw, err := s.storage.Get(ctx, KeyTokenExpiry)
	if err == nil {
		expiry, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr == nil && s.now().UnixMilli() > expiry {
			// Token expired, clean up
			s.Clear(ctx)
			return "", false
		}
	}

	return tok, true
}

// Clear removes the token and its expiry
func (s *Store) Clear(ctx context.Context) error {
	return s.storage.Delete(ctx, KeyToken, KeyTokenExpiry)
}

// Valid reports whether a non-expired token is stored
func (s *Store) Valid(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// SetRefreshToken persists the refresh token
func (s *Store) SetRefreshToken(ctx context.Context, token string) error {
	return s.storage.Set(ctx, KeyRefreshToken, token)
}

// RefreshToken returns the stored refresh token, if any
func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	tok, err := s.storage.Get(ctx, KeyRefreshToken)
	if err != nil || tok == "" {
		return "", false
	}
	return tok, true
}

// ClearRefreshToken removes the refresh token
func (s *Store) ClearRefreshToken(ctx context.Context) error {
	return s.storage.Delete(ctx, KeyRefreshToken)
}

// SetClock overrides the time source, used by tests
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
