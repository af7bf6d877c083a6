// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/domain/user"
	"github.com/your-org/storefront-client/internal/events"
	"github.com/your-org/storefront-client/internal/storage"
	"github.com/your-org/storefront-client/internal/token"
)

// Store holds the current user and token. It has two states: Anonymous
// (no user, no token) and Authenticated. It is explicitly constructed and
// passed to consumers; there is no package-level instance.
type Store struct {
	mu      sync.Mutex
	storage storage.Store
	tokens  *token.Store
	bus     *events.Bus
	logger  *logrus.Logger

	user  *user.User
	token string
}

// NewStore creates a session store, rehydrating from persisted state. A
// present-but-expired token leaves the store Anonymous, because the token
// store reports it absent (and clears it) in that case.
func NewStore(ctx context.Context, st storage.Store, tokens *token.Store, bus *events.Bus, logger *logrus.Logger) *Store {
	s := &Store{
		storage: st,
		tokens:  tokens,
		bus:     bus,
		logger:  logger,
	}

	tok, ok := tokens.Token(ctx)
	if !ok {
		return s
	}

	raw, err := st.Get(ctx, storage.KeyUser)
	if err != nil {
		return s
	}

	var u user.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		logger.WithError(err).Warn("Corrupt persisted user, starting anonymous")
		return s
	}

	s.user = &u
	s.token = tok
	return s
}

// Login transitions to Authenticated, persisting the token pair and user
func (s *Store) Login(ctx context.Context, u user.User, tok, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tokens.SetToken(ctx, tok); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := s.tokens.SetRefreshToken(ctx, refreshToken); err != nil {
			return err
		}
	}
	if err := s.persistUser(ctx, &u); err != nil {
		return err
	}

	s.user = &u
	s.token = tok
	return nil
}

// Logout transitions to Anonymous from any state, clears persisted
// credentials and publishes SessionEnded. The cart resets by subscribing to
// that event, not by being called from here.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.token = ""

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to clear token on logout")
	}
	if err := s.tokens.ClearRefreshToken(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to clear refresh token on logout")
	}
	if err := s.storage.Delete(ctx, storage.KeyUser); err != nil {
		s.logger.WithError(err).Warn("Failed to clear persisted user on logout")
	}
	s.mu.Unlock()

	s.bus.Publish(events.SessionEnded)
}

// UpdateUser merges partial fields into the current user and re-persists.
// No-op when Anonymous.
func (s *Store) UpdateUser(ctx context.Context, partial user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}

	merged := *s.user
	merged.Merge(partial)

	if err := s.persistUser(ctx, &merged); err != nil {
		return err
	}

	s.user = &merged
	return nil
}

// Current returns the user, token and whether the store is Authenticated
func (s *Store) Current() (user.User, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return user.User{}, "", false
	}
	return *s.user, s.token, true
}

// Authenticated reports whether a session is active
func (s *Store) Authenticated() bool {
	_, _, ok := s.Current()
	return ok
}

// persistUser writes the user JSON; caller holds the lock
func (s *Store) persistUser(ctx context.Context, u *user.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, storage.KeyUser, string(raw))
}
