// internal/api/client_test.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/storage"
	"github.com/your-org/storefront-client/internal/token"
)

func testClient(t *testing.T, baseURL string, opts ...Option) (*Client, *token.Store, storage.Store) {
	t.Helper()

	st := storage.NewMemoryStore()
	tokens := token.NewStore(st)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		API: config.APIConfig{
			BaseURL:        baseURL,
			RequestTimeout: 2 * time.Second,
		},
	}

	return New(cfg, tokens, st, logger, opts...), tokens, st
}

func TestDoInjectsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer server.Close()

	client, tokens, _ := testClient(t, server.URL)
	require.NoError(t, tokens.SetToken(context.Background(), "access-1"))

	var out map[string]bool
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/products", nil, &out))
	assert.Equal(t, "Bearer access-1", gotAuth)
	assert.True(t, out["ok"])
}

func TestDoOmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client, _, _ := testClient(t, server.URL)

	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/products", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestDoRefreshesOnceOn401(t *testing.T) {
	var refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Token expired"}`))
			return
		}
		w.Write([]byte(`{"data":[{"id":"p1","quantity":2}]}`))
	})
	mux.HandleFunc("/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refreshToken"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"fresh","refreshToken":"refresh-2"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, tokens, _ := testClient(t, server.URL)
	ctx := context.Background()
	require.NoError(t, tokens.SetToken(ctx, "stale"))
	require.NoError(t, tokens.SetRefreshToken(ctx, "refresh-1"))

	var out []map[string]interface{}
	require.NoError(t, client.Do(ctx, http.MethodGet, "/cart", nil, &out))
	assert.Equal(t, 1, refreshCalls)
	assert.Len(t, out, 1)

	// The rotated pair is persisted
	tok, ok := tokens.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, "fresh", tok)
	refresh, ok := tokens.RefreshToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, "refresh-2", refresh)
}

func TestDoSecond401IsNotRetried(t *testing.T) {
	var cartCalls, refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		cartCalls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"not authorized"}`))
	})
	mux.HandleFunc("/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		w.Write([]byte(`{"token":"fresh"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, tokens, _ := testClient(t, server.URL)
	ctx := context.Background()
	require.NoError(t, tokens.SetToken(ctx, "stale"))
	require.NoError(t, tokens.SetRefreshToken(ctx, "refresh-1"))

	err := client.Do(ctx, http.MethodGet, "/cart", nil, nil)
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Equal(t, 2, cartCalls, "original request plus exactly one retry")
	assert.Equal(t, 1, refreshCalls)
}

func TestDoRefreshFailureForcesLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Token expired"}`))
	})
	mux.HandleFunc("/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid refresh token"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	var hookCalled bool
	client, tokens, st := testClient(t, server.URL, WithAuthFailureHandler(func() { hookCalled = true }))
	ctx := context.Background()
	require.NoError(t, tokens.SetToken(ctx, "stale"))
	require.NoError(t, tokens.SetRefreshToken(ctx, "refresh-1"))
	require.NoError(t, st.Set(ctx, storage.KeyUser, `{"id":"u1"}`))

	err := client.Do(ctx, http.MethodGet, "/cart", nil, nil)
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.True(t, hookCalled)

	_, ok := tokens.Token(ctx)
	assert.False(t, ok)
	_, ok = tokens.RefreshToken(ctx)
	assert.False(t, ok)
	exists, err := st.Exists(ctx, storage.KeyUser)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDoMissingRefreshTokenForcesLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Token expired"}`))
	}))
	defer server.Close()

	var hookCalled bool
	client, tokens, _ := testClient(t, server.URL, WithAuthFailureHandler(func() { hookCalled = true }))
	ctx := context.Background()
	require.NoError(t, tokens.SetToken(ctx, "stale"))

	err := client.Do(ctx, http.MethodGet, "/cart", nil, nil)
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.True(t, hookCalled)
}

func TestDoNormalizesTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client, _, _ := testClient(t, server.URL)

	err := client.Do(context.Background(), http.MethodGet, "/products", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, NetworkErrorMessage, MessageFor(err))
}

func TestDoSurfacesServerMessageVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Name is required"}`))
	}))
	defer server.Close()

	client, _, _ := testClient(t, server.URL)

	err := client.Do(context.Background(), http.MethodPost, "/products", map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, IsServer(err))
	assert.Equal(t, "Name is required", MessageFor(err))
}

func TestDoTimeoutIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	st := storage.NewMemoryStore()
	tokens := token.NewStore(st)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{API: config.APIConfig{BaseURL: server.URL, RequestTimeout: 50 * time.Millisecond}}
	client := New(cfg, tokens, st, logger)

	err := client.Do(context.Background(), http.MethodGet, "/products", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestDoToleratesNonJSONSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	client, _, _ := testClient(t, server.URL)
	assert.NoError(t, client.Do(context.Background(), http.MethodGet, "/health", nil, nil))
}

func TestDoNonJSONErrorBodyBecomesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer server.Close()

	client, _, _ := testClient(t, server.URL)

	err := client.Do(context.Background(), http.MethodGet, "/products", nil, nil)
	require.Error(t, err)
	assert.True(t, IsServer(err))
	assert.True(t, strings.Contains(MessageFor(err), "Bad Gateway"))
}
