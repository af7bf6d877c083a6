// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/storage"
	"github.com/your-org/storefront-client/internal/token"
)

// envelope is the response wrapper used by every storefront API endpoint:
// payload under `data`, failures under `error`, auth endpoints additionally
// carry `token` and `refreshToken`.
type envelope struct {
	Data         json.RawMessage `json:"data,omitempty"`
	Error        string          `json:"error,omitempty"`
	Message      string          `json:"message,omitempty"`
	Token        string          `json:"token,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
}

// Client wraps HTTP calls to the storefront API base URL. It injects the
// bearer token, performs at most one token-refresh retry on 401, and
// normalizes transport failures into a uniform error shape.
type Client struct {
	baseURL       string
	http          *http.Client
	tokens        *token.Store
	storage       storage.Store
	logger        *logrus.Logger
	onAuthFailure func()
}

// Option configures a Client
type Option func(*Client)

// WithAuthFailureHandler sets the hook invoked when a refresh attempt fails
// and the session is forcibly cleared. This is the navigation-to-login seam.
func WithAuthFailureHandler(fn func()) Option {
	return func(c *Client) {
		c.onAuthFailure = fn
	}
}

// WithHTTPClient overrides the underlying HTTP client, used by tests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates an API client from configuration
func New(cfg *config.Config, tokens *token.Store, st storage.Store, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		http: &http.Client{
			Timeout: cfg.API.RequestTimeout,
		},
		tokens:  tokens,
		storage: st,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Do performs a JSON request against the API and decodes the `data` field
// of the response envelope into out (when non-nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	env, err := c.request(ctx, method, path, body)
	if err != nil {
		return err
	}

	return decodeData(env, path, out)
}

// request performs the round trip with bearer injection and the single
// 401-refresh-and-retry, returning the decoded envelope.
func (c *Client) request(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Path: path, Message: "invalid request payload", cause: err}
		}
		payload = raw
	}

	env, status, err := c.roundTrip(ctx, method, path, payload, "application/json", true)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		return c.refreshAndRetry(ctx, method, path, payload, "application/json", env)
	}

	if status < 200 || status > 299 {
		return nil, c.serverFailure(path, status, env)
	}

	return env, nil
}

// refreshAndRetry attempts exactly one token refresh and re-issues the
// original request. A second 401 is surfaced as an authentication failure,
// never retried again.
func (c *Client) refreshAndRetry(ctx context.Context, method, path string, payload []byte, contentType string, failed *envelope) (*envelope, error) {
	refresh, ok := c.tokens.RefreshToken(ctx)
	if !ok {
		c.forceLogout(ctx)
		return nil, c.logFailure(newAuthError(path, http.StatusUnauthorized, failed.Error))
	}

	body, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		c.forceLogout(ctx)
		return nil, c.logFailure(newAuthError(path, http.StatusUnauthorized, failed.Error))
	}

	refreshEnv, refreshStatus, err := c.roundTrip(ctx, http.MethodPost, "/users/refresh-token", body, "application/json", false)
	if err != nil || refreshStatus < 200 || refreshStatus > 299 || refreshEnv.Token == "" {
		c.forceLogout(ctx)
		return nil, c.logFailure(newAuthError(path, http.StatusUnauthorized, "Session expired. Please log in again."))
	}

	if err := c.tokens.SetToken(ctx, refreshEnv.Token); err != nil {
		c.logger.WithError(err).Warn("Failed to persist refreshed token")
	}
	if refreshEnv.RefreshToken != "" {
		if err := c.tokens.SetRefreshToken(ctx, refreshEnv.RefreshToken); err != nil {
			c.logger.WithError(err).Warn("Failed to persist rotated refresh token")
		}
	}

	env, status, err := c.roundTrip(ctx, method, path, payload, contentType, true)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		return nil, c.logFailure(newAuthError(path, status, env.Error))
	}

	if status < 200 || status > 299 {
		return nil, c.serverFailure(path, status, env)
	}

	return env, nil
}

// roundTrip issues a single HTTP request and decodes the response envelope.
// Transport-level failures come back as normalized network errors.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, contentType string, withAuth bool) (*envelope, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, &Error{Kind: KindValidation, Path: path, Message: "invalid request", cause: err}
	}

	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if withAuth {
		if tok, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, c.logFailure(newNetworkError(path, err))
	}
	defer resp.Body.Close()

	env := &envelope{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, c.logFailure(newNetworkError(path, err))
	}

	if len(raw) > 0 {
		// Tolerate empty or non-JSON bodies on success statuses
		if err := json.Unmarshal(raw, env); err != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
			return nil, 0, c.logFailure(newServerError(path, resp.StatusCode, strings.TrimSpace(string(raw))))
		}
	}

	return env, resp.StatusCode, nil
}

// serverFailure converts a non-2xx envelope into the propagated error,
// carrying the server message verbatim.
func (c *Client) serverFailure(path string, status int, env *envelope) error {
	return c.logFailure(newServerError(path, status, env.Error))
}

// forceLogout clears all persisted session state and notifies the
// auth-failure hook. Invoked only when a refresh attempt cannot recover.
func (c *Client) forceLogout(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.WithError(err).Warn("Failed to clear token on forced logout")
	}
	if err := c.tokens.ClearRefreshToken(ctx); err != nil {
		c.logger.WithError(err).Warn("Failed to clear refresh token on forced logout")
	}
	if err := c.storage.Delete(ctx, storage.KeyUser); err != nil {
		c.logger.WithError(err).Warn("Failed to clear persisted user on forced logout")
	}

	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
}

// logFailure records every failed call's status, path and message. It never
// fails the call itself.
func (c *Client) logFailure(apiErr *Error) *Error {
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"status":  apiErr.Status,
			"path":    apiErr.Path,
			"kind":    apiErr.Kind,
			"message": apiErr.Message,
		}).Warn("API request failed")
	}
	return apiErr
}

// decodeData unmarshals the envelope's data field into out
func decodeData(env *envelope, path string, out interface{}) error {
	if out == nil || len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{
			Kind:    KindServer,
			Path:    path,
			Message: fmt.Sprintf("unexpected response shape: %v", err),
			cause:   err,
		}
	}
	return nil
}
