// internal/api/users.go
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/your-org/storefront-client/internal/domain/user"
)

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries registration fields
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the outcome of login or registration: the account plus the
// issued token pair.
type AuthResult struct {
	User         user.User
	Token        string
	RefreshToken string
}

// DashboardStats is the admin dashboard payload
type DashboardStats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalProducts int `json:"totalProducts"`
	TotalOrders   int `json:"totalOrders"`
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	env, err := c.request(ctx, http.MethodPost, "/users/login", req)
	if err != nil {
		return nil, err
	}

	result := &AuthResult{
		Token:        env.Token,
		RefreshToken: env.RefreshToken,
	}
	if err := decodeData(env, "/users/login", &result.User); err != nil {
		return nil, err
	}
	return result, nil
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	env, err := c.request(ctx, http.MethodPost, "/users/register", req)
	if err != nil {
		return nil, err
	}

	result := &AuthResult{
		Token:        env.Token,
		RefreshToken: env.RefreshToken,
	}
	if err := decodeData(env, "/users/register", &result.User); err != nil {
		return nil, err
	}
	return result, nil
}

// GetUser retrieves a user profile by identifier
func (c *Client) GetUser(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := c.Do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser updates a user profile
func (c *Client) UpdateUser(ctx context.Context, u *user.User) (*user.User, error) {
	var updated user.User
	if err := c.Do(ctx, http.MethodPut, "/users/"+url.PathEscape(u.ID), u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListUsers retrieves all users (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := c.Do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates a user with an explicit role (admin only)
func (c *Client) CreateUser(ctx context.Context, u user.User, password string) (*user.User, error) {
	payload := struct {
		user.User
		Password string `json:"password"`
	}{User: u, Password: password}

	var created user.User
	if err := c.Do(ctx, http.MethodPost, "/users", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteUser deletes a user (admin only)
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// Dashboard retrieves back-office statistics (admin only)
func (c *Client) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.Do(ctx, http.MethodGet, "/admin/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
