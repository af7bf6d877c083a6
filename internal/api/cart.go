// internal/api/cart.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/your-org/storefront-client/internal/domain/cart"
)

// GetCart retrieves the authenticated user's cart
func (c *Client) GetCart(ctx context.Context) ([]cart.Item, error) {
	var items []cart.Item
	if err := c.Do(ctx, http.MethodGet, "/cart", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddCartItem adds a line to the cart; the server responds with the full
// updated item collection.
func (c *Client) AddCartItem(ctx context.Context, req cart.AddRequest) ([]cart.Item, error) {
	var items []cart.Item
	if err := c.Do(ctx, http.MethodPost, "/cart/items", req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateCartItem changes a line's quantity. The quantity is sent as given;
// callers translate quantities below 1 into a removal before dispatch.
func (c *Client) UpdateCartItem(ctx context.Context, cartItemID string, quantity int) (*cart.UpdateResult, error) {
	path := "/cart/items/" + url.PathEscape(cartItemID)
	payload := map[string]int{"quantity": quantity}

	env, err := c.request(ctx, http.MethodPut, path, payload)
	if err != nil {
		return nil, err
	}

	result := &cart.UpdateResult{}
	if len(env.Data) == 0 {
		// No body: treat as an acknowledgement of the requested change
		result.Ack = &cart.UpdateAck{ID: cartItemID, Quantity: quantity}
		return result, nil
	}

	if bytes.HasPrefix(bytes.TrimSpace(env.Data), []byte("[")) {
		if err := json.Unmarshal(env.Data, &result.Entries); err != nil {
			return nil, &Error{Kind: KindServer, Path: path, Message: "unexpected cart response shape", cause: err}
		}
		return result, nil
	}

	ack := &cart.UpdateAck{}
	if err := json.Unmarshal(env.Data, ack); err != nil {
		return nil, &Error{Kind: KindServer, Path: path, Message: "unexpected cart response shape", cause: err}
	}
	result.Ack = ack
	return result, nil
}

// RemoveCartItem deletes a line by its cart-line identifier. The server
// confirms deletion by identifier; the response body is not consulted.
func (c *Client) RemoveCartItem(ctx context.Context, cartItemID string) error {
	return c.Do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(cartItemID), nil, nil)
}

// ClearCart removes every line from the cart
func (c *Client) ClearCart(ctx context.Context) error {
	return c.Do(ctx, http.MethodDelete, "/cart", nil, nil)
}
