// internal/api/products.go
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/your-org/storefront-client/internal/domain/product"
)

// ListProducts retrieves the full catalog
func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := c.Do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct retrieves a single product by identifier
func (c *Client) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := c.Do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProducts retrieves products matching a free-text query
func (c *Client) SearchProducts(ctx context.Context, query string) ([]product.Product, error) {
	var products []product.Product
	path := "/products/search?q=" + url.QueryEscape(query)
	if err := c.Do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsByCategory retrieves products belonging to a category
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]product.Product, error) {
	var products []product.Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.Do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchSuggestions retrieves search suggestions for a partial query
func (c *Client) SearchSuggestions(ctx context.Context, query string) ([]string, error) {
	var suggestions []string
	path := "/products/suggestions?q=" + url.QueryEscape(query)
	if err := c.Do(ctx, http.MethodGet, path, nil, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// Categories retrieves the valid product categories from the server
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.Do(ctx, http.MethodGet, "/products/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateProduct creates a product (admin only)
func (c *Client) CreateProduct(ctx context.Context, p *product.Product) (*product.Product, error) {
	var created product.Product
	if err := c.Do(ctx, http.MethodPost, "/products", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct updates a product (admin only)
func (c *Client) UpdateProduct(ctx context.Context, p *product.Product) (*product.Product, error) {
	var updated product.Product
	if err := c.Do(ctx, http.MethodPut, "/products/"+url.PathEscape(p.ID), p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct deletes a product (admin only)
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}
