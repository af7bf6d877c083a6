// internal/domain/cart/entity.go
package cart

import (
	"github.com/your-org/storefront-client/internal/domain/product"
)

// Item is the flat cart line shape held by the client. ID is the product
// identifier; CartItemID is the server-assigned cart-line identifier and is
// the key for removal.
type Item struct {
	ID         string  `json:"id"`
	CartItemID string  `json:"cartItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
	Quantity   int     `json:"quantity"`
}

// Entry is the nested shape some server responses use: a cart line carrying
// its full product record instead of a flattened snapshot.
type Entry struct {
	ID       string           `json:"id"`
	Quantity int              `json:"quantity"`
	Product  *product.Product `json:"product,omitempty"`
}

// Flatten converts a nested entry into the flat client shape. Returns false
// when the entry carries no product data and cannot be represented.
func (e *Entry) Flatten() (Item, bool) {
	if e.Product == nil {
		return Item{}, false
	}

	return Item{
		ID:         e.Product.ID,
		CartItemID: e.ID,
		Name:       e.Product.Name,
		Price:      e.Product.Price,
		Image:      e.Product.Image,
		Quantity:   e.Quantity,
	}, true
}

// FlattenEntries converts a collection of nested entries, dropping entries
// without product data.
func FlattenEntries(entries []Entry) []Item {
	items := make([]Item, 0, len(entries))
	for i := range entries {
		if item, ok := entries[i].Flatten(); ok {
			items = append(items, item)
		}
	}
	return items
}

// Cached is the cart mirror persisted to local storage under the "cart" key
type Cached struct {
	Items []Item `json:"items"`
}

// AddRequest is the payload for adding a line to the cart. Quantity is the
// merged total when the client already holds a line for the product.
type AddRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateAck is the partial acknowledgement form of a quantity update: the
// server confirms only the identifier and the new quantity.
type UpdateAck struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// UpdateResult is the dual-shape response of a quantity update. Exactly one
// of Entries (full nested collection) or Ack (partial acknowledgement) is set.
type UpdateResult struct {
	Entries []Entry
	Ack     *UpdateAck
}
