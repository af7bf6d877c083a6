// internal/domain/product/entity.go
package product

import "fmt"

// Product represents a catalog product as served by the storefront API
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	SalePrice   *float64 `json:"salePrice,omitempty"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	InStock     int      `json:"inStock"`
}

// OnSale reports whether the product carries a valid discounted price
func (p *Product) OnSale() bool {
	return p.SalePrice != nil && *p.SalePrice < p.Price
}

// EffectivePrice returns the sale price when on sale, the list price otherwise
func (p *Product) EffectivePrice() float64 {
	if p.OnSale() {
		return *p.SalePrice
	}
	return p.Price
}

// Validate checks the invariants enforced on product creation and update
func (p *Product) Validate(validCategories []string) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}

	if p.Price <= 0 {
		return fmt.Errorf("product price must be positive")
	}

	if p.SalePrice != nil && *p.SalePrice >= p.Price {
		return fmt.Errorf("sale price must be less than price")
	}

	if p.InStock < 0 {
		return fmt.Errorf("stock count cannot be negative")
	}

	if len(validCategories) > 0 {
		for _, c := range validCategories {
			if p.Category == c {
				return nil
			}
		}
		return fmt.Errorf("`%s` is not a valid enum value for path `category`", p.Category)
	}

	return nil
}

// DefaultCategories is the catalog's category enum
var DefaultCategories = []string{"electronics", "clothing", "home", "sports", "beauty"}
