// internal/mockapi/store.go
package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/your-org/storefront-client/internal/domain/cart"
	"github.com/your-org/storefront-client/internal/domain/product"
	"github.com/your-org/storefront-client/internal/domain/user"
	"github.com/your-org/storefront-client/internal/pkg/auth"
)

// userRecord pairs an account with its password hash
type userRecord struct {
	user.User
	PasswordHash string
}

// dataStore is the in-memory dataset behind the fixture API. Carts are
// keyed by user; cart-line identifiers are server-assigned uuids, distinct
// from product identifiers.
type dataStore struct {
	mu           sync.Mutex
	users        map[string]*userRecord
	emails       map[string]string // email -> user id
	products     map[string]*product.Product
	productOrder []string
	carts        map[string][]cart.Item
	orders       int
}

func newDataStore() *dataStore {
	return &dataStore{
		users:    make(map[string]*userRecord),
		emails:   make(map[string]string),
		products: make(map[string]*product.Product),
		carts:    make(map[string][]cart.Item),
	}
}

// Seed populates the development catalog and accounts
func (d *dataStore) Seed() error {
	sale := func(v float64) *float64 { return &v }

	seedProducts := []product.Product{
		{Name: "Wireless Headphones", Price: 89.99, SalePrice: sale(69.99), Category: "electronics", Description: "Over-ear wireless headphones with noise cancelling", Image: "/uploads/headphones.jpg", InStock: 25},
		{Name: "Mechanical Keyboard", Price: 129.99, Category: "electronics", Description: "Hot-swappable mechanical keyboard", Image: "/uploads/keyboard.jpg", InStock: 12},
		{Name: "Cotton T-Shirt", Price: 19.99, Category: "clothing", Description: "Plain cotton t-shirt", Image: "/uploads/tshirt.jpg", InStock: 100},
		{Name: "Ceramic Mug", Price: 12.50, SalePrice: sale(9.99), Category: "home", Description: "350ml ceramic mug", Image: "/uploads/mug.jpg", InStock: 40},
		{Name: "Yoga Mat", Price: 35.00, Category: "sports", Description: "Non-slip yoga mat", Image: "/uploads/mat.jpg", InStock: 18},
		{Name: "Face Serum", Price: 24.99, Category: "beauty", Description: "Hydrating face serum", Image: "/uploads/serum.jpg", InStock: 30},
	}

	for i := range seedProducts {
		if _, err := d.CreateProduct(&seedProducts[i]); err != nil {
			return err
		}
	}

	accounts := []struct {
		name, email, password string
		role                  user.Role
	}{
		{"Admin", "admin@example.com", "AdminPass123!", user.RoleAdmin},
		{"Demo User", "demo@example.com", "DemoPass123!", user.RoleUser},
	}

	for _, a := range accounts {
		if _, err := d.CreateUser(a.name, a.email, a.password, a.role); err != nil {
			return err
		}
	}

	return nil
}

// CreateUser registers an account with a hashed password
func (d *dataStore) CreateUser(name, email, password string, role user.Role) (user.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return user.User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	email = strings.ToLower(email)
	if _, exists := d.emails[email]; exists {
		return user.User{}, fmt.Errorf("email already registered")
	}

	rec := &userRecord{
		User: user.User{
			ID:    uuid.NewString(),
			Name:  name,
			Email: email,
			Role:  role,
		},
		PasswordHash: hash,
	}

	d.users[rec.ID] = rec
	d.emails[email] = rec.ID
	return rec.User, nil
}

// Authenticate verifies credentials and returns the account
func (d *dataStore) Authenticate(email, password string) (user.User, error) {
	d.mu.Lock()
	id, ok := d.emails[strings.ToLower(email)]
	var rec *userRecord
	if ok {
		rec = d.users[id]
	}
	d.mu.Unlock()

	if rec == nil {
		return user.User{}, fmt.Errorf("invalid email or password")
	}

	if err := auth.VerifyPassword(password, rec.PasswordHash); err != nil {
		return user.User{}, fmt.Errorf("invalid email or password")
	}

	return rec.User, nil
}

// GetUser returns an account by id
func (d *dataStore) GetUser(id string) (user.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.users[id]
	if !ok {
		return user.User{}, false
	}
	return rec.User, true
}

// ListUsers returns all accounts sorted by name
func (d *dataStore) ListUsers() []user.User {
	d.mu.Lock()
	defer d.mu.Unlock()

	users := make([]user.User, 0, len(d.users))
	for _, rec := range d.users {
		users = append(users, rec.User)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users
}

// UpdateUser merges partial fields into an account
func (d *dataStore) UpdateUser(id string, partial user.User) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user not found")
	}

	if partial.Email != "" && partial.Email != rec.Email {
		email := strings.ToLower(partial.Email)
		if _, exists := d.emails[email]; exists {
			return user.User{}, fmt.Errorf("email already registered")
		}
		delete(d.emails, rec.Email)
		d.emails[email] = rec.ID
		partial.Email = email
	}

	rec.Merge(partial)
	return rec.User, nil
}

// DeleteUser removes an account and its cart
func (d *dataStore) DeleteUser(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}

	delete(d.emails, rec.Email)
	delete(d.users, id)
	delete(d.carts, id)
	return nil
}

// CreateProduct validates and stores a product
func (d *dataStore) CreateProduct(p *product.Product) (product.Product, error) {
	if err := p.Validate(product.DefaultCategories); err != nil {
		return product.Product{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	stored := *p
	stored.ID = uuid.NewString()
	d.products[stored.ID] = &stored
	d.productOrder = append(d.productOrder, stored.ID)
	return stored, nil
}

// GetProduct returns a product by id
func (d *dataStore) GetProduct(id string) (product.Product, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.products[id]
	if !ok {
		return product.Product{}, false
	}
	return *p, true
}

// ListProducts returns the catalog in insertion order
func (d *dataStore) ListProducts() []product.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked(func(*product.Product) bool { return true })
}

// SearchProducts returns products whose name or description contains the
// query, case-insensitively.
func (d *dataStore) SearchProducts(query string) []product.Product {
	q := strings.ToLower(query)

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked(func(p *product.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	})
}

// ProductsByCategory returns products in a category
func (d *dataStore) ProductsByCategory(category string) []product.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked(func(p *product.Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// Suggestions returns product names matching a partial query
func (d *dataStore) Suggestions(query string) []string {
	q := strings.ToLower(query)

	d.mu.Lock()
	defer d.mu.Unlock()

	suggestions := []string{}
	for _, id := range d.productOrder {
		p := d.products[id]
		if p != nil && strings.Contains(strings.ToLower(p.Name), q) {
			suggestions = append(suggestions, p.Name)
		}
	}
	return suggestions
}

// UpdateProduct validates and replaces a product's fields
func (d *dataStore) UpdateProduct(id string, updated *product.Product) (product.Product, error) {
	if err := updated.Validate(product.DefaultCategories); err != nil {
		return product.Product{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.products[id]
	if !ok {
		return product.Product{}, fmt.Errorf("product not found")
	}

	stored := *updated
	stored.ID = id
	*p = stored
	return stored, nil
}

// DeleteProduct removes a product from the catalog
func (d *dataStore) DeleteProduct(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.products[id]; !ok {
		return fmt.Errorf("product not found")
	}

	delete(d.products, id)
	for i, pid := range d.productOrder {
		if pid == id {
			d.productOrder = append(d.productOrder[:i], d.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

// GetCart returns the user's cart lines in display order
func (d *dataStore) GetCart(userID string) []cart.Item {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]cart.Item{}, d.carts[userID]...)
}

// AddCartItem adds a line, merging by product id. The sent quantity is the
// authoritative total for an existing line. Returns the full collection.
func (d *dataStore) AddCartItem(userID, productID string, quantity int) ([]cart.Item, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.products[productID]
	if !ok {
		return nil, fmt.Errorf("product not found")
	}

	if p.InStock < quantity {
		return nil, fmt.Errorf("insufficient stock. Available: %d", p.InStock)
	}

	lines := d.carts[userID]
	for i := range lines {
		if lines[i].ID == productID {
			lines[i].Quantity = quantity
			d.carts[userID] = lines
			return append([]cart.Item{}, lines...), nil
		}
	}

	lines = append(lines, cart.Item{
		ID:         productID,
		CartItemID: uuid.NewString(),
		Name:       p.Name,
		Price:      p.EffectivePrice(),
		Image:      p.Image,
		Quantity:   quantity,
	})
	d.carts[userID] = lines
	return append([]cart.Item{}, lines...), nil
}

// UpdateCartItem sets a line's quantity. A quantity below 1 removes the
// line and the full updated collection is returned as nested entries;
// otherwise the response is a partial acknowledgement.
func (d *dataStore) UpdateCartItem(userID, cartItemID string, quantity int) (*cart.UpdateResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	lines := d.carts[userID]
	idx := -1
	for i := range lines {
		if lines[i].CartItemID == cartItemID || lines[i].ID == cartItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("cart item not found")
	}

	if quantity < 1 {
		lines = append(lines[:idx], lines[idx+1:]...)
		d.carts[userID] = lines
		return &cart.UpdateResult{Entries: d.entriesLocked(lines)}, nil
	}

	lines[idx].Quantity = quantity
	d.carts[userID] = lines
	return &cart.UpdateResult{Ack: &cart.UpdateAck{ID: lines[idx].CartItemID, Quantity: quantity}}, nil
}

// RemoveCartItem deletes a line by cart-line identifier. Removing an absent
// line succeeds: deletion is confirmed by identifier, not by prior state.
func (d *dataStore) RemoveCartItem(userID, cartItemID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	lines := d.carts[userID]
	for i := range lines {
		if lines[i].CartItemID == cartItemID {
			d.carts[userID] = append(lines[:i], lines[i+1:]...)
			return
		}
	}
}

// ClearCart empties a user's cart
func (d *dataStore) ClearCart(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.carts, userID)
}

// Stats returns dashboard totals
func (d *dataStore) Stats() (users, products, orders int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.users), len(d.products), d.orders
}

// snapshotLocked copies products matching the filter in insertion order;
// caller holds the lock.
func (d *dataStore) snapshotLocked(match func(*product.Product) bool) []product.Product {
	out := []product.Product{}
	for _, id := range d.productOrder {
		p := d.products[id]
		if p != nil && match(p) {
			out = append(out, *p)
		}
	}
	return out
}

// entriesLocked converts lines to the nested-entry response shape; caller
// holds the lock.
func (d *dataStore) entriesLocked(lines []cart.Item) []cart.Entry {
	entries := make([]cart.Entry, 0, len(lines))
	for _, line := range lines {
		entry := cart.Entry{ID: line.CartItemID, Quantity: line.Quantity}
		if p, ok := d.products[line.ID]; ok {
			copied := *p
			entry.Product = &copied
		}
		entries = append(entries, entry)
	}
	return entries
}
