package ledger

import (
	"sort"

	"go-maquis-pos/internal/model"
)

// Products returns the full catalog in persisted order.
func (e *Engine) Products() ([]model.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadProducts()
}

// ActiveProducts returns the catalog filtered to sellable products. The
// sales floor lists only these; inactive products cannot be purchased.
func (e *Engine) ActiveProducts() ([]model.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	products, err := e.loadProducts()
	if err != nil {
		return nil, err
	}
	active := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

// Sales returns the sale history, most recent first.
func (e *Engine) Sales() ([]model.Sale, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sales, err := e.loadSales()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].Date.After(sales[j].Date)
	})
	return sales, nil
}

// Movements returns the audit trail, most recent first.
func (e *Engine) Movements() ([]model.StockMovement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	movements, err := e.loadMovements()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Date.After(movements[j].Date)
	})
	return movements, nil
}

// Users returns the seeded operators, PIN hashes included; callers facing
// the API convert with model.User.ToResponse.
func (e *Engine) Users() ([]model.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadUsers()
}

// FindUser returns the user with the given id.
func (e *Engine) FindUser(id string) (*model.User, error) {
	users, err := e.Users()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, &NotFoundError{Entity: "user", ID: id}
}
