// Package ledger owns every stock mutation of the point of sale: restocks,
// sales, cancellations and catalog activation. Each operation validates
// against a consistent read of the affected collections and commits all of
// its writes in one batch, so a failed operation leaves no trace.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"go-maquis-pos/internal/model"
	"go-maquis-pos/internal/store"

	"github.com/google/uuid"
)

// Engine is the single writer of products, sales and stock movements.
// Public operations are critical sections: no two interleave their
// read and write phases.
type Engine struct {
	store store.Store
	mu    sync.Mutex

	now   func() time.Time
	newID func() string
}

func New(st store.Store) *Engine {
	return &Engine{
		store: st,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

func (e *Engine) loadProducts() ([]model.Product, error) {
	var products []model.Product
	err := e.store.Load(store.KeyProducts, &products)
	return products, err
}

func (e *Engine) loadSales() ([]model.Sale, error) {
	var sales []model.Sale
	err := e.store.Load(store.KeySales, &sales)
	return sales, err
}

func (e *Engine) loadMovements() ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := e.store.Load(store.KeyMovements, &movements)
	return movements, err
}

func (e *Engine) loadUsers() ([]model.User, error) {
	var users []model.User
	err := e.store.Load(store.KeyUsers, &users)
	return users, err
}

func findProduct(products []model.Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// shortRef abbreviates an id for movement reason strings, matching the
// receipt references printed for operators.
func shortRef(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}

// AdjustStock increments a product's stock and appends one IN movement
// carrying the reason and the acting user.
func (e *Engine) AdjustStock(productID string, quantity int, reason, actingUserID string) (*model.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		return nil, &InvalidQuantityError{Quantity: quantity}
	}

	products, err := e.loadProducts()
	if err != nil {
		return nil, err
	}
	idx := findProduct(products, productID)
	if idx < 0 {
		return nil, &NotFoundError{Entity: "product", ID: productID}
	}
	movements, err := e.loadMovements()
	if err != nil {
		return nil, err
	}

	products[idx].Stock += quantity
	movements = append(movements, model.StockMovement{
		ID:        e.newID(),
		ProductID: productID,
		Type:      model.MovementIn,
		Quantity:  quantity,
		Date:      e.now(),
		Reason:    reason,
		CreatedBy: actingUserID,
	})

	err = e.store.SaveAll(
		store.Write{Key: store.KeyProducts, Value: products},
		store.Write{Key: store.KeyMovements, Value: movements},
	)
	if err != nil {
		return nil, err
	}

	updated := products[idx]
	return &updated, nil
}

// CreateSale validates every line item against current product state, then
// decrements stock, appends one OUT movement per item and records the sale
// at the head of the history. The operation is all-or-nothing: a failure on
// any item leaves every product untouched.
func (e *Engine) CreateSale(items []model.SaleItem, seller model.User) (*model.Sale, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{Quantity: item.Quantity}
		}
	}

	products, err := e.loadProducts()
	if err != nil {
		return nil, err
	}

	// Validation phase. Quantities are accumulated per product so that
	// repeated line items cannot pass individually and overdraw together.
	requested := make(map[string]int)
	for _, item := range items {
		idx := findProduct(products, item.ProductID)
		if idx < 0 {
			return nil, &NotFoundError{Entity: "product", ID: item.ProductID}
		}
		p := &products[idx]
		if !p.IsActive {
			return nil, &InactiveProductError{ProductID: p.ID, Name: p.Name}
		}
		requested[p.ID] += item.Quantity
		if requested[p.ID] > p.Stock {
			return nil, &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: requested[p.ID],
			}
		}
	}

	movements, err := e.loadMovements()
	if err != nil {
		return nil, err
	}
	sales, err := e.loadSales()
	if err != nil {
		return nil, err
	}

	now := e.now()
	saleID := e.newID()

	// Execution phase: all items are known to be satisfiable.
	var total int64
	saleItems := make([]model.SaleItem, len(items))
	for i, item := range items {
		p := &products[findProduct(products, item.ProductID)]
		p.Stock -= item.Quantity

		// Display snapshots come from the live product; the price
		// snapshot stays whatever the caller quoted.
		if item.Name == "" {
			item.Name = p.Name
		}
		if item.Image == "" {
			item.Image = p.Image
		}
		saleItems[i] = item
		total += item.Subtotal()

		movements = append(movements, model.StockMovement{
			ID:        e.newID(),
			ProductID: p.ID,
			Type:      model.MovementOut,
			Quantity:  item.Quantity,
			Date:      now,
			Reason:    fmt.Sprintf("Sale %s", shortRef(saleID)),
			CreatedBy: seller.ID,
		})
	}

	sale := model.Sale{
		ID:         saleID,
		Date:       now,
		Total:      total,
		SellerID:   seller.ID,
		SellerName: seller.Name,
		Items:      saleItems,
		Status:     model.SaleCompleted,
	}
	sales = append([]model.Sale{sale}, sales...)

	err = e.store.SaveAll(
		store.Write{Key: store.KeyProducts, Value: products},
		store.Write{Key: store.KeyMovements, Value: movements},
		store.Write{Key: store.KeySales, Value: sales},
	)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// CancelSale transitions a sale to CANCELLED exactly once, restores the
// quantities it had decremented and appends one IN movement per item
// referencing the cancelled sale. A line item whose product is missing from
// the catalog is skipped rather than failing the whole cancellation.
func (e *Engine) CancelSale(saleID string, manager model.User) (*model.Sale, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sales, err := e.loadSales()
	if err != nil {
		return nil, err
	}
	saleIdx := -1
	for i := range sales {
		if sales[i].ID == saleID {
			saleIdx = i
			break
		}
	}
	if saleIdx < 0 {
		return nil, &NotFoundError{Entity: "sale", ID: saleID}
	}
	if sales[saleIdx].Status == model.SaleCancelled {
		return nil, &AlreadyCancelledError{SaleID: saleID}
	}

	products, err := e.loadProducts()
	if err != nil {
		return nil, err
	}
	movements, err := e.loadMovements()
	if err != nil {
		return nil, err
	}

	sales[saleIdx].Status = model.SaleCancelled
	now := e.now()
	for _, item := range sales[saleIdx].Items {
		idx := findProduct(products, item.ProductID)
		if idx < 0 {
			continue
		}
		products[idx].Stock += item.Quantity
		movements = append(movements, model.StockMovement{
			ID:        e.newID(),
			ProductID: item.ProductID,
			Type:      model.MovementIn,
			Quantity:  item.Quantity,
			Date:      now,
			Reason:    fmt.Sprintf("Cancellation %s", shortRef(saleID)),
			CreatedBy: manager.ID,
		})
	}

	err = e.store.SaveAll(
		store.Write{Key: store.KeySales, Value: sales},
		store.Write{Key: store.KeyProducts, Value: products},
		store.Write{Key: store.KeyMovements, Value: movements},
	)
	if err != nil {
		return nil, err
	}

	cancelled := sales[saleIdx]
	return &cancelled, nil
}

// ToggleProductActive flips a product's active flag. No stock or movement
// side effects.
func (e *Engine) ToggleProductActive(productID string) (*model.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	products, err := e.loadProducts()
	if err != nil {
		return nil, err
	}
	idx := findProduct(products, productID)
	if idx < 0 {
		return nil, &NotFoundError{Entity: "product", ID: productID}
	}

	products[idx].IsActive = !products[idx].IsActive
	if err := e.store.Save(store.KeyProducts, products); err != nil {
		return nil, err
	}

	updated := products[idx]
	return &updated, nil
}
