package ledger

import (
	"errors"
	"fmt"
)

// ErrNoItems rejects a sale with an empty item list.
var ErrNoItems = errors.New("sale requires at least one item")

// NotFoundError reports a reference to an entity id that does not exist.
type NotFoundError struct {
	Entity string // "product", "sale", "user"
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// InactiveProductError reports a sale attempted against a deactivated product.
type InactiveProductError struct {
	ProductID string
	Name      string
}

func (e *InactiveProductError) Error() string {
	return fmt.Sprintf("product inactive: %s (%s)", e.Name, e.ProductID)
}

// InsufficientStockError reports a requested quantity above available stock.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): requested %d, available %d",
		e.Name, e.ProductID, e.Requested, e.Available)
}

// AlreadyCancelledError reports a second cancellation of the same sale.
type AlreadyCancelledError struct {
	SaleID string
}

func (e *AlreadyCancelledError) Error() string {
	return fmt.Sprintf("sale already cancelled: %s", e.SaleID)
}

// InvalidQuantityError reports a non-positive quantity.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be positive, got %d", e.Quantity)
}
