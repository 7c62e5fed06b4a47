package model

import "time"

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// StockMovement is an append-only audit entry for one inventory change.
// The signed sum of a product's movements must always equal its stock.
type StockMovement struct {
	ID        string       `json:"id" validate:"required"`
	ProductID string       `json:"product_id" validate:"required"`
	Type      MovementType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int          `json:"quantity" validate:"required,gt=0"`
	Date      time.Time    `json:"date"`
	Reason    string       `json:"reason"`
	CreatedBy string       `json:"created_by,omitempty"` // acting user id
}

// Signed returns the quantity with the direction applied
func (m *StockMovement) Signed() int {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}
