package model

// Product is a sellable catalog item. Stock is mutated only by the ledger
// engine; products are deactivated, never deleted.
type Product struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Price    int64  `json:"price" validate:"gte=0"` // smallest currency unit (FCFA)
	Stock    int    `json:"stock" validate:"gte=0"`
	Image    string `json:"image"`
	Category string `json:"category"`
	IsActive bool   `json:"is_active"`
}
