package model

import "time"

type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SaleCancelled SaleStatus = "CANCELLED"
)

// SaleItem is one line of a sale. Name, image and unit price are snapshots
// captured at sale time; later catalog changes must not alter them.
type SaleItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
	Name      string `json:"name"`
	Image     string `json:"image"`
}

// Subtotal returns quantity x unit price for the line
func (i *SaleItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Sale is a completed or cancelled transaction. Items are immutable once
// created; only Status transitions, exactly once, COMPLETED -> CANCELLED.
type Sale struct {
	ID         string     `json:"id"`
	Date       time.Time  `json:"date"`
	Total      int64      `json:"total"`
	SellerID   string     `json:"seller_id"`
	SellerName string     `json:"seller_name"` // snapshot, not a live reference
	Items      []SaleItem `json:"items"`
	Status     SaleStatus `json:"status"`
}
