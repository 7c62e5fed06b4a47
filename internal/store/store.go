// Package store provides durable key-value persistence of whole record
// collections. Implementations impose no business rules; whatever the
// ledger engine writes is what a later load returns.
package store

// Collection keys used by the ledger engine.
const (
	KeyProducts    = "products"
	KeySales       = "sales"
	KeyMovements   = "movements"
	KeyUsers       = "users"
	KeyInitialized = "initialized"
)

// Write pairs a collection key with its full replacement value.
type Write struct {
	Key   string
	Value any
}

// Store is the record store contract consumed by the ledger engine.
// Save is a full-collection overwrite, not a patch. Load leaves out at
// its zero value when the key is absent.
type Store interface {
	Load(key string, out any) error
	Save(key string, value any) error
	// SaveAll commits every write or none of them.
	SaveAll(writes ...Write) error
	Has(key string) (bool, error)
}
