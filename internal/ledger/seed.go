package ledger

import (
	"fmt"
	"time"

	"go-maquis-pos/internal/model"
	"go-maquis-pos/internal/store"
)

// Seeded operator ids are fixed so demo credentials stay stable across
// re-deployments against a fresh store.
const (
	SeedManagerID = "11111111-1111-1111-1111-111111111111"
	SeedSellerID  = "22222222-2222-2222-2222-222222222222"

	SeedManagerPIN = "0000"
	SeedSellerPIN  = "1234"

	seedBaselineQty = 50
)

func seedCatalog() []model.Product {
	return []model.Product{
		{ID: "d1-coca", Name: "Coca Cola 50cl", Price: 1000, Category: "Soda", Image: "https://images.unsplash.com/photo-1622483767028-3f66f32aef97?auto=format&fit=crop&w=400&q=80", IsActive: true},
		{ID: "d2-fanta", Name: "Fanta Orange", Price: 1000, Category: "Soda", Image: "https://images.unsplash.com/photo-1625772299848-391b6a87d7b3?auto=format&fit=crop&w=400&q=80", IsActive: true},
		{ID: "d3-sprite", Name: "Sprite", Price: 1000, Category: "Soda", Image: "https://images.unsplash.com/photo-1625772299848-391b6a87d7b3?auto=format&fit=crop&w=400&q=80", IsActive: true},
		{ID: "d4-water", Name: "Eau Minerale", Price: 500, Category: "Eau", Image: "https://images.unsplash.com/photo-1560023907-5f339617ea30?auto=format&fit=crop&w=400&q=80", IsActive: true},
		{ID: "d5-beer1", Name: "Beaufort", Price: 1500, Category: "Biere", Image: "https://images.unsplash.com/photo-1608270586620-2485246391d8?auto=format&fit=crop&w=400&q=80", IsActive: true},
		{ID: "d6-beer2", Name: "Flag Speciale", Price: 1500, Category: "Biere", Image: "https://images.unsplash.com/photo-1669280367355-6c70b6b23617?auto=format&fit=crop&w=400&q=80", IsActive: true},
		{ID: "d7-beer3", Name: "Guinness", Price: 2000, Category: "Biere", Image: "https://images.unsplash.com/photo-1610332857021-36f6d8955132?auto=format&fit=crop&w=400&q=80", IsActive: true},
		{ID: "d8-wine", Name: "Vin Rouge", Price: 3000, Category: "Vin", Image: "https://images.unsplash.com/photo-1506377247377-2a5b3b417ebb?auto=format&fit=crop&w=400&q=80", IsActive: true},
		{ID: "d9-beer4", Name: "Heineken", Price: 1800, Category: "Biere", Image: "https://images.unsplash.com/photo-1618641986557-1ecd23095910?auto=format&fit=crop&w=400&q=80", IsActive: true},
		{ID: "d10-malta", Name: "Malta Guinness", Price: 1200, Category: "Soda", Image: "https://images.unsplash.com/photo-1582234057635-71719b48b78f?auto=format&fit=crop&w=400&q=80", IsActive: true},
	}
}

// Seed populates an empty store with the demo operators, the drink catalog
// at a baseline stock of 50, and two historical sales. It runs exactly once,
// gated by the initialized marker, and leaves state satisfying the
// reconciliation invariant. Already-initialized stores are left untouched.
func (e *Engine) Seed() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	done, err := e.store.Has(store.KeyInitialized)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	manager := model.User{ID: SeedManagerID, Name: "Manager Maquis", Role: model.RoleManager, Email: "manager@maquis.com"}
	if err := manager.SetPIN(SeedManagerPIN); err != nil {
		return err
	}
	seller := model.User{ID: SeedSellerID, Name: "Vendeuse Awa", Role: model.RoleSeller, Email: "awa@maquis.com"}
	if err := seller.SetPIN(SeedSellerPIN); err != nil {
		return err
	}
	users := []model.User{manager, seller}

	now := e.now()
	products := seedCatalog()
	var movements []model.StockMovement
	var sales []model.Sale

	// Baseline: one IN movement of 50 per product.
	for i := range products {
		products[i].Stock = seedBaselineQty
		movements = append(movements, model.StockMovement{
			ID:        e.newID(),
			ProductID: products[i].ID,
			Type:      model.MovementIn,
			Quantity:  seedBaselineQty,
			Date:      now,
			Reason:    "Initial stock",
			CreatedBy: manager.ID,
		})
	}

	// Two illustrative historical sales against the fresh baseline.
	replay := func(at time.Time, items []model.SaleItem) {
		saleID := e.newID()
		var total int64
		for i, item := range items {
			p := &products[findProduct(products, item.ProductID)]
			p.Stock -= item.Quantity
			items[i].Name = p.Name
			items[i].Image = p.Image
			total += item.Subtotal()
			movements = append(movements, model.StockMovement{
				ID:        e.newID(),
				ProductID: p.ID,
				Type:      model.MovementOut,
				Quantity:  item.Quantity,
				Date:      at,
				Reason:    fmt.Sprintf("Sale %s", shortRef(saleID)),
				CreatedBy: seller.ID,
			})
		}
		sales = append([]model.Sale{{
			ID:         saleID,
			Date:       at,
			Total:      total,
			SellerID:   seller.ID,
			SellerName: seller.Name,
			Items:      items,
			Status:     model.SaleCompleted,
		}}, sales...)
	}

	replay(now.Add(-24*time.Hour), []model.SaleItem{
		{ProductID: "d1-coca", Quantity: 2, UnitPrice: 1000},
		{ProductID: "d5-beer1", Quantity: 1, UnitPrice: 1500},
	})
	replay(now.Add(-time.Hour), []model.SaleItem{
		{ProductID: "d4-water", Quantity: 3, UnitPrice: 500},
		{ProductID: "d6-beer2", Quantity: 2, UnitPrice: 1500},
	})

	return e.store.SaveAll(
		store.Write{Key: store.KeyUsers, Value: users},
		store.Write{Key: store.KeyProducts, Value: products},
		store.Write{Key: store.KeyMovements, Value: movements},
		store.Write{Key: store.KeySales, Value: sales},
		store.Write{Key: store.KeyInitialized, Value: true},
	)
}
