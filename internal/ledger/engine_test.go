package ledger_test

import (
	"testing"

	"go-maquis-pos/internal/ledger"
	"go-maquis-pos/internal/model"
	"go-maquis-pos/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSeller  = model.User{ID: "u-seller", Name: "Awa", Role: model.RoleSeller}
	testManager = model.User{ID: "u-manager", Name: "Patron", Role: model.RoleManager}
)

// newTestEngine builds an engine over an in-memory store with a small
// catalog. Fixture stock counts are the products' baselines: the
// reconciliation check adds movement sums on top of them. The store is
// returned so tests can simulate out-of-band catalog edits.
func newTestEngine(t *testing.T, products ...model.Product) (*ledger.Engine, *store.Memory, map[string]int) {
	t.Helper()

	if products == nil {
		products = []model.Product{
			{ID: "p-cola", Name: "Cola", Price: 1000, Stock: 50, IsActive: true},
			{ID: "p-beer", Name: "Beer", Price: 1500, Stock: 20, IsActive: true},
			{ID: "p-water", Name: "Water", Price: 500, Stock: 2, IsActive: true},
		}
	}

	baselines := make(map[string]int, len(products))
	for _, p := range products {
		baselines[p.ID] = p.Stock
	}

	st := store.NewMemory()
	require.NoError(t, st.SaveAll(
		store.Write{Key: store.KeyProducts, Value: products},
		store.Write{Key: store.KeyUsers, Value: []model.User{testManager, testSeller}},
	))
	return ledger.New(st), st, baselines
}

// assertReconciled checks the accounting identity: for every product,
// baseline + sum(IN) - sum(OUT) equals current stock, and stock is never
// negative.
func assertReconciled(t *testing.T, e *ledger.Engine, baselines map[string]int) {
	t.Helper()

	products, err := e.Products()
	require.NoError(t, err)
	movements, err := e.Movements()
	require.NoError(t, err)

	sums := make(map[string]int)
	for _, m := range movements {
		sums[m.ProductID] += m.Signed()
	}
	for _, p := range products {
		assert.GreaterOrEqual(t, p.Stock, 0, "stock went negative for %s", p.ID)
		assert.Equal(t, baselines[p.ID]+sums[p.ID], p.Stock, "ledger out of balance for %s", p.ID)
	}
}

func TestAdjustStock(t *testing.T) {
	e, _, baselines := newTestEngine(t)

	product, err := e.AdjustStock("p-cola", 12, "Restock delivery", testManager.ID)
	require.NoError(t, err)
	assert.Equal(t, 62, product.Stock)

	movements, err := e.Movements()
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementIn, movements[0].Type)
	assert.Equal(t, 12, movements[0].Quantity)
	assert.Equal(t, "Restock delivery", movements[0].Reason)
	assert.Equal(t, testManager.ID, movements[0].CreatedBy)

	assertReconciled(t, e, baselines)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.AdjustStock("p-ghost", 5, "Restock", testManager.ID)

	var notFound *ledger.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Entity)
	assert.Equal(t, "p-ghost", notFound.ID)

	movements, err := e.Movements()
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestAdjustStockRejectsNonPositiveQuantity(t *testing.T) {
	e, _, _ := newTestEngine(t)

	for _, qty := range []int{0, -3} {
		_, err := e.AdjustStock("p-cola", qty, "Restock", testManager.ID)
		var badQty *ledger.InvalidQuantityError
		require.ErrorAs(t, err, &badQty)
		assert.Equal(t, qty, badQty.Quantity)
	}

	products, err := e.Products()
	require.NoError(t, err)
	assert.Equal(t, 50, products[0].Stock)
}

func TestCreateSale(t *testing.T) {
	e, _, baselines := newTestEngine(t)

	sale, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 5, UnitPrice: 1000},
	}, testSeller)
	require.NoError(t, err)

	assert.Equal(t, int64(5000), sale.Total)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, testSeller.ID, sale.SellerID)
	assert.Equal(t, testSeller.Name, sale.SellerName)
	assert.Equal(t, "Cola", sale.Items[0].Name, "display name snapshot comes from the catalog")

	products, err := e.Products()
	require.NoError(t, err)
	assert.Equal(t, 45, products[0].Stock)

	movements, err := e.Movements()
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementOut, movements[0].Type)
	assert.Equal(t, 5, movements[0].Quantity)
	assert.Contains(t, movements[0].Reason, sale.ID[:6])

	sales, err := e.Sales()
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)

	assertReconciled(t, e, baselines)
}

func TestCreateSaleNewestFirst(t *testing.T) {
	e, _, _ := newTestEngine(t)

	first, err := e.CreateSale([]model.SaleItem{{ProductID: "p-cola", Quantity: 1, UnitPrice: 1000}}, testSeller)
	require.NoError(t, err)
	second, err := e.CreateSale([]model.SaleItem{{ProductID: "p-beer", Quantity: 1, UnitPrice: 1500}}, testSeller)
	require.NoError(t, err)

	sales, err := e.Sales()
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, second.ID, sales[0].ID)
	assert.Equal(t, first.ID, sales[1].ID)
}

func TestCreateSaleComputesTotalFromItems(t *testing.T) {
	e, _, _ := newTestEngine(t)

	sale, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 2, UnitPrice: 1000},
		{ProductID: "p-beer", Quantity: 3, UnitPrice: 1500},
	}, testSeller)
	require.NoError(t, err)
	assert.Equal(t, int64(2*1000+3*1500), sale.Total)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-water", Quantity: 3, UnitPrice: 500},
	}, testSeller)

	var insufficient *ledger.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "p-water", insufficient.ProductID)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)

	products, err := e.Products()
	require.NoError(t, err)
	assert.Equal(t, 2, products[2].Stock, "failed sale must not touch stock")

	sales, err := e.Sales()
	require.NoError(t, err)
	assert.Empty(t, sales)
	movements, err := e.Movements()
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestCreateSaleIsAtomic(t *testing.T) {
	e, _, _ := newTestEngine(t)

	// Third item exceeds stock; the first two must stay untouched.
	_, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 5, UnitPrice: 1000},
		{ProductID: "p-beer", Quantity: 2, UnitPrice: 1500},
		{ProductID: "p-water", Quantity: 99, UnitPrice: 500},
	}, testSeller)

	var insufficient *ledger.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	products, err := e.Products()
	require.NoError(t, err)
	assert.Equal(t, 50, products[0].Stock)
	assert.Equal(t, 20, products[1].Stock)
	assert.Equal(t, 2, products[2].Stock)

	sales, err := e.Sales()
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCreateSaleRepeatedLineItemsCannotOverdraw(t *testing.T) {
	e, _, _ := newTestEngine(t)

	// 30 + 30 against a stock of 50: each line alone fits, together they
	// do not.
	_, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 30, UnitPrice: 1000},
		{ProductID: "p-cola", Quantity: 30, UnitPrice: 1000},
	}, testSeller)

	var insufficient *ledger.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 60, insufficient.Requested)

	products, err := e.Products()
	require.NoError(t, err)
	assert.Equal(t, 50, products[0].Stock)
}

func TestCreateSaleInactiveProduct(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.ToggleProductActive("p-beer")
	require.NoError(t, err)

	_, err = e.CreateSale([]model.SaleItem{
		{ProductID: "p-beer", Quantity: 1, UnitPrice: 1500},
	}, testSeller)

	var inactive *ledger.InactiveProductError
	require.ErrorAs(t, err, &inactive)
	assert.Equal(t, "p-beer", inactive.ProductID)
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-ghost", Quantity: 1, UnitPrice: 1000},
	}, testSeller)

	var notFound *ledger.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateSaleRejectsEmptyAndNonPositive(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.CreateSale(nil, testSeller)
	require.ErrorIs(t, err, ledger.ErrNoItems)

	_, err = e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 0, UnitPrice: 1000},
	}, testSeller)
	var badQty *ledger.InvalidQuantityError
	require.ErrorAs(t, err, &badQty)
}

func TestCancelSaleRestoresStock(t *testing.T) {
	e, _, baselines := newTestEngine(t)

	sale, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 5, UnitPrice: 1000},
	}, testSeller)
	require.NoError(t, err)

	cancelled, err := e.CancelSale(sale.ID, testManager)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCancelled, cancelled.Status)

	products, err := e.Products()
	require.NoError(t, err)
	assert.Equal(t, 50, products[0].Stock)

	movements, err := e.Movements()
	require.NoError(t, err)
	require.Len(t, movements, 2) // one OUT from the sale, one IN from the cancel

	var restore *model.StockMovement
	for i := range movements {
		if movements[i].Type == model.MovementIn {
			restore = &movements[i]
		}
	}
	require.NotNil(t, restore)
	assert.Equal(t, 5, restore.Quantity)
	assert.Contains(t, restore.Reason, sale.ID[:6])
	assert.Equal(t, testManager.ID, restore.CreatedBy)

	assertReconciled(t, e, baselines)
}

func TestCancelSaleIsOneShot(t *testing.T) {
	e, _, _ := newTestEngine(t)

	sale, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 5, UnitPrice: 1000},
	}, testSeller)
	require.NoError(t, err)

	_, err = e.CancelSale(sale.ID, testManager)
	require.NoError(t, err)

	_, err = e.CancelSale(sale.ID, testManager)
	var already *ledger.AlreadyCancelledError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, sale.ID, already.SaleID)

	// Stock must not be restored a second time.
	products, err := e.Products()
	require.NoError(t, err)
	assert.Equal(t, 50, products[0].Stock)

	movements, err := e.Movements()
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

func TestCancelSaleUnknown(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.CancelSale("s-ghost", testManager)
	var notFound *ledger.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "sale", notFound.Entity)
}

func TestCancelSaleSkipsMissingProduct(t *testing.T) {
	e, st, _ := newTestEngine(t)

	sale, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 2, UnitPrice: 1000},
		{ProductID: "p-beer", Quantity: 1, UnitPrice: 1500},
	}, testSeller)
	require.NoError(t, err)

	// Drop one product behind the engine's back; the cancellation must
	// still restore what it can.
	products, err := e.Products()
	require.NoError(t, err)
	var kept []model.Product
	for _, p := range products {
		if p.ID != "p-beer" {
			kept = append(kept, p)
		}
	}
	require.NoError(t, st.Save(store.KeyProducts, kept))

	cancelled, err := e.CancelSale(sale.ID, testManager)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCancelled, cancelled.Status)

	products, err = e.Products()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 50, products[0].Stock, "existing product restored")
}

func TestPriceSnapshotImmutability(t *testing.T) {
	e, st, _ := newTestEngine(t)

	sale, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 5, UnitPrice: 1000},
	}, testSeller)
	require.NoError(t, err)

	// Reprice the product after the fact.
	products, err := e.Products()
	require.NoError(t, err)
	products[0].Price = 9999
	require.NoError(t, st.Save(store.KeyProducts, products))

	sales, err := e.Sales()
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, int64(5000), sales[0].Total)
	assert.Equal(t, int64(1000), sales[0].Items[0].UnitPrice)
	assert.Equal(t, sale.Total, sales[0].Total)
}

func TestToggleProductActive(t *testing.T) {
	e, _, _ := newTestEngine(t)

	product, err := e.ToggleProductActive("p-cola")
	require.NoError(t, err)
	assert.False(t, product.IsActive)

	active, err := e.ActiveProducts()
	require.NoError(t, err)
	for _, p := range active {
		assert.NotEqual(t, "p-cola", p.ID)
	}

	// No movement side effects.
	movements, err := e.Movements()
	require.NoError(t, err)
	assert.Empty(t, movements)

	product, err = e.ToggleProductActive("p-cola")
	require.NoError(t, err)
	assert.True(t, product.IsActive)

	_, err = e.ToggleProductActive("p-ghost")
	var notFound *ledger.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestReconciliationAcrossMixedOperations(t *testing.T) {
	e, _, baselines := newTestEngine(t)

	_, err := e.AdjustStock("p-water", 40, "Restock", testManager.ID)
	require.NoError(t, err)

	sale1, err := e.CreateSale([]model.SaleItem{
		{ProductID: "p-cola", Quantity: 10, UnitPrice: 1000},
		{ProductID: "p-water", Quantity: 6, UnitPrice: 500},
	}, testSeller)
	require.NoError(t, err)

	_, err = e.CreateSale([]model.SaleItem{
		{ProductID: "p-beer", Quantity: 20, UnitPrice: 1500},
	}, testSeller)
	require.NoError(t, err)

	_, err = e.CancelSale(sale1.ID, testManager)
	require.NoError(t, err)

	// Beer is now sold out; a further sale must fail cleanly.
	_, err = e.CreateSale([]model.SaleItem{
		{ProductID: "p-beer", Quantity: 1, UnitPrice: 1500},
	}, testSeller)
	var insufficient *ledger.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	assertReconciled(t, e, baselines)
}
