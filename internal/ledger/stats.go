package ledger

import (
	"sort"
	"time"

	"go-maquis-pos/internal/model"
)

// Products with stock below this count as low on the dashboard.
const lowStockThreshold = 10

// Stats is the manager dashboard overview.
type Stats struct {
	TotalProducts  int   `json:"total_products"`
	LowStockCount  int   `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
	Revenue        int64 `json:"revenue"` // completed sales only
}

// DailyMovementTotals aggregates IN/OUT quantities for one day, for the
// dashboard stock-movement chart.
type DailyMovementTotals struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// GetStats computes the dashboard overview from current state.
func (e *Engine) GetStats() (*Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	products, err := e.loadProducts()
	if err != nil {
		return nil, err
	}
	sales, err := e.loadSales()
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalProducts: len(products)}
	for _, p := range products {
		if p.Stock < lowStockThreshold {
			stats.LowStockCount++
		}
		stats.TotalValuation += int64(p.Stock) * p.Price
	}
	for _, s := range sales {
		if s.Status == model.SaleCompleted {
			stats.Revenue += s.Total
		}
	}
	return stats, nil
}

// GetMovementTotals aggregates movements per day over [from, to].
func (e *Engine) GetMovementTotals(from, to time.Time) ([]DailyMovementTotals, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	movements, err := e.loadMovements()
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailyMovementTotals)
	for _, m := range movements {
		if m.Date.Before(from) || m.Date.After(to) {
			continue
		}
		day := m.Date.Format("2006-01-02")
		totals, ok := byDay[day]
		if !ok {
			totals = &DailyMovementTotals{Date: day}
			byDay[day] = totals
		}
		if m.Type == model.MovementIn {
			totals.Inbound += m.Quantity
		} else {
			totals.Outbound += m.Quantity
		}
	}

	results := make([]DailyMovementTotals, 0, len(byDay))
	for _, totals := range byDay {
		results = append(results, *totals)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date < results[j].Date
	})
	return results, nil
}
