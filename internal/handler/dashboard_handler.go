package handler

import (
	"time"

	"go-maquis-pos/internal/ledger"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	engine *ledger.Engine
}

func NewDashboardHandler(engine *ledger.Engine) *DashboardHandler {
	return &DashboardHandler{engine: engine}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.engine.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	rangeParam := c.Query("range", "7d")
	now := time.Now()
	var startDate time.Time

	switch rangeParam {
	case "7d":
		startDate = now.AddDate(0, 0, -7)
	case "1m":
		startDate = now.AddDate(0, -1, 0)
	case "3m":
		startDate = now.AddDate(0, -3, 0)
	case "12m":
		startDate = now.AddDate(0, -12, 0)
	default:
		startDate = now.AddDate(0, 0, -7)
	}

	totals, err := h.engine.GetMovementTotals(startDate, now)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(totals)
}
