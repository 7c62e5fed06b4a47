package handler

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-maquis-pos/internal/ledger"
	"go-maquis-pos/internal/model"
	"go-maquis-pos/internal/ws"
	"go-maquis-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type LedgerHandler struct {
	engine *ledger.Engine
	wsHub  *ws.Hub
}

func NewLedgerHandler(engine *ledger.Engine, hub *ws.Hub) *LedgerHandler {
	return &LedgerHandler{engine: engine, wsHub: hub}
}

// Helpers to read operator info from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// statusForError maps engine error kinds to HTTP statuses: unknown ids are
// 404, state conflicts 409, bad input 400.
func statusForError(err error) int {
	var (
		notFound     *ledger.NotFoundError
		inactive     *ledger.InactiveProductError
		insufficient *ledger.InsufficientStockError
		cancelled    *ledger.AlreadyCancelledError
		badQty       *ledger.InvalidQuantityError
	)
	switch {
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &inactive), errors.As(err, &insufficient), errors.As(err, &cancelled):
		return fiber.StatusConflict
	case errors.As(err, &badQty), errors.Is(err, ledger.ErrNoItems):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *LedgerHandler) broadcast(payload map[string]interface{}) {
	go func() {
		msg, _ := json.Marshal(payload)
		h.wsHub.Broadcast <- msg
	}()
}

type AdjustStockRequest struct {
	Quantity int    `json:"quantity" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

type CreateSaleRequest struct {
	Items []model.SaleItem `json:"items" validate:"required,min=1,dive"`
}

func (h *LedgerHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.engine.Products()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *LedgerHandler) GetActiveProducts(c *fiber.Ctx) error {
	products, err := h.engine.ActiveProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *LedgerHandler) AdjustStock(c *fiber.Ctx) error {
	productID := c.Params("id")

	var req AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag),
		})
	}

	userID := getUserID(c)
	userName := getUserName(c)

	product, err := h.engine.AdjustStock(productID, req.Quantity, req.Reason, userID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	h.broadcast(map[string]interface{}{
		"type":   "stock_update",
		"action": "stock_adjusted",
		"product": map[string]interface{}{
			"id":        product.ID,
			"name":      product.Name,
			"new_stock": product.Stock,
		},
		"message": fmt.Sprintf("%s added %d units of '%s'", userName, req.Quantity, product.Name),
	})

	return c.Status(201).JSON(fiber.Map{"message": "Stock adjusted", "data": product})
}

func (h *LedgerHandler) ToggleProductActive(c *fiber.Ctx) error {
	productID := c.Params("id")

	product, err := h.engine.ToggleProductActive(productID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *LedgerHandler) CreateSale(c *fiber.Ctx) error {
	var req CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag),
		})
	}

	seller, err := h.engine.FindUser(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Seller not found"})
	}

	sale, err := h.engine.CreateSale(req.Items, *seller)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	h.broadcast(map[string]interface{}{
		"type":   "stock_update",
		"action": "sale_created",
		"sale": map[string]interface{}{
			"id":     sale.ID,
			"total":  sale.Total,
			"seller": sale.SellerName,
			"items":  len(sale.Items),
		},
		"message": fmt.Sprintf("%s recorded a sale of %d", sale.SellerName, sale.Total),
	})

	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

func (h *LedgerHandler) CancelSale(c *fiber.Ctx) error {
	saleID := c.Params("id")

	manager, err := h.engine.FindUser(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Manager not found"})
	}

	sale, err := h.engine.CancelSale(saleID, *manager)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	h.broadcast(map[string]interface{}{
		"type":   "stock_update",
		"action": "sale_cancelled",
		"sale": map[string]interface{}{
			"id":    sale.ID,
			"total": sale.Total,
		},
		"message": fmt.Sprintf("%s cancelled sale %s", manager.Name, sale.ID),
	})

	return c.JSON(fiber.Map{"message": "Sale cancelled", "data": sale})
}

func (h *LedgerHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.engine.Sales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

func (h *LedgerHandler) GetMovements(c *fiber.Ctx) error {
	movements, err := h.engine.Movements()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}
