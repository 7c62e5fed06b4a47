package handler

import (
	"go-maquis-pos/internal/ledger"
	"go-maquis-pos/internal/model"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	engine *ledger.Engine
}

func NewUserHandler(engine *ledger.Engine) *UserHandler {
	return &UserHandler{engine: engine}
}

// GetUsers lists the seeded operators without their PIN hashes.
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.engine.Users()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return c.JSON(responses)
}
