package handler

import (
	"go-maquis-pos/internal/service"
	"go-maquis-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

type LoginRequest struct {
	PIN string `json:"pin" validate:"required,numeric_pin"`
}

type ValidateTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "PIN must be 4-6 digits"})
	}

	resp, err := h.service.Login(req.PIN)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(resp)
}

func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Token is required"})
	}

	resp, err := h.service.ValidateToken(req.Token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(resp)
}
