package middleware

import (
	"strings"

	"go-maquis-pos/internal/ledger"
	"go-maquis-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and sets operator info in context.
// The operator must still exist in the store.
func RequireAuth(engine *ledger.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := engine.FindUser(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_name", user.Name)
		c.Locals("user_role", user.Role)

		return c.Next()
	}
}

// RequireRole restricts a route to operators holding the given role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := c.Locals("user_role").(string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}
		if current != role {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + role + "' role",
			})
		}
		return c.Next()
	}
}
