package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"support-bot/models"
	"support-bot/services"
)

func RequireAuth(c *fiber.Ctx) error {
	sessionID := c.Cookies(services.SessionCookieName)
	if sessionID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	session, err := services.GetSessionByID(c.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	if session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired session",
		})
	}

	// Set operator information in locals for downstream handlers
	c.Locals("operator_id", session.OperatorID)
	c.Locals("username", session.Username)
	c.Locals("role", session.Role)

	// Extend session expiration on activity
	services.ExtendSession(c.Context(), sessionID)

	return c.Next()
}

func RequireRole(roles ...models.OperatorRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := RequireAuth(c); err != nil {
			return err
		}

		roleStr, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied",
			})
		}

		currentRole := models.OperatorRole(roleStr)
		for _, allowed := range roles {
			if currentRole == allowed {
				return c.Next()
			}
		}

		slog.Info("Access denied", "operator_role", currentRole, "required_roles", roles)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}
}
