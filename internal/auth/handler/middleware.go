package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/square-net/server/pkg/constant"
)

// RequireAuth verifies the bearer access token and stores its claims in the
// request locals. Validation is purely cryptographic; no storage round-trip.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	authorization := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authorization, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	claims, err := h.tokenService.VerifyAccessToken(strings.TrimPrefix(authorization, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	c.Locals(constant.LocalsUserID, claims.UserID)
	c.Locals(constant.LocalsSessionID, claims.SessionID)

	return c.Next()
}
