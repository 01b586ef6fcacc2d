package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/square-net/server/internal/auth/dto"
	"github.com/square-net/server/internal/auth/service"
	"github.com/square-net/server/pkg/constant"
)

const genericFailure = "Something went wrong. Please try again later."

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input dto.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	resp, err := h.userService.Signup(c.Context(), input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	resp, refreshToken, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(resp)
	}

	// The refresh token travels only in the cookie, never in the body.
	if refreshToken != "" {
		h.setRefreshCookie(c, refreshToken)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	cookie := c.Cookies(constant.RefreshCookieName)

	resp, newToken := h.userService.Refresh(c.Context(), cookie)
	if !resp.OK {
		h.clearRefreshCookie(c)
		return c.Status(fiber.StatusOK).JSON(resp)
	}

	h.setRefreshCookie(c, newToken)

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sessionID, _ := c.Locals(constant.LocalsSessionID).(string)

	if err := h.userService.Logout(c.Context(), sessionID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	h.clearRefreshCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) RevokeSessions(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(int64)

	if err := h.userService.RevokeAllSessions(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var input dto.VerifyEmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	return c.Status(fiber.StatusOK).JSON(h.userService.VerifyEmail(c.Context(), input.Token))
}

func (h *AuthHandler) RequestRecovery(c *fiber.Ctx) error {
	var input dto.RecoverInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	resp, err := h.userService.RequestPasswordRecovery(c.Context(), input.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	resp, err := h.userService.ResetPassword(c.Context(), input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(int64)

	user, err := h.userService.Me(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *AuthHandler) FindUser(c *fiber.Ctx) error {
	user, err := h.userService.FindUser(c.Context(), c.Params("username"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": len(users) > 0, "users": users})
}

func (h *AuthHandler) ListSessions(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(int64)

	sessions, err := h.userService.ListSessions(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	return c.Status(fiber.StatusOK).JSON(sessions)
}

func (h *AuthHandler) EditProfile(c *fiber.Ctx) error {
	var input dto.EditProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	userID, _ := c.Locals(constant.LocalsUserID).(int64)

	resp, err := h.userService.EditProfile(c.Context(), userID, input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshCookieName,
		Value:    token,
		Path:     constant.RefreshCookiePath,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshCookieName,
		Value:    "",
		Path:     constant.RefreshCookiePath,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	})
}
