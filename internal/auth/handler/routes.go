package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	api := app.Group("/api")

	api.Post("/signup", h.Signup)
	api.Post("/login", h.Login)
	api.Post("/refresh", h.Refresh)
	api.Post("/verify-email", h.VerifyEmail)
	api.Post("/recover", h.RequestRecovery)
	api.Post("/reset-password", h.ResetPassword)
	api.Get("/users", h.ListUsers)
	api.Get("/users/:username", h.FindUser)

	authed := api.Group("", h.RequireAuth)
	authed.Post("/logout", h.Logout)
	authed.Post("/revoke", h.RevokeSessions)
	authed.Get("/me", h.Me)
	authed.Get("/sessions", h.ListSessions)
	authed.Put("/profile", h.EditProfile)
}
