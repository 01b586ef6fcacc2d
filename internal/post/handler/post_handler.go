package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/square-net/server/internal/post/dto"
	"github.com/square-net/server/internal/post/service"
	"github.com/square-net/server/pkg/constant"
)

const genericFailure = "Something went wrong. Please try again later."

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterRoutes mounts the post endpoints. The feed and single-post lookups
// are public; everything that writes goes through requireAuth.
func RegisterRoutes(app *fiber.App, h *PostHandler, requireAuth fiber.Handler) {
	api := app.Group("/api")

	api.Get("/posts", h.Feed)
	api.Get("/posts/:postId", h.Find)

	authed := api.Group("", requireAuth)
	authed.Post("/posts", h.Create)
	authed.Put("/posts/:postId", h.Update)
	authed.Delete("/posts/:postId", h.Delete)
}

func (h *PostHandler) Feed(c *fiber.Ctx) error {
	feed, err := h.postService.Feed(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	return c.Status(fiber.StatusOK).JSON(feed)
}

func (h *PostHandler) Find(c *fiber.Ctx) error {
	post, err := h.postService.Find(c.Context(), c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
	}

	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "post not found"})
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	var input dto.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	authorID, _ := c.Locals(constant.LocalsUserID).(int64)

	resp := h.postService.Create(c.Context(), authorID, input)
	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	var input dto.UpdatePostInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	authorID, _ := c.Locals(constant.LocalsUserID).(int64)

	resp := h.postService.Update(c.Context(), authorID, c.Params("postId"), input)
	if len(resp.Errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	if resp.Post == nil {
		return c.Status(fiber.StatusNotFound).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	authorID, _ := c.Locals(constant.LocalsUserID).(int64)

	ok := h.postService.Delete(c.Context(), authorID, c.Params("postId"))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": ok})
}
