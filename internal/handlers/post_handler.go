package handlers

import (
	"blog/internal/middleware"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{
		service: service,
	}
}

// RegisterRoutes registers the post routes. auth guards the writes.
func (h *PostHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	postRoutes := router.Group("/posts")
	postRoutes.Get("/", h.HandleGetPosts)
	postRoutes.Post("/", auth, h.HandleCreatePost)
	postRoutes.Get("/categories/:category", h.HandleGetCategoryPosts)
	postRoutes.Get("/users/:id", h.HandleGetUserPosts)
	postRoutes.Get("/:id", h.HandleGetPost)
	postRoutes.Patch("/:id", auth, h.HandleEditPost)
	postRoutes.Delete("/:id", auth, h.HandleDeletePost)
}

// HandleCreatePost creates a post from a multipart form with a "thumbnail" file.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	actor, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	var in services.PostInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	thumbnail, closeFile, err := formUpload(c, "thumbnail")
	if err != nil {
		return err
	}
	defer closeFile()

	post, err := h.service.Create(actor.ID, in, thumbnail)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleGetPosts lists every post.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	posts, err := h.service.List()
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleGetPost returns one post.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	post, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// HandleGetCategoryPosts lists the posts of one category.
func (h *PostHandler) HandleGetCategoryPosts(c *fiber.Ctx) error {
	posts, err := h.service.ListByCategory(c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleGetUserPosts lists the posts of one author.
func (h *PostHandler) HandleGetUserPosts(c *fiber.Ctx) error {
	posts, err := h.service.ListByCreator(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleEditPost updates a post; a "thumbnail" file is optional.
func (h *PostHandler) HandleEditPost(c *fiber.Ctx) error {
	actor, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	var in services.PostInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	thumbnail, closeFile, err := formUpload(c, "thumbnail")
	if err != nil {
		return err
	}
	defer closeFile()

	post, err := h.service.Edit(actor.ID, c.Params("id"), in, thumbnail)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// HandleDeletePost deletes a post owned by the caller.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	actor, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	msg, err := h.service.Delete(actor.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(msg)
}
