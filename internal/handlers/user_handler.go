package handlers

import (
	"log"

	"blog/internal/apperror"
	"blog/internal/middleware"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes. auth guards the protected ones.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Post("/login", h.HandleLogin)
	userRoutes.Get("/authors", h.HandleGetAuthors)
	userRoutes.Post("/logout", auth, h.HandleLogout)
	userRoutes.Post("/change-avatar", auth, h.HandleChangeAvatar)
	userRoutes.Post("/edit-user", auth, h.HandleEditUser)
	userRoutes.Get("/:id", auth, h.HandleGetUser)
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return apperror.Wrap(apperror.KindValidation, "Invalid request body", err)
	}
	return nil
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	user, err := h.service.Register(in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin handles user login and issues a JWT token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	res, err := h.service.Login(in)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// HandleLogout revokes the token used for this request.
func (h *UserHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), middleware.CurrentToken(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleGetUser returns a user profile.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// HandleGetAuthors lists every user.
func (h *UserHandler) HandleGetAuthors(c *fiber.Ctx) error {
	authors, err := h.service.ListAuthors()
	if err != nil {
		return err
	}
	return c.JSON(authors)
}

// HandleChangeAvatar replaces the caller's avatar with the uploaded "avatar" file.
func (h *UserHandler) HandleChangeAvatar(c *fiber.Ctx) error {
	actor, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	avatar, closeFile, err := formUpload(c, "avatar")
	if err != nil {
		return err
	}
	defer closeFile()

	user, err := h.service.ChangeAvatar(actor.ID, avatar)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// HandleEditUser updates the caller's profile.
func (h *UserHandler) HandleEditUser(c *fiber.Ctx) error {
	actor, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	var in services.EditUserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	user, err := h.service.EditUser(actor.ID, in)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
