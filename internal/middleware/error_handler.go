package middleware

import (
	"errors"
	"log"

	"blog/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the single place where failures become HTTP responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var appErr *apperror.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.Status()
		message = appErr.Message
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"message": message,
		"status":  code,
	})
}

// NotFound answers every request that matched no route.
func NotFound(c *fiber.Ctx) error {
	return apperror.NotFound("Not Found - " + c.OriginalURL())
}
