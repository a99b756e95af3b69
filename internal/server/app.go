package server

import (
	"strings"
	"time"

	"blog/internal/handlers"
	"blog/internal/middleware"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// bodyLimit leaves room for multipart overhead around a 2MB thumbnail.
const bodyLimit = 8 * 1024 * 1024

// Options carries everything the HTTP layer needs.
type Options struct {
	Users       *services.UserService
	Posts       *services.PostService
	Auth        *services.AuthService
	UploadsDir  string
	CORSOrigins []string
	// DisableRequestLog turns off the request logger, mostly for tests.
	DisableRequestLog bool
}

// New builds the Fiber application with all routes registered.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "blog",
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    bodyLimit,
		UnescapePath: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	if !opts.DisableRequestLog {
		app.Use(logger.New())
	}
	app.Use(corsHandler(opts.CORSOrigins))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if opts.UploadsDir != "" {
		app.Static("/uploads", opts.UploadsDir)
	}

	// --- API Routes ---
	api := app.Group("/api")
	auth := middleware.AuthRequired(opts.Auth)
	handlers.NewUserHandler(opts.Users).RegisterRoutes(api, auth)
	handlers.NewPostHandler(opts.Posts).RegisterRoutes(api, auth)

	app.Use(middleware.NotFound)
	return app
}

func corsHandler(origins []string) fiber.Handler {
	allowed := strings.Join(origins, ",")
	if allowed == "" || allowed == "*" {
		// Credentials cannot be combined with a wildcard origin.
		return cors.New(cors.Config{AllowOrigins: "*"})
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}
