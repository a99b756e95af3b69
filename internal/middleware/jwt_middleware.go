package middleware

import (
	"log"
	"strings"

	"blog/internal/apperror"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	identityKey = "identity"
	tokenKey    = "token"
)

// AuthRequired is a Fiber middleware that rejects requests without a valid
// bearer token and stores the caller's identity in the context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.Auth("Unauthorized. No token")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperror.Auth("Authorization header format must be 'Bearer <token>'")
		}
		tokenString := strings.TrimSpace(parts[1])

		identity, err := authService.ValidateToken(c.UserContext(), tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return apperror.Wrap(apperror.KindAuth, "Unauthorized. Invalid token", err)
		}

		c.Locals(identityKey, identity)
		c.Locals(tokenKey, tokenString)
		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthRequired.
func CurrentIdentity(c *fiber.Ctx) (*services.Identity, error) {
	identity, ok := c.Locals(identityKey).(*services.Identity)
	if !ok || identity == nil {
		return nil, apperror.Auth("Unauthorized")
	}
	return identity, nil
}

// CurrentToken returns the raw bearer token stored by AuthRequired.
func CurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenKey).(string)
	return token
}
