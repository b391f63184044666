package middleware

import (
	"errors"
	"strings"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "user"

// TokenAuthenticator resolves bearer tokens to users.
type TokenAuthenticator interface {
	Authenticate(token string) (*models.User, error)
}

// AuthRequired is a Fiber middleware that resolves the bearer token and
// stores the user in the request context.
func AuthRequired(auth TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		user, err := auth.Authenticate(token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid token",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
