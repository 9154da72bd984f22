package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const authorizationHeader = "Authorization"

// APIKey guards mutating endpoints with a bearer key compared against a
// bcrypt hash from configuration. An empty hash disables the check (dev
// mode).
func APIKey(keyHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if keyHash == "" {
			return c.Next()
		}

		header := c.Get(authorizationHeader)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer key")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(token)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid API key")
		}

		return c.Next()
	}
}
