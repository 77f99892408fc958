package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
)

const HeaderInternalToken = "X-Internal-Token"

// InternalToken guards machine-to-machine endpoints. An empty configured
// token rejects every request.
func InternalToken(expected string) fiber.Handler {
	expected = strings.TrimSpace(expected)
	return func(c fiber.Ctx) error {
		tok := strings.TrimSpace(c.Get(HeaderInternalToken))
		if expected == "" || tok == "" || subtle.ConstantTimeCompare([]byte(tok), []byte(expected)) != 1 {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		return c.Next()
	}
}
