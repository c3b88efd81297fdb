package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// errorBody mirrors the failure shape of api/http/presenter.Envelope; pkg
// packages do not import the HTTP layer.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func deny(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorBody{Success: false, Error: msg})
}

// Authenticate returns a Fiber middleware that requires "Authorization: Bearer <JWT>".
// On success the decoded claims are stored in c.Locals for downstream handlers.
func Authenticate(v *Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenStr == "" {
			return deny(c, http.StatusUnauthorized, "Access token required")
		}
		claims, err := v.Validate(tokenStr)
		if err != nil {
			return deny(c, http.StatusForbidden, "Invalid or expired token")
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return deny(c, http.StatusUnauthorized, "Authentication required")
		}
		if !claims.IsAdmin() {
			return deny(c, http.StatusForbidden, "Admin access required")
		}
		return c.Next()
	}
}

// ClaimsFrom returns the claims attached by Authenticate.
func ClaimsFrom(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
