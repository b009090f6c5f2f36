package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/inkpress/inkpress/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in web session; redirects to the login route
// with a return path so the user resumes their original intent after signing in.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Redirect(LoginRedirectTarget(c.OriginalURL()), fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPIAuth ensures a logged-in session for API routes and returns JSON
// 401 instead of a redirect.
func RequireAPIAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// LoginRedirectTarget builds the login route carrying the original path so the
// caller can be sent back after authenticating.
func LoginRedirectTarget(originalURL string) string {
	if originalURL == "" || originalURL == "/login" {
		return "/login"
	}
	return "/login?redirect=" + url.QueryEscape(originalURL)
}
