package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/inkpress/inkpress/internal/pkg/session"
	"github.com/inkpress/inkpress/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the caller identity for every request and
// stores it in locals. Absence of a session is not an error: the request
// continues with an anonymous context and downstream guards decide.
func UserContextMiddleware(c *fiber.Ctx) error {
	// API clients may carry the session id in a bearer header instead of the
	// cookie. Mirror it into the cookie jar before the store lookup.
	if c.Cookies("session_id") == "" {
		if token := extractBearerToken(c); token != "" {
			c.Request().Header.SetCookie("session_id", token)
		}
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return withAnonymousContext(c)
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		return withAnonymousContext(c)
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)
	email := session.GetSessionValue(c, usercontext.KeyEmail)

	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   username,
		Email:      email,
		IsLoggedIn: true,
	}
	c.Locals("USER_CONTEXT", userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userID.(uint))
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyEmail, email)

	return c.Next()
}

func withAnonymousContext(c *fiber.Ctx) error {
	c.Locals("USER_CONTEXT", usercontext.UserContext{
		IsLoggedIn: false,
	})
	c.Locals(usercontext.KeyFromProtected, false)
	return c.Next()
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
