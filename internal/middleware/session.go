package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"careerhub/internal/models"
	"careerhub/internal/observability"
	"careerhub/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the session id.
const SessionCookie = "careerhub_session"

const sessionLocal = "session"

// SessionResolver looks a session up by id.
type SessionResolver interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// CurrentSession returns the session attached by LoadSession, or nil.
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionLocal).(*session.Session)
	return sess
}

// LoadSession resolves the session cookie, if any, and binds its token to the request context.
// Requests without a valid session continue anonymously.
func LoadSession(provider SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(SessionCookie)
		if id == "" {
			return c.Next()
		}
		sess, err := provider.Get(c.UserContext(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				observability.GlobalLogger.ErrorContext(c.UserContext(), "session lookup failed", slog.String("error", err.Error()))
			}
			ClearSessionCookie(c)
			return c.Next()
		}
		c.Locals(sessionLocal, sess)
		c.Locals("userID", sess.User.ID)
		c.SetUserContext(sess.Context(c.UserContext()))
		return c.Next()
	}
}

// RequireSession redirects anonymous requests to the login screen.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentSession(c) == nil {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RequireRole rejects signed-in users whose role is not listed.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if sess == nil {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		for _, r := range roles {
			if sess.User.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "This screen is not available for your account")
	}
}

// SetSessionCookie issues the session cookie.
func SetSessionCookie(c *fiber.Ctx, sess *session.Session, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
