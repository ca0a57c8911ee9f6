package server

import (
	"errors"
	"log/slog"
	"strings"

	"careerhub/internal/featureflags"
	"careerhub/internal/middleware"
	"careerhub/internal/models"
	"careerhub/internal/observability"

	"github.com/gofiber/fiber/v2"
)

type loginView struct {
	Email string
	Err   string
}

// Home sends signed-in users to the landing screen of their role.
func (s *Server) Home(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Redirect(homeFor(sess.User, s.adminScreens(c)), fiber.StatusSeeOther)
}

func (s *Server) LoginPage(c *fiber.Ctx) error {
	if middleware.CurrentSession(c) != nil {
		return s.Home(c)
	}
	return s.render(c, fiber.StatusOK, "login", "Sign in", loginView{})
}

// Login signs the user in against the backend and issues the session cookie.
func (s *Server) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	sess, err := s.sessions.Login(c.UserContext(), email, c.FormValue("password"))
	if err != nil {
		status := fiber.StatusUnauthorized
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			status = fiber.StatusBadRequest
		}
		if errors.Is(err, models.ErrNetwork) {
			status = fiber.StatusServiceUnavailable
		}
		return s.render(c, status, "login", "Sign in", loginView{
			Email: email,
			Err:   models.UserMessage(err, "Unable to sign in"),
		})
	}

	middleware.SetSessionCookie(c, sess, s.config.CookieSecure)
	return c.Redirect(homeFor(sess.User, s.featureFlags.Enabled(featureflags.AdminScreens, sess.User.ID)), fiber.StatusSeeOther)
}

// expireSession ends a session whose token the backend rejected and sends the user to sign in.
func (s *Server) expireSession(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if sess := middleware.CurrentSession(c); sess != nil {
		observability.GlobalLogger.InfoContext(ctx, "backend rejected session token",
			slog.String("user_id", sess.User.ID),
		)
		_ = s.sessions.Logout(ctx, sess.ID)
	}
	middleware.ClearSessionCookie(c)
	return c.Redirect("/login?notice=session_expired", fiber.StatusSeeOther)
}

// Logout ends the session and forgets its screen state.
func (s *Server) Logout(c *fiber.Ctx) error {
	if id := c.Cookies(middleware.SessionCookie); id != "" {
		_ = s.sessions.Logout(c.UserContext(), id)
	}
	middleware.ClearSessionCookie(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
