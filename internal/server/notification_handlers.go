package server

import (
	"context"
	"net/url"
	"strings"

	"careerhub/internal/models"
	"careerhub/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

type notificationsView struct {
	State  viewmodel.State[[]models.Notification]
	Tab    string
	Unread int
}

func notificationQuery(tab, category string) models.NotificationQuery {
	return models.NotificationQuery{UnreadOnly: tab == "unread", Category: strings.TrimSpace(category)}
}

func tabValues(tab, category string) url.Values {
	q := url.Values{}
	if tab == "unread" {
		q.Set("tab", "unread")
	}
	if category != "" {
		q.Set("category", category)
	}
	return q
}

// GetNotifications renders the inbox. Switching tab changes the container params, which reloads.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	screen := s.notificationsScreen(c)
	tab := c.Query("tab", "all")
	if err := mount(c, screen, notificationQuery(tab, c.Query("category"))); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}

	st := screen.State()
	return s.render(c, fiber.StatusOK, "notifications", "Notifications", notificationsView{
		State:  st,
		Tab:    tab,
		Unread: models.CountUnread(st.Data),
	})
}

// MarkNotificationRead flags one entry read with a local patch.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	screen := s.notificationsScreen(c)
	id := c.Params("id")
	err := screen.Patch(c.UserContext(), func(ctx context.Context) error {
		return s.services.Notifications.MarkRead(ctx, id)
	}, func(items []models.Notification) []models.Notification {
		return models.MarkRead(items, id)
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/notifications", tabValues(c.FormValue("tab"), c.FormValue("category")))
}

// MarkAllNotificationsRead flags every held entry read with a local patch.
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	screen := s.notificationsScreen(c)
	err := screen.Patch(c.UserContext(), func(ctx context.Context) error {
		return s.services.Notifications.MarkAllRead(ctx)
	}, models.MarkAllRead)
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/notifications", tabValues(c.FormValue("tab"), c.FormValue("category")))
}
