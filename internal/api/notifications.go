package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"careerhub/internal/fallback"
	"careerhub/internal/models"
)

// NotificationService wraps the inbox endpoints.
type NotificationService struct {
	c *Client
}

// List returns the inbox for q. Demo notifications are served on a network failure when enabled.
func (s *NotificationService) List(ctx context.Context, q models.NotificationQuery) ([]models.Notification, error) {
	query := url.Values{}
	if q.UnreadOnly {
		query.Set("unread_only", "true")
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		query.Set("category", c)
	}
	var out []models.Notification
	err := s.c.do(ctx, call{
		resource: "notifications",
		method:   http.MethodGet,
		path:     "/notifications/",
		query:    query,
		failMsg:  "Failed to load notifications",
	}, &out)
	if err != nil {
		return withFallback(ctx, s.c, "notifications", "list", err, func() ([]models.Notification, error) {
			items, err := fallback.Notifications()
			if err != nil {
				return nil, err
			}
			return filterNotifications(items, q), nil
		})
	}
	if out == nil {
		out = []models.Notification{}
	}
	return out, nil
}

func filterNotifications(items []models.Notification, q models.NotificationQuery) []models.Notification {
	out := make([]models.Notification, 0, len(items))
	for _, n := range items {
		if q.UnreadOnly && n.IsRead {
			continue
		}
		if q.Category != "" && !strings.EqualFold(n.Category, q.Category) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.c.do(ctx, call{
		resource: "notifications",
		method:   http.MethodPut,
		path:     "/notifications/" + url.PathEscape(id) + "/read",
		failMsg:  "Failed to mark notification as read",
	}, nil)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.c.do(ctx, call{
		resource: "notifications",
		method:   http.MethodPut,
		path:     "/notifications/read-all",
		failMsg:  "Failed to mark notifications as read",
	}, nil)
}
