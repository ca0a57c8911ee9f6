package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"careerhub/internal/models"
)

// AdminService wraps the moderation endpoints.
type AdminService struct {
	c *Client
}

func (s *AdminService) ReviewQueue(ctx context.Context) (models.ReviewQueue, error) {
	var out models.ReviewQueue
	err := s.c.do(ctx, call{
		resource: "admin",
		method:   http.MethodGet,
		path:     "/admin/review-queue",
		failMsg:  "Failed to load review queue",
	}, &out)
	return out, err
}

func (s *AdminService) ApproveJob(ctx context.Context, id string) error {
	return s.moderate(ctx, "/admin/jobs/"+url.PathEscape(id)+"/approve", "", "Failed to approve job")
}

func (s *AdminService) RejectJob(ctx context.Context, id, reason string) error {
	return s.moderate(ctx, "/admin/jobs/"+url.PathEscape(id)+"/reject", reason, "Failed to reject job")
}

func (s *AdminService) VerifyRecruiter(ctx context.Context, id string) error {
	return s.moderate(ctx, "/admin/recruiters/"+url.PathEscape(id)+"/verify", "", "Failed to verify recruiter")
}

func (s *AdminService) SuspendRecruiter(ctx context.Context, id, reason string) error {
	return s.moderate(ctx, "/admin/recruiters/"+url.PathEscape(id)+"/suspend", reason, "Failed to suspend recruiter")
}

func (s *AdminService) moderate(ctx context.Context, path, reason, failMsg string) error {
	return s.c.do(ctx, call{
		resource: "admin",
		method:   http.MethodPost,
		path:     path,
		body:     models.ModerationInput{Reason: strings.TrimSpace(reason)},
		failMsg:  failMsg,
	}, nil)
}
