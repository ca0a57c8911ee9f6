package server

import (
	"context"

	"careerhub/internal/models"
	"careerhub/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

type adminView struct {
	State viewmodel.State[models.ReviewQueue]
}

func (s *Server) GetReviewQueue(c *fiber.Ctx) error {
	screen := s.reviewQueueScreen(c)
	if err := mount(c, screen, none{}); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return s.render(c, fiber.StatusOK, "admin", "Review queue", adminView{State: screen.State()})
}

func (s *Server) ApproveJob(c *fiber.Ctx) error {
	id := c.Params("id")
	return s.moderate(c, func(ctx context.Context) error {
		return s.services.Admin.ApproveJob(ctx, id)
	})
}

func (s *Server) RejectJob(c *fiber.Ctx) error {
	id, reason := c.Params("id"), c.FormValue("reason")
	return s.moderate(c, func(ctx context.Context) error {
		return s.services.Admin.RejectJob(ctx, id, reason)
	})
}

func (s *Server) VerifyRecruiter(c *fiber.Ctx) error {
	id := c.Params("id")
	return s.moderate(c, func(ctx context.Context) error {
		return s.services.Admin.VerifyRecruiter(ctx, id)
	})
}

func (s *Server) SuspendRecruiter(c *fiber.Ctx) error {
	id, reason := c.Params("id"), c.FormValue("reason")
	return s.moderate(c, func(ctx context.Context) error {
		return s.services.Admin.SuspendRecruiter(ctx, id, reason)
	})
}

func (s *Server) moderate(c *fiber.Ctx, action func(ctx context.Context) error) error {
	if err := s.reviewQueueScreen(c).Mutate(c.UserContext(), action); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/admin", nil)
}
