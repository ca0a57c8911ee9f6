package server

import (
	"context"

	"careerhub/internal/models"
	"careerhub/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

type learningView struct {
	State viewmodel.State[[]models.LearningPath]
}

func (s *Server) GetLearning(c *fiber.Ctx) error {
	screen := s.learningScreen(c)
	if err := mount(c, screen, none{}); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return s.render(c, fiber.StatusOK, "learning", "Learning", learningView{State: screen.State()})
}

func (s *Server) GeneratePath(c *fiber.Ctx) error {
	screen := s.learningScreen(c)
	in, err := models.NewGeneratePathInput(c.FormValue("skill"))
	if err != nil {
		screen.Fail(err)
		return redirectSynced(c, "/learning", nil)
	}
	err = screen.Mutate(c.UserContext(), func(ctx context.Context) error {
		_, err := s.services.Learning.Generate(ctx, in)
		return err
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/learning", nil)
}

func (s *Server) CompleteStage(c *fiber.Ctx) error {
	screen := s.learningScreen(c)
	id := c.Params("id")
	index, err := c.ParamsInt("index")
	if err != nil {
		screen.Fail(models.NewValidationError("Invalid stage"))
		return redirectSynced(c, "/learning", nil)
	}
	err = screen.Mutate(c.UserContext(), func(ctx context.Context) error {
		return s.services.Learning.CompleteStage(ctx, id, index)
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/learning", nil)
}

type gapsView struct {
	State viewmodel.State[gapsData]
}

func (s *Server) GetGaps(c *fiber.Ctx) error {
	screen := s.gapsScreen(c)
	if err := mount(c, screen, none{}); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return s.render(c, fiber.StatusOK, "gaps", "Skill gaps", gapsView{State: screen.State()})
}
