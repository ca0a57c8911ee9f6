package server

import (
	"context"
	"net/url"

	"careerhub/internal/models"
	"careerhub/internal/upload"
	"careerhub/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

type resumeView struct {
	State   viewmodel.State[*models.ResumeResult]
	MaxMB   int
	Accepts string
}

func (s *Server) GetResume(c *fiber.Ctx) error {
	screen := s.resumeScreen(c)
	// The fetch only re-reads the held result; a plain visit clears a stale error.
	_ = mount(c, screen, none{})
	return s.render(c, fiber.StatusOK, "resume", "Resume", resumeView{
		State:   screen.State(),
		MaxMB:   upload.MaxSize / (1024 * 1024),
		Accepts: ".pdf,.docx," + upload.MIMEPDF + "," + upload.MIMEDOCX,
	})
}

// UploadResume validates the file before anything is sent to the backend.
func (s *Server) UploadResume(c *fiber.Ctx) error {
	screen := s.resumeScreen(c)
	fh, err := c.FormFile("file")
	if err != nil {
		screen.Fail(models.NewValidationError("Choose a file to upload"))
		return redirectSynced(c, "/resume", nil)
	}
	file, err := upload.FromMultipart(fh)
	if err != nil {
		screen.Fail(err)
		return redirectSynced(c, "/resume", nil)
	}

	var result models.ResumeResult
	err = screen.Patch(c.UserContext(), func(ctx context.Context) error {
		var err error
		result, err = s.services.Resume.Upload(ctx, file.Name, file.Content)
		return err
	}, func(*models.ResumeResult) *models.ResumeResult {
		return &result
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	if err != nil {
		return redirectSynced(c, "/resume", nil)
	}
	return redirectSynced(c, "/resume", url.Values{"notice": {"resume_uploaded"}})
}

func (s *Server) RecalculateResume(c *fiber.Ctx) error {
	screen := s.resumeScreen(c)
	var result models.ResumeResult
	err := screen.Patch(c.UserContext(), func(ctx context.Context) error {
		var err error
		result, err = s.services.Resume.Recalculate(ctx)
		return err
	}, func(*models.ResumeResult) *models.ResumeResult {
		return &result
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/resume", nil)
}
