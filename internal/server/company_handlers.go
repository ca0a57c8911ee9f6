package server

import (
	"log/slog"
	"strings"

	"careerhub/internal/models"
	"careerhub/internal/observability"
	"careerhub/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

type companiesView struct {
	Query  string
	State  viewmodel.State[models.CompanyResearch]
	Recent []string
}

// GetCompanies renders company research and remembers the searched name.
func (s *Server) GetCompanies(c *fiber.Ctx) error {
	ctx := c.UserContext()
	screen := s.companyScreen(c)
	name := strings.TrimSpace(c.Query("name"))
	owner := userID(c)

	view := companiesView{Query: name}
	if name != "" {
		if err := mount(c, screen, name); models.IsUnauthorized(err) {
			return s.expireSession(c)
		}
		view.State = screen.State()
		if !c.QueryBool("synced") {
			if _, err := s.recent.Add(ctx, owner, name); err != nil {
				observability.GlobalLogger.WarnContext(ctx, "failed to save recent search", slog.String("error", err.Error()))
			}
		}
	}

	recent, err := s.recent.List(ctx, owner)
	if err != nil {
		observability.GlobalLogger.WarnContext(ctx, "failed to load recent searches", slog.String("error", err.Error()))
	}
	view.Recent = recent
	return s.render(c, fiber.StatusOK, "companies", "Company research", view)
}

func (s *Server) ClearRecentSearches(c *fiber.Ctx) error {
	if err := s.recent.Clear(c.UserContext(), userID(c)); err != nil {
		observability.GlobalLogger.WarnContext(c.UserContext(), "failed to clear recent searches", slog.String("error", err.Error()))
	}
	return c.Redirect("/companies", fiber.StatusSeeOther)
}
