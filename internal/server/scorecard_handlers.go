package server

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"careerhub/internal/models"
	"careerhub/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

type scorecardsView struct {
	State         viewmodel.State[[]models.ScorecardTemplate]
	Selected      *models.ScorecardTemplate
	ApplicationID string
	// Score is the weighted score of the scorecard just submitted.
	Score string
}

func findTemplate(templates []models.ScorecardTemplate, id string) *models.ScorecardTemplate {
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i]
		}
	}
	return nil
}

// GetScorecards renders the template picker and, once a template is chosen, its rating form.
func (s *Server) GetScorecards(c *fiber.Ctx) error {
	screen := s.scorecardScreen(c)
	if err := mount(c, screen, none{}); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	st := screen.State()
	view := scorecardsView{
		State:         st,
		Selected:      findTemplate(st.Data, c.Query("template")),
		ApplicationID: c.Query("application"),
	}
	if score, err := strconv.ParseFloat(c.Query("score"), 64); err == nil {
		view.Score = strconv.FormatFloat(score, 'f', 1, 64)
	}
	return s.render(c, fiber.StatusOK, "scorecards", "Scorecards", view)
}

// SubmitScorecard builds the payload from rating_<index> fields, one per template criterion.
func (s *Server) SubmitScorecard(c *fiber.Ctx) error {
	screen := s.scorecardScreen(c)
	templateID := c.FormValue("template_id")
	applicationID := c.FormValue("application_id")
	back := url.Values{"template": {templateID}, "application": {applicationID}}

	tpl := findTemplate(screen.State().Data, templateID)
	if tpl == nil {
		screen.Fail(models.NewValidationError("Choose a scorecard template"))
		return redirectSynced(c, "/scorecards", back)
	}

	ratings := make(map[string]int, len(tpl.Criteria))
	for i, cr := range tpl.Criteria {
		raw := c.FormValue(fmt.Sprintf("rating_%d", i))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			screen.Fail(models.NewValidationError(fmt.Sprintf("Rating for %q must be a number", cr.Name)))
			return redirectSynced(c, "/scorecards", back)
		}
		ratings[cr.Name] = n
	}

	card, err := models.BuildScorecard(*tpl, applicationID, models.Decision(c.FormValue("decision")), ratings, c.FormValue("feedback"))
	if err != nil {
		screen.Fail(err)
		return redirectSynced(c, "/scorecards", back)
	}
	err = screen.Patch(c.UserContext(), func(ctx context.Context) error {
		return s.services.Scorecards.Submit(ctx, card)
	}, func(templates []models.ScorecardTemplate) []models.ScorecardTemplate {
		return templates
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	if err != nil {
		return redirectSynced(c, "/scorecards", back)
	}
	return redirectSynced(c, "/scorecards", url.Values{
		"notice": {"scorecard_submitted"},
		"score":  {strconv.FormatFloat(card.WeightedScore(), 'f', 1, 64)},
	})
}
