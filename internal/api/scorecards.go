package api

import (
	"context"
	"net/http"

	"careerhub/internal/models"
)

// ScorecardService wraps interview scorecards.
type ScorecardService struct {
	c *Client
}

func (s *ScorecardService) Templates(ctx context.Context) ([]models.ScorecardTemplate, error) {
	var out []models.ScorecardTemplate
	err := s.c.do(ctx, call{
		resource: "scorecards",
		method:   http.MethodGet,
		path:     "/scorecards/templates",
		failMsg:  "Failed to load scorecard templates",
	}, &out)
	if out == nil {
		out = []models.ScorecardTemplate{}
	}
	return out, err
}

// Submit posts a scorecard built with models.BuildScorecard.
func (s *ScorecardService) Submit(ctx context.Context, card models.Scorecard) error {
	return s.c.do(ctx, call{
		resource: "scorecards",
		method:   http.MethodPost,
		path:     "/scorecards",
		body:     card,
		failMsg:  "Failed to submit scorecard",
	}, nil)
}
