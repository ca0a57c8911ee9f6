package api

import (
	"context"
	"net/http"
	"net/url"

	"careerhub/internal/fallback"
	"careerhub/internal/models"
)

// LearningService wraps the learning planner and skill gap endpoints.
type LearningService struct {
	c *Client
}

// MyPaths returns the student's learning paths, or the demo planner on a network failure.
func (s *LearningService) MyPaths(ctx context.Context) ([]models.LearningPath, error) {
	var out []models.LearningPath
	err := s.c.do(ctx, call{
		resource: "learning",
		method:   http.MethodGet,
		path:     "/learning/paths/my",
		failMsg:  "Failed to load learning paths",
	}, &out)
	if err != nil {
		return withFallback(ctx, s.c, "learning", "paths", err, fallback.LearningPaths)
	}
	if out == nil {
		out = []models.LearningPath{}
	}
	return out, nil
}

func (s *LearningService) Generate(ctx context.Context, in models.GeneratePathInput) (models.LearningPath, error) {
	var out models.LearningPath
	err := s.c.do(ctx, call{
		resource: "learning",
		method:   http.MethodPost,
		path:     "/learning/paths/generate",
		body:     in,
		failMsg:  "Failed to generate learning path",
	}, &out)
	return out, err
}

// CompleteStage marks stage index of path id as done.
func (s *LearningService) CompleteStage(ctx context.Context, id string, index int) error {
	if index < 0 {
		return models.NewValidationError("Invalid stage")
	}
	return s.c.do(ctx, call{
		resource: "learning",
		method:   http.MethodPost,
		path:     "/learning/paths/" + url.PathEscape(id) + "/complete-stage",
		body:     models.CompleteStageInput{StageIndex: index},
		failMsg:  "Failed to complete stage",
	}, nil)
}

// MyGaps returns the student's skill gaps, or the demo gaps on a network failure.
func (s *LearningService) MyGaps(ctx context.Context) ([]models.SkillGap, error) {
	var out []models.SkillGap
	err := s.c.do(ctx, call{
		resource: "gaps",
		method:   http.MethodGet,
		path:     "/learning/my-gaps",
		failMsg:  "Failed to load skill gaps",
	}, &out)
	if err != nil {
		return withFallback(ctx, s.c, "gaps", "gaps", err, func() ([]models.SkillGap, error) {
			g, err := fallback.SkillGaps()
			return g.Gaps, err
		})
	}
	if out == nil {
		out = []models.SkillGap{}
	}
	return out, nil
}

func (s *LearningService) Recommendations(ctx context.Context) ([]models.GapRecommendation, error) {
	var out []models.GapRecommendation
	err := s.c.do(ctx, call{
		resource: "gaps",
		method:   http.MethodGet,
		path:     "/learning/gap-recommendations",
		failMsg:  "Failed to load recommendations",
	}, &out)
	if err != nil {
		return withFallback(ctx, s.c, "gaps", "recommendations", err, func() ([]models.GapRecommendation, error) {
			g, err := fallback.SkillGaps()
			return g.Recommendations, err
		})
	}
	if out == nil {
		out = []models.GapRecommendation{}
	}
	return out, nil
}
