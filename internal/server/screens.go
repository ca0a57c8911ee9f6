package server

import (
	"context"

	"careerhub/internal/middleware"
	"careerhub/internal/models"
	"careerhub/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

// feedLimit is how many posts the feed screen shows.
const feedLimit = 50

// none is the params type of screens without a filter.
type none struct{}

// gapsData is the combined payload of the skill gap screen.
type gapsData struct {
	Gaps            []models.SkillGap
	Recommendations []models.GapRecommendation
}

func sessionID(c *fiber.Ctx) string {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess.ID
	}
	return ""
}

func userID(c *fiber.Ctx) string {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess.User.ID
	}
	return ""
}

// mount is what opening a screen does: load on first use or when params changed, reload on
// every plain visit, and skip the fetch right after a mutation already reloaded it. The load
// error is already held in the screen state; it is returned so callers can react to a 401.
func mount[P comparable, T any](c *fiber.Ctx, screen *viewmodel.Container[P, T], params P) error {
	ctx := c.UserContext()
	changed := screen.State().Status == viewmodel.Idle || screen.Params() != params
	switch {
	case changed:
		return screen.SetParams(ctx, params)
	case c.QueryBool("synced"):
		return nil
	default:
		return screen.Refresh(ctx)
	}
}

func (s *Server) feedScreen(c *fiber.Ctx) *viewmodel.Container[none, []models.Post] {
	return viewmodel.Screen(s.screens, sessionID(c), "feed", func() *viewmodel.Container[none, []models.Post] {
		return viewmodel.New(func(ctx context.Context, _ none) ([]models.Post, error) {
			return s.services.Posts.List(ctx, 0, feedLimit)
		}, none{}, viewmodel.WithName("feed"), viewmodel.WithErrorMessage("Failed to load posts"))
	})
}

func (s *Server) jobFeed(c *fiber.Ctx) *viewmodel.Pager[models.JobFilter, models.Job] {
	return viewmodel.Screen(s.screens, sessionID(c), "jobs", func() *viewmodel.Pager[models.JobFilter, models.Job] {
		return viewmodel.NewPager(func(ctx context.Context, f models.JobFilter, skip, limit int) ([]models.Job, error) {
			return s.services.Jobs.List(ctx, skip, limit, f)
		}, models.JobFilter{}, viewmodel.WithName("jobs"), viewmodel.WithErrorMessage("Failed to load jobs"))
	})
}

func (s *Server) myJobsScreen(c *fiber.Ctx) *viewmodel.Container[none, []models.Job] {
	return viewmodel.Screen(s.screens, sessionID(c), "my_jobs", func() *viewmodel.Container[none, []models.Job] {
		return viewmodel.New(func(ctx context.Context, _ none) ([]models.Job, error) {
			return s.services.Jobs.Mine(ctx)
		}, none{}, viewmodel.WithName("my_jobs"), viewmodel.WithErrorMessage("Failed to load your jobs"))
	})
}

func (s *Server) matchesScreen(c *fiber.Ctx) *viewmodel.Container[string, []models.JobMatch] {
	return viewmodel.Screen(s.screens, sessionID(c), "matches", func() *viewmodel.Container[string, []models.JobMatch] {
		return viewmodel.New(func(ctx context.Context, jobID string) ([]models.JobMatch, error) {
			return s.services.Jobs.Matches(ctx, jobID)
		}, "", viewmodel.WithName("matches"), viewmodel.WithClearOnError(), viewmodel.WithErrorMessage("Failed to load matches"))
	})
}

func (s *Server) applicationsScreen(c *fiber.Ctx) *viewmodel.Container[string, []models.Application] {
	return viewmodel.Screen(s.screens, sessionID(c), "applications", func() *viewmodel.Container[string, []models.Application] {
		return viewmodel.New(func(ctx context.Context, jobID string) ([]models.Application, error) {
			return s.services.Jobs.Applications(ctx, jobID)
		}, "", viewmodel.WithName("applications"), viewmodel.WithClearOnError(), viewmodel.WithErrorMessage("Failed to load applications"))
	})
}

func (s *Server) notificationsScreen(c *fiber.Ctx) *viewmodel.Container[models.NotificationQuery, []models.Notification] {
	return viewmodel.Screen(s.screens, sessionID(c), "notifications", func() *viewmodel.Container[models.NotificationQuery, []models.Notification] {
		return viewmodel.New(func(ctx context.Context, q models.NotificationQuery) ([]models.Notification, error) {
			return s.services.Notifications.List(ctx, q)
		}, models.NotificationQuery{}, viewmodel.WithName("notifications"), viewmodel.WithErrorMessage("Failed to load notifications"))
	})
}

func (s *Server) learningScreen(c *fiber.Ctx) *viewmodel.Container[none, []models.LearningPath] {
	return viewmodel.Screen(s.screens, sessionID(c), "learning", func() *viewmodel.Container[none, []models.LearningPath] {
		return viewmodel.New(func(ctx context.Context, _ none) ([]models.LearningPath, error) {
			return s.services.Learning.MyPaths(ctx)
		}, none{}, viewmodel.WithName("learning"), viewmodel.WithErrorMessage("Failed to load learning paths"))
	})
}

func (s *Server) gapsScreen(c *fiber.Ctx) *viewmodel.Container[none, gapsData] {
	return viewmodel.Screen(s.screens, sessionID(c), "gaps", func() *viewmodel.Container[none, gapsData] {
		return viewmodel.New(func(ctx context.Context, _ none) (gapsData, error) {
			gaps, err := s.services.Learning.MyGaps(ctx)
			if err != nil {
				return gapsData{}, err
			}
			recs, err := s.services.Learning.Recommendations(ctx)
			if err != nil {
				return gapsData{}, err
			}
			return gapsData{Gaps: gaps, Recommendations: recs}, nil
		}, none{}, viewmodel.WithName("gaps"), viewmodel.WithErrorMessage("Failed to load skill gaps"))
	})
}

// resumeScreen has no read endpoint; it only ever holds the result of the last upload, so a
// reload keeps whatever is held.
func (s *Server) resumeScreen(c *fiber.Ctx) *viewmodel.Container[none, *models.ResumeResult] {
	return viewmodel.Screen(s.screens, sessionID(c), "resume", func() *viewmodel.Container[none, *models.ResumeResult] {
		var screen *viewmodel.Container[none, *models.ResumeResult]
		screen = viewmodel.New(func(context.Context, none) (*models.ResumeResult, error) {
			return screen.State().Data, nil
		}, none{}, viewmodel.WithName("resume"), viewmodel.WithErrorMessage("Failed to analyse resume"))
		return screen
	})
}

func (s *Server) scorecardScreen(c *fiber.Ctx) *viewmodel.Container[none, []models.ScorecardTemplate] {
	return viewmodel.Screen(s.screens, sessionID(c), "scorecards", func() *viewmodel.Container[none, []models.ScorecardTemplate] {
		return viewmodel.New(func(ctx context.Context, _ none) ([]models.ScorecardTemplate, error) {
			return s.services.Scorecards.Templates(ctx)
		}, none{}, viewmodel.WithName("scorecards"), viewmodel.WithErrorMessage("Failed to load scorecard templates"))
	})
}

func (s *Server) reviewQueueScreen(c *fiber.Ctx) *viewmodel.Container[none, models.ReviewQueue] {
	return viewmodel.Screen(s.screens, sessionID(c), "admin", func() *viewmodel.Container[none, models.ReviewQueue] {
		return viewmodel.New(func(ctx context.Context, _ none) (models.ReviewQueue, error) {
			return s.services.Admin.ReviewQueue(ctx)
		}, none{}, viewmodel.WithName("admin"), viewmodel.WithErrorMessage("Failed to load review queue"))
	})
}

func (s *Server) companyScreen(c *fiber.Ctx) *viewmodel.Container[string, models.CompanyResearch] {
	return viewmodel.Screen(s.screens, sessionID(c), "companies", func() *viewmodel.Container[string, models.CompanyResearch] {
		return viewmodel.New(func(ctx context.Context, name string) (models.CompanyResearch, error) {
			return s.services.Companies.Research(ctx, name)
		}, "", viewmodel.WithName("companies"), viewmodel.WithClearOnError(), viewmodel.WithErrorMessage("Failed to research company"))
	})
}
