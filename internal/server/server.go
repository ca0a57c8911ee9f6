// Package server renders the screens of the career platform and turns form posts into backend
// mutations.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"careerhub/internal/api"
	"careerhub/internal/config"
	"careerhub/internal/featureflags"
	"careerhub/internal/localstore"
	"careerhub/internal/middleware"
	"careerhub/internal/models"
	"careerhub/internal/observability"
	"careerhub/internal/session"
	"careerhub/internal/viewmodel"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          localstore.Store
	services       *api.Services
	sessions       *session.Provider
	screens        *viewmodel.Registry
	recent         *localstore.RecentSearches
	featureFlags   *featureflags.Manager
	promMiddleware *fiberprometheus.FiberPrometheus
	views          *views
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
}

// NewServer opens the configured local store and creates a server talking to API_BASE_URL.
func NewServer(cfg *config.Config) (*Server, error) {
	store, err := localstore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("local store initialization failed: %w", err)
	}
	srv, err := NewServerWithDeps(cfg, store, &http.Client{Timeout: cfg.APITimeout()})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return srv, nil
}

// NewServerWithDeps creates a Server using an already-open store and HTTP client.
// Use this in tests.
func NewServerWithDeps(cfg *config.Config, store localstore.Store, httpClient *http.Client) (*Server, error) {
	v, err := loadViews()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	flags := featureflags.NewManager(cfg.FeatureFlags)
	services := api.NewServices(api.NewClient(cfg.APIBaseURL, httpClient, flags))
	screens := viewmodel.NewRegistry(cfg.SessionTTL())

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:         cfg,
		store:          store,
		services:       services,
		sessions:       session.NewProvider(store, services.Auth, screens, cfg.SessionTTL()),
		screens:        screens,
		recent:         localstore.NewRecentSearches(store),
		featureFlags:   flags,
		promMiddleware: middleware.InitMetrics("careerhub-web"),
		views:          v,
		shutdownCtx:    ctx,
		shutdownFn:     cancel,
	}
	go screens.Run(ctx, time.Minute)
	if p, ok := store.(expiryPurger); ok {
		go s.purgeExpired(ctx, p, 10*time.Minute)
	}
	return s, nil
}

// expiryPurger is implemented by stores that do not expire entries on their own.
type expiryPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func (s *Server) purgeExpired(ctx context.Context, p expiryPurger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				observability.GlobalLogger.WarnContext(ctx, "local store purge failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				observability.GlobalLogger.InfoContext(ctx, "purged expired local entries", slog.Int64("count", n))
			}
		}
	}
}

// NewApp builds a fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "CareerHub Web",
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Shutdown stops background work and closes the local store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownFn()
	done := make(chan error, 1)
	go func() { done <- s.store.Close() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Session before context so the user ID reaches the logger.
	app.Use(middleware.LoadSession(s.sessions))
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later.")
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/", s.Home)
	app.Get("/login", s.LoginPage)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 5 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many sign-in attempts, please wait a few minutes.")
		},
	}), s.Login)
	app.Get("/logout", s.Logout)
	app.Post("/logout", s.Logout)

	signedIn := middleware.RequireSession()
	student := middleware.RequireRole(models.RoleStudent)
	recruiter := middleware.RequireRole(models.RoleRecruiter)
	admin := middleware.RequireRole(models.RoleAdmin)

	// Social feed
	app.Get("/feed", signedIn, s.GetFeed)
	app.Post("/feed", signedIn, s.CreatePost)
	app.Post("/feed/:id/update", signedIn, s.UpdatePost)
	app.Post("/feed/:id/delete", signedIn, s.DeletePost)
	app.Post("/feed/:id/like", signedIn, s.LikePost)
	app.Post("/feed/:id/comments", signedIn, s.CommentPost)

	// Jobs: student feed, recruiter pipeline
	app.Get("/jobs", student, s.GetJobs)
	app.Post("/jobs/:id/apply", student, s.ApplyJob)
	app.Get("/jobs/mine", recruiter, s.GetMyJobs)
	app.Post("/jobs/mine", recruiter, s.CreateJob)
	app.Post("/jobs/:id/delete", recruiter, s.DeleteJob)
	app.Get("/jobs/:id/matches", recruiter, s.GetMatches)
	app.Get("/jobs/:id/applications", recruiter, s.GetApplications)
	app.Post("/jobs/:id/applications/:appId/stage", recruiter, s.UpdateStage)

	// Notifications
	app.Get("/notifications", signedIn, s.GetNotifications)
	app.Post("/notifications/read-all", signedIn, s.MarkAllNotificationsRead)
	app.Post("/notifications/:id/read", signedIn, s.MarkNotificationRead)

	// Learning planner and skill gaps
	app.Get("/learning", student, s.GetLearning)
	app.Post("/learning/generate", student, s.GeneratePath)
	app.Post("/learning/:id/stages/:index/complete", student, s.CompleteStage)
	app.Get("/gaps", student, s.GetGaps)

	// Resume
	app.Get("/resume", student, s.GetResume)
	app.Post("/resume", student, s.UploadResume)
	app.Post("/resume/recalculate", student, s.RecalculateResume)

	// Interview scorecards
	app.Get("/scorecards", recruiter, s.GetScorecards)
	app.Post("/scorecards", recruiter, s.SubmitScorecard)

	// Moderation
	moderation := app.Group("/admin", admin, s.AdminScreensEnabled())
	moderation.Get("/", s.GetReviewQueue)
	moderation.Post("/jobs/:id/approve", s.ApproveJob)
	moderation.Post("/jobs/:id/reject", s.RejectJob)
	moderation.Post("/recruiters/:id/verify", s.VerifyRecruiter)
	moderation.Post("/recruiters/:id/suspend", s.SuspendRecruiter)

	// Company research
	app.Get("/companies", signedIn, s.GetCompanies)
	app.Post("/companies/recent/clear", signedIn, s.ClearRecentSearches)
}

// AdminScreensEnabled hides the moderation screens unless the admin_screens flag is on for the user.
func (s *Server) AdminScreensEnabled() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.adminScreens(c) {
			return fiber.ErrNotFound
		}
		return c.Next()
	}
}

func (s *Server) adminScreens(c *fiber.Ctx) bool {
	sess := middleware.CurrentSession(c)
	return sess != nil && sess.User.Role == models.RoleAdmin &&
		s.featureFlags.Enabled(featureflags.AdminScreens, sess.User.ID)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck verifies the local store round-trips a value.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Set(ctx, "health", "ready", "ok", time.Minute); err != nil {
		storeStatus = "unhealthy"
	} else if _, err := s.store.Get(ctx, "health", "ready"); err != nil {
		storeStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overall := "ready"
	if storeStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "not ready"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":      overall,
		"local_store": storeStatus,
		"driver":      s.config.LocalStoreDriver,
		"api":         s.config.APIBaseURL,
		"flags":       s.featureFlags.Snapshot(""),
	})
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		observability.GlobalLogger.ErrorContext(c.UserContext(), "unhandled error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	if renderErr := s.render(c, code, "error", "Error", errorView{Status: code, Message: message}); renderErr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}

type errorView struct {
	Status  int
	Message string
}
