package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"careerhub/internal/middleware"
	"careerhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"login", "error", "feed", "jobs", "my_jobs", "matches", "applications", "notifications",
	"learning", "gaps", "resume", "scorecards", "admin", "companies",
}

var notices = map[string]string{
	"applied":             "Application sent.",
	"job_created":         "Job posted.",
	"scorecard_submitted": "Scorecard submitted.",
	"resume_uploaded":     "Resume analysed.",
	"session_expired":     "Your session has expired. Sign in again.",
}

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"join":   strings.Join,
	"stages": func() []models.ApplicationStage { return models.ApplicationStages },
	"pct":    func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
}

type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// page is the root value every template renders.
type page struct {
	Title     string
	User      *models.User
	ShowAdmin bool
	Notice    string
	Data      any
}

func (s *Server) render(c *fiber.Ctx, status int, name, title string, data any) error {
	t, ok := s.views.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	p := page{Title: title, Data: data, Notice: notices[c.Query("notice")]}
	if sess := middleware.CurrentSession(c); sess != nil {
		user := sess.User
		p.User = &user
		p.ShowAdmin = s.adminScreens(c)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return err
	}
	c.Status(status)
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// redirectSynced sends the browser back to a screen whose container was already reloaded by the
// mutation, so the follow-up GET renders without fetching again.
func redirectSynced(c *fiber.Ctx, path string, query url.Values) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("synced", "1")
	return c.Redirect(path+"?"+query.Encode(), fiber.StatusSeeOther)
}

func homeFor(user models.User, adminScreens bool) string {
	switch user.Role {
	case models.RoleRecruiter:
		return "/jobs/mine"
	case models.RoleAdmin:
		if adminScreens {
			return "/admin"
		}
	}
	return "/feed"
}
