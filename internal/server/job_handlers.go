package server

import (
	"context"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"careerhub/internal/models"
	"careerhub/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

type jobsView struct {
	State    viewmodel.PageState[models.Job]
	Filter   models.JobFilter
	NextPage int
	// ApplyID is the job whose apply form is open.
	ApplyID string
}

// PageURL links to the feed with the current filter, extended to page.
func (v jobsView) PageURL(page int) template.URL {
	return template.URL("/jobs?" + filterQuery(v.Filter, page).Encode())
}

// ApplyURL opens the apply form of a job without reloading the feed.
func (v jobsView) ApplyURL(id string) template.URL {
	q := filterQuery(v.Filter, v.State.Page)
	q.Set("apply", id)
	q.Set("synced", "1")
	return template.URL("/jobs?" + q.Encode())
}

func filterQuery(f models.JobFilter, page int) url.Values {
	q := url.Values{}
	if f.Keyword != "" {
		q.Set("keyword", f.Keyword)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

func jobFilter(keyword, location string) models.JobFilter {
	return models.JobFilter{Keyword: strings.TrimSpace(keyword), Location: strings.TrimSpace(location)}
}

// GetJobs renders the student job feed. ?page=N extends the loaded list by one page towards N.
func (s *Server) GetJobs(c *fiber.Ctx) error {
	pager := s.jobFeed(c)
	ctx := c.UserContext()
	filter := jobFilter(c.Query("keyword"), c.Query("location"))
	page := c.QueryInt("page", 0)

	var err error
	st := pager.State()
	if st.Status == viewmodel.Idle || pager.Params() != filter || (page == 0 && !c.QueryBool("synced")) {
		err = pager.Reset(ctx, filter)
	}
	// At most one page per request: the link always points at the page after the last one held.
	if st = pager.State(); err == nil && st.Page < page && st.HasMore && st.Status == viewmodel.Success {
		err = pager.LoadMore(ctx)
	}
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	st = pager.State()

	return s.render(c, fiber.StatusOK, "jobs", "Jobs", jobsView{
		State:    st,
		Filter:   filter,
		NextPage: st.Page + 1,
		ApplyID:  c.Query("apply"),
	})
}

// ApplyJob submits an application from the job feed.
func (s *Server) ApplyJob(c *fiber.Ctx) error {
	pager := s.jobFeed(c)
	filter := jobFilter(c.FormValue("keyword"), c.FormValue("location"))
	q := filterQuery(filter, c.QueryInt("page", pager.State().Page))

	err := s.services.Jobs.Apply(c.UserContext(), c.Params("id"), models.ApplyInput{
		Message:   strings.TrimSpace(c.FormValue("message")),
		ResumeURL: strings.TrimSpace(c.FormValue("resume_url")),
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	if err != nil {
		pager.Fail(err)
		q.Set("apply", c.Params("id"))
		return redirectSynced(c, "/jobs", q)
	}
	q.Set("notice", "applied")
	return redirectSynced(c, "/jobs", q)
}

type myJobsView struct {
	State viewmodel.State[[]models.Job]
}

func (s *Server) GetMyJobs(c *fiber.Ctx) error {
	screen := s.myJobsScreen(c)
	if err := mount(c, screen, none{}); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return s.render(c, fiber.StatusOK, "my_jobs", "My jobs", myJobsView{State: screen.State()})
}

func (s *Server) CreateJob(c *fiber.Ctx) error {
	screen := s.myJobsScreen(c)
	in := models.JobInput{
		Title:          strings.TrimSpace(c.FormValue("title")),
		Description:    strings.TrimSpace(c.FormValue("description")),
		SkillsRequired: models.ParseTags(c.FormValue("skills")),
		Location:       strings.TrimSpace(c.FormValue("location")),
		CompanyName:    strings.TrimSpace(c.FormValue("company_name")),
	}
	if err := in.Validate(); err != nil {
		screen.Fail(err)
		return redirectSynced(c, "/jobs/mine", nil)
	}
	err := screen.Mutate(c.UserContext(), func(ctx context.Context) error {
		_, err := s.services.Jobs.Create(ctx, in)
		return err
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	if err != nil {
		return redirectSynced(c, "/jobs/mine", nil)
	}
	return redirectSynced(c, "/jobs/mine", url.Values{"notice": {"job_created"}})
}

func (s *Server) DeleteJob(c *fiber.Ctx) error {
	screen := s.myJobsScreen(c)
	id := c.Params("id")
	err := screen.Mutate(c.UserContext(), func(ctx context.Context) error {
		return s.services.Jobs.Delete(ctx, id)
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/jobs/mine", nil)
}

type matchesView struct {
	JobID string
	State viewmodel.State[[]models.JobMatch]
}

func (s *Server) GetMatches(c *fiber.Ctx) error {
	screen := s.matchesScreen(c)
	jobID := c.Params("id")
	if err := mount(c, screen, jobID); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return s.render(c, fiber.StatusOK, "matches", "Matches", matchesView{JobID: jobID, State: screen.State()})
}

type applicationsView struct {
	JobID string
	State viewmodel.State[[]models.Application]
}

func (s *Server) GetApplications(c *fiber.Ctx) error {
	screen := s.applicationsScreen(c)
	jobID := c.Params("id")
	if err := mount(c, screen, jobID); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return s.render(c, fiber.StatusOK, "applications", "Applications", applicationsView{JobID: jobID, State: screen.State()})
}

// UpdateStage moves an application through the hiring pipeline and reloads the list.
func (s *Server) UpdateStage(c *fiber.Ctx) error {
	screen := s.applicationsScreen(c)
	jobID := c.Params("id")
	appID := c.Params("appId")
	back := "/jobs/" + url.PathEscape(jobID) + "/applications"

	stage, err := models.ParseStage(c.FormValue("stage"))
	if err != nil {
		screen.Fail(err)
		return redirectSynced(c, back, nil)
	}
	err = screen.Mutate(c.UserContext(), func(ctx context.Context) error {
		return s.services.Jobs.UpdateStage(ctx, jobID, appID, stage)
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, back, nil)
}
