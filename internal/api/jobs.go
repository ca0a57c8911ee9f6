package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"careerhub/internal/models"
)

// JobService wraps the job board and recruiter pipeline endpoints.
type JobService struct {
	c *Client
}

// List returns one page of open jobs matching filter.
func (s *JobService) List(ctx context.Context, skip, limit int, filter models.JobFilter) ([]models.Job, error) {
	q := pageQuery(skip, limit)
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		q.Set("keyword", kw)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		q.Set("location", loc)
	}
	var out []models.Job
	err := s.c.do(ctx, call{
		resource: "jobs",
		method:   http.MethodGet,
		path:     "/jobs",
		query:    q,
		failMsg:  "Failed to load jobs",
	}, &out)
	if out == nil {
		out = []models.Job{}
	}
	return out, err
}

func (s *JobService) Create(ctx context.Context, in models.JobInput) (models.Job, error) {
	if err := in.Validate(); err != nil {
		return models.Job{}, err
	}
	var out models.Job
	err := s.c.do(ctx, call{
		resource: "jobs",
		method:   http.MethodPost,
		path:     "/jobs",
		body:     in,
		failMsg:  "Failed to create job",
	}, &out)
	return out, err
}

// Mine returns the jobs posted by the signed-in recruiter.
func (s *JobService) Mine(ctx context.Context) ([]models.Job, error) {
	var out []models.Job
	err := s.c.do(ctx, call{
		resource: "jobs",
		method:   http.MethodGet,
		path:     "/jobs/my",
		failMsg:  "Failed to load your jobs",
	}, &out)
	if out == nil {
		out = []models.Job{}
	}
	return out, err
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, call{
		resource: "jobs",
		method:   http.MethodDelete,
		path:     "/jobs/" + url.PathEscape(id),
		failMsg:  "Failed to delete job",
	}, nil)
}

// Matches returns the ranked candidates for a job.
func (s *JobService) Matches(ctx context.Context, id string) ([]models.JobMatch, error) {
	var out []models.JobMatch
	err := s.c.do(ctx, call{
		resource: "jobs",
		method:   http.MethodGet,
		path:     "/jobs/" + url.PathEscape(id) + "/matches",
		failMsg:  "Failed to load matches",
	}, &out)
	if out == nil {
		out = []models.JobMatch{}
	}
	return out, err
}

func (s *JobService) Apply(ctx context.Context, id string, in models.ApplyInput) error {
	return s.c.do(ctx, call{
		resource: "jobs",
		method:   http.MethodPost,
		path:     "/jobs/" + url.PathEscape(id) + "/apply",
		body:     in,
		failMsg:  "Failed to submit application",
	}, nil)
}

// Applications lists the applications received for a job.
func (s *JobService) Applications(ctx context.Context, id string) ([]models.Application, error) {
	var out []models.Application
	err := s.c.do(ctx, call{
		resource: "jobs",
		method:   http.MethodGet,
		path:     "/jobs/" + url.PathEscape(id) + "/applications",
		failMsg:  "Failed to load applications",
	}, &out)
	if out == nil {
		out = []models.Application{}
	}
	return out, err
}

type stageRequest struct {
	Stage models.ApplicationStage `json:"stage"`
}

// UpdateStage moves an application along the hiring pipeline.
func (s *JobService) UpdateStage(ctx context.Context, jobID, applicationID string, stage models.ApplicationStage) error {
	return s.c.do(ctx, call{
		resource: "jobs",
		method:   http.MethodPut,
		path:     "/jobs/" + url.PathEscape(jobID) + "/applications/" + url.PathEscape(applicationID) + "/stage",
		body:     stageRequest{Stage: stage},
		failMsg:  "Failed to update application stage",
	}, nil)
}
