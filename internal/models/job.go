package models

import (
	"strings"
	"time"
)

// Job is a posting created by a recruiter.
type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	SkillsRequired []string  `json:"skills_required"`
	Location       string    `json:"location"`
	RecruiterID    string    `json:"recruiter_id"`
	CompanyName    string    `json:"company_name"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// JobInput is the payload of POST /jobs.
type JobInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	SkillsRequired []string `json:"skills_required"`
	Location       string   `json:"location"`
	CompanyName    string   `json:"company_name"`
}

// Validate checks the required recruiter form fields.
func (in JobInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return NewValidationError("Job title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return NewValidationError("Job description is required")
	}
	return nil
}

// JobFilter narrows the student job feed. It is comparable so it can drive a container reload.
type JobFilter struct {
	Keyword  string
	Location string
}

// JobMatch is one candidate returned by GET /jobs/{id}/matches.
type JobMatch struct {
	StudentID     string   `json:"student_id"`
	StudentName   string   `json:"student_name"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

// ApplicationStage is the recruiter pipeline position of an application.
type ApplicationStage string

const (
	StageApplied   ApplicationStage = "applied"
	StageScreening ApplicationStage = "screening"
	StageInterview ApplicationStage = "interview"
	StageOffer     ApplicationStage = "offer"
	StageHired     ApplicationStage = "hired"
	StageRejected  ApplicationStage = "rejected"
)

// ApplicationStages lists the stages in pipeline order.
var ApplicationStages = []ApplicationStage{
	StageApplied, StageScreening, StageInterview, StageOffer, StageHired, StageRejected,
}

// ParseStage validates a stage submitted from a form.
func ParseStage(raw string) (ApplicationStage, error) {
	s := ApplicationStage(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range ApplicationStages {
		if s == known {
			return s, nil
		}
	}
	return "", NewValidationError("Unknown application stage")
}

// Application is a student's application to a job.
type Application struct {
	ID          string           `json:"id"`
	JobID       string           `json:"job_id,omitempty"`
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name,omitempty"`
	Message     string           `json:"message"`
	ResumeURL   string           `json:"resume_url"`
	Stage       ApplicationStage `json:"stage"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ApplyInput is the payload of POST /jobs/{id}/apply.
type ApplyInput struct {
	Message   string `json:"message"`
	ResumeURL string `json:"resume_url,omitempty"`
}
