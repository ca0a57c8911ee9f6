package models

import "time"

// ReviewQueue is the body of GET /admin/review-queue.
type ReviewQueue struct {
	Jobs       []Job            `json:"jobs"`
	Recruiters []RecruiterEntry `json:"recruiters"`
}

// RecruiterEntry is a recruiter awaiting verification.
type RecruiterEntry struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ModerationInput carries an optional reason for reject/suspend actions.
type ModerationInput struct {
	Reason string `json:"reason,omitempty"`
}
