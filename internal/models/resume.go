package models

import "time"

// ResumeResult is the parsed resume returned by upload and recalculate.
type ResumeResult struct {
	ID          string          `json:"id"`
	FileName    string          `json:"file_name"`
	Skills      []string        `json:"skills"`
	Education   []string        `json:"education"`
	Experience  []ExperienceRow `json:"experience"`
	Score       float64         `json:"score"`
	Suggestions []string        `json:"suggestions"`
	ParsedAt    time.Time       `json:"parsed_at"`
	ResumeURL   string          `json:"resume_url"`
}

// ExperienceRow is a single experience entry extracted from a resume.
type ExperienceRow struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Period  string `json:"period"`
}
