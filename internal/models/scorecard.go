package models

import (
	"fmt"
	"strings"
)

// Decision is the interviewer's final call on a scorecard.
type Decision string

const (
	DecisionPass   Decision = "pass"
	DecisionHold   Decision = "hold"
	DecisionReject Decision = "reject"
)

// ParseDecision validates a decision submitted from a form.
func ParseDecision(raw string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(raw))); d {
	case DecisionPass, DecisionHold, DecisionReject:
		return d, nil
	default:
		return "", NewValidationError("Decision must be pass, hold or reject")
	}
}

// ScorecardTemplate declares the weighted criteria of an interview evaluation.
type ScorecardTemplate struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Criteria []Criterion `json:"criteria"`
}

// Criterion is one weighted line of a template.
type Criterion struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Weight      float64 `json:"weight"`
}

// Scorecard is the write-once payload of POST /scorecards.
type Scorecard struct {
	TemplateID    string           `json:"template_id"`
	ApplicationID string           `json:"application_id"`
	Decision      Decision         `json:"decision"`
	Feedback      string           `json:"feedback"`
	Scores        []CriterionScore `json:"scores"`
}

// CriterionScore is the rating given for one criterion.
type CriterionScore struct {
	Criterion string  `json:"criterion"`
	Score     int     `json:"score"`
	Weight    float64 `json:"weight"`
}

const (
	minRating = 1
	maxRating = 5
)

// BuildScorecard assembles a submission with one score per template criterion, in template order,
// carrying the rating chosen for it and the weight the template declares.
func BuildScorecard(tpl ScorecardTemplate, applicationID string, decision Decision, ratings map[string]int, feedback string) (Scorecard, error) {
	if strings.TrimSpace(applicationID) == "" {
		return Scorecard{}, NewValidationError("Application is required")
	}
	d, err := ParseDecision(string(decision))
	if err != nil {
		return Scorecard{}, err
	}
	if len(tpl.Criteria) == 0 {
		return Scorecard{}, NewValidationError("Template has no criteria")
	}

	scores := make([]CriterionScore, 0, len(tpl.Criteria))
	for _, c := range tpl.Criteria {
		rating, ok := ratings[c.Name]
		if !ok {
			return Scorecard{}, NewValidationError(fmt.Sprintf("Rate %q before submitting", c.Name))
		}
		if rating < minRating || rating > maxRating {
			return Scorecard{}, NewValidationError(fmt.Sprintf("Rating for %q must be between %d and %d", c.Name, minRating, maxRating))
		}
		scores = append(scores, CriterionScore{Criterion: c.Name, Score: rating, Weight: c.Weight})
	}

	return Scorecard{
		TemplateID:    tpl.ID,
		ApplicationID: applicationID,
		Decision:      d,
		Feedback:      strings.TrimSpace(feedback),
		Scores:        scores,
	}, nil
}

// WeightedScore returns the weight-normalized average rating.
func (s Scorecard) WeightedScore() float64 {
	var sum, weights float64
	for _, sc := range s.Scores {
		sum += float64(sc.Score) * sc.Weight
		weights += sc.Weight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}
