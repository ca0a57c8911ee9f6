package models

import "strings"

// LearningPath is a generated plan for acquiring one skill.
type LearningPath struct {
	ID     string  `json:"id" yaml:"id"`
	Skill  string  `json:"skill" yaml:"skill"`
	Stages []Stage `json:"stages" yaml:"stages"`
}

// Stage is one ordered unit of a learning path.
type Stage struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Resources   []Resource `json:"resources" yaml:"resources"`
	Completed   bool       `json:"completed" yaml:"completed"`
}

// Resource is a link attached to a stage.
type Resource struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
	Kind  string `json:"type,omitempty" yaml:"type"`
}

// Progress returns completed and total stage counts.
func (p LearningPath) Progress() (done, total int) {
	for _, s := range p.Stages {
		if s.Completed {
			done++
		}
	}
	return done, len(p.Stages)
}

// Percent returns the completion percentage rounded down.
func (p LearningPath) Percent() int {
	done, total := p.Progress()
	if total == 0 {
		return 0
	}
	return done * 100 / total
}

// GeneratePathInput is the payload of POST /learning/paths/generate.
type GeneratePathInput struct {
	Skill string `json:"skill"`
}

// NewGeneratePathInput validates the requested skill.
func NewGeneratePathInput(skill string) (GeneratePathInput, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return GeneratePathInput{}, NewValidationError("Enter a skill to generate a path")
	}
	return GeneratePathInput{Skill: skill}, nil
}

// CompleteStageInput is the payload of POST /learning/paths/{id}/complete-stage.
type CompleteStageInput struct {
	StageIndex int `json:"stage_index"`
}

// SkillGap is a skill the student lacks relative to their targets.
type SkillGap struct {
	Skill         string   `json:"skill" yaml:"skill"`
	CurrentLevel  int      `json:"current_level" yaml:"current_level"`
	RequiredLevel int      `json:"required_level" yaml:"required_level"`
	Priority      string   `json:"priority" yaml:"priority"`
	DemandedBy    []string `json:"demanded_by" yaml:"demanded_by"`
}

// Gap returns how many levels are missing.
func (g SkillGap) Gap() int {
	if d := g.RequiredLevel - g.CurrentLevel; d > 0 {
		return d
	}
	return 0
}

// GapRecommendation suggests a course or action for a gap.
type GapRecommendation struct {
	Skill     string     `json:"skill" yaml:"skill"`
	Reason    string     `json:"reason" yaml:"reason"`
	Resources []Resource `json:"resources" yaml:"resources"`
}
