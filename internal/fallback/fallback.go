// Package fallback holds the static demo datasets served when the backend cannot be reached.
package fallback

import (
	"embed"
	"fmt"
	"sync"

	"careerhub/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

// Gaps is the demo payload of the skill-gap screen.
type Gaps struct {
	Gaps            []models.SkillGap          `yaml:"gaps"`
	Recommendations []models.GapRecommendation `yaml:"recommendations"`
}

type datasets struct {
	posts         []models.Post
	notifications []models.Notification
	gaps          Gaps
	paths         []models.LearningPath
}

var (
	once    sync.Once
	loaded  datasets
	errLoad error
)

func load() (datasets, error) {
	once.Do(func() {
		var d datasets
		if err := decode("data/posts.yaml", &d.posts); err != nil {
			errLoad = err
			return
		}
		if err := decode("data/notifications.yaml", &d.notifications); err != nil {
			errLoad = err
			return
		}
		if err := decode("data/gaps.yaml", &d.gaps); err != nil {
			errLoad = err
			return
		}
		if err := decode("data/planner.yaml", &d.paths); err != nil {
			errLoad = err
			return
		}
		loaded = d
	})
	return loaded, errLoad
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Posts returns a copy of the demo feed.
func Posts() ([]models.Post, error) {
	d, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]models.Post, len(d.posts))
	for i, p := range d.posts {
		p.Tags = append([]string(nil), p.Tags...)
		p.Likes = append([]string(nil), p.Likes...)
		p.Comments = append([]models.Comment(nil), p.Comments...)
		out[i] = p
	}
	return out, nil
}

// Notifications returns a copy of the demo inbox.
func Notifications() ([]models.Notification, error) {
	d, err := load()
	if err != nil {
		return nil, err
	}
	return append([]models.Notification(nil), d.notifications...), nil
}

// SkillGaps returns a copy of the demo gap analysis.
func SkillGaps() (Gaps, error) {
	d, err := load()
	if err != nil {
		return Gaps{}, err
	}
	return Gaps{
		Gaps:            append([]models.SkillGap(nil), d.gaps.Gaps...),
		Recommendations: append([]models.GapRecommendation(nil), d.gaps.Recommendations...),
	}, nil
}

// LearningPaths returns a copy of the demo planner.
func LearningPaths() ([]models.LearningPath, error) {
	d, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]models.LearningPath, len(d.paths))
	for i, p := range d.paths {
		p.Stages = append([]models.Stage(nil), p.Stages...)
		out[i] = p
	}
	return out, nil
}
