package models

import (
	"strings"
	"time"
)

// Post is a social feed entry written by a student.
type Post struct {
	ID         string    `json:"id" yaml:"id"`
	Content    string    `json:"content" yaml:"content"`
	Tags       []string  `json:"tags" yaml:"tags"`
	AuthorID   string    `json:"author_id" yaml:"author_id"`
	AuthorName string    `json:"author_name" yaml:"author_name"`
	AuthorRole string    `json:"author_role,omitempty" yaml:"author_role"`
	Likes      []string  `json:"likes" yaml:"likes"`
	Comments   []Comment `json:"comments" yaml:"comments"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Comment is attached to a post.
type Comment struct {
	ID         string    `json:"id" yaml:"id"`
	Text       string    `json:"text" yaml:"text"`
	AuthorName string    `json:"author_name,omitempty" yaml:"author_name"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// PostInput is the write payload for creating or editing a post.
type PostInput struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// LikedBy reports whether userID appears in the post's likes.
func (p Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike flips userID's like on a copy of the post.
func (p Post) ToggleLike(userID string) Post {
	likes := make([]string, 0, len(p.Likes)+1)
	found := false
	for _, id := range p.Likes {
		if id == userID {
			found = true
			continue
		}
		likes = append(likes, id)
	}
	if !found {
		likes = append(likes, userID)
	}
	p.Likes = likes
	return p
}

// ParseTags splits a comma separated tag field. Entries are trimmed and empty ones dropped;
// duplicates are kept in input order.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NewPostInput validates the create/edit form fields.
func NewPostInput(content, rawTags string) (PostInput, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return PostInput{}, NewValidationError("Post content is required")
	}
	return PostInput{Content: content, Tags: ParseTags(rawTags)}, nil
}
