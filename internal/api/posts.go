package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"careerhub/internal/fallback"
	"careerhub/internal/models"
)

// PostService wraps the social feed endpoints.
type PostService struct {
	c *Client
}

// List returns one page of the feed. On a network failure the demo posts are served when enabled.
func (s *PostService) List(ctx context.Context, skip, limit int) ([]models.Post, error) {
	var out []models.Post
	err := s.c.do(ctx, call{
		resource: "posts",
		method:   http.MethodGet,
		path:     "/posts",
		query:    pageQuery(skip, limit),
		failMsg:  "Failed to load posts",
	}, &out)
	if err != nil {
		return withFallback(ctx, s.c, "posts", "list", err, func() ([]models.Post, error) {
			posts, err := fallback.Posts()
			return window(posts, skip, limit), err
		})
	}
	if out == nil {
		out = []models.Post{}
	}
	return out, nil
}

// Create publishes a post.
func (s *PostService) Create(ctx context.Context, in models.PostInput) (models.Post, error) {
	var out models.Post
	err := s.c.do(ctx, call{
		resource: "posts",
		method:   http.MethodPost,
		path:     "/posts",
		body:     in,
		failMsg:  "Failed to create post",
	}, &out)
	return out, err
}

// Update replaces the content and tags of a post.
func (s *PostService) Update(ctx context.Context, id string, in models.PostInput) error {
	return s.c.do(ctx, call{
		resource: "posts",
		method:   http.MethodPut,
		path:     "/posts/" + url.PathEscape(id),
		body:     in,
		failMsg:  "Failed to update post",
	}, nil)
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, call{
		resource: "posts",
		method:   http.MethodDelete,
		path:     "/posts/" + url.PathEscape(id),
		failMsg:  "Failed to delete post",
	}, nil)
}

// ToggleLike likes the post, or unlikes it when the caller already liked it.
func (s *PostService) ToggleLike(ctx context.Context, id string) error {
	return s.c.do(ctx, call{
		resource: "posts",
		method:   http.MethodPost,
		path:     "/posts/" + url.PathEscape(id) + "/like",
		failMsg:  "Failed to like post",
	}, nil)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *PostService) AddComment(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.NewValidationError("Comment cannot be empty")
	}
	return s.c.do(ctx, call{
		resource: "posts",
		method:   http.MethodPost,
		path:     "/posts/" + url.PathEscape(id) + "/comments",
		body:     commentRequest{Text: text},
		failMsg:  "Failed to add comment",
	}, nil)
}
