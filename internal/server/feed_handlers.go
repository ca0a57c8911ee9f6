package server

import (
	"context"
	"net/url"

	"careerhub/internal/models"
	"careerhub/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

type feedView struct {
	State  viewmodel.State[[]models.Post]
	UserID string
	// EditID is the post whose edit form is open.
	EditID string
	// MenuID is the post whose action menu is open.
	MenuID string
}

// GetFeed renders the social feed.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	screen := s.feedScreen(c)
	if err := mount(c, screen, none{}); models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return s.render(c, fiber.StatusOK, "feed", "Feed", feedView{
		State:  screen.State(),
		UserID: userID(c),
		EditID: c.Query("edit"),
		MenuID: c.Query("menu"),
	})
}

func (s *Server) CreatePost(c *fiber.Ctx) error {
	screen := s.feedScreen(c)
	in, err := models.NewPostInput(c.FormValue("content"), c.FormValue("tags"))
	if err != nil {
		screen.Fail(err)
		return redirectSynced(c, "/feed", nil)
	}
	err = screen.Mutate(c.UserContext(), func(ctx context.Context) error {
		_, err := s.services.Posts.Create(ctx, in)
		return err
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/feed", nil)
}

// UpdatePost saves the edit buffer. The edit form stays open when the save fails.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	screen := s.feedScreen(c)
	id := c.Params("id")
	in, err := models.NewPostInput(c.FormValue("content"), c.FormValue("tags"))
	if err == nil {
		err = screen.Mutate(c.UserContext(), func(ctx context.Context) error {
			return s.services.Posts.Update(ctx, id, in)
		})
	} else {
		screen.Fail(err)
	}
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	if err != nil {
		return redirectSynced(c, "/feed", url.Values{"edit": {id}})
	}
	return redirectSynced(c, "/feed", nil)
}

func (s *Server) DeletePost(c *fiber.Ctx) error {
	screen := s.feedScreen(c)
	id := c.Params("id")
	err := screen.Mutate(c.UserContext(), func(ctx context.Context) error {
		return s.services.Posts.Delete(ctx, id)
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/feed", nil)
}

// LikePost toggles the like and patches the held post instead of reloading the feed.
func (s *Server) LikePost(c *fiber.Ctx) error {
	screen := s.feedScreen(c)
	id := c.Params("id")
	me := userID(c)
	err := screen.Patch(c.UserContext(), func(ctx context.Context) error {
		return s.services.Posts.ToggleLike(ctx, id)
	}, func(posts []models.Post) []models.Post {
		out := make([]models.Post, len(posts))
		for i, p := range posts {
			if p.ID == id {
				p = p.ToggleLike(me)
			}
			out[i] = p
		}
		return out
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/feed", nil)
}

func (s *Server) CommentPost(c *fiber.Ctx) error {
	screen := s.feedScreen(c)
	id := c.Params("id")
	text := c.FormValue("text")
	err := screen.Mutate(c.UserContext(), func(ctx context.Context) error {
		return s.services.Posts.AddComment(ctx, id, text)
	})
	if models.IsUnauthorized(err) {
		return s.expireSession(c)
	}
	return redirectSynced(c, "/feed", nil)
}
