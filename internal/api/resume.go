package api

import (
	"context"
	"net/http"

	"careerhub/internal/models"
	"careerhub/internal/upload"
)

// ResumeService wraps resume parsing.
type ResumeService struct {
	c *Client
}

// Upload validates the file locally and then posts it as the multipart "file" field.
// An invalid file never reaches the network.
func (s *ResumeService) Upload(ctx context.Context, name string, content []byte) (models.ResumeResult, error) {
	f, err := upload.Validate(name, content)
	if err != nil {
		return models.ResumeResult{}, err
	}
	var out models.ResumeResult
	err = s.c.upload(ctx, call{
		resource: "resume",
		method:   http.MethodPost,
		path:     "/resume/upload",
		failMsg:  "Failed to upload resume",
	}, "file", f.Name, f.Content, &out)
	return out, err
}

// Recalculate re-runs scoring on the stored resume.
func (s *ResumeService) Recalculate(ctx context.Context) (models.ResumeResult, error) {
	var out models.ResumeResult
	err := s.c.do(ctx, call{
		resource: "resume",
		method:   http.MethodPost,
		path:     "/resume/recalculate",
		failMsg:  "Failed to recalculate resume score",
	}, &out)
	return out, err
}
