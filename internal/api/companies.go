package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"careerhub/internal/models"
)

// CompanyService wraps company research.
type CompanyService struct {
	c *Client
}

// Research returns the profile of the named company.
func (s *CompanyService) Research(ctx context.Context, name string) (models.CompanyResearch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.CompanyResearch{}, models.NewValidationError("Enter a company name")
	}
	q := url.Values{}
	q.Set("name", name)
	var out models.CompanyResearch
	err := s.c.do(ctx, call{
		resource: "companies",
		method:   http.MethodGet,
		path:     "/companies/research",
		query:    q,
		failMsg:  "Failed to research company",
	}, &out)
	return out, err
}
