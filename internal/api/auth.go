package api

import (
	"context"
	"net/http"
	"strings"

	"careerhub/internal/models"
)

// AuthService signs users in against the backend.
type AuthService struct {
	c *Client
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.LoginResponse{}, models.NewValidationError("Email and password are required")
	}
	var out models.LoginResponse
	err := s.c.do(ctx, call{
		resource: "auth",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     loginRequest{Email: email, Password: password},
		failMsg:  "Invalid email or password",
	}, &out)
	return out, err
}

// Me returns the account behind the context token.
func (s *AuthService) Me(ctx context.Context) (models.User, error) {
	var out models.User
	err := s.c.do(ctx, call{
		resource: "auth",
		method:   http.MethodGet,
		path:     "/auth/me",
		failMsg:  "Failed to load profile",
	}, &out)
	return out, err
}
