// Package models contains the data structures exchanged with the career platform backend.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// AppError represents a client-side application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal error",
		Err:     err,
	}
}

// ErrNetwork matches any APIError produced by a transport failure (no HTTP response at all).
var ErrNetwork = errors.New("network error")

// APIError is the normalized error returned by every service adapter call.
type APIError struct {
	Status  int
	Message string
	Network bool
	Err     error
	Stack   []byte
}

func (e *APIError) Error() string {
	if e.Network {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNetwork) match transport failures.
func (e *APIError) Is(target error) bool {
	return target == ErrNetwork && e.Network
}

// IsUnauthorized reports whether the backend rejected the bearer token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == 401
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == "UNAUTHORIZED"
	}
	return false
}

// UserMessage returns the text shown inline on a screen for err.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Network {
			return "Unable to reach the server. Check your connection and retry."
		}
		if strings.TrimSpace(apiErr.Message) != "" {
			return apiErr.Message
		}
		return fallback
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "INTERNAL_ERROR" {
		return appErr.Message
	}
	return fallback
}
