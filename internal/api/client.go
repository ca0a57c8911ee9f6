// Package api holds the service adapters: one thin typed wrapper per backend resource, sharing a
// Client that owns the base URL, bearer token injection and error normalization.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"careerhub/internal/featureflags"
	"careerhub/internal/models"
	"careerhub/internal/observability"

	goerrors "github.com/go-errors/errors"
	"github.com/google/uuid"
)

type tokenKey struct{}

// WithToken returns a context whose backend calls carry token as a bearer credential.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token set by WithToken.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}

// Client performs JSON calls against the career platform REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	flags      *featureflags.Manager
}

// NewClient creates a client for baseURL. A nil httpClient uses a client with a 15s timeout.
func NewClient(baseURL string, httpClient *http.Client, flags *featureflags.Manager) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
		flags:      flags,
	}
}

// call describes one backend request.
type call struct {
	resource string
	method   string
	path     string
	query    url.Values
	body     any
	// failMsg is shown when an error response carries no message of its own.
	failMsg string
}

// do sends a JSON request and decodes a 2xx body into out (which may be nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return models.NewInternalError(fmt.Errorf("encode %s request: %w", cl.resource, err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, cl, reader)
	if err != nil {
		return err
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(ctx, cl, req, out)
}

// upload sends a multipart/form-data request with a single file part.
func (c *Client) upload(ctx context.Context, cl call, field, fileName string, content []byte, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, fileName)
	if err != nil {
		return models.NewInternalError(fmt.Errorf("create form file: %w", err))
	}
	if _, err := part.Write(content); err != nil {
		return models.NewInternalError(fmt.Errorf("write form file: %w", err))
	}
	if err := w.Close(); err != nil {
		return models.NewInternalError(fmt.Errorf("close multipart writer: %w", err))
	}

	req, err := c.newRequest(ctx, cl, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(ctx, cl, req, out)
}

func (c *Client) newRequest(ctx context.Context, cl call, body io.Reader) (*http.Request, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("create %s request: %w", cl.resource, err))
	}
	req.Header.Set("Accept", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := observability.ExtractRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)
	return req, nil
}

func (c *Client) send(ctx context.Context, cl call, req *http.Request, out any) (err error) {
	ctx, span := observability.TraceAPICall(ctx, cl.resource, cl.method, cl.path)
	defer func() { observability.EndSpan(span, err) }()
	req = req.WithContext(ctx)

	logger := observability.NewAPILogger(cl.resource)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	observability.APILatency.WithLabelValues(cl.resource, cl.method).Observe(elapsed.Seconds())
	if err != nil {
		observability.APIRequests.WithLabelValues(cl.resource, cl.method, observability.StatusOutcome(0)).Inc()
		netErr := networkError(err, cl.failMsg)
		logger.LogError(ctx, cl.method, cl.path, netErr)
		return netErr
	}
	defer resp.Body.Close()

	observability.APIRequests.WithLabelValues(cl.resource, cl.method, observability.StatusOutcome(resp.StatusCode)).Inc()
	logger.LogCall(ctx, cl.method, cl.path, resp.StatusCode, elapsed)

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		netErr := networkError(fmt.Errorf("read %s response: %w", cl.resource, err), cl.failMsg)
		logger.LogError(ctx, cl.method, cl.path, netErr)
		return netErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &models.APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(payload, cl.failMsg),
		}
		logger.LogError(ctx, cl.method, cl.path, apiErr)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return models.NewInternalError(fmt.Errorf("decode %s response: %w", cl.resource, err))
	}
	return nil
}

// networkError classifies a failed round trip. A caller that gave up is not a transport failure
// and is returned as is, so it never triggers demo data.
func networkError(cause error, failMsg string) error {
	if errors.Is(cause, context.Canceled) {
		return cause
	}
	wrapped := goerrors.Wrap(cause, 2)
	return &models.APIError{
		Message: failMsg,
		Network: true,
		Err:     cause,
		Stack:   wrapped.Stack(),
	}
}

// errorMessage extracts the human message of an error body: detail, then message, then error.
func errorMessage(payload []byte, fallback string) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return fallback
	}
	if len(body.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(body.Detail, &detail); err == nil && strings.TrimSpace(detail) != "" {
			return detail
		}
	}
	if strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	if strings.TrimSpace(body.Error) != "" {
		return body.Error
	}
	return fallback
}

// fallbackEnabled reports whether demo data may replace an unreachable backend for the caller.
func (c *Client) fallbackEnabled(ctx context.Context) bool {
	subject, _ := ctx.Value(observability.UserIDKey).(string)
	return c.flags.Enabled(featureflags.DemoFallback, subject)
}

// withFallback returns demo data in place of err when err is a transport failure and the
// demo_fallback flag is on. HTTP errors are never replaced.
func withFallback[T any](ctx context.Context, c *Client, resource, operation string, err error, demo func() (T, error)) (T, error) {
	var zero T
	if !errors.Is(err, models.ErrNetwork) || errors.Is(err, context.Canceled) || !c.fallbackEnabled(ctx) {
		return zero, err
	}
	data, demoErr := demo()
	if demoErr != nil {
		return zero, err
	}
	observability.APIFallbacks.WithLabelValues(resource).Inc()
	observability.NewAPILogger(resource).LogFallback(ctx, operation, err)
	return data, nil
}

func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	q.Set("skip", fmt.Sprint(skip))
	q.Set("limit", fmt.Sprint(limit))
	return q
}

func window[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
