package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"careerhub/internal/config"
	"careerhub/internal/localstore"
	"careerhub/internal/middleware"
	"careerhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// testEnv is a fiber app wired to a fake backend.
type testEnv struct {
	t       *testing.T
	app     *fiber.App
	server  *Server
	backend *httptest.Server
}

func newTestEnv(t *testing.T, backend http.Handler, flags string) *testEnv {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		role, _, _ := strings.Cut(body.Email, "@")
		if models.Role(role) != models.RoleStudent && models.Role(role) != models.RoleRecruiter && models.Role(role) != models.RoleAdmin {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, models.LoginResponse{
			AccessToken: "opaque-" + role,
			TokenType:   "bearer",
			User:        models.User{ID: role + "-1", Email: body.Email, FullName: "Test " + role, Role: models.Role(role)},
		})
	})
	if backend != nil {
		mux.Handle("/", backend)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Port:              "0",
		Env:               "test",
		APIBaseURL:        srv.URL,
		APITimeoutSeconds: 5,
		SessionTTLHours:   1,
		LocalStoreDriver:  "memory",
		FeatureFlags:      flags,
	}
	s, err := NewServerWithDeps(cfg, localstore.NewMemoryStore(), srv.Client())
	require.NoError(t, err)
	t.Cleanup(func() { s.shutdownFn() })

	return &testEnv{t: t, app: s.NewApp(), server: s, backend: srv}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// login signs in as the role encoded in the email's local part and returns the session cookie.
func (e *testEnv) login(role models.Role) *http.Cookie {
	e.t.Helper()
	resp := e.postForm("/login", url.Values{"email": {string(role) + "@example.com"}, "password": {"secret"}}, nil)
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			return c
		}
	}
	e.t.Fatal("no session cookie issued")
	return nil
}

func (e *testEnv) do(req *http.Request, cookie *http.Cookie) *http.Response {
	e.t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(path string, cookie *http.Cookie) *http.Response {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookie)
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookie)
}

func (e *testEnv) postFile(path, field, name string, content []byte, cookie *http.Cookie) *http.Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(e.t, err)
	_, err = part.Write(content)
	require.NoError(e.t, err)
	require.NoError(e.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(req, cookie)
}

// follow issues the GET a 303 points to.
func (e *testEnv) follow(resp *http.Response, cookie *http.Cookie) *http.Response {
	e.t.Helper()
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode)
	return e.get(resp.Header.Get("Location"), cookie)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
