// Package session keeps the signed-in user of each browser session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"careerhub/internal/api"
	"careerhub/internal/localstore"
	"careerhub/internal/models"
	"careerhub/internal/observability"
	"careerhub/internal/viewmodel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const namespace = "session"

// ErrNoSession is returned when the session is unknown or its token has expired.
var ErrNoSession = errors.New("session: not signed in")

// Session is the token and identity bound to one browser cookie.
type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Context returns ctx carrying the session token for backend calls and the user for logs.
func (s *Session) Context(ctx context.Context) context.Context {
	ctx = api.WithToken(ctx, s.Token)
	return observability.WithUserID(ctx, s.User.ID)
}

// Authenticator is the part of the auth adapter the provider needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.LoginResponse, error)
	Me(ctx context.Context) (models.User, error)
}

// Provider creates, resolves and ends sessions.
type Provider struct {
	store   localstore.Store
	auth    Authenticator
	screens *viewmodel.Registry
	ttl     time.Duration
	now     func() time.Time
}

// NewProvider creates a provider. screens may be nil.
func NewProvider(store localstore.Store, auth Authenticator, screens *viewmodel.Registry, ttl time.Duration) *Provider {
	return &Provider{store: store, auth: auth, screens: screens, ttl: ttl, now: time.Now}
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login authenticates against the backend and stores a new session.
func (p *Provider) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := p.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, models.NewUnauthorizedError("Login response carried no token")
	}

	now := p.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Token:     resp.AccessToken,
		User:      resp.User,
		ExpiresAt: now.Add(p.ttl),
	}
	p.applyClaims(ctx, sess)

	if sess.User.ID == "" || sess.User.Role == "" {
		me, err := p.auth.Me(api.WithToken(ctx, sess.Token))
		if err != nil {
			return nil, err
		}
		sess.User = me
	}
	if !sess.ExpiresAt.After(now) {
		return nil, models.NewUnauthorizedError("Session token has already expired")
	}

	if err := p.save(ctx, sess); err != nil {
		return nil, err
	}
	observability.GlobalLogger.InfoContext(ctx, "user signed in",
		slog.String("user_id", sess.User.ID),
		slog.String("role", string(sess.User.Role)),
	)
	return sess, nil
}

// applyClaims fills identity gaps from the token and caps the session at the token expiry.
// The signature is not checked here; the backend verifies every call.
func (p *Provider) applyClaims(ctx context.Context, sess *Session) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(sess.Token, &claims); err != nil {
		observability.GlobalLogger.DebugContext(ctx, "access token is not a JWT", slog.String("error", err.Error()))
		return
	}
	if sess.User.ID == "" && claims.Subject != "" {
		sess.User.ID = claims.Subject
	}
	if sess.User.Role == "" && claims.Role != "" {
		sess.User.Role = models.Role(claims.Role)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(sess.ExpiresAt) {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
}

func (p *Provider) save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return models.NewInternalError(err)
	}
	ttl := sess.ExpiresAt.Sub(p.now())
	if err := p.store.Set(ctx, namespace, sess.ID, string(raw), ttl); err != nil {
		return models.NewInternalError(fmt.Errorf("store session: %w", err))
	}
	return nil
}

// Get resolves a session id from the cookie.
func (p *Provider) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	raw, err := p.store.Get(ctx, namespace, id)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("load session: %w", err))
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		_ = p.store.Delete(ctx, namespace, id)
		return nil, ErrNoSession
	}
	if !p.now().Before(sess.ExpiresAt) {
		_ = p.Logout(ctx, id)
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Logout deletes the session and forgets its screen state.
func (p *Provider) Logout(ctx context.Context, id string) error {
	if p.screens != nil {
		p.screens.Drop(id)
	}
	if id == "" {
		return nil
	}
	return p.store.Delete(ctx, namespace, id)
}
