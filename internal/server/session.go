package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/favs/internal/shared"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LoginPath is where [SessionManager.Require] sends requests without a valid session.
const LoginPath = "/login"

// Session is the authenticated user attached to a request.
type Session struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored by [SessionManager.Require].
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies session cookies.
//
// The cookie value is an HS256 JWT: sub is the user ID, exp is an absolute
// deadline counted from login.
type SessionManager struct {
	secret     []byte
	cookieName string
	lifetime   time.Duration
	secure     bool
	logger     *log.Logger
	now        func() time.Time
}

// NewSessionManager creates a [SessionManager] from the [shared.SessionConfig] section.
func NewSessionManager(cfg shared.SessionConfig, logger *log.Logger) (*SessionManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: session secret is required", shared.ErrInvalidConfig)
	}

	name := cfg.CookieName
	if name == "" {
		name = "session"
	}

	return &SessionManager{
		secret:     []byte(cfg.Secret),
		cookieName: name,
		lifetime:   cfg.Lifetime(),
		secure:     cfg.Secure,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Start signs a token for the user and sets it as the session cookie.
func (m *SessionManager) Start(w http.ResponseWriter, userID, username string) (Session, error) {
	issued := m.now()
	expires := issued.Add(m.lifetime)

	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign session: %w", err)
	}

	http.SetCookie(w, m.cookie(token, int(m.lifetime.Seconds()), expires))
	return Session{UserID: userID, Username: username, ExpiresAt: expires}, nil
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1, time.Unix(0, 0)))
}

// Load verifies the session cookie on r.
//
// Returns [shared.ErrNotAuthenticated] when there is no usable token and
// [shared.ErrSessionExpired] when the token was valid but has lapsed.
func (m *SessionManager) Load(r *http.Request) (Session, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return Session{}, shared.ErrNotAuthenticated
	}

	claims := &sessionClaims{}
	_, err = jwt.ParseWithClaims(c.Value, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Session{}, shared.ErrSessionExpired
	case err != nil:
		return Session{}, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	case claims.Subject == "":
		return Session{}, fmt.Errorf("%w: token has no subject", shared.ErrNotAuthenticated)
	}

	return Session{
		UserID:    claims.Subject,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Require is a [Middleware] that redirects to [LoginPath] unless the request carries a valid session.
//
// The session is available to the wrapped handler through [SessionFrom].
func (m *SessionManager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Load(r)
		if err != nil {
			if errors.Is(err, shared.ErrSessionExpired) {
				m.Clear(w)
			}
			if m.logger != nil {
				m.logger.Debug("session rejected", "path", r.URL.Path, "error", err)
			}
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

func (m *SessionManager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
