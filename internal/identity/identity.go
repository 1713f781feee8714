// Package identity provides cookie-based chat session identity.
package identity

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionCookieName carries the opaque session token.
	SessionCookieName = "session_id"

	sessionCookieMaxAge = 365 * 24 * time.Hour
)

// Resolve extracts the session token from the request cookies. When the
// client has none, it mints a fresh token and reports isNew = true; the
// caller decides whether to attach it via SetSessionCookie. Tokens are
// opaque and are not validated beyond being non-empty.
func Resolve(r *http.Request) (sessionID string, isNew bool) {
	if token := FromRequest(r); token != "" {
		return token, false
	}
	return NewToken(), true
}

// FromRequest returns the session token from the request cookies, or ""
// when the client has none. Used by routes that must not create a session.
func FromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// NewToken generates a collision-resistant opaque session token.
func NewToken() string {
	return uuid.NewString()
}

// SetSessionCookie attaches the session cookie with a one-year lifetime.
func SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(sessionCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
