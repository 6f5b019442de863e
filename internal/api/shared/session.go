package shared

import (
	"net/http"
	"time"
)

// SessionManager owns the HTTP session cookie that mirrors the issued
// access token. It is an explicit, injected object: handlers receive it
// as a dependency and there is no module-level session state.
//
// The cookie is a convenience surface for browser clients; the token
// inside is the same signed JWT accepted in the Authorization header,
// and its validity remains purely a function of signature and expiry.
type SessionManager struct {
	cookieName string
	lifetime   time.Duration
	secure     bool
}

// NewSessionManager creates a SessionManager for the given cookie name,
// cookie lifetime, and Secure attribute.
func NewSessionManager(cookieName string, lifetime time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		cookieName: cookieName,
		lifetime:   lifetime,
		secure:     secure,
	}
}

// Set stores the token in the caller's session cookie.
func (m *SessionManager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the session cookie. Clearing an absent cookie is a no-op,
// which keeps logout idempotent.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token returns the token held in the request's session cookie, if any.
func (m *SessionManager) Token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
