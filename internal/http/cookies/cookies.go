// Package cookies holds the session cookie policy: a pure mapping from the
// environment to cookie attributes, plus set/clear helpers for handlers.
package cookies

import (
	"net/http"
	"time"
)

// Name is the session cookie name.
const Name = "token"

// DefaultMaxAge applies when no session TTL is supplied.
const DefaultMaxAge = 24 * time.Hour

// Options returns the cookie attributes for the environment. The cookie
// lives exactly as long as the token it carries. Production cookies are
// cross-site (SameSite=None) and HTTPS-only; everything else uses Lax over
// plain HTTP.
func Options(production bool, ttl time.Duration) http.Cookie {
	if ttl <= 0 {
		ttl = DefaultMaxAge
	}
	c := http.Cookie{
		Name:     Name,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}
	if production {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// Set attaches the session token to the response.
func Set(w http.ResponseWriter, token string, production bool, ttl time.Duration) {
	c := Options(production, ttl)
	c.Value = token
	http.SetCookie(w, &c)
}

// Clear expires the session cookie under both attribute profiles, since the
// environment that set the cookie may differ from the one clearing it.
func Clear(w http.ResponseWriter) {
	for _, production := range []bool{true, false} {
		c := Options(production, 0)
		c.MaxAge = -1
		http.SetCookie(w, &c)
	}
}
