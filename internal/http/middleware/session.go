package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Triostacksoftware/authkit/domain"
	"github.com/Triostacksoftware/authkit/internal/http/cookies"
)

// ClaimsKey is the gin context key holding the decoded session claims.
const ClaimsKey = "auth_claims"

// SessionMW guards routes with the session cookie.
type SessionMW struct {
	tokenSvc domain.TokenService
}

// NewSessionMW creates the session middleware.
func NewSessionMW(tokenSvc domain.TokenService) *SessionMW {
	return &SessionMW{tokenSvc: tokenSvc}
}

// WithSession validates the session cookie and injects the decoded claims
// into the request context. A missing cookie and an invalid token are
// reported separately, but both reject with 401.
func (m *SessionMW) WithSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookies.Name)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
			return
		}

		claims, err := m.tokenSvc.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// IsLoggedIn returns the session claims, or nil when no valid session
// cookie is present. It never writes to the response.
func (m *SessionMW) IsLoggedIn(c *gin.Context) *domain.TokenClaims {
	token, err := c.Cookie(cookies.Name)
	if err != nil || token == "" {
		return nil
	}
	claims, err := m.tokenSvc.Validate(token)
	if err != nil {
		return nil
	}
	return claims
}

// ClaimsFromContext extracts the claims injected by WithSession.
func ClaimsFromContext(c *gin.Context) (*domain.TokenClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*domain.TokenClaims)
	return claims, ok
}
