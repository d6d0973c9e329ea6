package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Triostacksoftware/authkit/domain"
)

func TestJWTServiceImpl_IssueAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "authkit", 24*time.Hour)

	token, err := svc.Issue(&domain.User{ID: 42, Email: "a@x.com", Name: "Alice"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.ID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestJWTServiceImpl_ValidateFailuresAreOpaque(t *testing.T) {
	svc := NewJWTService("test-secret", "authkit", 24*time.Hour)

	goodToken, err := svc.Issue(&domain.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	otherSvc := NewJWTService("other-secret", "authkit", 24*time.Hour)
	expiredSvc := NewJWTService("test-secret", "authkit", -time.Minute)
	expiredToken, err := expiredSvc.Issue(&domain.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		svc   domain.TokenService
	}{
		{"malformed token", "not.a.token", svc},
		{"empty token", "", svc},
		{"wrong secret", goodToken, otherSvc},
		{"expired token", expiredToken, svc},
		{"tampered token", goodToken + "x", svc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.svc.Validate(tt.token)
			assert.Nil(t, claims)
			// Every failure mode collapses to the same opaque error.
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

func TestJWTServiceImpl_TokensAreUnique(t *testing.T) {
	svc := NewJWTService("test-secret", "authkit", 24*time.Hour)
	user := &domain.User{ID: 1, Email: "a@x.com"}

	t1, err := svc.Issue(user)
	require.NoError(t, err)
	t2, err := svc.Issue(user)
	require.NoError(t, err)

	// jti makes consecutive tokens distinct even within one second.
	assert.NotEqual(t, t1, t2)
}
