package mocks

import (
	"github.com/Triostacksoftware/authkit/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	IssueFunc    func(user *domain.User) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Issue signs a session token
func (m *MockTokenService) Issue(user *domain.User) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(user)
	}
	// Default behavior: fake token tied to the email
	return "token_" + user.Email, nil
}

// Validate verifies a session token
func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	// Default behavior: opaque failure
	return nil, domain.ErrTokenInvalid
}
