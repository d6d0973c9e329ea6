package mocks

import (
	"context"
	"time"

	"github.com/Triostacksoftware/authkit/domain"
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	CreateFunc               func(ctx context.Context, user *domain.User) error
	FindByEmailFunc          func(ctx context.Context, email string) (*domain.User, error)
	FindByEmailAndOTPFunc    func(ctx context.Context, email, otp string) (*domain.User, error)
	UpdateFieldsFunc         func(ctx context.Context, email string, set map[string]any, unset ...string) error
	DeleteByEmailFunc        func(ctx context.Context, email string) error
	DeleteExpiredPendingFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create inserts a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByEmailAndOTP finds a user matching both email and otp
func (m *MockUserRepository) FindByEmailAndOTP(ctx context.Context, email, otp string) (*domain.User, error) {
	if m.FindByEmailAndOTPFunc != nil {
		return m.FindByEmailAndOTPFunc(ctx, email, otp)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// UpdateFields applies a partial update
func (m *MockUserRepository) UpdateFields(ctx context.Context, email string, set map[string]any, unset ...string) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, email, set, unset...)
	}
	// Default behavior: success
	return nil
}

// DeleteByEmail deletes a user record
func (m *MockUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	if m.DeleteByEmailFunc != nil {
		return m.DeleteByEmailFunc(ctx, email)
	}
	// Default behavior: success
	return nil
}

// DeleteExpiredPending removes expired password-less records
func (m *MockUserRepository) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteExpiredPendingFunc != nil {
		return m.DeleteExpiredPendingFunc(ctx, cutoff)
	}
	// Default behavior: nothing swept
	return 0, nil
}
