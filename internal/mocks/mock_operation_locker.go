package mocks

import "context"

// MockOperationLocker implements domain.OperationLocker for testing
type MockOperationLocker struct {
	AcquireFunc func(ctx context.Context, email string) (func(), error)

	// Acquired counts successful acquisitions
	Acquired int
	// Released counts release calls
	Released int
}

// NewMockOperationLocker creates a new MockOperationLocker with default behaviors
func NewMockOperationLocker() *MockOperationLocker {
	return &MockOperationLocker{}
}

// Acquire takes the per-email lock
func (m *MockOperationLocker) Acquire(ctx context.Context, email string) (func(), error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, email)
	}
	// Default behavior: free lock
	m.Acquired++
	return func() { m.Released++ }, nil
}
