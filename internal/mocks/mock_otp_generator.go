package mocks

import "time"

// MockOTPGenerator implements domain.OTPGenerator for testing
type MockOTPGenerator struct {
	GenerateFunc func() (string, time.Time, error)
}

// NewMockOTPGenerator creates a new MockOTPGenerator with default behaviors
func NewMockOTPGenerator() *MockOTPGenerator {
	return &MockOTPGenerator{}
}

// Generate produces a code and expiry
func (m *MockOTPGenerator) Generate() (string, time.Time, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	// Default behavior: fixed code, five minutes out
	return "123456", time.Now().Add(5 * time.Minute), nil
}
