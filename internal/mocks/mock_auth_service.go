package mocks

import (
	"context"

	"github.com/Triostacksoftware/authkit/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RegisterFunc            func(ctx context.Context, p domain.RegisterParams) (*domain.RegisterResult, error)
	LoginFunc               func(ctx context.Context, p domain.LoginParams) (*domain.AuthResult, error)
	GenerateRegisterOTPFunc func(ctx context.Context, p domain.OTPSendParams) (*domain.OTPSendResult, error)
	VerifyRegisterOTPFunc   func(ctx context.Context, p domain.VerifyRegisterParams) (*domain.RegisterResult, error)
	GenerateLoginOTPFunc    func(ctx context.Context, p domain.OTPSendParams) (*domain.OTPSendResult, error)
	VerifyLoginOTPFunc      func(ctx context.Context, p domain.VerifyLoginParams) (*domain.AuthResult, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register creates an account directly
func (m *MockAuthService) Register(ctx context.Context, p domain.RegisterParams) (*domain.RegisterResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, p)
	}
	return &domain.RegisterResult{Message: "User registered successfully", UserID: "1"}, nil
}

// Login authenticates against stored credentials
func (m *MockAuthService) Login(ctx context.Context, p domain.LoginParams) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, p)
	}
	return &domain.AuthResult{Message: "Login successful", UserID: "1", Token: "token_" + p.Email}, nil
}

// GenerateRegisterOTP starts a registration challenge
func (m *MockAuthService) GenerateRegisterOTP(ctx context.Context, p domain.OTPSendParams) (*domain.OTPSendResult, error) {
	if m.GenerateRegisterOTPFunc != nil {
		return m.GenerateRegisterOTPFunc(ctx, p)
	}
	return &domain.OTPSendResult{Message: "OTP sent successfully", Email: p.Email}, nil
}

// VerifyRegisterOTP completes a registration challenge
func (m *MockAuthService) VerifyRegisterOTP(ctx context.Context, p domain.VerifyRegisterParams) (*domain.RegisterResult, error) {
	if m.VerifyRegisterOTPFunc != nil {
		return m.VerifyRegisterOTPFunc(ctx, p)
	}
	return &domain.RegisterResult{Message: "User registered successfully", UserID: "1"}, nil
}

// GenerateLoginOTP starts a login challenge
func (m *MockAuthService) GenerateLoginOTP(ctx context.Context, p domain.OTPSendParams) (*domain.OTPSendResult, error) {
	if m.GenerateLoginOTPFunc != nil {
		return m.GenerateLoginOTPFunc(ctx, p)
	}
	return &domain.OTPSendResult{Message: "OTP sent successfully", Email: p.Email}, nil
}

// VerifyLoginOTP completes a login challenge
func (m *MockAuthService) VerifyLoginOTP(ctx context.Context, p domain.VerifyLoginParams) (*domain.AuthResult, error) {
	if m.VerifyLoginOTPFunc != nil {
		return m.VerifyLoginOTPFunc(ctx, p)
	}
	return &domain.AuthResult{Message: "Login successful", UserID: "1", Token: "token_" + p.Email}, nil
}
