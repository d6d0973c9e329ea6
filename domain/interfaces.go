package domain

import (
	"context"
	"time"
)

// Field names accepted by UserRepository.UpdateFields.
const (
	FieldName         = "name"
	FieldPasswordHash = "password"
	FieldOTP          = "otp"
	FieldOTPExpiry    = "otp_expiry"
	FieldProfile      = "profile"
)

// UserRepository defines typed access to the user collection, keyed by the
// unique email field. Unsetting a field writes NULL.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailAndOTP(ctx context.Context, email, otp string) (*User, error)
	UpdateFields(ctx context.Context, email string, set map[string]any, unset ...string) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService signs and verifies session tokens. Validate collapses every
// failure mode (bad signature, malformed, expired) into ErrTokenInvalid.
type TokenService interface {
	Issue(user *User) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// NotificationDispatcher delivers one rendered message to an address. The
// call is blocking and cancellable; callers bound it with a context timeout.
type NotificationDispatcher interface {
	Send(ctx context.Context, to string, msg Message) error
}

// OTPGenerator produces a fixed-width numeric code and its expiry instant.
type OTPGenerator interface {
	Generate() (code string, expiry time.Time, err error)
}

// OperationLocker serializes read-then-write operations per email address.
type OperationLocker interface {
	Acquire(ctx context.Context, email string) (release func(), err error)
}

// AuthService is the credential lifecycle engine.
type AuthService interface {
	Register(ctx context.Context, p RegisterParams) (*RegisterResult, error)
	Login(ctx context.Context, p LoginParams) (*AuthResult, error)
	GenerateRegisterOTP(ctx context.Context, p OTPSendParams) (*OTPSendResult, error)
	VerifyRegisterOTP(ctx context.Context, p VerifyRegisterParams) (*RegisterResult, error)
	GenerateLoginOTP(ctx context.Context, p OTPSendParams) (*OTPSendResult, error)
	VerifyLoginOTP(ctx context.Context, p VerifyLoginParams) (*AuthResult, error)
}
