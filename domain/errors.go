package domain

import (
	"errors"
	"fmt"
)

// Credential errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// OTP errors
var (
	ErrInvalidOTPOrEmail = errors.New("invalid otp or email")
	ErrOTPExpired        = errors.New("otp has expired")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized access")
)

// Infrastructure errors
var (
	ErrDispatchFailed  = errors.New("notification dispatch failed")
	ErrDispatchTimeout = errors.New("notification dispatch timed out")
	ErrStoreFailure    = errors.New("store operation failed")
)

// MissingParamError reports a required parameter that was absent or empty.
// It is raised before any store access.
type MissingParamError struct {
	Field string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// IsMissingParam reports whether err is a MissingParamError.
func IsMissingParam(err error) bool {
	var mp *MissingParamError
	return errors.As(err, &mp)
}
