package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestMissingParamError(t *testing.T) {
	err := &MissingParamError{Field: "email"}

	if err.Error() != "email is required" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !IsMissingParam(err) {
		t.Error("expected IsMissingParam to match")
	}
	if IsMissingParam(ErrUserNotFound) {
		t.Error("sentinel errors are not missing-param errors")
	}

	wrapped := fmt.Errorf("register: %w", err)
	var mp *MissingParamError
	if !errors.As(wrapped, &mp) {
		t.Fatal("expected errors.As to unwrap")
	}
	if mp.Field != "email" {
		t.Errorf("expected field email, got %q", mp.Field)
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrUserNotFound,
		ErrUserAlreadyExists,
		ErrInvalidCredentials,
		ErrInvalidOTPOrEmail,
		ErrOTPExpired,
		ErrTokenInvalid,
		ErrUnauthorized,
		ErrDispatchFailed,
		ErrDispatchTimeout,
		ErrStoreFailure,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v must not match %v", a, b)
			}
		}
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", ErrStoreFailure)
	if !errors.Is(wrapped, ErrStoreFailure) {
		t.Error("expected wrapped sentinel to match")
	}
}
