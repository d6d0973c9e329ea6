package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/Triostacksoftware/authkit/domain"
)

// reservedFields can never be overwritten by caller-supplied extra fields.
var reservedFields = map[string]struct{}{
	"id":         {},
	"email":      {},
	"password":   {},
	"otp":        {},
	"otp_expiry": {},
	"created_at": {},
	"updated_at": {},
}

// AuthServiceImpl implements domain.AuthService. It owns the credential
// state machine: NonExistent -> PendingRegistrationOTP -> Active (OTP path),
// NonExistent -> Active (direct path), and the transient login challenge on
// active records.
type AuthServiceImpl struct {
	userRepo        domain.UserRepository
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	dispatcher      domain.NotificationDispatcher
	otpGen          domain.OTPGenerator
	locker          domain.OperationLocker
	dispatchTimeout time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	dispatcher domain.NotificationDispatcher,
	otpGen domain.OTPGenerator,
	locker domain.OperationLocker,
	dispatchTimeout time.Duration,
) domain.AuthService {
	if dispatchTimeout <= 0 {
		dispatchTimeout = 10 * time.Second
	}
	return &AuthServiceImpl{
		userRepo:        userRepo,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		dispatcher:      dispatcher,
		otpGen:          otpGen,
		locker:          locker,
		dispatchTimeout: dispatchTimeout,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, p domain.RegisterParams) (*domain.RegisterResult, error) {
	if err := required("email", p.Email); err != nil {
		return nil, err
	}
	if err := required("password", p.Password); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.userRepo.FindByEmail(ctx, p.Email)
	if err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.passwordSvc.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        p.Email,
		Name:         p.Name,
		PasswordHash: hash,
		Profile:      filterProfile(p.Extra),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &domain.RegisterResult{
		Message: "User registered successfully",
		UserID:  formatID(user.ID),
	}, nil
}

// Login implements domain.AuthService. An unknown email and a wrong
// password fail identically.
func (s *AuthServiceImpl) Login(ctx context.Context, p domain.LoginParams) (*domain.AuthResult, error) {
	if err := required("email", p.Email); err != nil {
		return nil, err
	}
	if err := required("password", p.Password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// A pending registration record has no hash yet and cannot log in.
	if user.PasswordHash == "" || !s.passwordSvc.Verify(user.PasswordHash, p.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenSvc.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.AuthResult{
		Message: "Login successful",
		UserID:  formatID(user.ID),
		Token:   token,
	}, nil
}

// GenerateRegisterOTP implements domain.AuthService. It inserts a
// password-less pending record and dispatches the code. On dispatch failure
// the pending record is left in place; the sweeper reclaims it once the
// challenge expires.
func (s *AuthServiceImpl) GenerateRegisterOTP(ctx context.Context, p domain.OTPSendParams) (*domain.OTPSendResult, error) {
	if err := requiredAll(otpSendRequired(p)); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	_, err = s.userRepo.FindByEmail(ctx, p.Email)
	if err == nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	code, expiry, err := s.otpGen.Generate()
	if err != nil {
		return nil, err
	}

	pending := &domain.User{
		Email:     p.Email,
		OTP:       code,
		OTPExpiry: &expiry,
	}
	if err := s.userRepo.Create(ctx, pending); err != nil {
		return nil, err
	}

	if err := s.dispatch(ctx, p.Email, code, expiry, p.EmailTitle, p.EmailBody); err != nil {
		return nil, err
	}

	return &domain.OTPSendResult{
		Message: "OTP sent successfully for registration",
		Email:   p.Email,
	}, nil
}

// VerifyRegisterOTP implements domain.AuthService. This is the terminal
// pending -> active transition: the password hash is set and the challenge
// fields are unset in the same update.
func (s *AuthServiceImpl) VerifyRegisterOTP(ctx context.Context, p domain.VerifyRegisterParams) (*domain.RegisterResult, error) {
	if err := required("email", p.Email); err != nil {
		return nil, err
	}
	if err := required("otp", p.OTP); err != nil {
		return nil, err
	}
	if err := required("password", p.Password); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.userRepo.FindByEmailAndOTP(ctx, p.Email, p.OTP)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidOTPOrEmail
		}
		return nil, err
	}

	if expired(user.OTPExpiry) {
		// The caller must restart the challenge from scratch.
		if err := s.userRepo.DeleteByEmail(ctx, p.Email); err != nil {
			return nil, err
		}
		return nil, domain.ErrOTPExpired
	}

	hash, err := s.passwordSvc.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	set := map[string]any{domain.FieldPasswordHash: hash}
	if p.Name != "" {
		set[domain.FieldName] = p.Name
	}
	if extra := filterProfile(p.Extra); len(extra) > 0 {
		set[domain.FieldProfile] = extra
	}
	if err := s.userRepo.UpdateFields(ctx, p.Email, set, domain.FieldOTP, domain.FieldOTPExpiry); err != nil {
		return nil, err
	}

	return &domain.RegisterResult{
		Message: "Registration completed successfully",
		UserID:  formatID(user.ID),
	}, nil
}

// GenerateLoginOTP implements domain.AuthService. The existing password
// hash is untouched; only the challenge fields are refreshed.
func (s *AuthServiceImpl) GenerateLoginOTP(ctx context.Context, p domain.OTPSendParams) (*domain.OTPSendResult, error) {
	if err := requiredAll(otpSendRequired(p)); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.userRepo.FindByEmail(ctx, p.Email); err != nil {
		return nil, err
	}

	code, expiry, err := s.otpGen.Generate()
	if err != nil {
		return nil, err
	}

	set := map[string]any{
		domain.FieldOTP:       code,
		domain.FieldOTPExpiry: expiry,
	}
	if err := s.userRepo.UpdateFields(ctx, p.Email, set); err != nil {
		return nil, err
	}

	if err := s.dispatch(ctx, p.Email, code, expiry, p.EmailTitle, p.EmailBody); err != nil {
		return nil, err
	}

	return &domain.OTPSendResult{
		Message: "OTP sent successfully for login",
		Email:   p.Email,
	}, nil
}

// VerifyLoginOTP implements domain.AuthService. The challenge fields are
// unset whether the code is accepted or found expired; the account record
// itself always survives.
func (s *AuthServiceImpl) VerifyLoginOTP(ctx context.Context, p domain.VerifyLoginParams) (*domain.AuthResult, error) {
	if err := required("email", p.Email); err != nil {
		return nil, err
	}
	if err := required("otp", p.OTP); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.userRepo.FindByEmailAndOTP(ctx, p.Email, p.OTP)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidOTPOrEmail
		}
		return nil, err
	}

	if expired(user.OTPExpiry) {
		if err := s.userRepo.UpdateFields(ctx, p.Email, nil, domain.FieldOTP, domain.FieldOTPExpiry); err != nil {
			return nil, err
		}
		return nil, domain.ErrOTPExpired
	}

	token, err := s.tokenSvc.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	// Consume the challenge so the code can never be replayed.
	if err := s.userRepo.UpdateFields(ctx, p.Email, nil, domain.FieldOTP, domain.FieldOTPExpiry); err != nil {
		return nil, err
	}

	return &domain.AuthResult{
		Message: "Login successful",
		UserID:  formatID(user.ID),
		Token:   token,
	}, nil
}

// dispatch renders the OTP message and delivers it within the configured
// timeout, distinguishing a timed-out dispatch from a rejected one.
func (s *AuthServiceImpl) dispatch(ctx context.Context, to, code string, expiry time.Time, title, descr string) error {
	msg := renderOTPMessage(code, title, descr, time.Until(expiry))

	dctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	if err := s.dispatcher.Send(dctx, to, msg); err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("%w: %v", domain.ErrDispatchTimeout, err)
		case errors.Is(err, context.Canceled):
			// The caller gave up; this is not a dispatcher rejection.
			return err
		default:
			return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
		}
	}
	return nil
}

// renderOTPMessage builds both channel bodies from the caller-supplied
// title and description.
func renderOTPMessage(code, title, descr string, validFor time.Duration) domain.Message {
	minutes := int(validFor.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	html := fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:480px;margin:0 auto;padding:24px">
  <h2 style="color:#333">%s</h2>
  <p style="color:#555">%s</p>
  <div style="font-size:32px;font-weight:bold;letter-spacing:8px;text-align:center;padding:16px;background:#f4f4f4;border-radius:8px">%s</div>
  <p style="color:#888;font-size:12px">This code expires in %d minutes.</p>
</div>`,
		template.HTMLEscapeString(title),
		template.HTMLEscapeString(descr),
		code,
		minutes,
	)
	text := fmt.Sprintf("%s\n%s\nYour verification code is: %s. It expires in %d minutes.", title, descr, code, minutes)

	return domain.Message{Subject: title, Text: text, HTML: html}
}

// filterProfile drops caller-supplied overrides of reserved record fields.
func filterProfile(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	safe := make(map[string]any, len(extra))
	for k, v := range extra {
		if _, reserved := reservedFields[k]; reserved {
			continue
		}
		safe[k] = v
	}
	if len(safe) == 0 {
		return nil
	}
	return safe
}

func expired(expiry *time.Time) bool {
	return expiry == nil || expiry.Before(time.Now())
}

func required(name, value string) error {
	if value == "" {
		return &domain.MissingParamError{Field: name}
	}
	return nil
}

type requiredParam struct {
	name  string
	value string
}

func requiredAll(params []requiredParam) error {
	for _, p := range params {
		if err := required(p.name, p.value); err != nil {
			return err
		}
	}
	return nil
}

func otpSendRequired(p domain.OTPSendParams) []requiredParam {
	return []requiredParam{
		{"email", p.Email},
		{"email_title", p.EmailTitle},
		{"email_descr", p.EmailBody},
	}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
