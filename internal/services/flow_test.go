package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Triostacksoftware/authkit/domain"
	"github.com/Triostacksoftware/authkit/internal/infrastructure/auth"
	"github.com/Triostacksoftware/authkit/internal/mocks"
)

// memoryUserRepo is a stateful in-memory store used to exercise the full
// credential state machine without a database.
type memoryUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{nextID: 1, users: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return domain.ErrUserAlreadyExists
	}
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.Email] = &clone
	return nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memoryUserRepo) FindByEmailAndOTP(ctx context.Context, email, otp string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok || u.OTP == "" || u.OTP != otp {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memoryUserRepo) UpdateFields(ctx context.Context, email string, set map[string]any, unset ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	for k, v := range set {
		switch k {
		case domain.FieldPasswordHash:
			u.PasswordHash = v.(string)
		case domain.FieldName:
			u.Name = v.(string)
		case domain.FieldOTP:
			u.OTP = v.(string)
		case domain.FieldOTPExpiry:
			e := v.(time.Time)
			u.OTPExpiry = &e
		case domain.FieldProfile:
			u.Profile = v.(map[string]any)
		}
	}
	for _, k := range unset {
		switch k {
		case domain.FieldPasswordHash:
			u.PasswordHash = ""
		case domain.FieldOTP:
			u.OTP = ""
		case domain.FieldOTPExpiry:
			u.OTPExpiry = nil
		}
	}
	return nil
}

func (r *memoryUserRepo) DeleteByEmail(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, email)
	return nil
}

func (r *memoryUserRepo) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for email, u := range r.users {
		if u.PasswordHash == "" && u.OTPExpiry != nil && u.OTPExpiry.Before(cutoff) {
			delete(r.users, email)
			n++
		}
	}
	return n, nil
}

// expireChallenge rewinds the stored expiry, simulating the passage of time.
func (r *memoryUserRepo) expireChallenge(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok && u.OTPExpiry != nil {
		e := time.Now().Add(-time.Minute)
		u.OTPExpiry = &e
	}
}

func newFlowEngine(t *testing.T) (domain.AuthService, domain.TokenService, *memoryUserRepo, *mocks.MockNotificationDispatcher) {
	t.Helper()

	repo := newMemoryUserRepo()
	tokenSvc := auth.NewJWTService("flow-test-secret", "authkit", 24*time.Hour)
	dispatcher := mocks.NewMockNotificationDispatcher()
	svc := NewAuthService(
		repo,
		auth.NewPasswordService(),
		tokenSvc,
		dispatcher,
		NewOTPGenerator(6, 5*time.Minute),
		mocks.NewMockOperationLocker(),
		time.Second,
	)
	return svc, tokenSvc, repo, dispatcher
}

func TestFlow_RegisterThenLogin(t *testing.T) {
	svc, tokenSvc, _, _ := newFlowEngine(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, domain.RegisterParams{Email: "a@x.com", Password: "hunter2", Name: "Alice"})
	require.NoError(t, err)
	require.NotEmpty(t, reg.UserID)

	login, err := svc.Login(ctx, domain.LoginParams{Email: "a@x.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, login.UserID)

	claims, err := tokenSvc.Validate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, reg.UserID, claims.ID)
}

func TestFlow_DuplicateRegisterLeavesFirstRecordUntouched(t *testing.T) {
	svc, _, repo, _ := newFlowEngine(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterParams{Email: "a@x.com", Password: "hunter2"})
	require.NoError(t, err)
	before, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RegisterParams{Email: "a@x.com", Password: "other"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	after, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestFlow_OTPRegistrationConsumedOnce(t *testing.T) {
	svc, _, repo, dispatcher := newFlowEngine(t)
	ctx := context.Background()

	_, err := svc.GenerateRegisterOTP(ctx, domain.OTPSendParams{
		Email: "b@x.com", EmailTitle: "Verify", EmailBody: "Signup code",
	})
	require.NoError(t, err)
	require.Len(t, dispatcher.Sent, 1)

	pending, err := repo.FindByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	code := pending.OTP
	require.Len(t, code, 6)
	assert.Empty(t, pending.PasswordHash)

	res, err := svc.VerifyRegisterOTP(ctx, domain.VerifyRegisterParams{
		Email: "b@x.com", OTP: code, Password: "hunter2", Name: "Bob",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.UserID)

	active, err := repo.FindByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, active.PasswordHash)
	assert.Empty(t, active.OTP)
	assert.Nil(t, active.OTPExpiry)

	// Replaying the consumed code must fail.
	_, err = svc.VerifyRegisterOTP(ctx, domain.VerifyRegisterParams{
		Email: "b@x.com", OTP: code, Password: "hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOTPOrEmail)

	// And the completed account can log in directly.
	login, err := svc.Login(ctx, domain.LoginParams{Email: "b@x.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestFlow_ExpiredRegisterOTPAllowsRestart(t *testing.T) {
	svc, _, repo, _ := newFlowEngine(t)
	ctx := context.Background()

	_, err := svc.GenerateRegisterOTP(ctx, domain.OTPSendParams{
		Email: "b@x.com", EmailTitle: "Verify", EmailBody: "Signup code",
	})
	require.NoError(t, err)

	pending, err := repo.FindByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	repo.expireChallenge("b@x.com")

	_, err = svc.VerifyRegisterOTP(ctx, domain.VerifyRegisterParams{
		Email: "b@x.com", OTP: pending.OTP, Password: "hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrOTPExpired)

	// The expired pending record was deleted, so the address can restart.
	_, err = repo.FindByEmail(ctx, "b@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.GenerateRegisterOTP(ctx, domain.OTPSendParams{
		Email: "b@x.com", EmailTitle: "Verify", EmailBody: "Signup code",
	})
	assert.NoError(t, err)
}

func TestFlow_LoginOTPLifecycle(t *testing.T) {
	svc, tokenSvc, repo, _ := newFlowEngine(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterParams{Email: "a@x.com", Password: "hunter2", Name: "Alice"})
	require.NoError(t, err)

	_, err = svc.GenerateLoginOTP(ctx, domain.OTPSendParams{
		Email: "a@x.com", EmailTitle: "Login", EmailBody: "Login code",
	})
	require.NoError(t, err)

	challenged, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, challenged.OTP)
	assert.NotEmpty(t, challenged.PasswordHash, "login challenge must keep the password hash")

	res, err := svc.VerifyLoginOTP(ctx, domain.VerifyLoginParams{Email: "a@x.com", OTP: challenged.OTP})
	require.NoError(t, err)

	claims, err := tokenSvc.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)

	// Challenge consumed, account back to plain active state.
	after, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, after.OTP)
	assert.Nil(t, after.OTPExpiry)
}

func TestFlow_ExpiredLoginOTPKeepsAccount(t *testing.T) {
	svc, _, repo, _ := newFlowEngine(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterParams{Email: "a@x.com", Password: "hunter2"})
	require.NoError(t, err)
	_, err = svc.GenerateLoginOTP(ctx, domain.OTPSendParams{
		Email: "a@x.com", EmailTitle: "Login", EmailBody: "Login code",
	})
	require.NoError(t, err)

	challenged, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	repo.expireChallenge("a@x.com")

	_, err = svc.VerifyLoginOTP(ctx, domain.VerifyLoginParams{Email: "a@x.com", OTP: challenged.OTP})
	assert.ErrorIs(t, err, domain.ErrOTPExpired)

	after, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err, "account record must survive an expired login challenge")
	assert.Empty(t, after.OTP)
	assert.Nil(t, after.OTPExpiry)
	assert.NotEmpty(t, after.PasswordHash)

	// Password login still works.
	_, err = svc.Login(ctx, domain.LoginParams{Email: "a@x.com", Password: "hunter2"})
	assert.NoError(t, err)
}

func TestFlow_SweeperReclaimsExpiredPending(t *testing.T) {
	svc, _, repo, _ := newFlowEngine(t)
	ctx := context.Background()

	_, err := svc.GenerateRegisterOTP(ctx, domain.OTPSendParams{
		Email: "b@x.com", EmailTitle: "Verify", EmailBody: "Signup code",
	})
	require.NoError(t, err)

	// Still fresh: the address collides.
	_, err = svc.GenerateRegisterOTP(ctx, domain.OTPSendParams{
		Email: "b@x.com", EmailTitle: "Verify", EmailBody: "Signup code",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	repo.expireChallenge("b@x.com")

	sweeper := NewPendingSweeper(repo, time.Minute)
	n, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Swept: the address is free again.
	_, err = svc.GenerateRegisterOTP(ctx, domain.OTPSendParams{
		Email: "b@x.com", EmailTitle: "Verify", EmailBody: "Signup code",
	})
	assert.NoError(t, err)
}
