package services

import (
	"context"
	"testing"
	"time"

	"learnhub/models"
	"learnhub/repositories"
	"learnhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, repositories.Store, *testutil.RecordingNotifier) {
	t.Helper()
	store := repositories.NewStore(testutil.DB(t))
	notifier := &testutil.RecordingNotifier{}
	sign := func(u *models.User) (string, error) { return "token-" + u.Email, nil }
	return NewAuthService(store, sign, notifier, bcrypt.MinCost, testutil.Logger(t)), store, notifier
}

func TestSignup(t *testing.T) {
	svc, _, notifier := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{Name: " Ada ", Email: "Ada@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEqual(t, "secret123", user.Password)

	assert.Eventually(t, func() bool { return len(notifier.Sent()) == 1 }, time.Second, 10*time.Millisecond)

	_, err = svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "another1"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Signup(ctx, SignupInput{Name: "Root", Email: "root@example.com", Password: "secret123", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidInput)

	instructor, err := svc.Signup(ctx, SignupInput{Name: "Grace", Email: "grace@example.com", Password: "secret123", Role: models.RoleInstructor})
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, instructor.Role)
}

func TestLoginSuccessRecordsHistory(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "secret123", IP: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)
	assert.Equal(t, "token-ada@example.com", token)
	assert.NotNil(t, user.LastLogin)

	history, err := svc.LoginHistory(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "10.0.0.1", history[0].IPAddress)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, _, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	for i := 0; i < MaxFailedLogins; i++ {
		_, _, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
		require.ErrorIs(t, err, ErrInvalidCredential, "attempt %d", i+1)
	}

	_, _, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountLocked)

	user, err := store.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.BlockedUntil)
	assert.True(t, user.BlockedUntil.Equal(start.Add(LoginLockout)))

	svc.now = func() time.Time { return start.Add(LoginLockout + time.Minute) }
	_, _, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err = store.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Zero(t, user.FailedLoginAttempts)
	assert.Nil(t, user.BlockedUntil)
}

func TestLoginSuspendedAccount(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, store.Users().UpdateFields(ctx, user.ID, map[string]interface{}{
		"account_status": models.AccountSuspended,
		"is_active":      false,
	}))

	_, _, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.NotErrorIs(t, err, ErrInvalidCredential)
}

func TestProfileAndPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	bio := "Analyst"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Analyst", updated.Bio)
	assert.Equal(t, "Ada", updated.Name)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "newsecret1")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret123", "newsecret1"))
	_, _, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "newsecret1"})
	assert.NoError(t, err)

	_, err = svc.Me(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
