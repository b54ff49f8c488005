package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/al3-rom/wannago/internal/domain"
)

func newAuthFixtures(mailer *fakeMailer) (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, mailer, fakeIDs{}, "http://localhost:8080")
	return svc, users
}

func TestSignup(t *testing.T) {
	mailer := &fakeMailer{}
	svc, users := newAuthFixtures(mailer)
	ctx := context.Background()

	user, err := svc.Signup(ctx, domain.User{
		Email:    "new@example.com",
		Password: "password1",
		Name:     "New User",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleWanner, user.Role)
	assert.False(t, user.Verified)
	assert.NotEmpty(t, user.EmailToken)
	assert.Equal(t, 1, mailer.verifications)

	stored, err := users.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password1")))

	_, err = svc.Signup(ctx, domain.User{Email: "new@example.com", Password: "password1", Name: "Dup"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestSignupMailFailureKeepsAccount(t *testing.T) {
	mailer := &fakeMailer{fail: true}
	svc, users := newAuthFixtures(mailer)
	ctx := context.Background()

	user, err := svc.Signup(ctx, domain.User{
		Email:    "new@example.com",
		Password: "password1",
		Name:     "New User",
	})
	assert.ErrorIs(t, err, ErrVerificationMailFailed)
	assert.NotZero(t, user.ID)

	_, err = users.FindByEmail(ctx, "new@example.com")
	assert.NoError(t, err, "the account is persisted despite the mail failure")
}

func TestLogin(t *testing.T) {
	mailer := &fakeMailer{}
	svc, users := newAuthFixtures(mailer)
	ctx := context.Background()

	created, err := svc.Signup(ctx, domain.User{
		Email:    "user@example.com",
		Password: "password1",
		Name:     "User",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "user@example.com", "password1")
	assert.ErrorIs(t, err, ErrUserNotVerified)

	_, err = svc.VerifyEmail(ctx, created.ID, created.EmailToken)
	require.NoError(t, err)

	user, err := svc.Login(ctx, "user@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Login(ctx, "user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongCredentials)

	_, err = svc.Login(ctx, "ghost@example.com", "password1")
	assert.ErrorIs(t, err, ErrWrongCredentials, "unknown email reads the same as a bad password")

	// Verification consumed the token; replaying the link fails.
	stored, err := users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.EmailToken)
	_, err = svc.VerifyEmail(ctx, created.ID, created.EmailToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResendVerification(t *testing.T) {
	mailer := &fakeMailer{}
	svc, users := newAuthFixtures(mailer)
	ctx := context.Background()

	created, err := svc.Signup(ctx, domain.User{
		Email:    "user@example.com",
		Password: "password1",
		Name:     "User",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResendVerification(ctx, "user@example.com"))
	assert.Equal(t, 2, mailer.verifications)

	stored, err := users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, created.EmailToken, stored.EmailToken, "resending rotates the token")

	_, err = svc.VerifyEmail(ctx, created.ID, stored.EmailToken)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResendVerification(ctx, "user@example.com"), ErrAlreadyVerified)
	assert.ErrorIs(t, svc.ResendVerification(ctx, "ghost@example.com"), ErrUserNotFound)
}
