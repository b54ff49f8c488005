package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserNotFound    = repository.ErrUserNotFound

	ErrWrongCredentials = errors.New("wrong email or password")
	ErrUserNotVerified  = errors.New("email address not verified")
	ErrAlreadyVerified  = errors.New("email address already verified")
	// ErrVerificationMailFailed reports a mail delivery failure after
	// the account itself was persisted.
	ErrVerificationMailFailed = errors.New("could not send the verification email")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByIDAndToken(ctx context.Context, id uint, token string) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

type Mailer interface {
	SendVerification(ctx context.Context, to domain.User, link string) error
	SendContact(ctx context.Context, from domain.User, subject, message string, attachments []string) error
}

type IDEncoder interface {
	Encode(id uint) string
}

// AuthService handles signup, login and email verification. New
// accounts start unverified with the base wanner role; a login succeeds
// only once the email token round-trip completed.
type AuthService struct {
	users   AuthUserRepository
	mailer  Mailer
	ids     IDEncoder
	baseURL string
}

func NewAuthService(users AuthUserRepository, mailer Mailer, ids IDEncoder, baseURL string) *AuthService {
	return &AuthService{
		users:   users,
		mailer:  mailer,
		ids:     ids,
		baseURL: baseURL,
	}
}

func (s *AuthService) verificationLink(user domain.User) string {
	return fmt.Sprintf("%s/api/v1/auth/verify/%s/%s", s.baseURL, s.ids.Encode(user.ID), user.EmailToken)
}

// Signup registers a new wanner account and mails the verification
// link. The account is persisted even when the mail cannot be sent;
// that failure is reported as ErrVerificationMailFailed alongside the
// created user so the caller can suggest a resend.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	user.Password = string(hashed)
	user.Role = domain.RoleWanner
	user.Verified = false
	user.EmailToken = uuid.NewString()

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Create -> %w", err)
	}

	if err := s.mailer.SendVerification(ctx, created, s.verificationLink(created)); err != nil {
		zap.L().Warn("verification mail failed",
			zap.Uint("user_id", created.ID),
			zap.Error(err))
		return created, ErrVerificationMailFailed
	}

	return created, nil
}

// Login checks the credentials and the verification state. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.User{}, ErrWrongCredentials
		}
		return domain.User{}, fmt.Errorf("s.users.FindByEmail -> %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongCredentials
	}

	if !user.Verified {
		return domain.User{}, ErrUserNotVerified
	}

	return user, nil
}

// VerifyEmail consumes the mailed token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, userID uint, token string) (domain.User, error) {
	user, err := s.users.FindByIDAndToken(ctx, userID, token)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.FindByIDAndToken -> %w", err)
	}

	user.Verified = true
	user.EmailToken = ""

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Update -> %w", err)
	}

	zap.L().Info("email verified", zap.Uint("user_id", updated.ID))

	return updated, nil
}

// ResendVerification rotates the email token and mails a fresh link.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("s.users.FindByEmail -> %w", err)
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	user.EmailToken = uuid.NewString()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("s.users.Update -> %w", err)
	}

	if err := s.mailer.SendVerification(ctx, updated, s.verificationLink(updated)); err != nil {
		zap.L().Warn("verification mail failed",
			zap.Uint("user_id", updated.ID),
			zap.Error(err))
		return ErrVerificationMailFailed
	}

	return nil
}
