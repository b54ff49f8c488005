package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/al3-rom/wannago/internal/domain"
)

var (
	ErrRoleNotEditable = errors.New("role of a wanner account cannot be changed")
	ErrAdminProtected  = errors.New("admin accounts cannot be demoted or deleted")
	ErrUserHasRecords  = errors.New("user still owns products or offers")
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, roleFilter domain.Role, search string, limit, offset int) ([]domain.User, error)
}

type UserProductRepository interface {
	CountBySeller(ctx context.Context, sellerID uint) (int64, error)
}

type UserOfferRepository interface {
	CountByBuyer(ctx context.Context, buyerID uint) (int64, error)
	ActiveBySeller(ctx context.Context, sellerID uint) ([]domain.Offer, error)
	InactiveBySeller(ctx context.Context, sellerID uint) ([]domain.Offer, error)
	AcceptedBySeller(ctx context.Context, sellerID uint) ([]domain.AcceptedOffer, error)
}

// UserService covers the admin account surface and the self-service
// profile. Two accounts are untouchable through it: wanners keep their
// role for life, and admins can neither be demoted nor deleted here.
type UserService struct {
	users    UserRepository
	products UserProductRepository
	offers   UserOfferRepository
	blocks   GateBlockRepository
	mailer   Mailer
	ids      IDEncoder
	gate     *Gate
	baseURL  string
}

func NewUserService(users UserRepository, products UserProductRepository, offers UserOfferRepository, blocks GateBlockRepository, mailer Mailer, ids IDEncoder, gate *Gate, baseURL string) *UserService {
	return &UserService{
		users:    users,
		products: products,
		offers:   offers,
		blocks:   blocks,
		mailer:   mailer,
		ids:      ids,
		gate:     gate,
		baseURL:  baseURL,
	}
}

// GetUser returns a user's public card with their trading stats.
// Blocked users are hidden from regular viewers; moderators still see
// them.
func (s *UserService) GetUser(ctx context.Context, actor domain.User, userID uint) (domain.User, domain.UserStats, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return domain.User{}, domain.UserStats{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, domain.UserStats{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	blocked, err := s.blocks.IsUserBlocked(ctx, userID)
	if err != nil {
		return domain.User{}, domain.UserStats{}, fmt.Errorf("s.blocks.IsUserBlocked -> %w", err)
	}
	if blocked && !actor.Role.AtLeast(domain.RoleModerator) {
		return domain.User{}, domain.UserStats{}, ErrBlocked
	}

	stats, err := s.stats(ctx, userID)
	if err != nil {
		return domain.User{}, domain.UserStats{}, err
	}

	return user, stats, nil
}

func (s *UserService) stats(ctx context.Context, userID uint) (domain.UserStats, error) {
	active, err := s.offers.ActiveBySeller(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("s.offers.ActiveBySeller -> %w", err)
	}

	inactive, err := s.offers.InactiveBySeller(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("s.offers.InactiveBySeller -> %w", err)
	}

	accepted, err := s.offers.AcceptedBySeller(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("s.offers.AcceptedBySeller -> %w", err)
	}

	return domain.UserStats{
		TotalOffers:   len(active) + len(inactive),
		AcceptedSales: len(accepted),
	}, nil
}

// ListUsers searches accounts by name or email. Wanners only ever see
// other wanners; moderators and admins see everyone.
func (s *UserService) ListUsers(ctx context.Context, actor domain.User, search string, limit, offset int) ([]domain.User, error) {
	if err := s.gate.Authorize(ctx, actor, CapViewMarket); err != nil {
		return nil, err
	}

	var roleFilter domain.Role
	if !actor.Role.AtLeast(domain.RoleModerator) {
		roleFilter = domain.RoleWanner
	}

	users, err := s.users.List(ctx, roleFilter, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.users.List -> %w", err)
	}

	return users, nil
}

// CreateUser lets an admin provision an account with any role. Admin
// created accounts skip email verification.
func (s *UserService) CreateUser(ctx context.Context, actor domain.User, user domain.User) (domain.User, error) {
	if err := s.gate.Authorize(ctx, actor, CapManageUsers); err != nil {
		return domain.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	user.Password = string(hashed)
	user.Verified = true
	user.EmailToken = ""

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Create -> %w", err)
	}

	zap.L().Info("user created by admin",
		zap.Uint("user_id", created.ID),
		zap.Uint("admin_id", actor.ID),
		zap.String("role", created.Role.String()))

	return created, nil
}

// UpdateUser edits an account's name, email and role. The role of a
// wanner account is permanent, and an admin cannot be demoted.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.User, userID uint, name, email string, role domain.Role) (domain.User, error) {
	if err := s.gate.Authorize(ctx, actor, CapManageUsers); err != nil {
		return domain.User{}, err
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	if role != target.Role {
		if target.Role == domain.RoleWanner {
			return domain.User{}, ErrRoleNotEditable
		}
		if target.Role == domain.RoleAdmin {
			return domain.User{}, ErrAdminProtected
		}
	}

	target.Name = name
	target.Email = email
	target.Role = role

	updated, err := s.users.Update(ctx, target)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Update -> %w", err)
	}

	return updated, nil
}

// DeleteUser removes an account. Admins, the actor themselves, and
// anyone who still owns products or offers cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.User, userID uint) error {
	if err := s.gate.Authorize(ctx, actor, CapManageUsers); err != nil {
		return err
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.users.FindByID -> %w", err)
	}

	if target.Role == domain.RoleAdmin || target.ID == actor.ID {
		return ErrAdminProtected
	}

	productCount, err := s.products.CountBySeller(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.products.CountBySeller -> %w", err)
	}
	offerCount, err := s.offers.CountByBuyer(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.offers.CountByBuyer -> %w", err)
	}
	if productCount > 0 || offerCount > 0 {
		return ErrUserHasRecords
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("s.users.Delete -> %w", err)
	}

	zap.L().Info("user deleted",
		zap.Uint("user_id", userID),
		zap.Uint("admin_id", actor.ID))

	return nil
}

// UpdateProfile edits the actor's own name, email and avatar. Changing
// the email drops the account back to unverified and mails a new
// verification link.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.User, name, email, avatar string) (domain.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	emailChanged := email != "" && email != user.Email

	user.Name = name
	if email != "" {
		user.Email = email
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if emailChanged {
		user.Verified = false
		user.EmailToken = uuid.NewString()
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Update -> %w", err)
	}

	if emailChanged {
		link := fmt.Sprintf("%s/api/v1/auth/verify/%s/%s", s.baseURL, s.ids.Encode(updated.ID), updated.EmailToken)
		if err := s.mailer.SendVerification(ctx, updated, link); err != nil {
			zap.L().Warn("verification mail failed",
				zap.Uint("user_id", updated.ID),
				zap.Error(err))
			return updated, ErrVerificationMailFailed
		}
	}

	return updated, nil
}

// SendContact forwards a support message from the actor to the site
// operators.
func (s *UserService) SendContact(ctx context.Context, actor domain.User, subject, message string, attachments []string) error {
	if err := s.mailer.SendContact(ctx, actor, subject, message, attachments); err != nil {
		return fmt.Errorf("s.mailer.SendContact -> %w", err)
	}

	return nil
}
