package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/al3-rom/wannago/internal/domain"
)

type userFixtures struct {
	svc      *UserService
	offerSvc *OfferService
	users    *fakeUserRepo
	products *fakeProductRepo
	offers   *fakeOfferRepo
	blocks   *fakeBlockRepo
	mailer   *fakeMailer
}

func newUserFixtures() userFixtures {
	users := newFakeUserRepo()
	products := newFakeProductRepo()
	offers := newFakeOfferRepo(products)
	blocks := newFakeBlockRepo()
	gate := NewGate(blocks)
	mailer := &fakeMailer{}

	return userFixtures{
		svc:      NewUserService(users, products, offers, blocks, mailer, fakeIDs{}, gate, "http://localhost:8080"),
		offerSvc: NewOfferService(offers, products, blocks, gate),
		users:    users,
		products: products,
		offers:   offers,
		blocks:   blocks,
		mailer:   mailer,
	}
}

func TestUpdateUserRoleGuards(t *testing.T) {
	fx := newUserFixtures()
	ctx := context.Background()

	admin := fx.users.add(domain.RoleAdmin)
	wanner := fx.users.add(domain.RoleWanner)
	moderator := fx.users.add(domain.RoleModerator)
	otherAdmin := fx.users.add(domain.RoleAdmin)

	// A wanner's role is permanent.
	_, err := fx.svc.UpdateUser(ctx, admin, wanner.ID, "n", "e@example.com", domain.RoleModerator)
	assert.ErrorIs(t, err, ErrRoleNotEditable)

	// Admins cannot be demoted.
	_, err = fx.svc.UpdateUser(ctx, admin, otherAdmin.ID, "n", "e@example.com", domain.RoleModerator)
	assert.ErrorIs(t, err, ErrAdminProtected)

	// A moderator can be promoted.
	updated, err := fx.svc.UpdateUser(ctx, admin, moderator.ID, "promoted", moderator.Email, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	// Name and email edits that keep the role are always fine.
	updated, err = fx.svc.UpdateUser(ctx, admin, wanner.ID, "renamed", wanner.Email, domain.RoleWanner)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	_, err = fx.svc.UpdateUser(ctx, moderator, wanner.ID, "n", "e@example.com", domain.RoleWanner)
	assert.ErrorIs(t, err, ErrForbidden, "only admins edit accounts")
}

func TestDeleteUserGuards(t *testing.T) {
	fx := newUserFixtures()
	ctx := context.Background()

	admin := fx.users.add(domain.RoleAdmin)
	otherAdmin := fx.users.add(domain.RoleAdmin)
	seller := fx.users.add(domain.RoleWanner)
	buyer := fx.users.add(domain.RoleWanner)
	idle := fx.users.add(domain.RoleWanner)

	product := fx.products.add(seller.ID, 100)
	_, err := fx.offerSvc.Submit(ctx, buyer, product.ID, 100)
	require.NoError(t, err)

	assert.ErrorIs(t, fx.svc.DeleteUser(ctx, admin, otherAdmin.ID), ErrAdminProtected)
	assert.ErrorIs(t, fx.svc.DeleteUser(ctx, admin, admin.ID), ErrAdminProtected)
	assert.ErrorIs(t, fx.svc.DeleteUser(ctx, admin, seller.ID), ErrUserHasRecords)
	assert.ErrorIs(t, fx.svc.DeleteUser(ctx, admin, buyer.ID), ErrUserHasRecords)

	require.NoError(t, fx.svc.DeleteUser(ctx, admin, idle.ID))
	_, err = fx.users.FindByID(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserHidesBlocked(t *testing.T) {
	fx := newUserFixtures()
	ctx := context.Background()

	moderator := fx.users.add(domain.RoleModerator)
	viewer := fx.users.add(domain.RoleWanner)
	target := fx.users.add(domain.RoleWanner)

	_, _, err := fx.svc.GetUser(ctx, viewer, target.ID)
	require.NoError(t, err)

	_, err = fx.blocks.BlockUser(ctx, domain.BlockedUser{UserID: target.ID, ModeratorID: moderator.ID})
	require.NoError(t, err)

	_, _, err = fx.svc.GetUser(ctx, viewer, target.ID)
	assert.ErrorIs(t, err, ErrBlocked)

	_, _, err = fx.svc.GetUser(ctx, moderator, target.ID)
	assert.NoError(t, err, "moderators still see blocked users")
}

func TestGetUserStats(t *testing.T) {
	fx := newUserFixtures()
	ctx := context.Background()

	seller := fx.users.add(domain.RoleWanner)
	buyer := fx.users.add(domain.RoleWanner)
	rival := fx.users.add(domain.RoleWanner)

	product := fx.products.add(seller.ID, 100)
	offer, err := fx.offerSvc.Submit(ctx, buyer, product.ID, 100)
	require.NoError(t, err)
	_, err = fx.offerSvc.Submit(ctx, rival, product.ID, 120)
	require.NoError(t, err)
	_, err = fx.offerSvc.Accept(ctx, seller, offer.ID, "")
	require.NoError(t, err)

	_, stats, err := fx.svc.GetUser(ctx, buyer, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOffers)
	assert.Equal(t, 1, stats.AcceptedSales)
}

func TestListUsersRoleScope(t *testing.T) {
	fx := newUserFixtures()
	ctx := context.Background()

	admin := fx.users.add(domain.RoleAdmin)
	wanner := fx.users.add(domain.RoleWanner)
	fx.users.add(domain.RoleModerator)

	all, err := fx.svc.ListUsers(ctx, admin, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	visible, err := fx.svc.ListUsers(ctx, wanner, "", 20, 0)
	require.NoError(t, err)
	require.Len(t, visible, 1, "wanners only see other wanners")
	assert.Equal(t, wanner.ID, visible[0].ID)
}

func TestUpdateProfileEmailChange(t *testing.T) {
	fx := newUserFixtures()
	ctx := context.Background()

	user := fx.users.add(domain.RoleWanner)

	// Name-only edits keep the verified state.
	updated, err := fx.svc.UpdateProfile(ctx, user, "New Name", user.Email, "")
	require.NoError(t, err)
	assert.True(t, updated.Verified)
	assert.Equal(t, 0, fx.mailer.verifications)

	// An email change drops back to unverified and mails a new link.
	updated, err = fx.svc.UpdateProfile(ctx, user, "New Name", "fresh@example.com", "")
	require.NoError(t, err)
	assert.False(t, updated.Verified)
	assert.NotEmpty(t, updated.EmailToken)
	assert.Equal(t, 1, fx.mailer.verifications)
}

func TestCreateUserByAdmin(t *testing.T) {
	fx := newUserFixtures()
	ctx := context.Background()

	admin := fx.users.add(domain.RoleAdmin)
	moderator := fx.users.add(domain.RoleModerator)

	created, err := fx.svc.CreateUser(ctx, admin, domain.User{
		Email:    "mod2@example.com",
		Password: "password1",
		Name:     "Second Mod",
		Role:     domain.RoleModerator,
	})
	require.NoError(t, err)
	assert.True(t, created.Verified, "admin created accounts skip verification")
	assert.Equal(t, domain.RoleModerator, created.Role)

	_, err = fx.svc.CreateUser(ctx, moderator, domain.User{Email: "x@example.com", Password: "password1", Role: domain.RoleWanner})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSendContact(t *testing.T) {
	fx := newUserFixtures()
	ctx := context.Background()

	user := fx.users.add(domain.RoleWanner)

	require.NoError(t, fx.svc.SendContact(ctx, user, "help", "my order is missing", nil))
	assert.Equal(t, 1, fx.mailer.contacts)
}
