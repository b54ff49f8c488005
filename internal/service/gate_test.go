package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/al3-rom/wannago/internal/domain"
)

func TestGateRoleAxis(t *testing.T) {
	blocks := newFakeBlockRepo()
	gate := NewGate(blocks)
	ctx := context.Background()

	wanner := domain.User{ID: 1, Role: domain.RoleWanner}
	moderator := domain.User{ID: 2, Role: domain.RoleModerator}
	admin := domain.User{ID: 3, Role: domain.RoleAdmin}

	tests := []struct {
		name  string
		actor domain.User
		cap   Capability
		want  error
	}{
		{name: "wanner trades", actor: wanner, cap: CapTrade, want: nil},
		{name: "moderator cannot trade", actor: moderator, cap: CapTrade, want: ErrForbidden},
		{name: "admin cannot trade", actor: admin, cap: CapTrade, want: ErrForbidden},
		{name: "wanner views market", actor: wanner, cap: CapViewMarket, want: nil},
		{name: "admin views market", actor: admin, cap: CapViewMarket, want: nil},
		{name: "wanner cannot moderate", actor: wanner, cap: CapModerate, want: ErrForbidden},
		{name: "moderator moderates", actor: moderator, cap: CapModerate, want: nil},
		{name: "admin moderates", actor: admin, cap: CapModerate, want: nil},
		{name: "moderator cannot manage users", actor: moderator, cap: CapManageUsers, want: ErrForbidden},
		{name: "admin manages users", actor: admin, cap: CapManageUsers, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authorize(ctx, tt.actor, tt.cap)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestGateBlockedActor(t *testing.T) {
	blocks := newFakeBlockRepo()
	gate := NewGate(blocks)
	ctx := context.Background()

	wanner := domain.User{ID: 1, Role: domain.RoleWanner}

	require.NoError(t, gate.Authorize(ctx, wanner, CapTrade))

	_, err := blocks.BlockUser(ctx, domain.BlockedUser{UserID: wanner.ID, ModeratorID: 9})
	require.NoError(t, err)

	assert.ErrorIs(t, gate.Authorize(ctx, wanner, CapTrade), ErrBlocked)
	assert.ErrorIs(t, gate.Authorize(ctx, wanner, CapViewMarket), ErrBlocked)

	require.NoError(t, blocks.UnblockUser(ctx, wanner.ID))
	assert.NoError(t, gate.Authorize(ctx, wanner, CapTrade))
}
