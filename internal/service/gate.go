package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/al3-rom/wannago/internal/domain"
)

var (
	// ErrForbidden and ErrBlocked both surface to the caller as an
	// access denial; they are kept apart only for diagnostics.
	ErrForbidden = errors.New("action not permitted")
	ErrBlocked   = errors.New("actor or target is blocked")
)

// Capability names an action class the Gate knows how to authorize.
type Capability string

const (
	// CapTrade covers creating products and offers. Only the base
	// wanner role trades; moderators and admins manage, they do not
	// buy or sell.
	CapTrade Capability = "trade"
	// CapViewMarket covers every read surface and the seller-side
	// offer actions; any role qualifies.
	CapViewMarket Capability = "view-market"
	CapModerate   Capability = "moderate"
	CapManageUsers Capability = "manage-users"
)

type GateBlockRepository interface {
	IsUserBlocked(ctx context.Context, userID uint) (bool, error)
	IsProductBlocked(ctx context.Context, productID uint) (bool, error)
}

// Gate evaluates the two authorization axes for every mutating action:
// role capability and block state. Both must pass.
type Gate struct {
	blocks GateBlockRepository
}

func NewGate(blocks GateBlockRepository) *Gate {
	return &Gate{
		blocks: blocks,
	}
}

func (g *Gate) roleAllows(role domain.Role, cap Capability) bool {
	switch cap {
	case CapTrade:
		return role == domain.RoleWanner
	case CapViewMarket:
		return role.AtLeast(domain.RoleWanner)
	case CapModerate:
		return role.AtLeast(domain.RoleModerator)
	case CapManageUsers:
		return role.AtLeast(domain.RoleAdmin)
	}
	return false
}

// Authorize checks the actor's role against the capability and then the
// actor's own block state.
func (g *Gate) Authorize(ctx context.Context, actor domain.User, cap Capability) error {
	if !g.roleAllows(actor.Role, cap) {
		zap.L().Info("capability denied by role",
			zap.Uint("actor_id", actor.ID),
			zap.String("role", actor.Role.String()),
			zap.String("capability", string(cap)))
		return ErrForbidden
	}

	blocked, err := g.blocks.IsUserBlocked(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("g.blocks.IsUserBlocked -> %w", err)
	}
	if blocked {
		zap.L().Info("capability denied by block state",
			zap.Uint("actor_id", actor.ID),
			zap.String("capability", string(cap)))
		return ErrBlocked
	}

	return nil
}
