package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/repository"
)

var (
	ErrUserAlreadyBlocked    = repository.ErrUserAlreadyBlocked
	ErrUserNotBlocked        = repository.ErrUserNotBlocked
	ErrProductAlreadyBlocked = repository.ErrProductAlreadyBlocked
	ErrProductNotBlocked     = repository.ErrProductNotBlocked

	ErrBlockSelf = errors.New("moderator cannot block themselves")
)

type BlockRepository interface {
	BlockUser(ctx context.Context, block domain.BlockedUser) (domain.BlockedUser, error)
	UnblockUser(ctx context.Context, userID uint) error
	BlockProduct(ctx context.Context, block domain.BlockedProduct) (domain.BlockedProduct, error)
	UnblockProduct(ctx context.Context, productID uint) error
	IsUserBlocked(ctx context.Context, userID uint) (bool, error)
	IsProductBlocked(ctx context.Context, productID uint) (bool, error)
	ListBlockedUsers(ctx context.Context) ([]domain.BlockedUser, error)
	ListBlockedProducts(ctx context.Context) ([]domain.BlockedProduct, error)
}

type BlockUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type BlockProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type BlockOfferRepository interface {
	ProductSold(ctx context.Context, productID uint) (bool, error)
}

// BlockService maintains the moderation block registry. A block is the
// existence of a registry row, nothing more; unblocking deletes the row
// and restores the subject in place.
type BlockService struct {
	blocks   BlockRepository
	users    BlockUserRepository
	products BlockProductRepository
	offers   BlockOfferRepository
	gate     *Gate
}

func NewBlockService(blocks BlockRepository, users BlockUserRepository, products BlockProductRepository, offers BlockOfferRepository, gate *Gate) *BlockService {
	return &BlockService{
		blocks:   blocks,
		users:    users,
		products: products,
		offers:   offers,
		gate:     gate,
	}
}

// BlockUser registers a block against the user and purges their pending
// offers in the same transaction. Accepted offers survive the block.
func (s *BlockService) BlockUser(ctx context.Context, actor domain.User, userID uint, reason string) (domain.BlockedUser, error) {
	if err := s.gate.Authorize(ctx, actor, CapModerate); err != nil {
		return domain.BlockedUser{}, err
	}

	if userID == actor.ID {
		return domain.BlockedUser{}, ErrBlockSelf
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return domain.BlockedUser{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	block, err := s.blocks.BlockUser(ctx, domain.BlockedUser{
		UserID:      userID,
		ModeratorID: actor.ID,
		Reason:      reason,
	})
	if err != nil {
		return domain.BlockedUser{}, fmt.Errorf("s.blocks.BlockUser -> %w", err)
	}

	zap.L().Info("user blocked",
		zap.Uint("user_id", userID),
		zap.Uint("moderator_id", actor.ID))

	return block, nil
}

// UnblockUser lifts a block. Unblocking a user who is not blocked is a
// caller error, not a state change.
func (s *BlockService) UnblockUser(ctx context.Context, actor domain.User, userID uint) error {
	if err := s.gate.Authorize(ctx, actor, CapModerate); err != nil {
		return err
	}

	if err := s.blocks.UnblockUser(ctx, userID); err != nil {
		return fmt.Errorf("s.blocks.UnblockUser -> %w", err)
	}

	zap.L().Info("user unblocked",
		zap.Uint("user_id", userID),
		zap.Uint("moderator_id", actor.ID))

	return nil
}

// BlockProduct hides a product from the marketplace. Sold products are
// settled and can no longer be blocked.
func (s *BlockService) BlockProduct(ctx context.Context, actor domain.User, productID uint, reason string) (domain.BlockedProduct, error) {
	if err := s.gate.Authorize(ctx, actor, CapModerate); err != nil {
		return domain.BlockedProduct{}, err
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return domain.BlockedProduct{}, fmt.Errorf("s.products.FindByID -> %w", err)
	}

	sold, err := s.offers.ProductSold(ctx, productID)
	if err != nil {
		return domain.BlockedProduct{}, fmt.Errorf("s.offers.ProductSold -> %w", err)
	}
	if sold {
		return domain.BlockedProduct{}, ErrProductSold
	}

	block, err := s.blocks.BlockProduct(ctx, domain.BlockedProduct{
		ProductID:   productID,
		ModeratorID: actor.ID,
		Reason:      reason,
	})
	if err != nil {
		return domain.BlockedProduct{}, fmt.Errorf("s.blocks.BlockProduct -> %w", err)
	}

	zap.L().Info("product blocked",
		zap.Uint("product_id", productID),
		zap.Uint("moderator_id", actor.ID))

	return block, nil
}

func (s *BlockService) UnblockProduct(ctx context.Context, actor domain.User, productID uint) error {
	if err := s.gate.Authorize(ctx, actor, CapModerate); err != nil {
		return err
	}

	if err := s.blocks.UnblockProduct(ctx, productID); err != nil {
		return fmt.Errorf("s.blocks.UnblockProduct -> %w", err)
	}

	zap.L().Info("product unblocked",
		zap.Uint("product_id", productID),
		zap.Uint("moderator_id", actor.ID))

	return nil
}

// BulkUnblock lifts blocks on the given users and products in one call.
// Subjects that are not blocked are skipped; everything else is lifted.
func (s *BlockService) BulkUnblock(ctx context.Context, actor domain.User, userIDs, productIDs []uint) error {
	if err := s.gate.Authorize(ctx, actor, CapManageUsers); err != nil {
		return err
	}

	for _, id := range userIDs {
		err := s.blocks.UnblockUser(ctx, id)
		if err != nil && !errors.Is(err, ErrUserNotBlocked) {
			return fmt.Errorf("s.blocks.UnblockUser -> %w", err)
		}
	}

	for _, id := range productIDs {
		err := s.blocks.UnblockProduct(ctx, id)
		if err != nil && !errors.Is(err, ErrProductNotBlocked) {
			return fmt.Errorf("s.blocks.UnblockProduct -> %w", err)
		}
	}

	zap.L().Info("bulk unblock",
		zap.Uint("moderator_id", actor.ID),
		zap.Int("users", len(userIDs)),
		zap.Int("products", len(productIDs)))

	return nil
}

// Overview lists every active block, for the moderation dashboard.
func (s *BlockService) Overview(ctx context.Context, actor domain.User) ([]domain.BlockedUser, []domain.BlockedProduct, error) {
	if err := s.gate.Authorize(ctx, actor, CapModerate); err != nil {
		return nil, nil, err
	}

	users, err := s.blocks.ListBlockedUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("s.blocks.ListBlockedUsers -> %w", err)
	}

	products, err := s.blocks.ListBlockedProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("s.blocks.ListBlockedProducts -> %w", err)
	}

	return users, products, nil
}
