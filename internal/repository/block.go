package repository

import (
	"context"
	"fmt"

	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/repository/dao"
)

var (
	ErrUserAlreadyBlocked    = dao.ErrUserAlreadyBlocked
	ErrUserNotBlocked        = dao.ErrUserNotBlocked
	ErrProductAlreadyBlocked = dao.ErrProductAlreadyBlocked
	ErrProductNotBlocked     = dao.ErrProductNotBlocked
)

type BlockDAO interface {
	BlockUser(ctx context.Context, block dao.BlockedUser) (dao.BlockedUser, error)
	UnblockUser(ctx context.Context, userID uint) error
	BlockProduct(ctx context.Context, block dao.BlockedProduct) (dao.BlockedProduct, error)
	UnblockProduct(ctx context.Context, productID uint) error
	IsUserBlocked(ctx context.Context, userID uint) (bool, error)
	IsProductBlocked(ctx context.Context, productID uint) (bool, error)
	ListBlockedUsers(ctx context.Context) ([]dao.BlockedUser, error)
	ListBlockedProducts(ctx context.Context) ([]dao.BlockedProduct, error)
}

type BlockRepository struct {
	dao BlockDAO
}

func NewBlockRepository(dao BlockDAO) *BlockRepository {
	return &BlockRepository{
		dao: dao,
	}
}

func (r *BlockRepository) userDaoToDomain(b dao.BlockedUser) domain.BlockedUser {
	return domain.BlockedUser{
		UserID:      b.UserID,
		ModeratorID: b.ModeratorID,
		Reason:      b.Reason,
		CreatedAt:   b.CreatedAt,
	}
}

func (r *BlockRepository) productDaoToDomain(b dao.BlockedProduct) domain.BlockedProduct {
	return domain.BlockedProduct{
		ProductID:   b.ProductID,
		ModeratorID: b.ModeratorID,
		Reason:      b.Reason,
		CreatedAt:   b.CreatedAt,
	}
}

func (r *BlockRepository) BlockUser(ctx context.Context, block domain.BlockedUser) (domain.BlockedUser, error) {
	created, err := r.dao.BlockUser(ctx, dao.BlockedUser{
		UserID:      block.UserID,
		ModeratorID: block.ModeratorID,
		Reason:      block.Reason,
	})
	if err != nil {
		return domain.BlockedUser{}, fmt.Errorf("r.dao.BlockUser -> %w", err)
	}

	return r.userDaoToDomain(created), nil
}

func (r *BlockRepository) UnblockUser(ctx context.Context, userID uint) error {
	if err := r.dao.UnblockUser(ctx, userID); err != nil {
		return fmt.Errorf("r.dao.UnblockUser -> %w", err)
	}

	return nil
}

func (r *BlockRepository) BlockProduct(ctx context.Context, block domain.BlockedProduct) (domain.BlockedProduct, error) {
	created, err := r.dao.BlockProduct(ctx, dao.BlockedProduct{
		ProductID:   block.ProductID,
		ModeratorID: block.ModeratorID,
		Reason:      block.Reason,
	})
	if err != nil {
		return domain.BlockedProduct{}, fmt.Errorf("r.dao.BlockProduct -> %w", err)
	}

	return r.productDaoToDomain(created), nil
}

func (r *BlockRepository) UnblockProduct(ctx context.Context, productID uint) error {
	if err := r.dao.UnblockProduct(ctx, productID); err != nil {
		return fmt.Errorf("r.dao.UnblockProduct -> %w", err)
	}

	return nil
}

func (r *BlockRepository) IsUserBlocked(ctx context.Context, userID uint) (bool, error) {
	blocked, err := r.dao.IsUserBlocked(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsUserBlocked -> %w", err)
	}

	return blocked, nil
}

func (r *BlockRepository) IsProductBlocked(ctx context.Context, productID uint) (bool, error) {
	blocked, err := r.dao.IsProductBlocked(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsProductBlocked -> %w", err)
	}

	return blocked, nil
}

func (r *BlockRepository) ListBlockedUsers(ctx context.Context) ([]domain.BlockedUser, error) {
	found, err := r.dao.ListBlockedUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListBlockedUsers -> %w", err)
	}

	blocks := make([]domain.BlockedUser, len(found))
	for i, b := range found {
		blocks[i] = r.userDaoToDomain(b)
	}

	return blocks, nil
}

func (r *BlockRepository) ListBlockedProducts(ctx context.Context) ([]domain.BlockedProduct, error) {
	found, err := r.dao.ListBlockedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListBlockedProducts -> %w", err)
	}

	blocks := make([]domain.BlockedProduct, len(found))
	for i, b := range found {
		blocks[i] = r.productDaoToDomain(b)
	}

	return blocks, nil
}
