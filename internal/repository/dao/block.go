package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserAlreadyBlocked    = errors.New("user is already blocked")
	ErrUserNotBlocked        = errors.New("user is not blocked")
	ErrProductAlreadyBlocked = errors.New("product is already blocked")
	ErrProductNotBlocked     = errors.New("product is not blocked")
)

// The primary key of a block row is the blocked entity itself; the row's
// existence is the blocked state.

type BlockedUser struct {
	UserID      uint   `gorm:"primaryKey"`
	ModeratorID uint   `gorm:"not null"`
	Reason      string `gorm:"size:255;not null"`

	User      User `gorm:"foreignKey:UserID"`
	Moderator User `gorm:"foreignKey:ModeratorID"`

	CreatedAt time.Time `gorm:"not null"`
}

type BlockedProduct struct {
	ProductID   uint   `gorm:"primaryKey"`
	ModeratorID uint   `gorm:"not null"`
	Reason      string `gorm:"size:255;not null"`

	Product   Product `gorm:"foreignKey:ProductID"`
	Moderator User    `gorm:"foreignKey:ModeratorID"`

	CreatedAt time.Time `gorm:"not null"`
}

type BlockDAO struct {
	db *gorm.DB
}

func NewBlockDAO(db *gorm.DB) *BlockDAO {
	return &BlockDAO{
		db: db,
	}
}

// BlockUser purges the user's pending (never accepted) offers and inserts
// the block row in one transaction.
func (d *BlockDAO) BlockUser(ctx context.Context, block BlockedUser) (BlockedUser, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purge := tx.
			Where("buyer_id = ?", block.UserID).
			Where("NOT EXISTS (SELECT 1 FROM accepted_offers WHERE accepted_offers.offer_id = offers.id)").
			Delete(&Offer{})
		if purge.Error != nil {
			return purge.Error
		}

		if err := tx.Create(&block).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrUserAlreadyBlocked
			}

			return err
		}

		return nil
	})
	if err != nil {
		return BlockedUser{}, err
	}

	return block, nil
}

func (d *BlockDAO) UnblockUser(ctx context.Context, userID uint) error {
	result := d.db.WithContext(ctx).Delete(&BlockedUser{}, "user_id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotBlocked
	}

	return nil
}

func (d *BlockDAO) BlockProduct(ctx context.Context, block BlockedProduct) (BlockedProduct, error) {
	result := d.db.WithContext(ctx).Create(&block)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return BlockedProduct{}, ErrProductAlreadyBlocked
		}

		return BlockedProduct{}, result.Error
	}

	return block, nil
}

func (d *BlockDAO) UnblockProduct(ctx context.Context, productID uint) error {
	result := d.db.WithContext(ctx).Delete(&BlockedProduct{}, "product_id = ?", productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotBlocked
	}

	return nil
}

func (d *BlockDAO) IsUserBlocked(ctx context.Context, userID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&BlockedUser{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *BlockDAO) IsProductBlocked(ctx context.Context, productID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&BlockedProduct{}).
		Where("product_id = ?", productID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *BlockDAO) ListBlockedUsers(ctx context.Context) ([]BlockedUser, error) {
	var blocks []BlockedUser

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&blocks)
	if result.Error != nil {
		return nil, result.Error
	}

	return blocks, nil
}

func (d *BlockDAO) ListBlockedProducts(ctx context.Context) ([]BlockedProduct, error) {
	var blocks []BlockedProduct

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&blocks)
	if result.Error != nil {
		return nil, result.Error
	}

	return blocks, nil
}
