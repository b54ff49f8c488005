package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrOfferNotFound         = errors.New("offer not found")
	ErrDuplicateOffer        = errors.New("buyer already has an offer on this product")
	ErrAcceptedOfferNotFound = errors.New("accepted offer not found")
	ErrOfferAlreadyAccepted  = errors.New("product already has an accepted offer")
)

type Offer struct {
	ID        uint    `gorm:"primaryKey"`
	ProductID uint    `gorm:"not null;uniqueIndex:uc_product_buyer"`
	BuyerID   uint    `gorm:"not null;uniqueIndex:uc_product_buyer"`
	Price     float64 `gorm:"not null"`
	Active    bool    `gorm:"not null;default:true"`

	Product Product `gorm:"foreignKey:ProductID"`
	Buyer   User    `gorm:"foreignKey:BuyerID"`

	CreatedAt time.Time `gorm:"not null"`
}

// AcceptedOffer keys on the offer and additionally carries a unique
// product_id, so the database itself refuses a second acceptance on the
// same product even under concurrent requests.
type AcceptedOffer struct {
	OfferID      uint   `gorm:"primaryKey"`
	ProductID    uint   `gorm:"not null;uniqueIndex"`
	Instructions string `gorm:"size:255;not null"`

	Offer Offer `gorm:"foreignKey:OfferID"`

	CreatedAt time.Time `gorm:"not null"`
}

type OfferDAO struct {
	db *gorm.DB
}

func NewOfferDAO(db *gorm.DB) *OfferDAO {
	return &OfferDAO{
		db: db,
	}
}

func (d *OfferDAO) Insert(ctx context.Context, offer Offer) (Offer, error) {
	result := d.db.WithContext(ctx).Create(&offer)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "uc_product_buyer") {
			return Offer{}, ErrDuplicateOffer
		}

		return Offer{}, result.Error
	}

	return offer, nil
}

func (d *OfferDAO) FindByID(ctx context.Context, id uint) (Offer, error) {
	var offer Offer

	result := d.db.WithContext(ctx).First(&offer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Offer{}, ErrOfferNotFound
		}

		return Offer{}, result.Error
	}

	return offer, nil
}

func (d *OfferDAO) UpdatePrice(ctx context.Context, id uint, price float64) error {
	result := d.db.WithContext(ctx).Model(&Offer{}).
		Where("id = ?", id).
		Update("price", price)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

func (d *OfferDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Offer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

func (d *OfferDAO) FindAccepted(ctx context.Context, offerID uint) (AcceptedOffer, error) {
	var accepted AcceptedOffer

	result := d.db.WithContext(ctx).First(&accepted, "offer_id = ?", offerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AcceptedOffer{}, ErrAcceptedOfferNotFound
		}

		return AcceptedOffer{}, result.Error
	}

	return accepted, nil
}

func (d *OfferDAO) ProductSold(ctx context.Context, productID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&AcceptedOffer{}).
		Where("product_id = ?", productID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// Accept inserts the AcceptedOffer and deactivates every offer on the
// product in one transaction; the sale is never observable half-applied.
func (d *OfferDAO) Accept(ctx context.Context, accepted AcceptedOffer) (AcceptedOffer, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&accepted).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrOfferAlreadyAccepted
			}

			return err
		}

		return tx.Model(&Offer{}).
			Where("product_id = ?", accepted.ProductID).
			Update("active", false).Error
	})
	if err != nil {
		return AcceptedOffer{}, err
	}

	return accepted, nil
}

// Revert deletes the AcceptedOffer and reactivates every offer on the
// product, undoing Accept completely.
func (d *OfferDAO) Revert(ctx context.Context, accepted AcceptedOffer) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&AcceptedOffer{}, "offer_id = ?", accepted.OfferID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAcceptedOfferNotFound
		}

		return tx.Model(&Offer{}).
			Where("product_id = ?", accepted.ProductID).
			Update("active", true).Error
	})
}

func (d *OfferDAO) UpdateInstructions(ctx context.Context, offerID uint, instructions string) error {
	result := d.db.WithContext(ctx).Model(&AcceptedOffer{}).
		Where("offer_id = ?", offerID).
		Update("instructions", instructions)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAcceptedOfferNotFound
	}

	return nil
}

func (d *OfferDAO) PendingByBuyer(ctx context.Context, buyerID uint) ([]Offer, error) {
	var offers []Offer

	result := d.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Where("NOT EXISTS (SELECT 1 FROM accepted_offers WHERE accepted_offers.offer_id = offers.id)").
		Order("created_at DESC").
		Find(&offers)
	if result.Error != nil {
		return nil, result.Error
	}

	return offers, nil
}

func (d *OfferDAO) AcceptedByBuyer(ctx context.Context, buyerID uint) ([]AcceptedOffer, error) {
	var accepted []AcceptedOffer

	result := d.db.WithContext(ctx).
		Joins("JOIN offers ON offers.id = accepted_offers.offer_id").
		Where("offers.buyer_id = ?", buyerID).
		Order("accepted_offers.created_at DESC").
		Find(&accepted)
	if result.Error != nil {
		return nil, result.Error
	}

	return accepted, nil
}

func (d *OfferDAO) InactiveByBuyer(ctx context.Context, buyerID uint) ([]Offer, error) {
	var offers []Offer

	result := d.db.WithContext(ctx).
		Where("buyer_id = ? AND active = ?", buyerID, false).
		Order("created_at DESC").
		Find(&offers)
	if result.Error != nil {
		return nil, result.Error
	}

	return offers, nil
}

func (d *OfferDAO) ActiveBySeller(ctx context.Context, sellerID uint) ([]Offer, error) {
	var offers []Offer

	result := d.db.WithContext(ctx).
		Joins("JOIN products ON products.id = offers.product_id").
		Where("products.seller_id = ? AND offers.active = ?", sellerID, true).
		Order("offers.product_id ASC, offers.created_at ASC").
		Find(&offers)
	if result.Error != nil {
		return nil, result.Error
	}

	return offers, nil
}

func (d *OfferDAO) InactiveBySeller(ctx context.Context, sellerID uint) ([]Offer, error) {
	var offers []Offer

	result := d.db.WithContext(ctx).
		Joins("JOIN products ON products.id = offers.product_id").
		Where("products.seller_id = ? AND offers.active = ?", sellerID, false).
		Order("offers.created_at DESC").
		Find(&offers)
	if result.Error != nil {
		return nil, result.Error
	}

	return offers, nil
}

func (d *OfferDAO) AcceptedBySeller(ctx context.Context, sellerID uint) ([]AcceptedOffer, error) {
	var accepted []AcceptedOffer

	result := d.db.WithContext(ctx).
		Joins("JOIN products ON products.id = accepted_offers.product_id").
		Where("products.seller_id = ?", sellerID).
		Order("accepted_offers.created_at DESC").
		Find(&accepted)
	if result.Error != nil {
		return nil, result.Error
	}

	return accepted, nil
}

func (d *OfferDAO) CountByBuyer(ctx context.Context, buyerID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Offer{}).
		Where("buyer_id = ?", buyerID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *OfferDAO) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Offer{}).
		Where("product_id = ?", productID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// SumAcceptedSales totals the accepted offer prices on the seller's
// products where someone else was the buyer.
func (d *OfferDAO) SumAcceptedSales(ctx context.Context, sellerID uint) (float64, error) {
	var total float64

	result := d.db.WithContext(ctx).Model(&AcceptedOffer{}).
		Joins("JOIN offers ON offers.id = accepted_offers.offer_id").
		Joins("JOIN products ON products.id = accepted_offers.product_id").
		Where("products.seller_id = ? AND offers.buyer_id <> ?", sellerID, sellerID).
		Select("COALESCE(SUM(offers.price), 0)").
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return total, nil
}

// SumAcceptedPurchases totals the accepted offer prices where the user was
// the buyer.
func (d *OfferDAO) SumAcceptedPurchases(ctx context.Context, buyerID uint) (float64, error) {
	var total float64

	result := d.db.WithContext(ctx).Model(&AcceptedOffer{}).
		Joins("JOIN offers ON offers.id = accepted_offers.offer_id").
		Where("offers.buyer_id = ?", buyerID).
		Select("COALESCE(SUM(offers.price), 0)").
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return total, nil
}
